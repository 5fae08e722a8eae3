package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagScene      = flag.String("scene", "", "Path to scene file")
	flagOut        = flag.String("out", "", "Output image path (tilepreview)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagTopology   = flag.String("topology", "", "Grid topology: square or iso_diamond")
	flagFilter     = flag.String("filter", "", "Atlas filter: nearest or bilinear")
	flagWorkers    = flag.Int("workers", -1, "Rasterizer workers (0 = all CPUs)")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Viewport width")
	flagHeight     = flag.Int("height", 0, "Viewport height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Data.Scene = *flagScene
	}
	if *flagOut != "" {
		cfg.Output.Path = *flagOut
	}
	if *flagTopology != "" {
		cfg.Render.Topology = *flagTopology
	}
	if *flagFilter != "" {
		cfg.Render.Filter = *flagFilter
	}
	if *flagWorkers >= 0 {
		cfg.Render.Workers = *flagWorkers
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
