package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "TILEQUAD_CONFIG"

// FileName is the per-project config file looked up beside the scene and in the
// working directory.
const FileName = "tilequad.yaml"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := findConfigFile(*flagScene)
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first config that exists, in order: the --config flag,
// $TILEQUAD_CONFIG, tilequad.yaml beside the scene, tilequad.yaml in the working
// directory, then the user config directory. An explicit path is returned even if
// it does not exist so that loading reports it.
func findConfigFile(scenePath string) string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}

	var candidates []string
	if scenePath != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(scenePath), FileName))
	}
	candidates = append(candidates,
		FileName,
		filepath.Join(ConfigDir(), "config.yaml"),
	)

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "TileQuad")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "TileQuad")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "tilequad")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "tilequad")
	}
}

// loadFromFile merges a YAML file into cfg. Relative scene and output paths set by the
// file are taken relative to the file, so a config in the user directory can name a
// scene next to it.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	scene, out := cfg.Data.Scene, cfg.Output.Path
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if cfg.Data.Scene != scene {
		cfg.Data.Scene = relativeTo(dir, cfg.Data.Scene)
	}
	if cfg.Output.Path != out {
		cfg.Output.Path = relativeTo(dir, cfg.Output.Path)
	}
	return nil
}

func relativeTo(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
