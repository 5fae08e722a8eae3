// Package config handles renderer configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/tilequad/internal/engine/texture"
	"github.com/Faultbox/tilequad/internal/tilemap"
)

// Config holds all tool settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Data    DataConfig    `yaml:"data"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings for the interactive viewer.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig selects the pipeline variant and host rendering options.
type RenderConfig struct {
	Topology       string     `yaml:"topology"`  // square | iso_diamond
	SlotSize       [2]float32 `yaml:"slot_size"` // Grid lattice pitch in world units
	NonUniformSize bool       `yaml:"non_uniform_size"`
	FlipH          bool       `yaml:"flip_h"`
	FlipV          bool       `yaml:"flip_v"`
	PureColor      bool       `yaml:"pure_color"`
	PostProcess    bool       `yaml:"post_process"`
	Filter         string     `yaml:"filter"`     // nearest | bilinear
	Workers        int        `yaml:"workers"`    // 0 = GOMAXPROCS
	DepthTest      bool       `yaml:"depth_test"` // Software rasterizer only
	Background     [4]float32 `yaml:"background"`
}

// DataConfig holds input file paths.
type DataConfig struct {
	Scene string `yaml:"scene"` // Scene YAML, see internal/scene
}

// OutputConfig holds headless output settings.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "tilequad",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Render: RenderConfig{
			Topology:   tilemap.TopologySquare,
			SlotSize:   [2]float32{32, 32},
			Filter:     texture.FilterNearest.String(),
			Background: [4]float32{0, 0, 0, 1},
		},
		Data: DataConfig{
			Scene: "scene.yaml",
		},
		Output: OutputConfig{
			Path: "preview.png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Features returns the pipeline build configuration selected by the render section.
func (c *Config) Features() tilemap.Features {
	return tilemap.Features{
		NonUniformSize: c.Render.NonUniformSize,
		FlipH:          c.Render.FlipH,
		FlipV:          c.Render.FlipV,
		PureColor:      c.Render.PureColor,
		PostProcess:    c.Render.PostProcess,
	}
}

// Validate checks values that the loaders cannot catch on their own.
func (c *Config) Validate() error {
	topo, err := tilemap.ParseTopology(c.Render.Topology)
	if err != nil {
		return fmt.Errorf("render.topology: %w", err)
	}
	c.Render.Topology = topo

	if _, err := texture.ParseFilter(c.Render.Filter); err != nil {
		return fmt.Errorf("render.filter: %w", err)
	}
	if c.Render.SlotSize[0] <= 0 || c.Render.SlotSize[1] <= 0 {
		return fmt.Errorf("render.slot_size %v: must be positive", c.Render.SlotSize)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("render.workers %d: must not be negative", c.Render.Workers)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d: must be positive", c.Window.Width, c.Window.Height)
	}
	return nil
}
