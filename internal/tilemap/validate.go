package tilemap

import (
	"errors"
	"fmt"
)

// Boundary validation errors. The transform core never returns these; the assembler and
// configuration loaders call the Validate helpers before any record reaches a pipeline.
var (
	ErrNegativeSize   = errors.New("tilemap: tile size must be non-negative")
	ErrAnchorRange    = errors.New("tilemap: anchor must lie in [0,1]")
	ErrTextureSize    = errors.New("tilemap: texture size must be positive")
	ErrMissingSampler = errors.New("tilemap: atlas sampling enabled without a sampler")
	ErrMissingHook    = errors.New("tilemap: post-processing enabled without a height hook")
	ErrUnknownTopo    = errors.New("tilemap: unknown topology")
)

// Validate checks the uniform block. Pure-color pipelines may leave TextureSize zero.
func (c Config) Validate(pureColor bool) error {
	if c.TileRenderSize.X < 0 || c.TileRenderSize.Y < 0 {
		return fmt.Errorf("tile_render_size %v: %w", c.TileRenderSize, ErrNegativeSize)
	}
	if c.Anchor.X < 0 || c.Anchor.X > 1 || c.Anchor.Y < 0 || c.Anchor.Y > 1 {
		return fmt.Errorf("anchor %v: %w", c.Anchor, ErrAnchorRange)
	}
	if !pureColor && (c.TextureSize.X <= 0 || c.TextureSize.Y <= 0) {
		return fmt.Errorf("texture_size %v: %w", c.TextureSize, ErrTextureSize)
	}
	return nil
}

// ValidateInput checks one packed vertex against the features it will be drawn with.
func ValidateInput(in TileVertexInput, f Features) error {
	if f.NonUniformSize && (in.TileRenderSize.X < 0 || in.TileRenderSize.Y < 0) {
		return fmt.Errorf("vertex tile size %v: %w", in.TileRenderSize, ErrNegativeSize)
	}
	return nil
}

// ParseTopology resolves a configured topology name.
func ParseTopology(name string) (string, error) {
	switch name {
	case TopologySquare, TopologyIsoDiamond:
		return name, nil
	case "", "grid":
		return TopologySquare, nil
	case "isometric", "iso":
		return TopologyIsoDiamond, nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownTopo)
}
