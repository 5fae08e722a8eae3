package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/Faultbox/tilequad/internal/engine/camera"
	"github.com/Faultbox/tilequad/internal/tilemap"
	"github.com/Faultbox/tilequad/pkg/math"
)

// TilemapConfig returns the uniform block for an atlas of atlasSize texels.
func (s *Scene) TilemapConfig(atlasSize math.Vec2) tilemap.Config {
	size := atlasSize
	if s.Tilemap.TextureSize != ([2]float32{}) {
		size = math.V2(s.Tilemap.TextureSize)
	}
	return tilemap.Config{
		TileRenderSize: math.V2(s.Tilemap.TileRenderSize),
		Anchor:         math.V2(s.Tilemap.Anchor),
		Translation:    math.V2(s.Tilemap.Translation),
		TextureSize:    size,
	}
}

// Validate checks the scene against the features it will be drawn with.
func (s *Scene) Validate(atlasSize math.Vec2, f tilemap.Features) error {
	if err := s.TilemapConfig(atlasSize).Validate(f.PureColor); err != nil {
		return err
	}
	if len(s.Tiles) == 0 && len(s.Fill) == 0 {
		return ErrNoTiles
	}
	for i, fill := range s.Fill {
		if fill.From[0] > fill.To[0] || fill.From[1] > fill.To[1] {
			return fmt.Errorf("fill %d from %v to %v: %w", i, fill.From, fill.To, ErrFillRange)
		}
	}
	if s.Camera.Zoom <= 0 {
		return fmt.Errorf("zoom %v: %w", s.Camera.Zoom, ErrZoom)
	}
	if !f.PureColor && (s.Tilemap.AtlasTileSize[0] <= 0 || s.Tilemap.AtlasTileSize[1] <= 0) {
		return fmt.Errorf("atlas_tile_size %v: %w", s.Tilemap.AtlasTileSize, ErrAtlasTileSize)
	}
	return nil
}

// Assemble packs every tile into four vertex records, one per quad corner, in corner
// order. Each corner carries the texel coordinate of the matching atlas cell corner;
// corner 0 is the bottom-left of the quad and the bottom-left of the cell.
func (s *Scene) Assemble(atlasSize math.Vec2, f tilemap.Features) ([]tilemap.TileVertexInput, error) {
	if err := s.Validate(atlasSize, f); err != nil {
		return nil, err
	}

	cell := math.V2(s.Tilemap.AtlasTileSize)
	cols, rows := 1, 1
	if !f.PureColor {
		cols = max(1, int(atlasSize.X/cell.X))
		rows = max(1, int(atlasSize.Y/cell.Y))
	}

	tiles := s.AllTiles()
	out := make([]tilemap.TileVertexInput, 0, len(tiles)*tilemap.CornersPerTile)
	for i, t := range tiles {
		if !f.PureColor && (t.AtlasIndex < 0 || t.AtlasIndex >= cols*rows) {
			return nil, fmt.Errorf("tile %d index %d (atlas has %d cells): %w", i, t.AtlasIndex, cols*rows, ErrAtlasIndex)
		}

		tint := math.White
		if t.Color != nil {
			tint = math.Vec4(*t.Color)
		}
		size := math.V2(s.Tilemap.TileRenderSize)
		if t.Size != nil {
			size = math.V2(*t.Size)
		}

		x0 := float32(t.AtlasIndex%cols) * cell.X
		y0 := float32(t.AtlasIndex/cols) * cell.Y
		uvs := [tilemap.CornersPerTile]math.Vec2{
			{X: x0, Y: y0 + cell.Y},
			{X: x0, Y: y0},
			{X: x0 + cell.X, Y: y0},
			{X: x0 + cell.X, Y: y0 + cell.Y},
		}
		if f.PureColor {
			uvs = [tilemap.CornersPerTile]math.Vec2{}
		}

		for c := uint32(0); c < tilemap.CornersPerTile; c++ {
			in := tilemap.TileVertexInput{
				CornerIndex:    c,
				GridPosition:   math.V2(t.Grid),
				UVCell:         uvs[c],
				Color:          tint,
				TileRenderSize: size,
				DepthHint:      t.Depth,
			}
			if err := tilemap.ValidateInput(in, f); err != nil {
				return nil, fmt.Errorf("tile %d: %w", i, err)
			}
			out = append(out, in)
		}
	}
	return out, nil
}

// NewCamera returns a camera placed as the camera section describes.
func (s *Scene) NewCamera() *camera.OrthoCamera {
	return camera.NewOrthoCamera(math.V2(s.Camera.Center), s.Camera.Zoom, s.Camera.DepthRange)
}

// ColorKey parses the atlas color key. ok is false when no key is configured.
func (s *Scene) ColorKey() (key color.RGBA, ok bool, err error) {
	hex := strings.TrimPrefix(s.Tilemap.ColorKey, "#")
	if hex == "" {
		return color.RGBA{}, false, nil
	}
	if len(hex) != 6 {
		return color.RGBA{}, false, fmt.Errorf("scene: color_key %q: want #rrggbb", s.Tilemap.ColorKey)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false, fmt.Errorf("scene: color_key %q: %w", s.Tilemap.ColorKey, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true, nil
}
