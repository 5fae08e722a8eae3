// Package scene loads tilemap scene files and packs their tiles into vertex records.
//
// It plays the CPU-side assembler for the tools in cmd/: it validates everything at the
// boundary so the transform core can stay branch-free.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultDepthRange is the half extent of the orthographic depth range.
const DefaultDepthRange = 1 << 16

// Scene validation errors.
var (
	ErrNoTiles       = errors.New("scene: no tiles")
	ErrAtlasTileSize = errors.New("scene: atlas_tile_size must be positive")
	ErrAtlasIndex    = errors.New("scene: atlas index out of range")
	ErrZoom          = errors.New("scene: camera zoom must be positive")
	ErrFillRange     = errors.New("scene: fill from must not exceed to")
)

// Scene is the decoded scene file.
type Scene struct {
	Tilemap    TilemapSection  `yaml:"tilemap"`
	Camera     CameraSection   `yaml:"camera"`
	HeightMask *HeightMaskSpec `yaml:"height_mask"`
	Tiles      []Tile          `yaml:"tiles"`
	Fill       []Fill          `yaml:"fill"`

	dir string // Directory of the scene file, for relative paths
}

// TilemapSection is the uniform block plus atlas layout.
type TilemapSection struct {
	TileRenderSize [2]float32 `yaml:"tile_render_size"`
	Anchor         [2]float32 `yaml:"anchor"`
	Translation    [2]float32 `yaml:"translation"`
	Atlas          string     `yaml:"atlas"`
	AtlasTileSize  [2]float32 `yaml:"atlas_tile_size"` // Texel size of one atlas cell
	TextureSize    [2]float32 `yaml:"texture_size"`    // Overrides the atlas dimensions when set
	ColorKey       string     `yaml:"color_key"`       // "#rrggbb", empty disables
}

// CameraSection places the orthographic camera in world space.
type CameraSection struct {
	Center     [2]float32 `yaml:"center"`
	Zoom       float32    `yaml:"zoom"`
	DepthRange float32    `yaml:"depth_range"`
}

// HeightMaskSpec points at a grayscale image used by the reference height hook.
type HeightMaskSpec struct {
	Image string  `yaml:"image"`
	Scale float32 `yaml:"scale"` // Height of a white texel
}

// Tile is one placed tile.
type Tile struct {
	Grid       [2]float32  `yaml:"grid"`
	AtlasIndex int         `yaml:"atlas_index"`
	Color      *[4]float32 `yaml:"color"` // Defaults to opaque white
	Size       *[2]float32 `yaml:"size"`  // Per-tile render size, non-uniform mode only
	Depth      float32     `yaml:"depth"` // Depth hint for the height pass
}

// Fill places the same tile over an inclusive rectangle of grid cells.
type Fill struct {
	From [2]int `yaml:"from"`
	To   [2]int `yaml:"to"`
	Tile Tile   `yaml:"tile"`
}

// Load reads and decodes a scene file. Defaults are applied; validation is left to
// Validate so callers can report every problem with the atlas size known.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}

	s := &Scene{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decoding scene %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	s.applyDefaults()
	return s, nil
}

func (s *Scene) applyDefaults() {
	if s.Camera.Zoom == 0 {
		s.Camera.Zoom = 1
	}
	if s.Camera.DepthRange == 0 {
		s.Camera.DepthRange = DefaultDepthRange
	}
	if s.HeightMask != nil && s.HeightMask.Scale == 0 {
		s.HeightMask.Scale = 1
	}
}

// Resolve returns p relative to the scene file directory unless it is absolute.
func (s *Scene) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || s.dir == "" {
		return p
	}
	return filepath.Join(s.dir, p)
}

// AtlasPath returns the resolved atlas path, empty for pure-color scenes.
func (s *Scene) AtlasPath() string {
	return s.Resolve(s.Tilemap.Atlas)
}

// AllTiles expands fills and returns them followed by the explicit tiles.
func (s *Scene) AllTiles() []Tile {
	var tiles []Tile
	for _, f := range s.Fill {
		for y := f.From[1]; y <= f.To[1]; y++ {
			for x := f.From[0]; x <= f.To[0]; x++ {
				t := f.Tile
				t.Grid = [2]float32{float32(x), float32(y)}
				tiles = append(tiles, t)
			}
		}
	}
	return append(tiles, s.Tiles...)
}
