package raster

import (
	"errors"
	"image"
	"image/color"

	"github.com/Faultbox/tilequad/internal/tilemap"
	"github.com/Faultbox/tilequad/pkg/math"
)

// ErrEmptyMask is returned for a height mask image with no pixels.
var ErrEmptyMask = errors.New("raster: empty height mask")

// HeightMask is a screen-space height field. A fragment whose height is below the mask
// at its window position is discarded.
type HeightMask struct {
	width, height int
	values        []float32
}

// NewHeightMask builds a mask from the luminance of img, scaled so that white maps to scale.
func NewHeightMask(img image.Image, scale float32) (*HeightMask, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyMask
	}
	m := &HeightMask{
		width:  b.Dx(),
		height: b.Dy(),
		values: make([]float32, b.Dx()*b.Dy()),
	}
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			m.values[y*m.width+x] = float32(g.Y) / 0xffff * scale
		}
	}
	return m, nil
}

// At returns the mask height at normalized window coordinates, nearest texel, clamped.
func (m *HeightMask) At(uv math.Vec2) float32 {
	x := min(max(int(uv.X*float32(m.width)), 0), m.width-1)
	y := min(max(int(uv.Y*float32(m.height)), 0), m.height-1)
	return m.values[y*m.width+x]
}

// PostProcess implements tilemap.HeightHook.
func (m *HeightMask) PostProcess(in tilemap.VertexOutput, viewport math.Vec2, fx *tilemap.FragmentEffects) {
	if in.Height < m.At(in.ClipPosition.XY().Div(viewport)) {
		fx.Discard = true
	}
}
