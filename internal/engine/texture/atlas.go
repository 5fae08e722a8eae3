package texture

import (
	"fmt"
	"image"
	stdmath "math"

	"github.com/Faultbox/tilequad/pkg/math"
)

// Filter selects how the atlas is sampled.
type Filter uint8

const (
	// FilterNearest picks the texel containing the coordinate.
	FilterNearest Filter = iota
	// FilterBilinear blends the four texels around the coordinate.
	FilterBilinear
)

// String returns the configuration name of the filter.
func (f Filter) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	case FilterBilinear:
		return "bilinear"
	default:
		return "unknown"
	}
}

// ParseFilter resolves a configured filter name. Empty means nearest, which keeps
// pixel-art atlases crisp.
func ParseFilter(name string) (Filter, error) {
	switch name {
	case "", "nearest":
		return FilterNearest, nil
	case "bilinear", "linear":
		return FilterBilinear, nil
	}
	return 0, fmt.Errorf("texture: unknown filter %q", name)
}

// Atlas is a read-only texel store bound to a filter. It implements tilemap.Sampler
// and is safe for concurrent use.
type Atlas struct {
	img    *image.RGBA
	width  int
	height int
	texels []math.Vec4 // premultiplied
	sample func(a *Atlas, uv math.Vec2) math.Vec4
}

// NewAtlas converts img to float texels. Samples are filtered with premultiplied alpha
// and returned straight, so transparent neighbours do not darken edges.
// img must not be modified afterwards.
func NewAtlas(img *image.RGBA, filter Filter) *Atlas {
	b := img.Bounds()
	a := &Atlas{
		img:    img,
		width:  b.Dx(),
		height: b.Dy(),
		texels: make([]math.Vec4, b.Dx()*b.Dy()),
	}
	for y := 0; y < a.height; y++ {
		for x := 0; x < a.width; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			px := img.Pix[i : i+4 : i+4]
			a.texels[y*a.width+x] = math.Vec4{
				float32(px[0]) / 255,
				float32(px[1]) / 255,
				float32(px[2]) / 255,
				float32(px[3]) / 255,
			}
		}
	}

	if filter == FilterBilinear {
		a.sample = (*Atlas).sampleBilinear
	} else {
		a.sample = (*Atlas).sampleNearest
	}
	return a
}

// Size returns the atlas dimensions in texels.
func (a *Atlas) Size() math.Vec2 {
	return math.Vec2{X: float32(a.width), Y: float32(a.height)}
}

// Image returns the source image, e.g. for GPU upload.
func (a *Atlas) Image() *image.RGBA {
	return a.img
}

// Sample returns the filtered color at uv. (0,0) is the top-left texel corner and
// coordinates outside [0,1] clamp to the edge.
func (a *Atlas) Sample(uv math.Vec2) math.Vec4 {
	if a.width == 0 || a.height == 0 {
		return math.Vec4{}
	}
	return straight(a.sample(a, uv))
}

func (a *Atlas) texel(x, y int) math.Vec4 {
	x = clamp(x, 0, a.width-1)
	y = clamp(y, 0, a.height-1)
	return a.texels[y*a.width+x]
}

func (a *Atlas) sampleNearest(uv math.Vec2) math.Vec4 {
	x := int(stdmath.Floor(float64(uv.X) * float64(a.width)))
	y := int(stdmath.Floor(float64(uv.Y) * float64(a.height)))
	return a.texel(x, y)
}

func (a *Atlas) sampleBilinear(uv math.Vec2) math.Vec4 {
	// Texel centers sit at half-integer coordinates.
	fx := float64(uv.X)*float64(a.width) - 0.5
	fy := float64(uv.Y)*float64(a.height) - 0.5

	x0 := int(stdmath.Floor(fx))
	y0 := int(stdmath.Floor(fy))
	tx := float32(fx - float64(x0))
	ty := float32(fy - float64(y0))

	c00 := a.texel(x0, y0)
	c10 := a.texel(x0+1, y0)
	c01 := a.texel(x0, y0+1)
	c11 := a.texel(x0+1, y0+1)

	top := c00.Scale(1 - tx).Add(c10.Scale(tx))
	bottom := c01.Scale(1 - tx).Add(c11.Scale(tx))
	return top.Scale(1 - ty).Add(bottom.Scale(ty))
}

// straight undoes alpha premultiplication.
func straight(c math.Vec4) math.Vec4 {
	if c[3] == 0 {
		return math.Vec4{}
	}
	return math.Vec4{c[0] / c[3], c[1] / c[3], c[2] / c[3], c[3]}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
