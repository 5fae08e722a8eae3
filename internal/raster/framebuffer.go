// Package raster is a CPU host for the tile transform core. It runs the vertex stage for
// every packed vertex and the fragment stage for every covered pixel, in parallel, and
// writes the results into a Framebuffer.
package raster

import (
	"image"
	"image/color"
	stdmath "math"

	"github.com/Faultbox/tilequad/pkg/math"
)

// Framebuffer holds premultiplied float color and a depth buffer.
type Framebuffer struct {
	width  int
	height int
	color  []math.Vec4
	depth  []float32
}

// NewFramebuffer creates a cleared framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		width:  width,
		height: height,
		color:  make([]math.Vec4, width*height),
		depth:  make([]float32, width*height),
	}
	fb.Clear(math.Vec4{})
	return fb
}

// Width returns the framebuffer width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the framebuffer height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Viewport returns the framebuffer size as a vector.
func (fb *Framebuffer) Viewport() math.Vec2 {
	return math.Vec2{X: float32(fb.width), Y: float32(fb.height)}
}

// Clear fills the color buffer with c (straight alpha) and resets depth to the far plane.
func (fb *Framebuffer) Clear(c math.Vec4) {
	pre := premultiply(c)
	for i := range fb.color {
		fb.color[i] = pre
		fb.depth[i] = stdmath.MaxFloat32
	}
}

// At returns the premultiplied color at (x, y).
func (fb *Framebuffer) At(x, y int) math.Vec4 {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return math.Vec4{}
	}
	return fb.color[y*fb.width+x]
}

// Image converts the color buffer to an 8-bit premultiplied RGBA image.
func (fb *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			c := fb.color[y*fb.width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: to8(c[0]),
				G: to8(c[1]),
				B: to8(c[2]),
				A: to8(c[3]),
			})
		}
	}
	return img
}

// blend composites premultiplied src over the pixel at index i.
func (fb *Framebuffer) blend(i int, src math.Vec4) {
	fb.color[i] = src.Add(fb.color[i].Scale(1 - src[3]))
}

func premultiply(c math.Vec4) math.Vec4 {
	return math.Vec4{c[0] * c[3], c[1] * c[3], c[2] * c[3], c[3]}
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
