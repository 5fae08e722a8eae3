package camera

import (
	"testing"

	"github.com/Faultbox/tilequad/pkg/math"
)

func approx(a, b float32) bool {
	d := a - b
	return d < 1e-5 && d > -1e-5
}

func TestViewProjectionCenter(t *testing.T) {
	c := NewOrthoCamera(math.Vec2{X: 100, Y: 50}, 2, 1000)
	vp := c.ViewProjection(200, 100)

	center := vp.MulVec4(math.Vec4{100, 50, 0, 1})
	if !approx(center[0], 0) || !approx(center[1], 0) {
		t.Errorf("center maps to %v, want origin", center)
	}
	// 200 px at zoom 2 spans 100 world units, so x=150 is the right edge.
	edge := vp.MulVec4(math.Vec4{150, 50, 0, 1})
	if !approx(edge[0], 1) {
		t.Errorf("right edge x = %v, want 1", edge[0])
	}
}

func TestViewProjectionDepthOrder(t *testing.T) {
	vp := NewOrthoCamera(math.Vec2{}, 1, 100).ViewProjection(64, 64)
	near := vp.MulVec4(math.Vec4{0, 0, 10, 1})
	far := vp.MulVec4(math.Vec4{0, 0, 20, 1})
	if far[2] <= near[2] {
		t.Errorf("depth 20 -> z %v should be farther than depth 10 -> z %v", far[2], near[2])
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewOrthoCamera(math.Vec2{}, 1, 100)
	for i := 0; i < 200; i++ {
		c.HandleZoom(1)
	}
	if c.Zoom != c.MaxZoom {
		t.Errorf("zoom = %v, want max %v", c.Zoom, c.MaxZoom)
	}
	for i := 0; i < 200; i++ {
		c.HandleZoom(-5)
	}
	if c.Zoom != c.MinZoom {
		t.Errorf("zoom = %v, want min %v", c.Zoom, c.MinZoom)
	}
}

func TestHandleDrag(t *testing.T) {
	c := NewOrthoCamera(math.Vec2{}, 2, 100)
	c.HandleDrag(10, 10)
	if want := (math.Vec2{X: -5, Y: 5}); c.Center != want {
		t.Errorf("center = %v, want %v", c.Center, want)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrthoCamera(math.Vec2{}, 1, 100)
	c.FitToBounds(0, 0, 100, 50, 200, 200)
	if want := (math.Vec2{X: 50, Y: 25}); c.Center != want {
		t.Errorf("center = %v, want %v", c.Center, want)
	}
	if c.Zoom != 2 {
		t.Errorf("zoom = %v, want 2", c.Zoom)
	}
}
