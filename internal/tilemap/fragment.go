package tilemap

import (
	"github.com/Faultbox/tilequad/pkg/math"
)

// FragmentEffects carries the side effects a HeightHook may request for one fragment.
// The compositor never reads it; the rasterizer that invoked the fragment stage does.
type FragmentEffects struct {
	// Discard drops the fragment entirely. Its color must not be written.
	Discard bool
	// Depth replaces the fragment depth when DepthWritten is set.
	Depth        float32
	DepthWritten bool
}

// HeightHook is the post-processing collaborator.
//
// PostProcess is called exactly once for every fragment of a pipeline built with
// PostProcess enabled, after the base color is resolved and before the final multiply.
// in is the interpolated fragment record: in.Height carries the tile's depth hint and
// in.ClipPosition the fragment coordinate. viewport is the host viewport size in pixels.
// The hook reports its outcome only through fx; it must not retain in or fx and must be
// safe for concurrent use.
type HeightHook interface {
	PostProcess(in VertexOutput, viewport math.Vec2, fx *FragmentEffects)
}

// HeightHookFunc adapts a function to HeightHook.
type HeightHookFunc func(in VertexOutput, viewport math.Vec2, fx *FragmentEffects)

// PostProcess implements HeightHook.
func (f HeightHookFunc) PostProcess(in VertexOutput, viewport math.Vec2, fx *FragmentEffects) {
	f(in, viewport, fx)
}

// Composite runs the fragment stage for one fragment.
func (p *Pipeline[T]) Composite(in VertexOutput, view ViewContext) (math.Vec4, FragmentEffects) {
	var fx FragmentEffects
	base := p.base(in.UV)
	p.post(in, view.Viewport, &fx)
	return base.Mul(in.Color), fx
}
