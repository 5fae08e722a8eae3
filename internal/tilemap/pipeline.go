package tilemap

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tilequad/internal/logger"
	"github.com/Faultbox/tilequad/pkg/math"
)

// Sampler looks up the atlas color at a normalized UV.
type Sampler interface {
	Sample(uv math.Vec2) math.Vec4
}

// Option binds an external collaborator to a pipeline.
type Option func(*bindings)

type bindings struct {
	sampler Sampler
	hook    HeightHook
}

// WithSampler binds the atlas texture and filter used when PureColor is off.
func WithSampler(s Sampler) Option {
	return func(b *bindings) { b.sampler = s }
}

// WithHeightHook binds the post-processing collaborator used when PostProcess is on.
func WithHeightHook(h HeightHook) Option {
	return func(b *bindings) { b.hook = h }
}

// Pipeline is one configured instance of the transform core: a topology, a feature set
// and a uniform block. The feature set is turned into function values once, here, so the
// per-invocation paths carry no feature branches.
type Pipeline[T Topology] struct {
	topology T
	features Features
	config   Config

	size   func(in *TileVertexInput) math.Vec2
	flip   func(uv math.Vec2) math.Vec2
	height func(in *TileVertexInput) float32
	base   func(uv math.Vec2) math.Vec4
	post   func(in VertexOutput, viewport math.Vec2, fx *FragmentEffects)
}

// NewPipeline builds a pipeline. It fails only on wiring mistakes: a sampled pipeline with
// no sampler or a post-processing pipeline with no hook.
func NewPipeline[T Topology](topology T, features Features, cfg Config, opts ...Option) (*Pipeline[T], error) {
	var b bindings
	for _, opt := range opts {
		opt(&b)
	}

	p := &Pipeline[T]{
		topology: topology,
		features: features,
		config:   cfg,
	}

	if features.NonUniformSize {
		p.size = perVertexSize
	} else {
		uniform := cfg.TileRenderSize
		p.size = func(*TileVertexInput) math.Vec2 { return uniform }
	}

	switch {
	case features.FlipH && features.FlipV:
		p.flip = flipBoth
	case features.FlipH:
		p.flip = math.Vec2.OneMinusX
	case features.FlipV:
		p.flip = math.Vec2.OneMinusY
	default:
		p.flip = noFlip
	}

	if features.PureColor {
		p.base = pureColor
	} else {
		if b.sampler == nil {
			return nil, ErrMissingSampler
		}
		p.base = b.sampler.Sample
	}

	if features.PostProcess {
		if b.hook == nil {
			return nil, ErrMissingHook
		}
		p.height = depthHint
		p.post = b.hook.PostProcess
	} else {
		p.height = noHeight
		p.post = noPost
	}

	logger.Named("tilemap").Debug("pipeline configured",
		zap.String("variant", p.Variant()),
		zap.Float32s("tile_render_size", []float32{cfg.TileRenderSize.X, cfg.TileRenderSize.Y}),
		zap.Float32s("anchor", []float32{cfg.Anchor.X, cfg.Anchor.Y}),
	)

	return p, nil
}

// Features returns the build configuration.
func (p *Pipeline[T]) Features() Features { return p.features }

// Config returns the bound uniform block.
func (p *Pipeline[T]) Config() Config { return p.config }

// Variant names the topology and feature combination.
func (p *Pipeline[T]) Variant() string {
	return Variant(p.topology.Name(), p.features)
}

func perVertexSize(in *TileVertexInput) math.Vec2 { return in.TileRenderSize }

func flipBoth(uv math.Vec2) math.Vec2 { return math.Vec2{X: 1 - uv.X, Y: 1 - uv.Y} }

func noFlip(uv math.Vec2) math.Vec2 { return uv }

func depthHint(in *TileVertexInput) float32 { return in.DepthHint }

func noHeight(*TileVertexInput) float32 { return 0 }

func pureColor(math.Vec2) math.Vec4 { return math.White }

func noPost(VertexOutput, math.Vec2, *FragmentEffects) {}
