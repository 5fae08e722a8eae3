package tilemap

import (
	"errors"
	"sync"
	"testing"

	"github.com/Faultbox/tilequad/pkg/math"
)

// checkerSampler returns red at every UV, so tests can tell sampled from pure color.
type checkerSampler struct{}

func (checkerSampler) Sample(math.Vec2) math.Vec4 { return math.Vec4{1, 0, 0, 1} }

func approx(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-5
}

func approxVec2(a, b math.Vec2) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y)
}

func identityView() ViewContext {
	return ViewContext{ViewProjection: math.Identity(), Viewport: math.Vec2{X: 640, Y: 480}}
}

func TestEndToEndSquare(t *testing.T) {
	cfg := Config{
		TileRenderSize: math.Vec2{X: 32, Y: 32},
		TextureSize:    math.Vec2{X: 256, Y: 256},
	}
	p, err := NewPipeline(Square{SlotSize: math.Splat(1)}, Features{PureColor: true}, cfg)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	in := TileVertexInput{CornerIndex: 2, GridPosition: math.Vec2{X: 1, Y: 1}, Color: math.White}
	model, depth := p.ModelPosition(in)
	if want := (math.Vec2{X: 33, Y: 33}); model != want {
		t.Errorf("model position = %v, want %v", model, want)
	}
	if depth != 1 {
		t.Errorf("render depth = %v, want origin.y = 1", depth)
	}

	out := p.TransformVertex(in, identityView())
	if want := (math.Vec4{33, 33, 1, 1}); out.ClipPosition != want {
		t.Errorf("clip position = %v, want %v", out.ClipPosition, want)
	}
}

func TestRenderDepthSharedByCorners(t *testing.T) {
	cfg := Config{TileRenderSize: math.Vec2{X: 10, Y: 40}, Anchor: math.Vec2{X: 0.5, Y: 0}}
	p, err := NewPipeline(IsoDiamond{SlotSize: math.Vec2{X: 10, Y: 5}}, Features{PureColor: true}, cfg)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	in := TileVertexInput{GridPosition: math.Vec2{X: 2, Y: 3}}
	_, want := p.ModelPosition(in)
	for c := uint32(0); c < CornersPerTile; c++ {
		in.CornerIndex = c
		if _, got := p.ModelPosition(in); got != want {
			t.Errorf("corner %d depth = %v, want %v", c, got, want)
		}
	}
}

func TestTranslationAndViewProjection(t *testing.T) {
	cfg := Config{
		TileRenderSize: math.Vec2{X: 16, Y: 16},
		Translation:    math.Vec2{X: 100, Y: -50},
		TextureSize:    math.Vec2{X: 64, Y: 64},
	}
	p, err := NewPipeline(Square{SlotSize: math.Splat(16)}, Features{PureColor: true}, cfg)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	view := ViewContext{ViewProjection: math.Scale(2, 2, 1)}
	out := p.TransformVertex(TileVertexInput{CornerIndex: 0, GridPosition: math.Vec2{X: 1, Y: 0}}, view)
	want := math.Vec4{(100 + 16) * 2, -50 * 2, 0, 1}
	if out.ClipPosition != want {
		t.Errorf("clip position = %v, want %v", out.ClipPosition, want)
	}
}

func TestNonUniformSize(t *testing.T) {
	cfg := Config{TileRenderSize: math.Vec2{X: 32, Y: 32}}
	in := TileVertexInput{CornerIndex: 2, TileRenderSize: math.Vec2{X: 8, Y: 48}}

	uniform, err := NewPipeline(Square{SlotSize: math.Splat(1)}, Features{PureColor: true}, cfg)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	perTile, err := NewPipeline(Square{SlotSize: math.Splat(1)}, Features{PureColor: true, NonUniformSize: true}, cfg)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	if got, _ := uniform.ModelPosition(in); got != (math.Vec2{X: 32, Y: 32}) {
		t.Errorf("uniform size ignored config: got %v", got)
	}
	if got, _ := perTile.ModelPosition(in); got != (math.Vec2{X: 8, Y: 48}) {
		t.Errorf("non-uniform size ignored vertex: got %v", got)
	}
}

func TestUVNormalization(t *testing.T) {
	cfg := Config{TextureSize: math.Vec2{X: 256, Y: 256}}
	p, err := NewPipeline(Square{}, Features{}, cfg, WithSampler(checkerSampler{}))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	if got := p.NormalizeUV(math.Vec2{}); got != (math.Vec2{}) {
		t.Errorf("NormalizeUV(0,0) = %v, want (0,0)", got)
	}
	if got := p.NormalizeUV(cfg.TextureSize); got != (math.Vec2{X: 1, Y: 1}) {
		t.Errorf("NormalizeUV(textureSize) = %v, want (1,1)", got)
	}
	if got := p.NormalizeUV(math.Vec2{X: 64, Y: 192}); got != (math.Vec2{X: 0.25, Y: 0.75}) {
		t.Errorf("NormalizeUV(64,192) = %v, want (0.25,0.75)", got)
	}
}

func TestUVFlips(t *testing.T) {
	cfg := Config{TextureSize: math.Splat(1)}
	uv := math.Vec2{X: 0.3, Y: 0.7}

	tests := []struct {
		name     string
		features Features
		want     math.Vec2
	}{
		{"none", Features{PureColor: true}, math.Vec2{X: 0.3, Y: 0.7}},
		{"horizontal", Features{PureColor: true, FlipH: true}, math.Vec2{X: 0.7, Y: 0.7}},
		{"vertical", Features{PureColor: true, FlipV: true}, math.Vec2{X: 0.3, Y: 0.3}},
		{"both", Features{PureColor: true, FlipH: true, FlipV: true}, math.Vec2{X: 0.7, Y: 0.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPipeline(Square{}, tt.features, cfg)
			if err != nil {
				t.Fatalf("NewPipeline: %v", err)
			}
			out := p.TransformVertex(TileVertexInput{UVCell: uv}, identityView())
			if !approxVec2(out.UV, tt.want) {
				t.Errorf("UV = %v, want %v", out.UV, tt.want)
			}
		})
	}
}

func TestColorAndHeightForwarding(t *testing.T) {
	cfg := Config{TextureSize: math.Splat(1)}
	hook := HeightHookFunc(func(VertexOutput, math.Vec2, *FragmentEffects) {})
	in := TileVertexInput{Color: math.Vec4{0.1, 0.2, 0.3, 0.4}, DepthHint: 7.5}

	plain, err := NewPipeline(Square{}, Features{PureColor: true}, cfg)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	post, err := NewPipeline(Square{}, Features{PureColor: true, PostProcess: true}, cfg, WithHeightHook(hook))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	if out := plain.TransformVertex(in, identityView()); out.Height != 0 || out.Color != in.Color {
		t.Errorf("plain output = %+v, want color passthrough and zero height", out)
	}
	if out := post.TransformVertex(in, identityView()); out.Height != 7.5 || out.Color != in.Color {
		t.Errorf("post output = %+v, want color passthrough and height 7.5", out)
	}
}

func TestPureColorIgnoresTexture(t *testing.T) {
	p, err := NewPipeline(Square{}, Features{PureColor: true}, Config{}, WithSampler(checkerSampler{}))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	in := VertexOutput{Color: math.Vec4{0.5, 0.5, 0.5, 1}}
	for _, uv := range []math.Vec2{{}, {X: 0.5, Y: 0.5}, {X: 1, Y: 1}} {
		in.UV = uv
		got, _ := p.Composite(in, identityView())
		if got != in.Color {
			t.Errorf("Composite(uv=%v) = %v, want %v", uv, got, in.Color)
		}
	}
}

func TestSampledColorMultiplies(t *testing.T) {
	p, err := NewPipeline(Square{}, Features{}, Config{TextureSize: math.Splat(8)}, WithSampler(checkerSampler{}))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	got, fx := p.Composite(VertexOutput{Color: math.Vec4{0.5, 1, 1, 0.25}}, identityView())
	if want := (math.Vec4{0.5, 0, 0, 0.25}); got != want {
		t.Errorf("Composite() = %v, want %v", got, want)
	}
	if fx != (FragmentEffects{}) {
		t.Errorf("effects = %+v, want none without hook", fx)
	}
}

func TestHeightHookInvokedPerFragment(t *testing.T) {
	var (
		mu       sync.Mutex
		calls    int
		viewport math.Vec2
	)
	hook := HeightHookFunc(func(in VertexOutput, vp math.Vec2, fx *FragmentEffects) {
		mu.Lock()
		calls++
		viewport = vp
		mu.Unlock()
		if in.Height < 1 {
			fx.Discard = true
		}
	})

	p, err := NewPipeline(Square{}, Features{PureColor: true, PostProcess: true}, Config{}, WithHeightHook(hook))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	view := identityView()
	_, low := p.Composite(VertexOutput{Height: 0.5, Color: math.White}, view)
	color, high := p.Composite(VertexOutput{Height: 2, Color: math.White}, view)

	if calls != 2 {
		t.Errorf("hook calls = %d, want 2", calls)
	}
	if viewport != view.Viewport {
		t.Errorf("hook viewport = %v, want %v", viewport, view.Viewport)
	}
	if !low.Discard || high.Discard {
		t.Errorf("discard flags = %v/%v, want true/false", low.Discard, high.Discard)
	}
	if color != math.White {
		t.Errorf("hook must not alter color: got %v", color)
	}
}

func TestNewPipelineWiringErrors(t *testing.T) {
	if _, err := NewPipeline(Square{}, Features{}, Config{}); !errors.Is(err, ErrMissingSampler) {
		t.Errorf("sampled pipeline without sampler: err = %v, want ErrMissingSampler", err)
	}
	if _, err := NewPipeline(Square{}, Features{PureColor: true, PostProcess: true}, Config{}); !errors.Is(err, ErrMissingHook) {
		t.Errorf("post pipeline without hook: err = %v, want ErrMissingHook", err)
	}
}

func TestVariant(t *testing.T) {
	p, err := NewPipeline(IsoDiamond{}, Features{FlipH: true, PureColor: true}, Config{})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	if got, want := p.Variant(), "iso_diamond+flip_h+pure_color"; got != want {
		t.Errorf("Variant() = %q, want %q", got, want)
	}
	if got, want := Variant(TopologySquare, Features{}), "square"; got != want {
		t.Errorf("Variant() = %q, want %q", got, want)
	}
}

func TestConcurrentInvocationsDeterministic(t *testing.T) {
	cfg := Config{
		TileRenderSize: math.Vec2{X: 32, Y: 16},
		Anchor:         math.Vec2{X: 0.5, Y: 0},
		TextureSize:    math.Vec2{X: 128, Y: 128},
	}
	p, err := NewPipeline(IsoDiamond{SlotSize: math.Vec2{X: 32, Y: 16}}, Features{FlipV: true}, cfg, WithSampler(checkerSampler{}))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	inputs := make([]TileVertexInput, 256)
	for i := range inputs {
		inputs[i] = TileVertexInput{
			CornerIndex:  uint32(i),
			GridPosition: math.Vec2{X: float32(i % 16), Y: float32(i / 16)},
			UVCell:       math.Vec2{X: float32(i % 128), Y: 0},
			Color:        math.White,
		}
	}

	want := make([]VertexOutput, len(inputs))
	for i, in := range inputs {
		want[i] = p.TransformVertex(in, identityView())
	}

	got := make([]VertexOutput, len(inputs))
	var wg sync.WaitGroup
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = p.TransformVertex(inputs[i], identityView())
		}(i)
	}
	wg.Wait()

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("vertex %d: concurrent %+v != sequential %+v", i, got[i], want[i])
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		pureColor bool
		wantErr   error
	}{
		{"ok", Config{TileRenderSize: math.Splat(16), Anchor: math.Splat(0.5), TextureSize: math.Splat(64)}, false, nil},
		{"negative size", Config{TileRenderSize: math.Vec2{X: -1, Y: 1}, TextureSize: math.Splat(64)}, false, ErrNegativeSize},
		{"anchor out of range", Config{Anchor: math.Vec2{X: 1.5}, TextureSize: math.Splat(64)}, false, ErrAnchorRange},
		{"zero texture", Config{}, false, ErrTextureSize},
		{"zero texture pure color", Config{}, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.pureColor)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidateInput(TileVertexInput{TileRenderSize: math.Vec2{X: -2}}, Features{NonUniformSize: true}); !errors.Is(err, ErrNegativeSize) {
		t.Errorf("ValidateInput() = %v, want ErrNegativeSize", err)
	}
	if err := ValidateInput(TileVertexInput{TileRenderSize: math.Vec2{X: -2}}, Features{}); err != nil {
		t.Errorf("ValidateInput() without non-uniform size = %v, want nil", err)
	}
}
