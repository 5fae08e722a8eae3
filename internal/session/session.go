// Package session wires configuration, scene, atlas and height mask into a tile pipeline
// for the preview and viewer tools.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/tilequad/internal/config"
	"github.com/Faultbox/tilequad/internal/engine/texture"
	"github.com/Faultbox/tilequad/internal/logger"
	"github.com/Faultbox/tilequad/internal/raster"
	"github.com/Faultbox/tilequad/internal/scene"
	"github.com/Faultbox/tilequad/internal/tilemap"
	"github.com/Faultbox/tilequad/pkg/math"
)

// ErrNoHeightMask is returned when post-processing is enabled but the scene has no mask.
var ErrNoHeightMask = errors.New("session: post_process enabled but scene has no height_mask")

// colorKeyTolerance is the per-channel distance within which a pixel matches the color key.
const colorKeyTolerance = 4

// Program is a tile pipeline of any topology.
type Program interface {
	raster.Program
	ModelPosition(in tilemap.TileVertexInput) (math.Vec2, float32)
	Features() tilemap.Features
	Config() tilemap.Config
	Variant() string
}

// Session is a loaded scene ready to draw.
type Session struct {
	Config   *config.Config
	Scene    *scene.Scene
	Features tilemap.Features
	Filter   texture.Filter

	Atlas     *texture.Atlas // nil in pure-color mode
	Mask      *raster.HeightMask
	MaskImage image.Image
	Vertices  []tilemap.TileVertexInput

	log *zap.Logger
}

// Open loads the scene named by cfg and everything it references.
func Open(cfg *config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Session{
		Config:   cfg,
		Features: cfg.Features(),
		log:      logger.Named("session"),
	}

	var err error
	s.Filter, err = texture.ParseFilter(cfg.Render.Filter)
	if err != nil {
		return nil, err
	}

	s.Scene, err = scene.Load(cfg.Data.Scene)
	if err != nil {
		return nil, err
	}

	atlasSize := math.Vec2{}
	if !s.Features.PureColor {
		if s.Atlas, err = s.loadAtlas(); err != nil {
			return nil, err
		}
		atlasSize = s.Atlas.Size()
	}

	if s.Features.PostProcess {
		if err := s.loadMask(); err != nil {
			return nil, err
		}
	}

	s.Vertices, err = s.Scene.Assemble(atlasSize, s.Features)
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", cfg.Data.Scene, err)
	}

	s.log.Info("scene loaded",
		zap.String("scene", cfg.Data.Scene),
		zap.String("variant", tilemap.Variant(cfg.Render.Topology, s.Features)),
		zap.Int("tiles", len(s.Vertices)/tilemap.CornersPerTile),
		zap.Stringer("filter", s.Filter),
	)
	return s, nil
}

func (s *Session) loadAtlas() (*texture.Atlas, error) {
	img, err := texture.Load(s.Scene.AtlasPath())
	if err != nil {
		return nil, err
	}

	key, ok, err := s.Scene.ColorKey()
	if err != nil {
		return nil, err
	}
	if ok {
		texture.ApplyColorKey(img, key, colorKeyTolerance)
	}
	return texture.NewAtlas(img, s.Filter), nil
}

func (s *Session) loadMask() error {
	spec := s.Scene.HeightMask
	if spec == nil {
		return ErrNoHeightMask
	}
	img, err := texture.Load(s.Scene.Resolve(spec.Image))
	if err != nil {
		return fmt.Errorf("height mask: %w", err)
	}
	s.MaskImage = img
	s.Mask, err = raster.NewHeightMask(img, spec.Scale)
	return err
}

// TilemapConfig returns the uniform block for the loaded atlas.
func (s *Session) TilemapConfig() tilemap.Config {
	size := math.Vec2{}
	if s.Atlas != nil {
		size = s.Atlas.Size()
	}
	return s.Scene.TilemapConfig(size)
}

// SlotSize returns the configured grid lattice pitch.
func (s *Session) SlotSize() math.Vec2 {
	return math.V2(s.Config.Render.SlotSize)
}

func (s *Session) options() []tilemap.Option {
	var opts []tilemap.Option
	if s.Atlas != nil {
		opts = append(opts, tilemap.WithSampler(s.Atlas))
	}
	if s.Mask != nil {
		opts = append(opts, tilemap.WithHeightHook(s.Mask))
	}
	return opts
}

// Program builds the pipeline for the configured topology.
func (s *Session) Program() (Program, error) {
	switch s.Config.Render.Topology {
	case tilemap.TopologySquare:
		return program(s, tilemap.Square{SlotSize: s.SlotSize()})
	case tilemap.TopologyIsoDiamond:
		return program(s, tilemap.IsoDiamond{SlotSize: s.SlotSize()})
	}
	return nil, fmt.Errorf("%q: %w", s.Config.Render.Topology, tilemap.ErrUnknownTopo)
}

func program[T tilemap.Topology](s *Session, topo T) (Program, error) {
	p, err := tilemap.NewPipeline(topo, s.Features, s.TilemapConfig(), s.options()...)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Render draws the scene into fb through the software rasterizer.
func (s *Session) Render(ctx context.Context, fb *raster.Framebuffer, opts raster.Options) (raster.Stats, error) {
	view := s.Scene.NewCamera().View(fb.Width(), fb.Height())
	fb.Clear(math.Vec4(s.Config.Render.Background))

	switch s.Config.Render.Topology {
	case tilemap.TopologySquare:
		return render(ctx, s, tilemap.Square{SlotSize: s.SlotSize()}, fb, view, opts)
	case tilemap.TopologyIsoDiamond:
		return render(ctx, s, tilemap.IsoDiamond{SlotSize: s.SlotSize()}, fb, view, opts)
	}
	return raster.Stats{}, fmt.Errorf("%q: %w", s.Config.Render.Topology, tilemap.ErrUnknownTopo)
}

func render[T tilemap.Topology](ctx context.Context, s *Session, topo T, fb *raster.Framebuffer, view tilemap.ViewContext, opts raster.Options) (raster.Stats, error) {
	p, err := tilemap.NewPipeline(topo, s.Features, s.TilemapConfig(), s.options()...)
	if err != nil {
		return raster.Stats{}, err
	}
	return raster.Draw(ctx, fb, p, s.Vertices, view, opts)
}

// InitLogger installs the global logger from the logging section.
func InitLogger(cfg *config.Config) error {
	var fileCfg logger.FileConfig
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
		fileCfg.JSON = cfg.Logging.JSON
	}
	return logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true)
}
