// Package main renders a tile scene to a PNG with the software rasterizer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/Faultbox/tilequad/internal/config"
	"github.com/Faultbox/tilequad/internal/engine/debug"
	"github.com/Faultbox/tilequad/internal/logger"
	"github.com/Faultbox/tilequad/internal/raster"
	"github.com/Faultbox/tilequad/internal/session"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := session.InitLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("preview failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	s, err := session.Open(cfg)
	if err != nil {
		return err
	}

	width, height := cfg.Window.Width, cfg.Window.Height
	fb := raster.NewFramebuffer(width, height)

	opts := raster.Options{
		Workers:   cfg.Render.Workers,
		DepthTest: cfg.Render.DepthTest,
	}
	bar := progressbar.Default(int64(raster.Bands(height, opts)), "rasterizing")
	defer bar.Close()
	opts.OnBand = func() { bar.Add(1) }

	start := time.Now()
	stats, err := s.Render(ctx, fb, opts)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	if err := debug.SavePNG(cfg.Output.Path, fb.Image()); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Output.Path, err)
	}

	logger.Info("preview written",
		zap.String("path", cfg.Output.Path),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("quads", stats.Quads),
		zap.Int64("fragments", stats.Fragments),
		zap.Int64("discarded", stats.Discarded),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
