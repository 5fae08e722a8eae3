package raster

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/tilequad/internal/logger"
	"github.com/Faultbox/tilequad/internal/tilemap"
	"github.com/Faultbox/tilequad/pkg/math"
)

// ErrVertexCount is returned when the vertex slice is not a whole number of quads.
var ErrVertexCount = errors.New("raster: vertex count is not a multiple of 4")

// Program is the vertex and fragment stage pair, typically a *tilemap.Pipeline.
type Program interface {
	TransformVertex(in tilemap.TileVertexInput, view tilemap.ViewContext) tilemap.VertexOutput
	Composite(in tilemap.VertexOutput, view tilemap.ViewContext) (math.Vec4, tilemap.FragmentEffects)
}

// Options tune a draw.
type Options struct {
	// Workers bounds the goroutines per stage. Zero means GOMAXPROCS.
	Workers int
	// DepthTest rejects fragments farther than what is already stored (less-or-equal passes).
	DepthTest bool
	// OnBand is called after each row band is finished. It is called from worker
	// goroutines and must be safe for concurrent use.
	OnBand func()
}

// Stats counts the work done by one Draw.
type Stats struct {
	Quads     int
	Fragments int64
	Discarded int64
	Rejected  int64 // Failed the depth test
	Clipped   int64 // Outside the [-1, 1] NDC depth range, never shaded
}

// screenVertex is a vertex stage output mapped to framebuffer space.
type screenVertex struct {
	x, y, z float32
	out     tilemap.VertexOutput
}

type screenQuad struct {
	v                      [tilemap.CornersPerTile]screenVertex
	minX, minY, maxX, maxY int
	depth                  float32
}

// Bands returns how many row bands Draw splits a framebuffer of the given height into.
func Bands(height int, opts Options) int {
	return (height + bandHeight(height, opts) - 1) / bandHeight(height, opts)
}

func bandHeight(height int, opts Options) int {
	return max(1, height/(workers(opts)*4))
}

func workers(opts Options) int {
	if opts.Workers > 0 {
		return opts.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Draw runs prog over vertices and writes the shaded quads into fb. Quads are drawn back
// to front by NDC depth; quads at equal depth keep submission order.
func Draw[P Program](ctx context.Context, fb *Framebuffer, prog P, vertices []tilemap.TileVertexInput, view tilemap.ViewContext, opts Options) (Stats, error) {
	if len(vertices)%tilemap.CornersPerTile != 0 {
		return Stats{}, fmt.Errorf("%w: got %d", ErrVertexCount, len(vertices))
	}

	outputs, err := runVertexStage(ctx, prog, vertices, view, opts)
	if err != nil {
		return Stats{}, err
	}

	quads := buildQuads(outputs, fb)
	sort.SliceStable(quads, func(i, j int) bool { return quads[i].depth > quads[j].depth })

	stats := Stats{Quads: len(quads)}
	if err := runFragmentStage(ctx, fb, prog, quads, view, opts, &stats); err != nil {
		return stats, err
	}

	logger.Named("raster").Debug("draw complete",
		zap.Int("quads", stats.Quads),
		zap.Int64("fragments", stats.Fragments),
		zap.Int64("discarded", stats.Discarded),
		zap.Int64("rejected", stats.Rejected),
		zap.Int64("clipped", stats.Clipped),
	)
	return stats, nil
}

// runVertexStage transforms every vertex. Chunks are disjoint, so no locking is needed.
func runVertexStage[P Program](ctx context.Context, prog P, vertices []tilemap.TileVertexInput, view tilemap.ViewContext, opts Options) ([]tilemap.VertexOutput, error) {
	outputs := make([]tilemap.VertexOutput, len(vertices))
	n := workers(opts)
	chunk := max(tilemap.CornersPerTile, (len(vertices)+n-1)/n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n)
	for start := 0; start < len(vertices); start += chunk {
		end := min(start+chunk, len(vertices))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				outputs[i] = prog.TransformVertex(vertices[i], view)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// buildQuads maps clip positions to framebuffer pixels (y down) and computes bounds.
func buildQuads(outputs []tilemap.VertexOutput, fb *Framebuffer) []screenQuad {
	w, h := float32(fb.width), float32(fb.height)
	quads := make([]screenQuad, 0, len(outputs)/tilemap.CornersPerTile)

	for q := 0; q+tilemap.CornersPerTile <= len(outputs); q += tilemap.CornersPerTile {
		var sq screenQuad
		minX, minY := w, h
		maxX, maxY := float32(0), float32(0)
		for c := 0; c < tilemap.CornersPerTile; c++ {
			out := outputs[q+c]
			ndc := out.ClipPosition.PerspectiveDivide()
			sv := screenVertex{
				x:   (ndc[0] + 1) * 0.5 * w,
				y:   (1 - ndc[1]) * 0.5 * h,
				z:   ndc[2],
				out: out,
			}
			sq.v[c] = sv
			sq.depth += sv.z / tilemap.CornersPerTile
			minX, maxX = min(minX, sv.x), max(maxX, sv.x)
			minY, maxY = min(minY, sv.y), max(maxY, sv.y)
		}
		sq.minX = max(0, int(minX))
		sq.minY = max(0, int(minY))
		sq.maxX = min(fb.width-1, int(maxX))
		sq.maxY = min(fb.height-1, int(maxY))
		if sq.minX > sq.maxX || sq.minY > sq.maxY {
			continue
		}
		quads = append(quads, sq)
	}
	return quads
}

// runFragmentStage shades row bands in parallel. Each band owns its rows of fb.
func runFragmentStage[P Program](ctx context.Context, fb *Framebuffer, prog P, quads []screenQuad, view tilemap.ViewContext, opts Options, stats *Stats) error {
	bh := bandHeight(fb.height, opts)

	var fragments, discarded, rejected, clipped atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(opts))

	for y0 := 0; y0 < fb.height; y0 += bh {
		y1 := min(y0+bh, fb.height) - 1
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b := band{fb: fb, y0: y0, y1: y1, depthTest: opts.DepthTest}
			for i := range quads {
				q := &quads[i]
				if q.maxY < y0 || q.minY > y1 {
					continue
				}
				b.triangle(prog, view, q, 0, 1, 2)
				b.triangle(prog, view, q, 0, 2, 3)
			}
			fragments.Add(b.fragments)
			discarded.Add(b.discarded)
			rejected.Add(b.rejected)
			clipped.Add(b.clipped)
			if opts.OnBand != nil {
				opts.OnBand()
			}
			return nil
		})
	}

	err := g.Wait()
	stats.Fragments = fragments.Load()
	stats.Discarded = discarded.Load()
	stats.Rejected = rejected.Load()
	stats.Clipped = clipped.Load()
	return err
}
