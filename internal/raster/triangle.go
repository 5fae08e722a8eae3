package raster

import (
	"github.com/Faultbox/tilequad/internal/tilemap"
	"github.com/Faultbox/tilequad/pkg/math"
)

type compositor interface {
	Composite(in tilemap.VertexOutput, view tilemap.ViewContext) (math.Vec4, tilemap.FragmentEffects)
}

// band rasterizes into rows [y0, y1] of fb.
type band struct {
	fb        *Framebuffer
	y0, y1    int
	depthTest bool

	fragments int64
	discarded int64
	rejected  int64
	clipped   int64
}

// edge returns twice the signed area of (a, b, p).
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether edge a->b owns pixels lying exactly on it. With positive area
// in y-down space these are the horizontal top edges and the upward (left) edges, so
// the shared diagonal of a quad is shaded exactly once.
func topLeft(ax, ay, bx, by float32) bool {
	dy := by - ay
	return dy < 0 || (dy == 0 && bx > ax)
}

func inside(w float32, owns bool) bool {
	return w > 0 || (w == 0 && owns)
}

// triangle shades quad corners ia, ib, ic with affine screen-space interpolation.
func (b *band) triangle(prog compositor, view tilemap.ViewContext, q *screenQuad, ia, ib, ic int) {
	va, vb, vc := &q.v[ia], &q.v[ib], &q.v[ic]
	area := edge(va.x, va.y, vb.x, vb.y, vc.x, vc.y)
	if area == 0 {
		return
	}
	if area < 0 {
		vb, vc = vc, vb
		area = -area
	}

	ownA := topLeft(vb.x, vb.y, vc.x, vc.y) // edge opposite a
	ownB := topLeft(vc.x, vc.y, va.x, va.y) // edge opposite b
	ownC := topLeft(va.x, va.y, vb.x, vb.y) // edge opposite c

	y0, y1 := max(q.minY, b.y0), min(q.maxY, b.y1)
	for y := y0; y <= y1; y++ {
		py := float32(y) + 0.5
		for x := q.minX; x <= q.maxX; x++ {
			px := float32(x) + 0.5

			w0 := edge(vb.x, vb.y, vc.x, vc.y, px, py)
			w1 := edge(vc.x, vc.y, va.x, va.y, px, py)
			w2 := edge(va.x, va.y, vb.x, vb.y, px, py)
			if !inside(w0, ownA) || !inside(w1, ownB) || !inside(w2, ownC) {
				continue
			}

			l0, l1, l2 := w0/area, w1/area, w2/area
			z := l0*va.z + l1*vb.z + l2*vc.z
			if z < -1 || z > 1 {
				b.clipped++
				continue
			}
			frag := tilemap.VertexOutput{
				ClipPosition: math.Vec4{px, py, z, 1},
				Color:        va.out.Color.Scale(l0).Add(vb.out.Color.Scale(l1)).Add(vc.out.Color.Scale(l2)),
				UV:           va.out.UV.Scale(l0).Add(vb.out.UV.Scale(l1)).Add(vc.out.UV.Scale(l2)),
				Height:       l0*va.out.Height + l1*vb.out.Height + l2*vc.out.Height,
			}
			b.shade(prog, view, x, y, z, frag)
		}
	}
}

func (b *band) shade(prog compositor, view tilemap.ViewContext, x, y int, z float32, frag tilemap.VertexOutput) {
	b.fragments++
	c, fx := prog.Composite(frag, view)
	if fx.Discard {
		b.discarded++
		return
	}
	if fx.DepthWritten {
		z = fx.Depth
	}

	i := y*b.fb.width + x
	if b.depthTest {
		if z > b.fb.depth[i] {
			b.rejected++
			return
		}
		b.fb.depth[i] = z
	}
	b.fb.blend(i, premultiply(c))
}
