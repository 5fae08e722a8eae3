// Package viewer draws packed tile vertices with OpenGL using the generated tile shaders.
package viewer

import (
	"sort"

	"github.com/Faultbox/tilequad/internal/tilemap"
	"github.com/Faultbox/tilequad/pkg/math"
)

// Depther reports the model position and render depth of a vertex. *tilemap.Pipeline
// implements it for every topology.
type Depther interface {
	ModelPosition(in tilemap.TileVertexInput) (math.Vec2, float32)
}

// QuadIndices returns two triangles per quad, (0,1,2) and (0,2,3), over consecutive
// groups of four vertices.
func QuadIndices(quads int) []uint32 {
	idx := make([]uint32, 0, quads*6)
	for q := 0; q < quads; q++ {
		base := uint32(q * tilemap.CornersPerTile)
		idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	}
	return idx
}

// SortBackToFront returns the quads of vertices ordered from the largest render depth
// to the smallest. Quads of equal depth keep their order. The orthographic camera maps
// render depth to NDC depth monotonically, so one sort holds for every view.
func SortBackToFront(d Depther, vertices []tilemap.TileVertexInput) []tilemap.TileVertexInput {
	quads := len(vertices) / tilemap.CornersPerTile
	order := make([]int, quads)
	depth := make([]float32, quads)
	for q := range order {
		order[q] = q
		_, depth[q] = d.ModelPosition(vertices[q*tilemap.CornersPerTile])
	}
	sort.SliceStable(order, func(i, j int) bool { return depth[order[i]] > depth[order[j]] })

	out := make([]tilemap.TileVertexInput, 0, quads*tilemap.CornersPerTile)
	for _, q := range order {
		out = append(out, vertices[q*tilemap.CornersPerTile:(q+1)*tilemap.CornersPerTile]...)
	}
	return out
}

// Bounds returns the model-space rectangle covered by every corner.
func Bounds(d Depther, vertices []tilemap.TileVertexInput) (minX, minY, maxX, maxY float32) {
	for i, v := range vertices {
		p, _ := d.ModelPosition(v)
		if i == 0 {
			minX, minY, maxX, maxY = p.X, p.Y, p.X, p.Y
			continue
		}
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
