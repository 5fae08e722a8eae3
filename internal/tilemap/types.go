// Package tilemap implements the per-vertex and per-fragment transform core of the tile
// renderer: grid topology, quad corners, clip-space transform, atlas UVs and compositing.
//
// Every function here is pure. A Pipeline is immutable once built and may be shared by any
// number of goroutines for the lifetime of a draw.
package tilemap

import (
	"github.com/Faultbox/tilequad/pkg/math"
)

// CornersPerTile is the number of vertices emitted per tile quad.
const CornersPerTile = 4

// TileVertexInput is one vertex of one tile quad as packed by the assembler.
type TileVertexInput struct {
	CornerIndex  uint32    // 0..3, cycling; always taken modulo 4
	GridPosition math.Vec2 // Grid cell coordinate, interpreted by the topology
	UVCell       math.Vec2 // Atlas texel coordinate of this corner
	Color        math.Vec4 // RGBA tint

	// TileRenderSize is read only when Features.NonUniformSize is set.
	TileRenderSize math.Vec2
	// DepthHint is read only when Features.PostProcess is set.
	DepthHint float32
}

// Config is the per-tilemap uniform block. It is set once per tilemap instance.
type Config struct {
	TileRenderSize math.Vec2 // Uniform quad size
	Anchor         math.Vec2 // Point in [0,1]² of the quad that lands on the mesh origin
	Translation    math.Vec2 // World offset of the whole grid
	TextureSize    math.Vec2 // Atlas dimensions in texels
}

// ViewContext is supplied by the host per view.
type ViewContext struct {
	ViewProjection math.Mat4
	Viewport       math.Vec2
}

// VertexOutput is produced by the vertex stage and, interpolated, consumed by the fragment stage.
//
// When handed to the fragment stage by a rasterizer, ClipPosition holds the fragment
// coordinate instead: framebuffer x/y of the pixel center, NDC depth in z and w = 1.
type VertexOutput struct {
	ClipPosition math.Vec4
	Color        math.Vec4
	UV           math.Vec2
	Height       float32 // Zero unless the post-processing hook is enabled
}
