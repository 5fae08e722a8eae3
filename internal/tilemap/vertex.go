package tilemap

import (
	"github.com/Faultbox/tilequad/pkg/math"
)

// ModelPosition returns the model-space corner position of in and its render depth.
// The depth is the mesh origin's Y, shared by all four corners of the quad, so quads
// further up the grid sort behind those below them.
func (p *Pipeline[T]) ModelPosition(in TileVertexInput) (math.Vec2, float32) {
	origin := p.topology.MeshOrigin(in)
	return BuildCorner(origin, in.CornerIndex, p.size(&in), p.config.Anchor), origin.Y
}

// NormalizeUV maps an atlas texel coordinate into [0,1]² and applies the configured flips.
func (p *Pipeline[T]) NormalizeUV(uvCell math.Vec2) math.Vec2 {
	return p.flip(uvCell.Div(p.config.TextureSize))
}

// TransformVertex runs the vertex stage for one vertex.
func (p *Pipeline[T]) TransformVertex(in TileVertexInput, view ViewContext) VertexOutput {
	model, depth := p.ModelPosition(in)
	world := p.config.Translation.Add(model)

	return VertexOutput{
		ClipPosition: view.ViewProjection.MulVec4(math.Vec4{world.X, world.Y, depth, 1}),
		Color:        in.Color,
		UV:           p.NormalizeUV(in.UVCell),
		Height:       p.height(&in),
	}
}
