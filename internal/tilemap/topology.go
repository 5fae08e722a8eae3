package tilemap

import (
	"github.com/Faultbox/tilequad/pkg/math"
)

// Topology names accepted by configuration files.
const (
	TopologySquare     = "square"
	TopologyIsoDiamond = "iso_diamond"
)

// Topology maps a grid cell to the model-space origin of its quad.
//
// Implementations read only the grid coordinate and their own lattice geometry.
// A Pipeline takes the topology as a type parameter, so the choice is fixed when the
// pipeline is built.
type Topology interface {
	Name() string
	MeshOrigin(in TileVertexInput) math.Vec2
}

// Square is an axis-aligned grid. SlotSize is the lattice pitch in world units.
type Square struct {
	SlotSize math.Vec2
}

// Name implements Topology.
func (Square) Name() string { return TopologySquare }

// MeshOrigin implements Topology.
func (s Square) MeshOrigin(in TileVertexInput) math.Vec2 {
	return in.GridPosition.Mul(s.SlotSize)
}

// IsoDiamond is an isometric grid: cell axes rotated 45° and scaled by half the slot
// extents, giving the diamond lattice.
type IsoDiamond struct {
	SlotSize math.Vec2
}

// Name implements Topology.
func (IsoDiamond) Name() string { return TopologyIsoDiamond }

// MeshOrigin implements Topology.
func (d IsoDiamond) MeshOrigin(in TileVertexInput) math.Vec2 {
	g := in.GridPosition
	return math.Vec2{X: g.X - g.Y, Y: g.X + g.Y}.Mul(d.SlotSize.Scale(0.5))
}
