package tilemap

import (
	"testing"

	"github.com/Faultbox/tilequad/pkg/math"
)

func origin[T Topology](topo T, x, y float32) math.Vec2 {
	return topo.MeshOrigin(TileVertexInput{GridPosition: math.Vec2{X: x, Y: y}})
}

func TestSquareLinear(t *testing.T) {
	topo := Square{SlotSize: math.Vec2{X: 16, Y: 24}}
	pairs := [][4]float32{
		{1, 2, 3, 4},
		{-5, 0, 7, -2},
		{0.5, 0.25, 10, 11},
	}

	zero := origin(topo, 0, 0)
	for _, pr := range pairs {
		sum := origin(topo, pr[0]+pr[2], pr[1]+pr[3])
		want := origin(topo, pr[0], pr[1]).Add(origin(topo, pr[2], pr[3])).Sub(zero)
		if sum != want {
			t.Errorf("Square origin(a+b) = %v, want %v", sum, want)
		}
	}
}

func TestSquareCellGranularity(t *testing.T) {
	topo := Square{SlotSize: math.Vec2{X: 32, Y: 32}}
	got := origin(topo, 3, 2)
	want := math.Vec2{X: 96, Y: 64}
	if got != want {
		t.Errorf("Square origin(3,2) = %v, want %v", got, want)
	}
}

func TestIsoDiamondMirror(t *testing.T) {
	topo := IsoDiamond{SlotSize: math.Vec2{X: 64, Y: 32}}
	a := origin(topo, 1, 0)
	b := origin(topo, 0, 1)

	if a.X != -b.X || a.Y != b.Y {
		t.Errorf("IsoDiamond origins (1,0)=%v and (0,1)=%v are not mirrored across x=0", a, b)
	}
	if want := (math.Vec2{X: 32, Y: 16}); a != want {
		t.Errorf("IsoDiamond origin(1,0) = %v, want %v", a, want)
	}
}

func TestIsoDiamondLattice(t *testing.T) {
	topo := IsoDiamond{SlotSize: math.Vec2{X: 2, Y: 2}}

	// (1,1) stacks straight up from (0,0).
	if got, want := origin(topo, 1, 1), (math.Vec2{X: 0, Y: 2}); got != want {
		t.Errorf("IsoDiamond origin(1,1) = %v, want %v", got, want)
	}
	if got := origin(topo, 0, 0); got != (math.Vec2{}) {
		t.Errorf("IsoDiamond origin(0,0) = %v, want zero", got)
	}
}

func TestParseTopology(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"square", TopologySquare, false},
		{"", TopologySquare, false},
		{"iso_diamond", TopologyIsoDiamond, false},
		{"isometric", TopologyIsoDiamond, false},
		{"hexagon", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTopology(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTopology(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTopology(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
