package tilemap

import (
	"testing"

	"github.com/Faultbox/tilequad/pkg/math"
)

func TestCornerTableModulo(t *testing.T) {
	size := math.Vec2{X: 3, Y: 5}
	table := []math.Vec2{
		{X: 0, Y: 0},
		{X: 0, Y: 5},
		{X: 3, Y: 5},
		{X: 3, Y: 0},
	}

	for k := uint32(0); k < 6; k++ {
		for r := uint32(0); r < 4; r++ {
			idx := 4*k + r
			got := Corner(idx, size)
			if got != table[r] {
				t.Errorf("Corner(%d) = %v, want %v", idx, got, table[r])
			}
		}
	}

	// Wraps at the top of the range too.
	if got := Corner(^uint32(0), size); got != table[3] {
		t.Errorf("Corner(max) = %v, want %v", got, table[3])
	}
}

func TestBuildCornerAnchor(t *testing.T) {
	origin := math.Vec2{X: 10, Y: 20}

	tests := []struct {
		name   string
		corner uint32
		size   math.Vec2
		anchor math.Vec2
		want   math.Vec2
	}{
		{"zero anchor corner 0 is origin", 0, math.Vec2{X: 2, Y: 2}, math.Vec2{}, origin},
		{"center anchor corner 0", 0, math.Vec2{X: 2, Y: 2}, math.Vec2{X: 0.5, Y: 0.5}, math.Vec2{X: 9, Y: 19}},
		{"center anchor corner 2", 2, math.Vec2{X: 2, Y: 2}, math.Vec2{X: 0.5, Y: 0.5}, math.Vec2{X: 11, Y: 21}},
		{"bottom-center anchor corner 1", 1, math.Vec2{X: 4, Y: 8}, math.Vec2{X: 0.5, Y: 0}, math.Vec2{X: 8, Y: 28}},
		{"top-right anchor corner 2", 2, math.Vec2{X: 4, Y: 8}, math.Vec2{X: 1, Y: 1}, origin},
		{"zero size collapses", 3, math.Vec2{}, math.Vec2{X: 0.5, Y: 0.5}, origin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildCorner(origin, tt.corner, tt.size, tt.anchor)
			if got != tt.want {
				t.Errorf("BuildCorner() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildCornerRelativeToOriginZero(t *testing.T) {
	got := BuildCorner(math.Vec2{}, 0, math.Vec2{X: 2, Y: 2}, math.Vec2{X: 0.5, Y: 0.5})
	want := math.Vec2{X: -1, Y: -1}
	if got != want {
		t.Errorf("BuildCorner() = %v, want %v", got, want)
	}
}
