package tilemap

import (
	"github.com/Faultbox/tilequad/pkg/math"
)

// cornerTable holds the unit quad corners in winding order. Entries are scaled by the
// tile size: 0=(0,0) 1=(0,1) 2=(1,1) 3=(1,0).
var cornerTable = [CornersPerTile]math.Vec2{
	{X: 0, Y: 0},
	{X: 0, Y: 1},
	{X: 1, Y: 1},
	{X: 1, Y: 0},
}

// Corner returns the unanchored corner offset for cornerIndex mod 4.
func Corner(cornerIndex uint32, size math.Vec2) math.Vec2 {
	return cornerTable[cornerIndex%CornersPerTile].Mul(size)
}

// BuildCorner returns the model-space position of one quad corner. The anchor point of
// the quad (anchor * size) lands on origin.
func BuildCorner(origin math.Vec2, cornerIndex uint32, size, anchor math.Vec2) math.Vec2 {
	return origin.Add(Corner(cornerIndex, size).Sub(anchor.Mul(size)))
}
