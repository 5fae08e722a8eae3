// Package camera provides the orthographic pan/zoom camera tile scenes are viewed through.
package camera

import (
	"github.com/Faultbox/tilequad/internal/tilemap"
	"github.com/Faultbox/tilequad/pkg/math"
)

// OrthoCamera looks straight down the depth axis at a point of the tile plane.
type OrthoCamera struct {
	// World point at the center of the viewport
	Center math.Vec2

	// Pixels per world unit
	Zoom    float32
	MinZoom float32
	MaxZoom float32

	// Half extent of the depth axis; render depths in [-DepthRange, DepthRange] are visible
	DepthRange float32

	// Sensitivity
	ZoomSensitivity float32
}

// NewOrthoCamera creates a camera at center with the given zoom and depth range.
func NewOrthoCamera(center math.Vec2, zoom, depthRange float32) *OrthoCamera {
	return &OrthoCamera{
		Center:          center,
		Zoom:            zoom,
		MinZoom:         0.05,
		MaxZoom:         64,
		DepthRange:      depthRange,
		ZoomSensitivity: 0.1,
	}
}

// ViewProjection returns the matrix for a viewport of width x height pixels. The depth
// axis is mirrored so that larger render depth lands farther away in NDC.
func (c *OrthoCamera) ViewProjection(width, height int) math.Mat4 {
	halfW := float32(width) / 2 / c.Zoom
	halfH := float32(height) / 2 / c.Zoom
	proj := math.Ortho(
		c.Center.X-halfW, c.Center.X+halfW,
		c.Center.Y-halfH, c.Center.Y+halfH,
		-c.DepthRange, c.DepthRange,
	)
	return proj.Mul(math.Scale(1, 1, -1))
}

// View returns the view context handed to the vertex and fragment stages.
func (c *OrthoCamera) View(width, height int) tilemap.ViewContext {
	return tilemap.ViewContext{
		ViewProjection: c.ViewProjection(width, height),
		Viewport:       math.Vec2{X: float32(width), Y: float32(height)},
	}
}

// HandleDrag pans by a mouse delta given in window pixels (y down).
func (c *OrthoCamera) HandleDrag(deltaX, deltaY float32) {
	c.Center.X -= deltaX / c.Zoom
	c.Center.Y += deltaY / c.Zoom
}

// HandleZoom scales the zoom by a scroll wheel delta.
func (c *OrthoCamera) HandleZoom(delta float32) {
	c.Zoom += delta * c.Zoom * c.ZoomSensitivity
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
}

// HandleMovement pans in world units scaled by the current zoom, for keyboard input.
func (c *OrthoCamera) HandleMovement(right, up float32) {
	speed := 8 / c.Zoom
	c.Center.X += right * speed
	c.Center.Y += up * speed
}

// FitToBounds centers the camera on a world rectangle and zooms so it fills the viewport.
func (c *OrthoCamera) FitToBounds(minX, minY, maxX, maxY float32, width, height int) {
	c.Center = math.Vec2{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}

	sizeX, sizeY := maxX-minX, maxY-minY
	if sizeX <= 0 || sizeY <= 0 {
		return
	}
	c.Zoom = min(float32(width)/sizeX, float32(height)/sizeY)
	c.Zoom = min(max(c.Zoom, c.MinZoom), c.MaxZoom)
}
