// Package viewport owns the zoom/pan transform mapping world coordinates to
// screen coordinates.
//
// The viewport is the single authority for interpreting pointer positions:
// rendering applies [Viewport.ToScreen] and pointer handling applies
// [Viewport.ToWorld], so the two can never disagree about where a node is.
package viewport

// Zoom limits and step sizes.
const (
	MinZoom = 0.5
	MaxZoom = 3.0

	// ZoomStep is the increment applied by the zoom in/out buttons.
	ZoomStep = 0.2

	// WheelStep is the increment applied per wheel event.
	WheelStep = 0.1
)

// Viewport holds the zoom factor and pan offset for one canvas.
// The zero value is not useful; use New.
type Viewport struct {
	zoom float64
	panX float64
	panY float64
}

// New returns a viewport at zoom 1 with no pan offset.
func New() *Viewport {
	return &Viewport{zoom: 1}
}

// Zoom returns the current zoom factor, always within [MinZoom, MaxZoom].
func (v *Viewport) Zoom() float64 { return v.zoom }

// Pan returns the current pan offset in world units.
func (v *Viewport) Pan() (dx, dy float64) { return v.panX, v.panY }

// ZoomIn increases zoom by one step, clamped to MaxZoom.
func (v *Viewport) ZoomIn() { v.setZoom(v.zoom + ZoomStep) }

// ZoomOut decreases zoom by one step, clamped to MinZoom.
func (v *Viewport) ZoomOut() { v.setZoom(v.zoom - ZoomStep) }

// Wheel applies one wheel event. Scrolling up (negative deltaY) zooms in,
// scrolling down zooms out, one WheelStep per event.
func (v *Viewport) Wheel(deltaY float64) {
	switch {
	case deltaY < 0:
		v.setZoom(v.zoom + WheelStep)
	case deltaY > 0:
		v.setZoom(v.zoom - WheelStep)
	}
}

// SetPan replaces the pan offset.
func (v *Viewport) SetPan(dx, dy float64) {
	v.panX, v.panY = dx, dy
}

// PanBy shifts the pan offset.
func (v *Viewport) PanBy(dx, dy float64) {
	v.panX += dx
	v.panY += dy
}

// Reset restores zoom 1 and a zero pan offset.
func (v *Viewport) Reset() {
	v.zoom = 1
	v.panX, v.panY = 0, 0
}

// ToWorld converts a screen-space point to world coordinates.
// originX/originY is the canvas origin in screen space (the container's
// top-left corner).
func (v *Viewport) ToWorld(screenX, screenY, originX, originY float64) (worldX, worldY float64) {
	worldX = (screenX-originX)/v.zoom - v.panX
	worldY = (screenY-originY)/v.zoom - v.panY
	return worldX, worldY
}

// ToScreen converts a world-space point to screen coordinates. It is the
// exact inverse of ToWorld at the current zoom and pan.
func (v *Viewport) ToScreen(worldX, worldY, originX, originY float64) (screenX, screenY float64) {
	screenX = (worldX+v.panX)*v.zoom + originX
	screenY = (worldY+v.panY)*v.zoom + originY
	return screenX, screenY
}

func (v *Viewport) setZoom(z float64) {
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	v.zoom = z
}
