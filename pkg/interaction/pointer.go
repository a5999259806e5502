// Package interaction translates raw pointer events into node clicks and
// drags.
//
// The controller is a small state machine with three states: idle, pressed,
// and dragging. A press on a node enters pressed; movement beyond
// [DragThreshold] promotes it to dragging; release resolves the gesture as a
// click (pressed) or a drag end (dragging). Dragged nodes are written into
// the position store as pinned, so subsequent layout passes leave them where
// the user put them.
package interaction

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravitas-dev/gravitas/pkg/layout"
	"github.com/gravitas-dev/gravitas/pkg/observability"
	"github.com/gravitas-dev/gravitas/pkg/viewport"
)

// DragThreshold is the screen-space distance in pixels a pointer must travel
// from its press point before the gesture counts as a drag rather than a
// click.
const DragThreshold = 2.0

// =============================================================================
// State Machine
// =============================================================================

// state is the tagged union of gesture states. Exactly one variant is active
// at a time; transitions replace the whole value so stale per-gesture fields
// cannot leak between gestures.
type state interface{ isState() }

type idle struct{}

// pressed holds the press point in both coordinate spaces. The world-space
// start comes from the store, not from unprojecting the pointer, so a drag
// moves the node by the pointer delta rather than snapping its center to the
// cursor.
type pressed struct {
	nodeID       string
	startScreenX float64
	startScreenY float64
	startWorldX  float64
	startWorldY  float64
	startedAt    time.Time
	sub          *Subscription
}

type dragging struct {
	pressed
}

func (idle) isState()     {}
func (pressed) isState()  {}
func (dragging) isState() {}

// =============================================================================
// Controller
// =============================================================================

// ListenerSource registers the global move/up listeners needed while a
// gesture is in flight and returns a handle to detach them. Hosts that manage
// their own event loop (the TUI does) can leave it nil.
type ListenerSource func() *Subscription

// Controller owns the pointer gesture state for one canvas. It reads node
// positions from the shared store, interprets pointer deltas through the
// viewport's zoom factor, and writes drag results back as pinned positions.
//
// Controller is not safe for concurrent use; pointer events arrive from a
// single event loop.
type Controller struct {
	store *layout.Store
	view  *viewport.Viewport

	width   float64
	height  float64
	padding float64

	onClick func(nodeID string)
	listen  ListenerSource
	logger  *log.Logger

	st state
}

// NewController creates a Controller over the given store and viewport.
// width/height/padding define the world-space bounds drags are clamped to.
// A nil logger discards output.
func NewController(store *layout.Store, view *viewport.Viewport, width, height, padding float64, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Controller{
		store:   store,
		view:    view,
		width:   width,
		height:  height,
		padding: padding,
		logger:  logger,
		st:      idle{},
	}
}

// OnNodeClick registers the callback invoked when a gesture resolves as a
// click. Only one callback is held; later registrations replace earlier ones.
func (c *Controller) OnNodeClick(fn func(nodeID string)) { c.onClick = fn }

// SetListenerSource registers the global listener hook used while a gesture
// is in flight.
func (c *Controller) SetListenerSource(fn ListenerSource) { c.listen = fn }

// SetBounds updates the world-space bounds drags are clamped to, for example
// after a container resize.
func (c *Controller) SetBounds(width, height float64) {
	c.width, c.height = width, height
}

// Dragging reports whether a drag is currently in flight.
func (c *Controller) Dragging() bool {
	_, ok := c.st.(dragging)
	return ok
}

// Active reports whether any gesture (pressed or dragging) is in flight.
func (c *Controller) Active() bool {
	_, ok := c.st.(idle)
	return !ok
}

// =============================================================================
// Pointer Events
// =============================================================================

// PointerDown begins a gesture on the given node. The press is ignored when a
// gesture is already in flight or the node has no stored position.
func (c *Controller) PointerDown(nodeID string, screenX, screenY float64) {
	if _, ok := c.st.(idle); !ok {
		return
	}
	entry, ok := c.store.Get(nodeID)
	if !ok {
		c.logger.Debug("pointer down on node with no stored position, ignoring", "node", nodeID)
		return
	}

	var sub *Subscription
	if c.listen != nil {
		sub = c.listen()
	}
	c.st = pressed{
		nodeID:       nodeID,
		startScreenX: screenX,
		startScreenY: screenY,
		startWorldX:  entry.X,
		startWorldY:  entry.Y,
		startedAt:    time.Now(),
		sub:          sub,
	}
}

// PointerMove advances an in-flight gesture. In pressed state it promotes to
// dragging once the pointer travels DragThreshold pixels; in dragging state
// it moves the node so it tracks the pointer at the current zoom level.
func (c *Controller) PointerMove(screenX, screenY float64) {
	switch s := c.st.(type) {
	case pressed:
		if math.Hypot(screenX-s.startScreenX, screenY-s.startScreenY) < DragThreshold {
			return
		}
		c.st = dragging{pressed: s}
		observability.Interaction().OnDragStart(s.nodeID)
		c.moveTo(s, screenX, screenY)
	case dragging:
		c.moveTo(s.pressed, screenX, screenY)
	}
}

// moveTo places the gesture's node at its world-space start plus the pointer
// delta divided by zoom, clamped to the padded canvas bounds. Dividing by
// zoom keeps the node under the pointer: at zoom 2, a 10px pointer move is a
// 5 world-unit node move.
func (c *Controller) moveTo(s pressed, screenX, screenY float64) {
	z := c.view.Zoom()
	x := s.startWorldX + (screenX-s.startScreenX)/z
	y := s.startWorldY + (screenY-s.startScreenY)/z
	x = clamp(x, c.padding, c.width-c.padding)
	y = clamp(y, c.padding, c.height-c.padding)
	c.store.Pin(s.nodeID, x, y)
}

// PointerUp ends the gesture. A release in pressed state is a click; a
// release in dragging state finalizes the node's position and leaves it
// pinned.
func (c *Controller) PointerUp(screenX, screenY float64) {
	switch s := c.st.(type) {
	case pressed:
		s.sub.Dispose()
		c.st = idle{}
		observability.Interaction().OnNodeClick(s.nodeID)
		if c.onClick != nil {
			c.onClick(s.nodeID)
		}
	case dragging:
		c.moveTo(s.pressed, screenX, screenY)
		s.sub.Dispose()
		c.st = idle{}
		observability.Interaction().OnDragEnd(s.nodeID, time.Since(s.startedAt))
	}
}

// PointerLeave handles the pointer leaving the node's region. A press that
// never became a drag is abandoned without a click. An in-flight drag is
// unaffected: the global listeners keep the gesture tracking until pointer
// up, so dragging fast enough to exit the node's bounds does not drop it.
func (c *Controller) PointerLeave() {
	if s, ok := c.st.(pressed); ok {
		s.sub.Dispose()
		c.st = idle{}
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
