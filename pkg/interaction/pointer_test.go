package interaction

import (
	"math"
	"testing"

	"github.com/gravitas-dev/gravitas/pkg/layout"
	"github.com/gravitas-dev/gravitas/pkg/viewport"
)

func newTestController() (*Controller, *layout.Store, *viewport.Viewport) {
	store := layout.NewStore()
	store.Set("a", 100, 100)
	store.Set("b", 300, 200)
	view := viewport.New()
	c := NewController(store, view, 1000, 600, 40, nil)
	return c, store, view
}

func TestClickUnderThreshold(t *testing.T) {
	c, store, _ := newTestController()

	var clicked string
	c.OnNodeClick(func(id string) { clicked = id })

	c.PointerDown("a", 50, 50)
	c.PointerMove(51, 51) // under 2px
	c.PointerUp(51, 51)

	if clicked != "a" {
		t.Errorf("clicked = %q, want %q", clicked, "a")
	}
	if c.Active() {
		t.Error("controller still active after release")
	}
	e, _ := store.Get("a")
	if e.X != 100 || e.Y != 100 {
		t.Errorf("click moved node to (%v, %v)", e.X, e.Y)
	}
	if e.Pinned {
		t.Error("click pinned the node")
	}
}

func TestDragOverThreshold(t *testing.T) {
	c, store, _ := newTestController()

	var clicked bool
	c.OnNodeClick(func(string) { clicked = true })

	c.PointerDown("a", 50, 50)
	c.PointerMove(80, 70)
	c.PointerUp(80, 70)

	if clicked {
		t.Error("drag emitted a click")
	}
	e, ok := store.Get("a")
	if !ok {
		t.Fatal("node missing from store")
	}
	// Pointer delta (30, 20) at zoom 1 moves the node by the same amount.
	if e.X != 130 || e.Y != 120 {
		t.Errorf("node at (%v, %v), want (130, 120)", e.X, e.Y)
	}
	if !e.Pinned {
		t.Error("dragged node not pinned")
	}
}

func TestDragScalesWithZoom(t *testing.T) {
	c, store, view := newTestController()
	view.ZoomIn() // 1.2

	c.PointerDown("a", 0, 0)
	c.PointerMove(60, 0)
	c.PointerUp(60, 0)

	e, _ := store.Get("a")
	want := 100 + 60/1.2
	if math.Abs(e.X-want) > 1e-9 {
		t.Errorf("x = %v, want %v", e.X, want)
	}
	if e.Y != 100 {
		t.Errorf("y = %v, want 100", e.Y)
	}
}

func TestDragClampedToBounds(t *testing.T) {
	c, store, _ := newTestController()

	c.PointerDown("a", 0, 0)
	c.PointerMove(-5000, 9000)
	c.PointerUp(-5000, 9000)

	e, _ := store.Get("a")
	if e.X != 40 {
		t.Errorf("x = %v, want clamped to padding 40", e.X)
	}
	if e.Y != 560 {
		t.Errorf("y = %v, want clamped to height-padding 560", e.Y)
	}
}

func TestDragIntermediateMovesTrackPointer(t *testing.T) {
	c, store, _ := newTestController()

	c.PointerDown("b", 100, 100)
	c.PointerMove(110, 100)
	e, _ := store.Get("b")
	if e.X != 310 {
		t.Errorf("mid-drag x = %v, want 310", e.X)
	}
	if !c.Dragging() {
		t.Error("controller not in dragging state mid-drag")
	}
	c.PointerMove(120, 105)
	c.PointerUp(120, 105)
	e, _ = store.Get("b")
	if e.X != 320 || e.Y != 205 {
		t.Errorf("final = (%v, %v), want (320, 205)", e.X, e.Y)
	}
}

func TestPointerDownOnUnknownNodeIgnored(t *testing.T) {
	c, _, _ := newTestController()
	c.PointerDown("ghost", 10, 10)
	if c.Active() {
		t.Error("gesture started for node with no stored position")
	}
}

func TestPointerDownDuringGestureIgnored(t *testing.T) {
	c, store, _ := newTestController()

	c.PointerDown("a", 0, 0)
	c.PointerDown("b", 500, 500) // ignored
	c.PointerMove(10, 0)
	c.PointerUp(10, 0)

	e, _ := store.Get("a")
	if e.X != 110 {
		t.Errorf("a.x = %v, want 110", e.X)
	}
	e, _ = store.Get("b")
	if e.X != 300 || e.Pinned {
		t.Errorf("b was affected by ignored press: (%v, pinned=%v)", e.X, e.Pinned)
	}
}

func TestPointerLeaveAbortsWithoutClick(t *testing.T) {
	c, _, _ := newTestController()

	var clicked bool
	c.OnNodeClick(func(string) { clicked = true })

	c.PointerDown("a", 0, 0)
	c.PointerLeave()

	if clicked {
		t.Error("leave emitted a click")
	}
	if c.Active() {
		t.Error("controller still active after leave")
	}
}

func TestLeaveDuringDragKeepsTracking(t *testing.T) {
	c, store, _ := newTestController()

	c.PointerDown("a", 0, 0)
	c.PointerMove(30, 0)
	if !c.Dragging() {
		t.Fatal("not dragging after move over threshold")
	}

	// Dragging fast enough to exit the node's bounds fires a leave event;
	// the drag must survive it and keep following the pointer.
	c.PointerLeave()
	if !c.Dragging() {
		t.Fatal("leave aborted an in-flight drag")
	}

	c.PointerMove(60, 0)
	c.PointerUp(60, 0)

	e, _ := store.Get("a")
	if e.X != 160 {
		t.Errorf("x = %v, want 160 (pointer tracked past the leave point)", e.X)
	}
	if !e.Pinned {
		t.Error("dragged node lost the pin")
	}
	if c.Active() {
		t.Error("controller still active after release")
	}
}

func TestSubscriptionDisposedOnGestureEnd(t *testing.T) {
	c, _, _ := newTestController()

	disposed := 0
	c.SetListenerSource(func() *Subscription {
		return NewSubscription(func() { disposed++ })
	})

	// Click path.
	c.PointerDown("a", 0, 0)
	c.PointerUp(0, 0)
	if disposed != 1 {
		t.Errorf("disposed = %d after click, want 1", disposed)
	}

	// Drag path.
	c.PointerDown("a", 0, 0)
	c.PointerMove(20, 20)
	c.PointerUp(20, 20)
	if disposed != 2 {
		t.Errorf("disposed = %d after drag, want 2", disposed)
	}

	// Leave before the drag threshold abandons the press.
	c.PointerDown("a", 0, 0)
	c.PointerLeave()
	if disposed != 3 {
		t.Errorf("disposed = %d after leave, want 3", disposed)
	}

	// Leave mid-drag keeps the listeners attached until pointer up.
	c.PointerDown("a", 0, 0)
	c.PointerMove(20, 20)
	c.PointerLeave()
	if disposed != 3 {
		t.Errorf("disposed = %d after leave mid-drag, want 3 (listeners stay attached)", disposed)
	}
	c.PointerUp(20, 20)
	if disposed != 4 {
		t.Errorf("disposed = %d after release, want 4", disposed)
	}
}

func TestSubscriptionDisposeIdempotent(t *testing.T) {
	n := 0
	sub := NewSubscription(func() { n++ })
	sub.Dispose()
	sub.Dispose()
	if n != 1 {
		t.Errorf("detach ran %d times, want 1", n)
	}

	var nilSub *Subscription
	nilSub.Dispose() // must not panic
	NewSubscription(nil).Dispose()
}

func TestMoveWithoutGestureIsNoop(t *testing.T) {
	c, store, _ := newTestController()
	c.PointerMove(500, 500)
	c.PointerUp(500, 500)
	e, _ := store.Get("a")
	if e.X != 100 || e.Y != 100 {
		t.Errorf("node moved without a gesture: (%v, %v)", e.X, e.Y)
	}
}
