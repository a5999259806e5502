package layout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gravitas-dev/gravitas/pkg/graph"
)

func TestStoreSetPreservesPinned(t *testing.T) {
	s := NewStore()
	s.Pin("a", 10, 20)
	s.Set("a", 30, 40)

	e, ok := s.Get("a")
	if !ok {
		t.Fatal("entry missing")
	}
	if e.X != 30 || e.Y != 40 {
		t.Errorf("position = (%v, %v), want (30, 40)", e.X, e.Y)
	}
	if !e.Pinned {
		t.Error("Set cleared the pinned flag")
	}
}

func TestStoreSetPinned(t *testing.T) {
	s := NewStore()
	s.Set("a", 1, 2)
	s.SetPinned("a", true)

	e, _ := s.Get("a")
	if !e.Pinned || e.X != 1 || e.Y != 2 {
		t.Errorf("entry = %+v, want pinned at (1, 2)", e)
	}

	s.SetPinned("a", false)
	e, _ = s.Get("a")
	if e.Pinned {
		t.Error("unpin failed")
	}
}

func TestStoreApply(t *testing.T) {
	s := NewStore()
	s.Set("stale", 1, 1)
	s.Apply(Result{Positions: []Position{
		{ID: "a", X: 100, Y: 200, VX: 0.5, VY: -0.5},
		{ID: "b", X: 300, Y: 400, Pinned: true},
	}})

	if s.Len() != 3 {
		t.Errorf("len = %d, want 3", s.Len())
	}
	a, _ := s.Get("a")
	if a.X != 100 || a.VX != 0.5 {
		t.Errorf("a = %+v", a)
	}
	b, _ := s.Get("b")
	if !b.Pinned {
		t.Error("pinned flag not applied")
	}
}

func TestStoreInject(t *testing.T) {
	s := NewStore()
	s.Pin("a", 50, 60)

	g := &graph.Graph{Nodes: []graph.Node{{ID: "a"}, {ID: "unknown"}}}
	s.Inject(g)

	if !g.Nodes[0].HasPosition() {
		t.Fatal("stored position not injected")
	}
	x, y := g.Nodes[0].Position()
	if x != 50 || y != 60 {
		t.Errorf("injected (%v, %v), want (50, 60)", x, y)
	}
	if !g.Nodes[0].Pinned {
		t.Error("pinned flag not injected")
	}
	if g.Nodes[1].HasPosition() {
		t.Error("node without a stored entry received a position")
	}
}

func TestStoreJitterBounded(t *testing.T) {
	s := NewStore()
	s.Set("a", 100, 100)
	s.Jitter(rand.New(rand.NewSource(1)), 24)

	e, _ := s.Get("a")
	if math.Abs(e.X-100) > 12 || math.Abs(e.Y-100) > 12 {
		t.Errorf("jitter exceeded half-amount: (%v, %v)", e.X, e.Y)
	}
	if e.X == 100 && e.Y == 100 {
		t.Error("jitter did not move the entry")
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.Set("a", 1, 1)
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("len = %d after clear", s.Len())
	}
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	s := NewStore()
	s.Set("a", 1, 1)
	snap := s.Snapshot()
	snap["a"] = Entry{X: 999}

	e, _ := s.Get("a")
	if e.X != 1 {
		t.Error("mutating a snapshot changed the store")
	}
}
