package layout

import (
	"math/rand"
	"testing"
	"time"

	"github.com/gravitas-dev/gravitas/pkg/graph"
)

func nodeSet(ids ...string) *graph.Graph {
	g := &graph.Graph{}
	for _, id := range ids {
		g.Nodes = append(g.Nodes, graph.Node{ID: id})
	}
	return g
}

// applyAll stores a position for every node so NeedsLayout's missing-position
// check passes.
func applyAll(s *Store, g *graph.Graph) {
	for i, n := range g.Nodes {
		s.Set(n.ID, float64(i)*100, 50)
	}
}

func TestNeedsLayoutInitially(t *testing.T) {
	tr := NewTrigger(NewStore(), 0)
	if !tr.NeedsLayout(nodeSet("a")) {
		t.Error("fresh trigger should need layout")
	}
}

func TestNeedsLayoutAfterApplied(t *testing.T) {
	s := NewStore()
	tr := NewTrigger(s, 0)
	g := nodeSet("a", "b")
	applyAll(s, g)
	tr.MarkApplied(g)

	if tr.NeedsLayout(g) {
		t.Error("applied topology should not need layout")
	}
}

func TestNeedsLayoutOnCountChange(t *testing.T) {
	s := NewStore()
	tr := NewTrigger(s, 0)
	g := nodeSet("a", "b")
	applyAll(s, g)
	tr.MarkApplied(g)

	grown := nodeSet("a", "b", "c")
	if !tr.NeedsLayout(grown) {
		t.Error("node count change should need layout")
	}
}

func TestNeedsLayoutOnMissingPosition(t *testing.T) {
	s := NewStore()
	tr := NewTrigger(s, 0)
	g := nodeSet("a", "b")
	applyAll(s, g)
	tr.MarkApplied(g)

	// Same count, different membership: "c" has no stored position.
	swapped := nodeSet("a", "c")
	if !tr.NeedsLayout(swapped) {
		t.Error("node missing a stored position should need layout")
	}
}

func TestSyncTopologyDisjointClearsStore(t *testing.T) {
	s := NewStore()
	tr := NewTrigger(s, 0)
	g := nodeSet("a", "b")
	applyAll(s, g)
	tr.MarkApplied(g)
	tr.SyncTopology(g)

	replacement := nodeSet("x", "y")
	tr.SyncTopology(replacement)

	if s.Len() != 0 {
		t.Errorf("store len = %d after wholesale replacement, want 0", s.Len())
	}
	if !tr.NeedsLayout(replacement) {
		t.Error("wholesale replacement should need layout")
	}
}

func TestSyncTopologyOverlapKeepsPositions(t *testing.T) {
	s := NewStore()
	tr := NewTrigger(s, 0)
	g := nodeSet("a", "b")
	applyAll(s, g)
	tr.MarkApplied(g)
	tr.SyncTopology(g)

	overlapping := nodeSet("b", "c")
	tr.SyncTopology(overlapping)

	if _, ok := s.Get("b"); !ok {
		t.Error("overlapping id set lost its cached positions")
	}
}

func TestRefreshResetsApplied(t *testing.T) {
	s := NewStore()
	tr := NewTrigger(s, 0)
	g := nodeSet("a")
	applyAll(s, g)
	tr.MarkApplied(g)

	before, _ := s.Get("a")
	tr.Refresh(rand.New(rand.NewSource(7)))

	if !tr.NeedsLayout(g) {
		t.Error("refresh should make layout needed again")
	}
	after, _ := s.Get("a")
	if before == after {
		t.Error("refresh did not perturb stored positions")
	}
}

func TestScheduleDebounces(t *testing.T) {
	tr := NewTrigger(NewStore(), 10*time.Millisecond)
	fired := make(chan struct{}, 2)

	tr.Schedule(func() { fired <- struct{}{} })
	tr.Schedule(func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("scheduled function never ran")
	}
	select {
	case <-fired:
		t.Error("both scheduled functions ran; the first should be replaced")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStopCancelsPending(t *testing.T) {
	tr := NewTrigger(NewStore(), 10*time.Millisecond)
	fired := make(chan struct{}, 1)

	tr.Schedule(func() { fired <- struct{}{} })
	tr.Stop()

	select {
	case <-fired:
		t.Error("stopped trigger still fired")
	case <-time.After(50 * time.Millisecond):
	}
}
