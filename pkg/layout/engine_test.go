package layout

import (
	"math"
	"testing"

	"github.com/gravitas-dev/gravitas/pkg/graph"
)

const (
	testWidth  = 1000.0
	testHeight = 600.0
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	return cfg
}

// chain builds n nodes n0..n(k-1) connected in a path.
func chain(n int) *graph.Graph {
	g := &graph.Graph{}
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, graph.Node{ID: nodeID(i)})
	}
	for i := 0; i < n-1; i++ {
		g.Edges = append(g.Edges, graph.Edge{
			ID:       "e" + nodeID(i),
			SourceID: nodeID(i),
			TargetID: nodeID(i + 1),
		})
	}
	return g
}

func nodeID(i int) string {
	return string(rune('a' + i%26))
}

func positionByID(res Result) map[string]Position {
	m := make(map[string]Position, len(res.Positions))
	for _, p := range res.Positions {
		m[p.ID] = p
	}
	return m
}

func TestRunEmptyGraph(t *testing.T) {
	e := New(testConfig(), nil)
	res := e.Run(&graph.Graph{}, testWidth, testHeight)
	if len(res.Positions) != 0 {
		t.Errorf("got %d positions for empty graph", len(res.Positions))
	}
	if res.Stats.NodeCount != 0 || res.Stats.Iterations != 0 {
		t.Errorf("unexpected stats: %+v", res.Stats)
	}
}

func TestRunSingleNode(t *testing.T) {
	e := New(testConfig(), nil)
	g := &graph.Graph{Nodes: []graph.Node{{ID: "solo"}}}
	res := e.Run(g, testWidth, testHeight)

	if len(res.Positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(res.Positions))
	}
	p := res.Positions[0]
	// The recenter pass puts a lone node exactly at the canvas center.
	if math.Abs(p.X-testWidth/2) > 1e-6 || math.Abs(p.Y-testHeight/2) > 1e-6 {
		t.Errorf("solo node at (%v, %v), want canvas center (%v, %v)",
			p.X, p.Y, testWidth/2, testHeight/2)
	}
}

func TestRunBoundedness(t *testing.T) {
	cfg := testConfig()
	e := New(cfg, nil)
	res := e.Run(chain(12), testWidth, testHeight)

	if len(res.Positions) != 12 {
		t.Fatalf("got %d positions, want 12", len(res.Positions))
	}
	for _, p := range res.Positions {
		if p.X < cfg.Padding || p.X > testWidth-cfg.Padding ||
			p.Y < cfg.Padding || p.Y > testHeight-cfg.Padding {
			t.Errorf("node %s at (%v, %v) escaped padded bounds", p.ID, p.X, p.Y)
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Errorf("node %s has NaN position", p.ID)
		}
	}
}

func TestRunSoftNonOverlap(t *testing.T) {
	cfg := testConfig()
	e := New(cfg, nil)
	res := e.Run(chain(8), testWidth, testHeight)

	for i := 0; i < len(res.Positions); i++ {
		for j := i + 1; j < len(res.Positions); j++ {
			a, b := res.Positions[i], res.Positions[j]
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			if d < cfg.MinDistance-1e-6 {
				t.Errorf("nodes %s and %s only %v apart, want >= %v", a.ID, b.ID, d, cfg.MinDistance)
			}
		}
	}
}

func TestRunPinnedInvariance(t *testing.T) {
	e := New(testConfig(), nil)
	g := chain(5)
	g.Nodes[2].SetPosition(333, 222)
	g.Nodes[2].Pinned = true

	res := e.Run(g, testWidth, testHeight)
	p := positionByID(res)[nodeID(2)]
	if p.X != 333 || p.Y != 222 {
		t.Errorf("pinned node moved to (%v, %v), want exactly (333, 222)", p.X, p.Y)
	}
	if !p.Pinned {
		t.Error("pinned flag lost")
	}
}

func TestRunPinnedWithoutHintStaysPut(t *testing.T) {
	// A pinned node with no position hint must not be seeded either.
	e := New(testConfig(), nil)
	g := &graph.Graph{Nodes: []graph.Node{
		{ID: "free"},
		{ID: "anchor", Pinned: true},
	}}
	res := e.Run(g, testWidth, testHeight)
	p := positionByID(res)["anchor"]
	if p.X != 0 || p.Y != 0 {
		t.Errorf("pinned node without hint moved to (%v, %v)", p.X, p.Y)
	}
}

func TestRunPositionHintsPreserved(t *testing.T) {
	e := New(testConfig(), nil)
	g := &graph.Graph{Nodes: []graph.Node{{ID: "hinted"}}}
	g.Nodes[0].SetPosition(200, 150)

	res := e.Run(g, testWidth, testHeight)
	if res.Stats.Seeded != 0 {
		t.Errorf("seeded = %d, want 0 for a hinted node", res.Stats.Seeded)
	}
}

func TestRunEdgeTautening(t *testing.T) {
	cfg := testConfig()

	// Start the connected pair well beyond the spring rest length; the edge
	// must pull them strictly closer than they began.
	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
		Edges: []graph.Edge{{ID: "e", SourceID: "a", TargetID: "b"}},
	}
	g.Nodes[0].SetPosition(100, 300)
	g.Nodes[1].SetPosition(900, 300)
	initial := 800.0

	res := New(cfg, nil).Run(g, testWidth, testHeight)
	m := positionByID(res)
	a, b := m["a"], m["b"]
	final := math.Hypot(a.X-b.X, a.Y-b.Y)

	if final >= initial {
		t.Errorf("connected pair ended %v apart, started %v; edge should pull closer", final, initial)
	}
	if final < cfg.MinDistance {
		t.Errorf("pair ended %v apart, closer than min distance %v", final, cfg.MinDistance)
	}
}

func TestRunDanglingEdge(t *testing.T) {
	e := New(testConfig(), nil)
	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
		Edges: []graph.Edge{
			{ID: "ok", SourceID: "a", TargetID: "b"},
			{ID: "bad", SourceID: "a", TargetID: "missing"},
		},
	}
	res := e.Run(g, testWidth, testHeight)

	if res.Stats.DanglingEdges != 1 {
		t.Errorf("dangling = %d, want 1", res.Stats.DanglingEdges)
	}
	if len(res.Positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(res.Positions))
	}
	for _, p := range res.Positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Errorf("node %s has NaN position", p.ID)
		}
	}
}

func TestRunSelfLoopIgnored(t *testing.T) {
	e := New(testConfig(), nil)
	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
		Edges: []graph.Edge{{ID: "loop", SourceID: "a", TargetID: "a"}},
	}
	res := e.Run(g, testWidth, testHeight)
	for _, p := range res.Positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Errorf("self-loop destabilized node %s", p.ID)
		}
	}
}

func TestRunDegenerateGeometry(t *testing.T) {
	e := New(testConfig(), nil)
	g := &graph.Graph{Nodes: []graph.Node{{ID: "a"}, {ID: "b"}}}
	g.Nodes[0].SetPosition(10, 20)

	res := e.Run(g, 0, testHeight)
	m := positionByID(res)
	if p := m["a"]; p.X != 10 || p.Y != 20 {
		t.Errorf("zero-width canvas modified hinted node: (%v, %v)", p.X, p.Y)
	}
	if res.Stats.Seeded != 0 {
		t.Errorf("seeded = %d on a degenerate canvas, want 0", res.Stats.Seeded)
	}
}

func TestRunDuplicateIDsLastWins(t *testing.T) {
	e := New(testConfig(), nil)
	g := &graph.Graph{Nodes: []graph.Node{{ID: "dup"}, {ID: "dup"}, {ID: "x"}}}
	res := e.Run(g, testWidth, testHeight)

	if len(res.Positions) != 2 {
		t.Errorf("got %d positions, want 2 after duplicate collapse", len(res.Positions))
	}
}

func TestRunDeterministicWithSeed(t *testing.T) {
	cfg := testConfig()
	a := New(cfg, nil).Run(chain(9), testWidth, testHeight)
	b := New(cfg, nil).Run(chain(9), testWidth, testHeight)

	if len(a.Positions) != len(b.Positions) {
		t.Fatalf("position count mismatch: %d vs %d", len(a.Positions), len(b.Positions))
	}
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			t.Errorf("run diverged at %s: %+v vs %+v", a.Positions[i].ID, a.Positions[i], b.Positions[i])
		}
	}
}

func TestRunExcessivePaddingCollapsesToMidline(t *testing.T) {
	cfg := testConfig()
	cfg.Padding = 5000 // exceeds both canvas dimensions
	e := New(cfg, nil)
	res := e.Run(chain(3), testWidth, testHeight)
	for _, p := range res.Positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Errorf("node %s has NaN position under excessive padding", p.ID)
		}
	}
}
