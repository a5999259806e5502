package layout

import (
	"github.com/gravitas-dev/gravitas/pkg/graph"
)

// =============================================================================
// Arena - Simulation State
// =============================================================================

// record is one node's simulation state inside the arena.
type record struct {
	id     string
	x, y   float64
	vx, vy float64
	pinned bool
	seeded bool // position came from the input rather than the seeder
}

// arena is a contiguous array of position/velocity records with an id→index
// map. The engine mutates only arena records during simulation, never the
// caller's node structs, so no aliasing references escape a run.
type arena struct {
	recs  []record
	index map[string]int
}

// newArena builds an arena from the graph's nodes. Duplicate ids collapse to
// a single record; the last node wins, matching iteration order.
func newArena(nodes []graph.Node) *arena {
	a := &arena{
		recs:  make([]record, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}
	for _, n := range nodes {
		r := record{id: n.ID, pinned: n.Pinned}
		if n.HasPosition() {
			r.x, r.y = n.Position()
			r.seeded = true
		}
		if i, ok := a.index[n.ID]; ok {
			a.recs[i] = r
			continue
		}
		a.index[n.ID] = len(a.recs)
		a.recs = append(a.recs, r)
	}
	return a
}

// len returns the number of records.
func (a *arena) len() int { return len(a.recs) }

// lookup returns the record index for a node id.
func (a *arena) lookup(id string) (int, bool) {
	i, ok := a.index[id]
	return i, ok
}

// positions copies the arena state out as engine results.
func (a *arena) positions() []Position {
	out := make([]Position, len(a.recs))
	for i, r := range a.recs {
		out[i] = Position{ID: r.id, X: r.x, Y: r.y, VX: r.vx, VY: r.vy, Pinned: r.pinned}
	}
	return out
}

// edgePair is a resolved edge as a pair of arena indices.
type edgePair struct {
	a, b int
}

// resolveEdges maps edges onto arena indices, dropping dangling edges and
// self-loops (which contribute no attractive force either way).
func (a *arena) resolveEdges(edges []graph.Edge) (pairs []edgePair, dangling int) {
	for _, e := range edges {
		i, iok := a.lookup(e.SourceID)
		j, jok := a.lookup(e.TargetID)
		if !iok || !jok {
			dangling++
			continue
		}
		if i == j {
			continue
		}
		pairs = append(pairs, edgePair{a: i, b: j})
	}
	return pairs, dangling
}
