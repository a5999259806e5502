package layout

import (
	"math/rand"

	"github.com/gravitas-dev/gravitas/pkg/graph"
)

// =============================================================================
// Store - Caller-Held Position Map
// =============================================================================

// Entry is one node's stored position state.
type Entry struct {
	X, Y   float64
	VX, VY float64
	Pinned bool
}

// Store is the per-node position map shared between the layout engine, the
// renderers, and the interaction layer. The engine's results are applied to
// it; interactive drags write pinned positions into it directly.
//
// Store is not safe for concurrent use. The whole interaction flow is
// single-threaded and event-loop driven.
type Store struct {
	entries map[string]Entry
}

// NewStore creates an empty position store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Get returns the stored entry for a node id.
func (s *Store) Get(id string) (Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Set writes a position, preserving the node's pinned flag.
func (s *Store) Set(id string, x, y float64) {
	e := s.entries[id]
	e.X, e.Y = x, y
	s.entries[id] = e
}

// Pin writes a position and marks the node pinned against simulation forces.
func (s *Store) Pin(id string, x, y float64) {
	s.entries[id] = Entry{X: x, Y: y, Pinned: true}
}

// SetPinned toggles a node's pinned flag without touching its position.
func (s *Store) SetPinned(id string, pinned bool) {
	e := s.entries[id]
	e.Pinned = pinned
	s.entries[id] = e
}

// Apply copies an engine result into the store, replacing prior state for the
// nodes it covers.
func (s *Store) Apply(res Result) {
	for _, p := range res.Positions {
		s.entries[p.ID] = Entry{X: p.X, Y: p.Y, VX: p.VX, VY: p.VY, Pinned: p.Pinned}
	}
}

// Inject writes stored positions onto graph nodes as hints, so the next
// engine run starts from the current on-screen placement.
func (s *Store) Inject(g *graph.Graph) {
	for i := range g.Nodes {
		if e, ok := s.entries[g.Nodes[i].ID]; ok {
			g.Nodes[i].SetPosition(e.X, e.Y)
			g.Nodes[i].Pinned = e.Pinned
		}
	}
}

// Jitter perturbs every stored position by a uniform random offset in
// [-amount/2, amount/2] on each axis. Used by manual refresh to break out of
// stable but degenerate configurations.
func (s *Store) Jitter(rng *rand.Rand, amount float64) {
	for id, e := range s.entries {
		e.X += (rng.Float64() - 0.5) * amount
		e.Y += (rng.Float64() - 0.5) * amount
		s.entries[id] = e
	}
}

// Len returns the number of stored entries.
func (s *Store) Len() int { return len(s.entries) }

// Clear discards all stored positions.
func (s *Store) Clear() {
	s.entries = make(map[string]Entry)
}

// Snapshot returns a copy of the store's contents.
func (s *Store) Snapshot() map[string]Entry {
	out := make(map[string]Entry, len(s.entries))
	for id, e := range s.entries {
		out[id] = e
	}
	return out
}
