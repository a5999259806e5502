package layout

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gravitas-dev/gravitas/pkg/graph"
)

// DefaultDebounce is how long layout invocation is deferred after a topology
// change. Width and height come from layout-affecting external geometry, so a
// short delay lets the hosting container's dimensions settle first.
const DefaultDebounce = 120 * time.Millisecond

// refreshJitter is the magnitude of the random perturbation applied by
// Refresh before re-running the engine.
const refreshJitter = 24.0

// =============================================================================
// Trigger
// =============================================================================

// Trigger decides when to invoke the layout engine. It tracks whether a
// layout has been applied to the current topology and defers invocation
// briefly while container dimensions settle.
type Trigger struct {
	store *Store

	applied   bool
	lastCount int
	lastIDs   map[string]bool

	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewTrigger creates a Trigger over the given store.
// A non-positive debounce falls back to DefaultDebounce.
func NewTrigger(store *Store, debounce time.Duration) *Trigger {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Trigger{store: store, debounce: debounce}
}

// NeedsLayout reports whether a layout pass is required: no layout has been
// applied yet, the node count changed, or any node is missing a stored
// position.
func (t *Trigger) NeedsLayout(g *graph.Graph) bool {
	if !t.applied || t.lastCount != g.NodeCount() {
		return true
	}
	for _, n := range g.Nodes {
		if _, ok := t.store.Get(n.ID); !ok {
			return true
		}
	}
	return false
}

// SyncTopology observes a freshly supplied node set. When the id set has been
// substituted wholesale, cached positions are meaningless: the trigger resets
// its applied state and clears the store, forcing a full re-seed. Overlapping
// id sets keep their positions so the next run preserves placement.
func (t *Trigger) SyncTopology(g *graph.Graph) {
	ids := g.IDs()
	if t.lastIDs != nil && disjoint(t.lastIDs, ids) {
		t.applied = false
		t.store.Clear()
	}
	t.lastIDs = ids
}

// MarkApplied records that the current topology has a layout.
func (t *Trigger) MarkApplied(g *graph.Graph) {
	t.applied = true
	t.lastCount = g.NodeCount()
	t.lastIDs = g.IDs()
}

// Refresh perturbs every stored position by a small random offset and resets
// the applied flag, so the next pass re-runs from the jittered state. This is
// the escape hatch for stable but undesirable configurations, such as all
// nodes collinear.
func (t *Trigger) Refresh(rng *rand.Rand) {
	t.store.Jitter(rng, refreshJitter)
	t.applied = false
}

// Schedule runs fn after the debounce interval, replacing any previously
// scheduled invocation. Back-to-back topology changes therefore produce a
// single layout pass.
func (t *Trigger) Schedule(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.debounce, fn)
}

// Stop cancels any pending scheduled invocation.
func (t *Trigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// disjoint reports whether two id sets share no members.
func disjoint(a, b map[string]bool) bool {
	for id := range b {
		if a[id] {
			return false
		}
	}
	return len(b) > 0 || len(a) > 0
}
