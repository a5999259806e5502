package layout

import (
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravitas-dev/gravitas/pkg/graph"
	"github.com/gravitas-dev/gravitas/pkg/observability"
)

// collisionBoost scales the inverse-square repulsion applied to pairs closer
// than MinDistance.
const collisionBoost = 3.0

// separationRounds bounds the overlap-resolution post-pass. One round is
// usually enough; dense clusters near the canvas edge can need a few more
// because clamping re-introduces overlap.
const separationRounds = 6

// maxStepFraction caps per-step displacement at this fraction of the smaller
// canvas dimension, which keeps early high-energy steps from flinging nodes
// across the frame.
const maxStepFraction = 0.1

// =============================================================================
// Engine
// =============================================================================

// Engine computes 2D positions for a node/edge set via iterative physics
// simulation. It is a pure computation: no I/O, no event awareness. One
// Engine is safe to reuse across runs from a single goroutine.
type Engine struct {
	cfg    Config
	logger *log.Logger
	rng    *rand.Rand
}

// New creates an Engine with the given configuration.
// A nil logger discards output.
func New(cfg Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Engine{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(int64(seed))),
	}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Position is one node's computed position. VX/VY are transient simulation
// state that callers may discard.
type Position struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx,omitempty"`
	VY     float64 `json:"vy,omitempty"`
	Pinned bool    `json:"pinned,omitempty"`
}

// Stats describes what happened during a run.
type Stats struct {
	Iterations    int           `json:"iterations"`
	NodeCount     int           `json:"node_count"`
	EdgeCount     int           `json:"edge_count"`
	DanglingEdges int           `json:"dangling_edges,omitempty"`
	InvalidTerms  int           `json:"invalid_terms,omitempty"`
	Seeded        int           `json:"seeded,omitempty"`
	Duration      time.Duration `json:"-"`
}

// Result is the output of one layout pass.
type Result struct {
	Positions []Position `json:"positions"`
	Stats     Stats      `json:"stats"`
}

// Run executes one full layout pass and returns final positions for every
// node. Position hints on the input nodes are used as simulation starting
// points; nodes without a finite position are seeded onto a jittered grid.
// Pinned nodes are never moved.
//
// Run never fails: degenerate geometry returns the input unmodified and
// numeric instability degrades to zero-force terms (counted in Stats and
// logged once per run).
func (e *Engine) Run(g *graph.Graph, width, height float64) Result {
	start := time.Now()
	observability.Layout().OnLayoutStart(len(g.Nodes))

	res := e.run(g, width, height)
	res.Stats.Duration = time.Since(start)

	if res.Stats.InvalidTerms > 0 {
		e.logger.Warn("numeric instability during layout, affected terms contributed zero force",
			"terms", res.Stats.InvalidTerms)
	}
	if res.Stats.DanglingEdges > 0 {
		e.logger.Debug("dropped dangling edges from force computation",
			"count", res.Stats.DanglingEdges)
	}
	observability.Layout().OnLayoutComplete(len(g.Nodes), res.Stats.Duration)
	return res
}

func (e *Engine) run(g *graph.Graph, width, height float64) Result {
	if len(g.Nodes) == 0 {
		return Result{Positions: []Position{}}
	}

	a := newArena(g.Nodes)
	st := Stats{NodeCount: a.len(), EdgeCount: len(g.Edges)}

	if width <= 0 || height <= 0 {
		// Zero-area canvas: short-circuit rather than divide by zero.
		e.logger.Warn("degenerate canvas geometry, returning nodes unmodified",
			"width", width, "height", height)
		return Result{Positions: a.positions(), Stats: st}
	}

	st.Seeded = e.seed(a, width, height)

	pairs, dangling := a.resolveEdges(g.Edges)
	st.DanglingEdges = dangling

	e.simulate(a, pairs, width, height, &st)
	e.recenter(a, width, height)
	e.separate(a, width, height)

	st.Iterations = e.cfg.Iterations
	return Result{Positions: a.positions(), Stats: st}
}

// =============================================================================
// Seeding
// =============================================================================

// seed assigns a grid cell position with jitter to every record lacking a
// finite position. Returns the number of records seeded.
func (e *Engine) seed(a *arena, width, height float64) int {
	n := a.len()
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols

	p := e.cfg.Padding
	cellW := (width - 2*p) / float64(cols)
	cellH := (height - 2*p) / float64(rows)

	seeded := 0
	cell := 0
	for i := range a.recs {
		r := &a.recs[i]
		if r.seeded || r.pinned {
			cell++
			continue
		}
		col := cell % cols
		row := cell / cols
		r.x = p + (float64(col)+0.5)*cellW + e.jitter(cellW*0.2)
		r.y = p + (float64(row)+0.5)*cellH + e.jitter(cellH*0.2)
		r.x = clamp(r.x, p, width-p)
		r.y = clamp(r.y, p, height-p)
		cell++
		seeded++
	}
	return seeded
}

// jitter returns a uniform random offset in [-amount/2, amount/2].
func (e *Engine) jitter(amount float64) float64 {
	return (e.rng.Float64() - 0.5) * amount
}

// =============================================================================
// Simulation Loop
// =============================================================================

func (e *Engine) simulate(a *arena, pairs []edgePair, width, height float64, st *Stats) {
	n := a.len()
	cfg := e.cfg

	// Optimal pairwise distance for the canvas area, Fruchterman-Reingold
	// style. Repulsion and attraction are both normalized by it.
	k := math.Sqrt(width * height / float64(n))

	repulse := -cfg.ChargeStrength // positive magnitude
	centerX, centerY := width/2, height/2
	maxStep := math.Min(width, height) * maxStepFraction

	fx := make([]float64, n)
	fy := make([]float64, n)

	for step := 0; step < cfg.Iterations; step++ {
		for i := range fx {
			fx[i], fy[i] = 0, 0
		}

		// Repulsion: every ordered pair of distinct nodes.
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				dx := a.recs[i].x - a.recs[j].x
				dy := a.recs[i].y - a.recs[j].y
				dist := math.Hypot(dx, dy)
				if dist < 1 {
					dist = 1
				}

				var f float64
				if dist < cfg.MinDistance {
					// Collision avoidance: boosted inverse-square push.
					f = repulse * collisionBoost / (dist * dist)
				} else {
					f = repulse / (dist * k)
				}
				if !finite(f) {
					st.InvalidTerms++
					continue
				}
				fx[i] += dx / dist * f
				fy[i] += dy / dist * f
			}
		}

		// Attraction: resolved edges longer than the rest length pull their
		// endpoints together. Closer pairs get no force; the spring never
		// compresses.
		for _, p := range pairs {
			ra, rb := &a.recs[p.a], &a.recs[p.b]
			dx := rb.x - ra.x
			dy := rb.y - ra.y
			dist := math.Hypot(dx, dy)
			if dist < 1 {
				dist = 1
			}
			if dist <= cfg.LinkDistance {
				continue
			}
			f := (dist - cfg.LinkDistance) / k
			if !finite(f) {
				st.InvalidTerms++
				continue
			}
			fx[p.a] += dx / dist * f / 2
			fy[p.a] += dy / dist * f / 2
			fx[p.b] -= dx / dist * f / 2
			fy[p.b] -= dy / dist * f / 2
		}

		// Centering: weak pull toward the canvas center keeps disconnected
		// components from drifting into a corner.
		for i := 0; i < n; i++ {
			fx[i] += (centerX - a.recs[i].x) * cfg.CenterForce
			fy[i] += (centerY - a.recs[i].y) * cfg.CenterForce
		}

		// Integrate with exponential velocity damping, then clamp.
		for i := 0; i < n; i++ {
			r := &a.recs[i]
			if r.pinned {
				r.vx, r.vy = 0, 0
				continue
			}
			r.vx = (r.vx + fx[i]) * cfg.CoolingRate
			r.vy = (r.vy + fy[i]) * cfg.CoolingRate

			disp := math.Hypot(r.vx, r.vy)
			if disp > maxStep {
				r.vx = r.vx / disp * maxStep
				r.vy = r.vy / disp * maxStep
			}
			if !finite(r.vx) || !finite(r.vy) {
				st.InvalidTerms++
				r.vx, r.vy = 0, 0
				continue
			}

			r.x = clamp(r.x+r.vx, cfg.Padding, width-cfg.Padding)
			r.y = clamp(r.y+r.vy, cfg.Padding, height-cfg.Padding)
		}
	}
}

// =============================================================================
// Post-Passes
// =============================================================================

// recenter translates the whole graph so its centroid sits at the canvas
// center. Skipped when any node is pinned: a pinned node's position is never
// modified by the simulation, and translating around it would distort the
// user's placement.
func (e *Engine) recenter(a *arena, width, height float64) {
	n := a.len()
	if n == 0 {
		return
	}
	for _, r := range a.recs {
		if r.pinned {
			return
		}
	}

	var cx, cy float64
	for _, r := range a.recs {
		cx += r.x
		cy += r.y
	}
	cx /= float64(n)
	cy /= float64(n)

	dx := width/2 - cx
	dy := height/2 - cy
	for i := range a.recs {
		r := &a.recs[i]
		r.x = clamp(r.x+dx, e.cfg.Padding, width-e.cfg.Padding)
		r.y = clamp(r.y+dy, e.cfg.Padding, height-e.cfg.Padding)
	}
}

// separate pushes remaining sub-MinDistance pairs apart symmetrically along
// the line connecting their centers, half the overlap each. Pinned nodes do
// not move; their partner absorbs the full push.
func (e *Engine) separate(a *arena, width, height float64) {
	n := a.len()
	minDist := e.cfg.MinDistance
	if minDist <= 0 || n < 2 {
		return
	}

	for round := 0; round < separationRounds; round++ {
		moved := false
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				ri, rj := &a.recs[i], &a.recs[j]
				if ri.pinned && rj.pinned {
					continue
				}
				dx := rj.x - ri.x
				dy := rj.y - ri.y
				dist := math.Hypot(dx, dy)
				if dist >= minDist {
					continue
				}
				var ux, uy float64
				if dist < 1e-9 {
					// Coincident pair: pick a jittered direction.
					angle := e.rng.Float64() * 2 * math.Pi
					ux, uy = math.Cos(angle), math.Sin(angle)
					dist = 0
				} else {
					ux, uy = dx/dist, dy/dist
				}
				overlap := minDist - dist

				switch {
				case ri.pinned:
					rj.x += ux * overlap
					rj.y += uy * overlap
				case rj.pinned:
					ri.x -= ux * overlap
					ri.y -= uy * overlap
				default:
					ri.x -= ux * overlap / 2
					ri.y -= uy * overlap / 2
					rj.x += ux * overlap / 2
					rj.y += uy * overlap / 2
				}
				if !ri.pinned {
					ri.x = clamp(ri.x, e.cfg.Padding, width-e.cfg.Padding)
					ri.y = clamp(ri.y, e.cfg.Padding, height-e.cfg.Padding)
				}
				if !rj.pinned {
					rj.x = clamp(rj.x, e.cfg.Padding, width-e.cfg.Padding)
					rj.y = clamp(rj.y, e.cfg.Padding, height-e.cfg.Padding)
				}
				moved = true
			}
		}
		if !moved {
			return
		}
	}
}

// =============================================================================
// Helpers
// =============================================================================

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		// Padding exceeds half the canvas; collapse to the midpoint.
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

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
