package layout

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestLayoutInvariants uses property-based testing to verify simulation
// invariants that must hold for any node/edge set and canvas geometry.
func TestLayoutInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	// Property 1: every final position stays inside the padded canvas.
	properties.Property("positions stay inside padded bounds", prop.ForAll(
		func(n int, width, height float64, seed uint64) bool {
			cfg := DefaultConfig()
			cfg.Seed = seed + 1 // keep the run deterministic
			cfg.Iterations = 60
			res := New(cfg, nil).Run(chain(n), width, height)

			for _, p := range res.Positions {
				if !isFinitePair(p.X, p.Y) {
					return false
				}
				if p.X < cfg.Padding-1e-9 || p.X > width-cfg.Padding+1e-9 {
					return false
				}
				if p.Y < cfg.Padding-1e-9 || p.Y > height-cfg.Padding+1e-9 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 25),
		gen.Float64Range(200, 2000),
		gen.Float64Range(200, 2000),
		gen.UInt64(),
	))

	// Property 2: a pinned node's position survives any run bit-for-bit.
	properties.Property("pinned positions are never modified", prop.ForAll(
		func(n int, px, py float64, seed uint64) bool {
			cfg := DefaultConfig()
			cfg.Seed = seed + 1
			cfg.Iterations = 60

			g := chain(n)
			g.Nodes[0].SetPosition(px, py)
			g.Nodes[0].Pinned = true

			res := New(cfg, nil).Run(g, 1000, 600)
			for _, p := range res.Positions {
				if p.ID == g.Nodes[0].ID {
					return p.X == px && p.Y == py && p.Pinned
				}
			}
			return false
		},
		gen.IntRange(1, 15),
		gen.Float64Range(-100, 1100),
		gen.Float64Range(-100, 700),
		gen.UInt64(),
	))

	// Property 3: unpinned pairs end at least MinDistance apart when the
	// canvas has room for everyone.
	properties.Property("separation holds on a roomy canvas", prop.ForAll(
		func(n int, seed uint64) bool {
			cfg := DefaultConfig()
			cfg.Seed = seed + 1
			cfg.Iterations = 60

			res := New(cfg, nil).Run(chain(n), 2000, 1500)
			for i := 0; i < len(res.Positions); i++ {
				for j := i + 1; j < len(res.Positions); j++ {
					a, b := res.Positions[i], res.Positions[j]
					if math.Hypot(a.X-b.X, a.Y-b.Y) < cfg.MinDistance-1e-6 {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(2, 20),
		gen.UInt64(),
	))

	// Property 4: the run is a pure function of graph, geometry, and seed.
	properties.Property("same seed reproduces the run", prop.ForAll(
		func(n int, seed uint64) bool {
			cfg := DefaultConfig()
			cfg.Seed = seed + 1
			cfg.Iterations = 40

			a := New(cfg, nil).Run(chain(n), 1000, 600)
			b := New(cfg, nil).Run(chain(n), 1000, 600)
			if len(a.Positions) != len(b.Positions) {
				return false
			}
			for i := range a.Positions {
				if a.Positions[i] != b.Positions[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func isFinitePair(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && !math.IsNaN(y) && !math.IsInf(y, 0)
}
