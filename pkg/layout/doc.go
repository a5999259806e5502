// Package layout implements the force-directed layout engine and the policy
// layer that decides when to run it.
//
// # Architecture
//
// The package has three cooperating pieces:
//
//   - [Engine] is a pure function from (graph, dimensions, config) to
//     positions. It performs a fixed number of simulation steps over an
//     internal arena and never holds references into caller-owned structures.
//   - [Store] is the caller-held position map keyed by node id. Renderers read
//     from it, the interaction layer writes drag positions into it, and the
//     engine's results are applied to it.
//   - [Trigger] decides when a layout pass is needed (new topology, missing
//     positions, manual refresh) and debounces invocation while container
//     dimensions settle.
//
// # Simulation
//
// One layout pass runs config.Iterations steps of pairwise repulsion, spring
// attraction along resolved edges, and a weak center pull, integrating with
// per-step exponential velocity damping and clamping every coordinate into
// [padding, dimension − padding]. A re-centering translation and a pairwise
// overlap-resolution pass run after the loop. Worst-case runtime is
// O(iterations × n²) and bounded: the step count is fixed, not a convergence
// test. The scheme is intended for graphs up to a few hundred nodes.
//
// Invalid numeric terms (NaN/Inf) contribute zero force, are counted, and are
// logged once per run; the engine never returns non-finite positions and never
// fails a run because of them.
package layout
