// Package graph defines the node/edge model shared by the layout engine,
// the renderers, and the API surface.
//
// A [Graph] is the canonical serialization format: plain records describing
// topology plus optional position state. Position hints (X, Y) are pointers so
// that "no position yet" is distinguishable from "positioned at the origin";
// the layout engine preserves hints and fills in the rest.
//
// The model deliberately carries no physics state beyond what callers need to
// round-trip: velocities live in the engine's arena, not here.
package graph
