package graph

import (
	"fmt"
	"math"
)

// =============================================================================
// Categories - Single Source of Truth
// =============================================================================

// Category tags a node or edge for rendering and coloring.
// Categories are never interpreted by the physics simulation.
type Category string

// Known node/edge categories.
const (
	CategoryCompany     Category = "company"
	CategoryPerson      Category = "person"
	CategoryTransaction Category = "transaction"
	CategoryRating      Category = "rating"
	CategoryOther       Category = "other"
)

// ValidCategories is the set of recognized categories.
var ValidCategories = map[Category]bool{
	CategoryCompany:     true,
	CategoryPerson:      true,
	CategoryTransaction: true,
	CategoryRating:      true,
	CategoryOther:       true,
}

// Normalize maps unknown categories to CategoryOther.
func (c Category) Normalize() Category {
	if ValidCategories[c] {
		return c
	}
	return CategoryOther
}

// =============================================================================
// Graph - Canonical Serialization Format
// =============================================================================

// Graph is the canonical serialization format for query results.
// Used for API requests, CLI input files, and renderer output.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Node looks up a node by id. Returns the last node with that id, matching
// the engine's last-write-wins tie-break for duplicate ids.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := len(g.Nodes) - 1; i >= 0; i-- {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// IDs returns the set of node ids.
func (g *Graph) IDs() map[string]bool {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	return ids
}

// =============================================================================
// Node
// =============================================================================

// Node is a positioned graph vertex with display metadata.
//
// X and Y are optional position hints: nil means "not yet positioned" and the
// layout engine will seed a position. Non-nil finite values are preserved as
// the simulation starting point. Pinned nodes are never moved by the
// simulation; only interactive dragging writes their position.
type Node struct {
	ID       string         `json:"id"`
	Label    string         `json:"label,omitempty"`
	Category Category       `json:"category,omitempty"`
	X        *float64       `json:"x,omitempty"`
	Y        *float64       `json:"y,omitempty"`
	Pinned   bool           `json:"pinned,omitempty"`
	Props    map[string]any `json:"properties,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// HasPosition reports whether the node carries a finite position hint.
func (n *Node) HasPosition() bool {
	return n.X != nil && n.Y != nil && isFinite(*n.X) && isFinite(*n.Y)
}

// SetPosition writes a position onto the node record.
func (n *Node) SetPosition(x, y float64) {
	n.X = &x
	n.Y = &y
}

// Position returns the node's position hint, or (0, 0) if unset.
func (n *Node) Position() (x, y float64) {
	if !n.HasPosition() {
		return 0, 0
	}
	return *n.X, *n.Y
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a connection between two node ids.
type Edge struct {
	ID       string   `json:"id"`
	SourceID string   `json:"source_id"`
	TargetID string   `json:"target_id"`
	Label    string   `json:"label,omitempty"`
	Category Category `json:"category,omitempty"`
}

// String returns a compact description for logging.
func (e Edge) String() string {
	return fmt.Sprintf("%s(%s→%s)", e.ID, e.SourceID, e.TargetID)
}

// =============================================================================
// Edge Resolution
// =============================================================================

// Resolution partitions a graph's edges by whether both endpoints resolve to
// nodes in the same node set. Dangling edges are dropped from force
// computation but retained here so callers can still display them.
type Resolution struct {
	Resolved []Edge
	Dangling []Edge
}

// Resolve classifies every edge against the graph's node set.
func Resolve(g *Graph) Resolution {
	ids := g.IDs()
	var res Resolution
	for _, e := range g.Edges {
		if ids[e.SourceID] && ids[e.TargetID] {
			res.Resolved = append(res.Resolved, e)
		} else {
			res.Dangling = append(res.Dangling, e)
		}
	}
	return res
}
