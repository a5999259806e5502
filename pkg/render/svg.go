package render

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"slices"

	"github.com/gravitas-dev/gravitas/pkg/graph"
)

const (
	nodeRadius  = 14.0
	edgeColor   = "#c3c9d4"
	labelColor  = "#2d3440"
	labelOffset = 6.0
	fontSize    = 12
)

// categoryFill maps node categories to their fill colors. Unknown categories
// normalize to other.
var categoryFill = map[graph.Category]string{
	graph.CategoryCompany:     "#4f86f7",
	graph.CategoryPerson:      "#f79a4f",
	graph.CategoryTransaction: "#8e6cf0",
	graph.CategoryRating:      "#46c48f",
	graph.CategoryOther:       "#9aa0a6",
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	showLabels bool
	background string
	zoom       float64
	panX, panY float64
}

// WithLabels renders each node's display label beneath its circle.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.showLabels = true } }

// WithBackground fills the canvas with the given color instead of leaving it
// transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithViewport applies a zoom/pan transform so the SVG reproduces the
// on-screen framing.
func WithViewport(zoom, panX, panY float64) SVGOption {
	return func(r *svgRenderer) { r.zoom, r.panX, r.panY = zoom, panX, panY }
}

// RenderSVG renders a positioned graph as an SVG document. Nodes without a
// position and edges with an unresolvable endpoint are skipped; run the
// layout engine first for complete output.
func RenderSVG(g *graph.Graph, width, height float64, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	nodes := positionedNodes(g)
	slices.SortFunc(nodes, func(a, b graph.Node) int {
		return cmp.Compare(a.ID, b.ID)
	})

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill=%q/>`+"\n", r.background)
	}
	fmt.Fprintf(&buf, `  <g transform="scale(%g) translate(%g %g)">`+"\n", r.zoom, r.panX, r.panY)

	renderEdges(&buf, g, nodes)
	renderNodes(&buf, nodes)
	if r.showLabels {
		renderLabels(&buf, nodes)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{zoom: 1}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// positionedNodes returns the nodes carrying a finite position, collapsing
// duplicate ids last-write-wins.
func positionedNodes(g *graph.Graph) []graph.Node {
	byID := make(map[string]graph.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.HasPosition() {
			byID[n.ID] = n
		}
	}
	out := make([]graph.Node, 0, len(byID))
	for _, n := range byID {
		out = append(out, n)
	}
	return out
}

func renderEdges(buf *bytes.Buffer, g *graph.Graph, nodes []graph.Node) {
	byID := make(map[string]graph.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for _, e := range g.Edges {
		src, okS := byID[e.SourceID]
		dst, okD := byID[e.TargetID]
		if !okS || !okD || e.SourceID == e.TargetID {
			continue
		}
		x1, y1 := src.Position()
		x2, y2 := dst.Position()
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke=%q stroke-width="1.5"/>`+"\n",
			x1, y1, x2, y2, edgeColor)
	}
}

func renderNodes(buf *bytes.Buffer, nodes []graph.Node) {
	for _, n := range nodes {
		x, y := n.Position()
		fill := categoryFill[n.Category.Normalize()]
		fmt.Fprintf(buf, `    <circle id="node-%s" cx="%.2f" cy="%.2f" r="%.1f" fill=%q stroke="#ffffff" stroke-width="2"/>`+"\n",
			html.EscapeString(n.ID), x, y, nodeRadius, fill)
	}
}

func renderLabels(buf *bytes.Buffer, nodes []graph.Node) {
	for _, n := range nodes {
		x, y := n.Position()
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-size="%d" text-anchor="middle" fill=%q>%s</text>`+"\n",
			x, y+nodeRadius+labelOffset+float64(fontSize)/2, fontSize, labelColor,
			html.EscapeString(n.DisplayLabel()))
	}
}
