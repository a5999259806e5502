package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/gravitas-dev/gravitas/pkg/graph"
)

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Labels includes node display labels. When false, only ids are emitted.
	Labels bool

	// KeepPositions pins computed positions into the DOT output so Graphviz
	// reproduces the force-directed placement instead of computing its own.
	KeepPositions bool
}

// ToDOT converts a graph to Graphviz DOT format. With KeepPositions set,
// nodes carrying a position get a fixed pos attribute and the neato layout
// engine honors the computed placement.
func ToDOT(g *graph.Graph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.KeepPositions {
		buf.WriteString("  layout=neato;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, nodeAttrs(n, opts))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.SourceID, e.TargetID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node, opts DOTOptions) string {
	label := n.ID
	if opts.Labels {
		label = n.DisplayLabel()
	}
	attrs := fmt.Sprintf("label=%q, fillcolor=%q", label, categoryFill[n.Category.Normalize()])
	if opts.KeepPositions && n.HasPosition() {
		x, y := n.Position()
		// DOT pos is in points with the y axis pointing up; flip to keep the
		// on-screen orientation.
		attrs += fmt.Sprintf(", pos=\"%.2f,%.2f!\"", x, -y)
	}
	return attrs
}

// DOTToSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [ToPDF]
// or [ToPNG].
func DOTToSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
