// Package render turns positioned graphs into visual outputs.
//
// # Overview
//
// This package contains the rendering sinks that transform a laid-out graph
// into files. It provides:
//
//   - Direct SVG output with category coloring ([RenderSVG])
//   - Graphviz DOT export preserving computed positions ([ToDOT], [DOTToSVG])
//   - Generic format conversion (SVG to PDF/PNG via [ToPDF], [ToPNG])
//
// Renderers read positions from node records; run the layout engine and
// inject its result before rendering.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := render.RenderSVG(g, 1000, 600)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
package render
