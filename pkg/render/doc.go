// Package render holds presentation for rail-yard layouts.
//
// The subpackages do the actual rendering:
//
//   - [text]: the plain-text listing printed by the CLI
//   - [nodelink]: Graphviz DOT export and SVG/PNG/PDF diagrams
//
// This package itself only provides format conversion from SVG to PDF or
// PNG using the external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.Render(ctx, dot, nodelink.FormatSVG)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [text]: github.com/matzehuels/railyard/pkg/render/text
// [nodelink]: github.com/matzehuels/railyard/pkg/render/nodelink
package render
