// Package nodelink renders rail-yard layouts as node-link diagrams.
//
// # Overview
//
// Nodes become Graphviz vertices and tracks become undirected edges. End
// nodes are drawn as boxes and points nodes as diamonds; every edge is
// labeled with its track id and length.
//
// # Usage
//
// Convert a layout to DOT, then render it:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.Render(ctx, dot, nodelink.FormatSVG)
//
// DOT and SVG are produced in-process. PNG and PDF go through SVG and
// require librsvg (rsvg-convert); see package render.
//
// # Options
//
//   - Detailed: node labels also list the track ids each node names
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
