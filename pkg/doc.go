// Package pkg provides the core libraries for Railyard rail-yard layouts.
//
// # Overview
//
// Railyard models a rail yard as a set of nodes (end nodes and points)
// joined by tracks. A layout is read from a JSON, TOML or YAML document,
// validated once, and then answers which track joins two nodes.
//
// # Architecture
//
// The typical data flow through Railyard:
//
//	Layout document (JSON / TOML / YAML)
//	         ↓
//	    [document] package (decode to generic values)
//	         ↓
//	    [loader] package (flat or segregated records)
//	         ↓
//	    [layout] package (validated, immutable Layout)
//	         ↓
//	    FindTrack queries, text listing, node-link diagrams
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/railyard/pkg/document"
//	    "github.com/matzehuels/railyard/pkg/loader"
//	)
//
//	doc, _ := document.ReadFile("layout.json", document.FormatJSON)
//	l, err := loader.Load(doc, loader.SchemaFlat)
//	if err != nil {
//	    // *layout.SchemaError, *layout.DuplicateIDError, ...
//	}
//	t, err := l.FindTrack("PN001", "EN001")
//
// # Main Packages
//
// [layout] - Node, track and Layout types. Build validates id uniqueness
// and track endpoints; FindTrack is an unordered-pair lookup that returns
// the first matching track in document order.
//
// [loader] - Maps decoded documents onto layout records. Supports the flat
// schema (one array with a "type" discriminator) and the segregated schema
// (end_nodes, points_nodes and tracks arrays).
//
// [document] - Format detection and decoding for JSON, TOML and YAML.
//
// [render/text] - The plain-text listing printed by the CLI.
//
// [render/nodelink] - Undirected Graphviz diagrams (DOT, SVG; PNG and PDF
// through [render]).
//
// [cache] - Artifact cache with file, Redis and no-op backends.
//
// [pipeline] - Load, query and render orchestration shared by CLI commands.
//
// [observability] - Hooks for load, query, render and cache events.
//
// [errors] - Machine-readable error codes.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example                 # Examples only
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/railyard/pkg/layout
// [loader]: https://pkg.go.dev/github.com/matzehuels/railyard/pkg/loader
// [document]: https://pkg.go.dev/github.com/matzehuels/railyard/pkg/document
// [render]: https://pkg.go.dev/github.com/matzehuels/railyard/pkg/render
// [render/text]: https://pkg.go.dev/github.com/matzehuels/railyard/pkg/render/text
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/railyard/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/railyard/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/railyard/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/railyard/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/railyard/pkg/errors
package pkg
