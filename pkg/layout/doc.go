// Package layout provides the validated, immutable model of a rail-yard
// infrastructure layout: connection points (nodes) joined by track segments.
//
// # Overview
//
// A layout is built once from raw records and then only queried. The model
// has two node variants and one segment type:
//
//   - [TerminalNode]: a dead end with exactly one adjacent track
//   - [SwitchNode]: a three-way junction with a facing side and two
//     diverging routes (forward and reverse)
//   - [Track]: a segment joining two nodes, optionally carrying a length
//
// [Node] is a sealed interface. Code outside this package recovers the
// concrete variant with a type switch:
//
//	switch n := node.(type) {
//	case layout.TerminalNode:
//	    fmt.Println("dead end on", n.Track)
//	case layout.SwitchNode:
//	    fmt.Println("points facing", n.Facing)
//	}
//
// # Building
//
// [Build] constructs every node and track from its [Record], rejects
// duplicate ids (node and track ids are separate scopes), and checks that
// every track endpoint names an existing node. Construction is fail-fast
// and whole-or-nothing: the first violation is returned and no [Layout]
// value is produced.
//
//	l, err := layout.Build(nodes, tracks)
//	var ref *layout.ReferenceIntegrityError
//	if errors.As(err, &ref) {
//	    fmt.Println("track", ref.TrackID, "points at missing", ref.MissingNodeID)
//	}
//
// Track references held by nodes (a terminal's track, a switch's facing,
// forward and reverse tracks) are not checked by default. Pass
// [WithStrictReferences] to check them as well.
//
// # Queries
//
// [Layout.FindTrack] returns the track directly joining two nodes,
// independent of argument order. When several parallel tracks join the same
// pair, the first in document order wins. A failed query returns
// [NotFoundError] and leaves the layout untouched.
//
// # Errors
//
// Every error returned by this package unwraps to one of [ErrSchema],
// [ErrDuplicateID], [ErrReferenceIntegrity] or [ErrNotFound], and exposes a
// Code() compatible with pkg/errors.
//
// # Concurrency
//
// A built Layout is never mutated. Any number of goroutines may query it
// concurrently without locking. Accessors return copies.
package layout
