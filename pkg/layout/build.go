package layout

import "fmt"

// BuildOption configures [Build].
type BuildOption func(*buildConfig)

type buildConfig struct {
	strict bool
}

// WithStrictReferences also checks that every track id named by a node
// (a terminal's track, a switch's facing, forward and reverse tracks)
// exists. Violations fail with *DanglingTrackError.
//
// This is stricter than the default, which only checks track endpoints.
func WithStrictReferences() BuildOption {
	return func(c *buildConfig) { c.strict = true }
}

// Build constructs a Layout from raw node and track records.
//
// Steps run in order and the first failure aborts the build:
//
//  1. Construct each node; a *SchemaError or a *DuplicateIDError (scope node).
//  2. Construct each track; a *SchemaError or a *DuplicateIDError (scope track).
//     A track id equal to a node id is not a collision.
//  3. Check each track's start_node then end_node against the node ids;
//     a *ReferenceIntegrityError for the first missing one.
//  4. With [WithStrictReferences], check node track references;
//     a *DanglingTrackError for the first missing one.
//
// On any error the returned Layout is nil.
func Build(nodes []RawNode, tracks []Record, opts ...BuildOption) (*Layout, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &Layout{
		nodes:  make(map[string]Node, len(nodes)),
		order:  make([]string, 0, len(nodes)),
		tracks: make([]Track, 0, len(tracks)),
		pairs:  make(map[pair]int, len(tracks)),
		byNode: make(map[string][]int, len(nodes)),
	}

	for i, raw := range nodes {
		n, err := NewNode(raw.Kind, raw.Record)
		if err != nil {
			return nil, locate(err, fmt.Sprintf("nodes[%d]", i))
		}
		if _, exists := l.nodes[n.ID()]; exists {
			return nil, &DuplicateIDError{ID: n.ID(), Scope: ScopeNode}
		}
		l.nodes[n.ID()] = n
		l.order = append(l.order, n.ID())
	}

	trackIDs := make(map[string]struct{}, len(tracks))
	for i, rec := range tracks {
		t, err := NewTrack(rec)
		if err != nil {
			return nil, locate(err, fmt.Sprintf("tracks[%d]", i))
		}
		if _, exists := trackIDs[t.ID]; exists {
			return nil, &DuplicateIDError{ID: t.ID, Scope: ScopeTrack}
		}
		trackIDs[t.ID] = struct{}{}
		l.tracks = append(l.tracks, t)
	}

	for _, t := range l.tracks {
		for _, endpoint := range []string{t.StartNode, t.EndNode} {
			if _, ok := l.nodes[endpoint]; !ok {
				return nil, &ReferenceIntegrityError{TrackID: t.ID, MissingNodeID: endpoint}
			}
		}
	}

	if cfg.strict {
		for _, id := range l.order {
			n := l.nodes[id]
			for _, ref := range n.TrackRefs() {
				if _, ok := trackIDs[ref.TrackID]; !ok {
					return nil, &DanglingTrackError{NodeID: id, Field: ref.Field, MissingTrackID: ref.TrackID}
				}
			}
		}
	}

	l.index()
	return l, nil
}

// locate attaches a record locator to schema errors that lack one.
func locate(err error, record string) error {
	if se, ok := err.(*SchemaError); ok && se.Record == "" {
		located := *se
		located.Record = record
		return &located
	}
	return err
}
