// Package loader maps a generic parsed document onto the layout model.
//
// Two document shapes are understood, selected explicitly by [Schema]
// because a single document is not interpreted both ways:
//
// [SchemaFlat] (canonical) is a top-level array of records, each with a
// "type" discriminator:
//
//	[
//	  {"type": "end_node",    "id": "EN001", "track": "T1"},
//	  {"type": "points_node", "id": "PN001", "facing": "T1", "forward": "T2", "reverse": "T3"},
//	  {"type": "track",       "id": "T1", "start_node": "PN001", "end_node": "EN001", "length": 12.5}
//	]
//
// Encodings that cannot express a top-level array (TOML) may wrap the
// records in a mapping with a single "records" key.
//
// [SchemaSegregated] is a mapping with three arrays, "end_nodes",
// "points_nodes" and "tracks", whose records omit "type".
//
// The loader performs no I/O; see package document for decoding bytes.
package loader

import (
	"fmt"
	"strings"

	rerrors "github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/layout"
)

// Schema selects the document shape.
type Schema string

const (
	SchemaFlat       Schema = "flat"
	SchemaSegregated Schema = "segregated"
)

// Top-level keys.
const (
	keyRecords     = "records"
	keyEndNodes    = "end_nodes"
	keyPointsNodes = "points_nodes"
	keyTracks      = "tracks"
	keyType        = "type"
)

// ParseSchema validates a schema name.
func ParseSchema(s string) (Schema, error) {
	switch Schema(strings.ToLower(strings.TrimSpace(s))) {
	case SchemaFlat:
		return SchemaFlat, nil
	case SchemaSegregated:
		return SchemaSegregated, nil
	default:
		return "", rerrors.New(rerrors.ErrCodeInvalidInput, "unknown schema %q (want %q or %q)", s, SchemaFlat, SchemaSegregated)
	}
}

// Load dispatches every record in doc to node or track construction and
// builds the layout. Shape mismatches fail with *layout.SchemaError;
// build failures are returned unchanged from [layout.Build].
func Load(doc any, schema Schema, opts ...layout.BuildOption) (*layout.Layout, error) {
	var (
		nodes  []layout.RawNode
		tracks []layout.Record
		err    error
	)
	switch schema {
	case SchemaFlat:
		nodes, tracks, err = splitFlat(doc)
	case SchemaSegregated:
		nodes, tracks, err = splitSegregated(doc)
	default:
		return nil, rerrors.New(rerrors.ErrCodeInvalidInput, "unknown schema %q", schema)
	}
	if err != nil {
		return nil, err
	}
	return layout.Build(nodes, tracks, opts...)
}

func splitFlat(doc any) ([]layout.RawNode, []layout.Record, error) {
	items, ok := doc.([]any)
	if !ok {
		m, isMap := doc.(map[string]any)
		if !isMap {
			return nil, nil, &layout.SchemaError{Field: keyRecords, Msg: "document must be an array of records"}
		}
		v, present := m[keyRecords]
		if !present {
			return nil, nil, &layout.SchemaError{Field: keyRecords, Msg: "document must be an array of records"}
		}
		if items, ok = v.([]any); !ok {
			return nil, nil, &layout.SchemaError{Field: keyRecords, Msg: "must be an array"}
		}
	}

	var (
		nodes  []layout.RawNode
		tracks []layout.Record
	)
	for i, item := range items {
		loc := fmt.Sprintf("records[%d]", i)
		rec, err := asRecord(item, loc)
		if err != nil {
			return nil, nil, err
		}
		typ, ok := rec[keyType].(string)
		if !ok {
			return nil, nil, &layout.SchemaError{Field: keyType, Record: loc}
		}
		if typ == layout.TypeTrack {
			tracks = append(tracks, rec)
			continue
		}
		kind, ok := layout.ParseNodeKind(typ)
		if !ok {
			return nil, nil, &layout.SchemaError{Field: keyType, Record: loc, Msg: fmt.Sprintf("unrecognized type %q", typ)}
		}
		nodes = append(nodes, layout.RawNode{Kind: kind, Record: rec})
	}
	return nodes, tracks, nil
}

func splitSegregated(doc any) ([]layout.RawNode, []layout.Record, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, nil, &layout.SchemaError{Field: keyEndNodes, Msg: "document must be a mapping of record arrays"}
	}

	var nodes []layout.RawNode
	for _, group := range []struct {
		key  string
		kind layout.NodeKind
	}{
		{keyEndNodes, layout.KindTerminal},
		{keyPointsNodes, layout.KindSwitch},
	} {
		recs, err := collection(m, group.key)
		if err != nil {
			return nil, nil, err
		}
		for _, rec := range recs {
			nodes = append(nodes, layout.RawNode{Kind: group.kind, Record: rec})
		}
	}

	tracks, err := collection(m, keyTracks)
	if err != nil {
		return nil, nil, err
	}
	return nodes, tracks, nil
}

// collection extracts a required array of records under key.
func collection(m map[string]any, key string) ([]layout.Record, error) {
	v, ok := m[key]
	if !ok {
		return nil, &layout.SchemaError{Field: key}
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &layout.SchemaError{Field: key, Msg: "must be an array"}
	}
	recs := make([]layout.Record, 0, len(items))
	for i, item := range items {
		rec, err := asRecord(item, fmt.Sprintf("%s[%d]", key, i))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func asRecord(item any, loc string) (layout.Record, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return nil, &layout.SchemaError{Record: loc, Msg: "record must be an object"}
	}
	return layout.Record(m), nil
}
