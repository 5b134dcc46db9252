package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	rerrors "github.com/matzehuels/railyard/pkg/errors"
)

func terminal(id, track string) RawNode {
	return RawNode{Kind: KindTerminal, Record: Record{"id": id, "track": track}}
}

func points(id, facing, forward, reverse string) RawNode {
	return RawNode{Kind: KindSwitch, Record: Record{
		"id": id, "facing": facing, "forward": forward, "reverse": reverse,
	}}
}

func track(id, start, end string) Record {
	return Record{"id": id, "start_node": start, "end_node": end}
}

// sampleNodes and sampleTracks describe a single turnout with three legs:
//
//	EN001 --T1-- PN001 --T2-- EN002
//	               \---T3-- EN003
func sampleNodes() []RawNode {
	return []RawNode{
		terminal("EN001", "T1"),
		points("PN001", "T1", "T2", "T3"),
		terminal("EN002", "T2"),
		terminal("EN003", "T3"),
	}
}

func sampleTracks() []Record {
	t1 := track("T1", "PN001", "EN001")
	t1["length"] = 12.5
	return []Record{t1, track("T2", "PN001", "EN002"), track("T3", "EN003", "PN001")}
}

func mustBuild(t *testing.T, nodes []RawNode, tracks []Record, opts ...BuildOption) *Layout {
	t.Helper()
	l, err := Build(nodes, tracks, opts...)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return l
}

func TestBuildExampleScenario(t *testing.T) {
	nodes := []RawNode{
		terminal("EN001", "T1"),
		points("PN001", "T1", "T2", "T3"),
	}
	t1 := track("T1", "PN001", "EN001")
	t1["length"] = 12.5

	l := mustBuild(t, nodes, []Record{t1})

	if l.NodeCount() != 2 || l.TrackCount() != 1 {
		t.Fatalf("counts = %d nodes, %d tracks; want 2, 1", l.NodeCount(), l.TrackCount())
	}

	got, err := l.FindTrack("PN001", "EN001")
	if err != nil {
		t.Fatalf("FindTrack() error = %v", err)
	}
	want := Track{ID: "T1", StartNode: "PN001", EndNode: "EN001", Length: 12.5, HasLength: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindTrack() mismatch (-want +got):\n%s", diff)
	}

	_, err = l.FindTrack("PN001", "EN002")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("FindTrack(PN001, EN002) error = %v, want *NotFoundError", err)
	}
	if nf.A != "PN001" || nf.B != "EN002" {
		t.Errorf("NotFoundError = %+v", nf)
	}
}

func TestBuildPreservesDocumentOrder(t *testing.T) {
	l := mustBuild(t, sampleNodes(), sampleTracks())

	var ids []string
	for _, n := range l.Nodes() {
		ids = append(ids, n.ID())
	}
	if diff := cmp.Diff([]string{"EN001", "PN001", "EN002", "EN003"}, ids); diff != "" {
		t.Errorf("node order mismatch (-want +got):\n%s", diff)
	}

	ids = nil
	for _, tr := range l.Tracks() {
		ids = append(ids, tr.ID)
	}
	if diff := cmp.Diff([]string{"T1", "T2", "T3"}, ids); diff != "" {
		t.Errorf("track order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		nodes  []RawNode
		tracks []Record
		opts   []BuildOption
		check  func(t *testing.T, err error)
	}{
		{
			name:   "missing endpoint node",
			nodes:  []RawNode{terminal("EN001", "T1"), points("PN001", "T1", "T2", "T3")},
			tracks: []Record{track("T1", "PN001", "EN001"), track("T9", "PN001", "EN999")},
			check: func(t *testing.T, err error) {
				var ref *ReferenceIntegrityError
				if !errors.As(err, &ref) {
					t.Fatalf("error = %v, want *ReferenceIntegrityError", err)
				}
				want := ReferenceIntegrityError{TrackID: "T9", MissingNodeID: "EN999"}
				if diff := cmp.Diff(want, *ref); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:   "start_node checked before end_node",
			nodes:  []RawNode{terminal("EN001", "T1")},
			tracks: []Record{track("T1", "X1", "X2")},
			check: func(t *testing.T, err error) {
				var ref *ReferenceIntegrityError
				if !errors.As(err, &ref) || ref.MissingNodeID != "X1" {
					t.Fatalf("error = %v, want missing X1", err)
				}
			},
		},
		{
			name:   "first failing track wins",
			nodes:  []RawNode{terminal("EN001", "T1")},
			tracks: []Record{track("T1", "EN001", "A"), track("T2", "EN001", "B")},
			check: func(t *testing.T, err error) {
				var ref *ReferenceIntegrityError
				if !errors.As(err, &ref) || ref.TrackID != "T1" {
					t.Fatalf("error = %v, want track T1", err)
				}
			},
		},
		{
			name:  "duplicate node across variants",
			nodes: []RawNode{terminal("N1", "T1"), points("N1", "T1", "T2", "T3")},
			check: func(t *testing.T, err error) {
				var dup *DuplicateIDError
				if !errors.As(err, &dup) {
					t.Fatalf("error = %v, want *DuplicateIDError", err)
				}
				if dup.ID != "N1" || dup.Scope != ScopeNode {
					t.Errorf("DuplicateIDError = %+v", dup)
				}
			},
		},
		{
			name:   "duplicate track",
			nodes:  []RawNode{terminal("A", "T1"), terminal("B", "T1")},
			tracks: []Record{track("T1", "A", "B"), track("T1", "B", "A")},
			check: func(t *testing.T, err error) {
				var dup *DuplicateIDError
				if !errors.As(err, &dup) {
					t.Fatalf("error = %v, want *DuplicateIDError", err)
				}
				if dup.ID != "T1" || dup.Scope != ScopeTrack {
					t.Errorf("DuplicateIDError = %+v", dup)
				}
			},
		},
		{
			name:   "duplicate track reported before dangling reference",
			nodes:  []RawNode{terminal("A", "T1")},
			tracks: []Record{track("T1", "A", "MISSING"), track("T1", "A", "A")},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrDuplicateID) {
					t.Fatalf("error = %v, want ErrDuplicateID", err)
				}
			},
		},
		{
			name:  "node schema error carries locator",
			nodes: []RawNode{terminal("A", "T1"), {Kind: KindSwitch, Record: Record{"id": "P", "facing": "T1"}}},
			check: func(t *testing.T, err error) {
				var se *SchemaError
				if !errors.As(err, &se) {
					t.Fatalf("error = %v, want *SchemaError", err)
				}
				if se.Field != "forward" || se.Record != "nodes[1]" {
					t.Errorf("SchemaError = %+v", se)
				}
			},
		},
		{
			name:   "track schema error carries locator",
			nodes:  []RawNode{terminal("A", "T1")},
			tracks: []Record{track("T1", "A", "A"), {"id": "T2", "start_node": "A", "end_node": "A", "length": -3}},
			check: func(t *testing.T, err error) {
				var se *SchemaError
				if !errors.As(err, &se) {
					t.Fatalf("error = %v, want *SchemaError", err)
				}
				if se.Field != "length" || se.Record != "tracks[1]" {
					t.Errorf("SchemaError = %+v", se)
				}
			},
		},
		{
			name:   "strict references reject dangling switch leg",
			nodes:  []RawNode{terminal("EN001", "T1"), points("PN001", "T1", "T2", "T3")},
			tracks: []Record{track("T1", "PN001", "EN001")},
			opts:   []BuildOption{WithStrictReferences()},
			check: func(t *testing.T, err error) {
				var dt *DanglingTrackError
				if !errors.As(err, &dt) {
					t.Fatalf("error = %v, want *DanglingTrackError", err)
				}
				want := DanglingTrackError{NodeID: "PN001", Field: "forward", MissingTrackID: "T2"}
				if diff := cmp.Diff(want, *dt); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
				if !errors.Is(err, ErrReferenceIntegrity) {
					t.Error("errors.Is(err, ErrReferenceIntegrity) = false")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Build(tt.nodes, tt.tracks, tt.opts...)
			if err == nil {
				t.Fatal("Build() succeeded, want error")
			}
			if l != nil {
				t.Error("Build() returned a layout alongside an error")
			}
			tt.check(t, err)
		})
	}
}

func TestBuildTrackIDMayEqualNodeID(t *testing.T) {
	l := mustBuild(t,
		[]RawNode{terminal("X", "X"), terminal("Y", "X")},
		[]Record{track("X", "X", "Y")},
		WithStrictReferences(),
	)
	if _, err := l.FindTrack("X", "Y"); err != nil {
		t.Errorf("FindTrack() error = %v", err)
	}
}

func TestBuildSwitchReferencesNotCheckedByDefault(t *testing.T) {
	l := mustBuild(t,
		[]RawNode{terminal("EN001", "T1"), points("PN001", "T1", "T2", "T3")},
		[]Record{track("T1", "PN001", "EN001")},
	)
	n, ok := l.Node("PN001")
	if !ok {
		t.Fatal("Node(PN001) missing")
	}
	sw, ok := n.(SwitchNode)
	if !ok {
		t.Fatalf("Node(PN001) is %T, want SwitchNode", n)
	}
	if sw.Forward != "T2" {
		t.Errorf("Forward = %q, want T2", sw.Forward)
	}
}

func TestBuildStrictAcceptsCompleteLayout(t *testing.T) {
	mustBuild(t, sampleNodes(), sampleTracks(), WithStrictReferences())
}

func TestBuildEmpty(t *testing.T) {
	l := mustBuild(t, nil, nil)
	if l.NodeCount() != 0 || l.TrackCount() != 0 {
		t.Errorf("empty build has %d nodes, %d tracks", l.NodeCount(), l.TrackCount())
	}
	if _, err := l.FindTrack("A", "B"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindTrack() error = %v, want ErrNotFound", err)
	}
}

func TestBuildErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		code rerrors.Code
	}{
		{&SchemaError{Field: "id"}, rerrors.ErrCodeInvalidSchema},
		{&DuplicateIDError{ID: "A", Scope: ScopeNode}, rerrors.ErrCodeDuplicateID},
		{&ReferenceIntegrityError{TrackID: "T1", MissingNodeID: "X"}, rerrors.ErrCodeReferenceIntegrity},
		{&DanglingTrackError{NodeID: "P", Field: "facing", MissingTrackID: "T"}, rerrors.ErrCodeReferenceIntegrity},
		{&NotFoundError{A: "A", B: "B"}, rerrors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		if got := rerrors.GetCode(tt.err); got != tt.code {
			t.Errorf("GetCode(%T) = %v, want %v", tt.err, got, tt.code)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&SchemaError{Field: "id"}, `schema error: field "id": required field is missing`},
		{&SchemaError{Field: "length", Record: "tracks[0]", Msg: "must be non-negative"}, `schema error: tracks[0]: field "length": must be non-negative`},
		{&DuplicateIDError{ID: "T1", Scope: ScopeTrack}, `duplicate id: track "T1"`},
		{&ReferenceIntegrityError{TrackID: "T9", MissingNodeID: "EN999"}, `reference integrity error: track "T9" references unknown node "EN999"`},
		{&NotFoundError{A: "PN001", B: "EN002"}, `no connecting track between "PN001" and "EN002"`},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
