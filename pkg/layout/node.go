package layout

// NodeKind discriminates the node variants.
type NodeKind int

const (
	// KindTerminal is a dead end with one adjacent track.
	KindTerminal NodeKind = iota + 1
	// KindSwitch is a three-way junction (a set of points).
	KindSwitch
)

// Document discriminators for the node variants.
const (
	TypeEndNode    = "end_node"
	TypePointsNode = "points_node"
	TypeTrack      = "track"
)

// String returns the document discriminator for k.
func (k NodeKind) String() string {
	switch k {
	case KindTerminal:
		return TypeEndNode
	case KindSwitch:
		return TypePointsNode
	default:
		return "unknown"
	}
}

// ParseNodeKind maps a document discriminator to a NodeKind.
func ParseNodeKind(s string) (NodeKind, bool) {
	switch s {
	case TypeEndNode:
		return KindTerminal, true
	case TypePointsNode:
		return KindSwitch, true
	default:
		return 0, false
	}
}

// Node is a layout endpoint. The set of implementations is closed:
// [TerminalNode] and [SwitchNode].
type Node interface {
	// ID returns the node's unique identifier.
	ID() string
	// Kind returns the variant discriminator.
	Kind() NodeKind
	// TrackRefs returns the track ids the node names, keyed by field.
	TrackRefs() []TrackRef

	sealed()
}

// TrackRef is a track id named by a node, together with the field it
// came from.
type TrackRef struct {
	Field   string
	TrackID string
}

// TerminalNode is a dead end with exactly one adjacent track.
type TerminalNode struct {
	NodeID string
	Track  string
}

func (n TerminalNode) ID() string     { return n.NodeID }
func (n TerminalNode) Kind() NodeKind { return KindTerminal }
func (n TerminalNode) sealed()        {}

func (n TerminalNode) TrackRefs() []TrackRef {
	return []TrackRef{{Field: "track", TrackID: n.Track}}
}

// SwitchNode is a three-way junction. Facing is the merged side; Forward
// and Reverse are the two diverging routes.
type SwitchNode struct {
	NodeID  string
	Facing  string
	Forward string
	Reverse string
}

func (n SwitchNode) ID() string     { return n.NodeID }
func (n SwitchNode) Kind() NodeKind { return KindSwitch }
func (n SwitchNode) sealed()        {}

func (n SwitchNode) TrackRefs() []TrackRef {
	return []TrackRef{
		{Field: "facing", TrackID: n.Facing},
		{Field: "forward", TrackID: n.Forward},
		{Field: "reverse", TrackID: n.Reverse},
	}
}

// NewNode constructs the variant selected by kind from rec.
// It returns a *SchemaError naming the first required field that is
// missing, empty, or not a string.
func NewNode(kind NodeKind, rec Record) (Node, error) {
	switch kind {
	case KindTerminal:
		return newTerminal(rec)
	case KindSwitch:
		return newSwitch(rec)
	default:
		return nil, &SchemaError{Field: "type", Msg: "unrecognized node type"}
	}
}

func newTerminal(rec Record) (Node, error) {
	id, err := rec.str("id")
	if err != nil {
		return nil, err
	}
	track, err := rec.str("track")
	if err != nil {
		return nil, err
	}
	return TerminalNode{NodeID: id, Track: track}, nil
}

func newSwitch(rec Record) (Node, error) {
	var fields [4]string
	for i, name := range []string{"id", "facing", "forward", "reverse"} {
		v, err := rec.str(name)
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	return SwitchNode{
		NodeID:  fields[0],
		Facing:  fields[1],
		Forward: fields[2],
		Reverse: fields[3],
	}, nil
}
