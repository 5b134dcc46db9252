package layout

// Track is a segment joining two nodes. Length is only meaningful when
// HasLength is true; the unit is whatever the document uses.
type Track struct {
	ID        string
	StartNode string
	EndNode   string
	Length    float64
	HasLength bool
}

// NewTrack constructs a Track from rec. id, start_node and end_node are
// required strings; length is optional and must be a non-negative number.
func NewTrack(rec Record) (Track, error) {
	id, err := rec.str("id")
	if err != nil {
		return Track{}, err
	}
	start, err := rec.str("start_node")
	if err != nil {
		return Track{}, err
	}
	end, err := rec.str("end_node")
	if err != nil {
		return Track{}, err
	}
	length, ok, err := rec.number("length")
	if err != nil {
		return Track{}, err
	}
	if ok && length < 0 {
		return Track{}, &SchemaError{Field: "length", Msg: "must be non-negative"}
	}
	return Track{
		ID:        id,
		StartNode: start,
		EndNode:   end,
		Length:    length,
		HasLength: ok,
	}, nil
}

// Connects reports whether the track's unordered endpoint pair is {a, b}.
func (t Track) Connects(a, b string) bool {
	return (t.StartNode == a && t.EndNode == b) || (t.StartNode == b && t.EndNode == a)
}

// Other returns the endpoint opposite id, or false if id is not an endpoint.
func (t Track) Other(id string) (string, bool) {
	switch id {
	case t.StartNode:
		return t.EndNode, true
	case t.EndNode:
		return t.StartNode, true
	default:
		return "", false
	}
}
