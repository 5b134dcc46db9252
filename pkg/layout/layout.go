package layout

import "slices"

// Layout is a validated, immutable rail-yard layout. The zero value is an
// empty layout; use [Build] to construct a populated one.
type Layout struct {
	nodes  map[string]Node
	order  []string         // node ids in document order
	tracks []Track          // document order
	pairs  map[pair]int     // unordered endpoint pair -> first track index
	byNode map[string][]int // node id -> indices of tracks touching it
}

// pair is an unordered node-id pair; lo <= hi.
type pair struct{ lo, hi string }

func makePair(a, b string) pair {
	if b < a {
		a, b = b, a
	}
	return pair{lo: a, hi: b}
}

// index fills the lookup tables. Only the first track per endpoint pair is
// recorded so lookups preserve first-match ordering.
func (l *Layout) index() {
	for i, t := range l.tracks {
		p := makePair(t.StartNode, t.EndNode)
		if _, ok := l.pairs[p]; !ok {
			l.pairs[p] = i
		}
		l.byNode[t.StartNode] = append(l.byNode[t.StartNode], i)
		if t.EndNode != t.StartNode {
			l.byNode[t.EndNode] = append(l.byNode[t.EndNode], i)
		}
	}
}

// FindTrack returns the first track, in document order, whose unordered
// endpoint pair is {a, b}. It returns a *NotFoundError when none matches.
//
// FindTrack(a, b) and FindTrack(b, a) always return the same result.
func (l *Layout) FindTrack(a, b string) (Track, error) {
	if i, ok := l.pairs[makePair(a, b)]; ok {
		return l.tracks[i], nil
	}
	return Track{}, &NotFoundError{A: a, B: b}
}

// Node returns the node with the given id.
func (l *Layout) Node(id string) (Node, bool) {
	n, ok := l.nodes[id]
	return n, ok
}

// Nodes returns all nodes in document order.
func (l *Layout) Nodes() []Node {
	out := make([]Node, len(l.order))
	for i, id := range l.order {
		out[i] = l.nodes[id]
	}
	return out
}

// Tracks returns a copy of all tracks in document order.
func (l *Layout) Tracks() []Track { return slices.Clone(l.tracks) }

// Track returns the track with the given id.
func (l *Layout) Track(id string) (Track, bool) {
	for _, t := range l.tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

// TracksAt returns the tracks with id as an endpoint, in document order.
// It returns nil for unknown ids and for nodes with no tracks.
func (l *Layout) TracksAt(id string) []Track {
	idx := l.byNode[id]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Track, len(idx))
	for i, j := range idx {
		out[i] = l.tracks[j]
	}
	return out
}

// NodeCount returns the number of nodes.
func (l *Layout) NodeCount() int { return len(l.nodes) }

// TrackCount returns the number of tracks.
func (l *Layout) TrackCount() int { return len(l.tracks) }
