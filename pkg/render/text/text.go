// Package text renders a layout as human-readable text.
//
// The rendering starts with a "Layout:" header followed by one
// tab-indented line per node, sorted by id, then one per track in
// document order:
//
//	Layout:
//		<EndNode: EN001>
//		<PointsNode: PN001>
//		<Track: T1, length: 12.5>
//
// [ParseIDs] reads the id sets back out of a rendering. Ids containing
// line breaks do not survive the round trip.
package text

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/railyard/pkg/layout"
)

const (
	header        = "Layout:"
	endPrefix     = "<EndNode: "
	pointsPrefix  = "<PointsNode: "
	trackPrefix   = "<Track: "
	lengthMarker  = ", length: "
	unknownLength = "unknown"
)

// Node formats a single node.
func Node(n layout.Node) string {
	switch n := n.(type) {
	case layout.TerminalNode:
		return endPrefix + n.NodeID + ">"
	case layout.SwitchNode:
		return pointsPrefix + n.NodeID + ">"
	default:
		return fmt.Sprintf("<Node: %s>", n.ID())
	}
}

// Track formats a single track.
func Track(t layout.Track) string {
	return trackPrefix + t.ID + lengthMarker + Length(t) + ">"
}

// Length formats a track length, or "unknown" when the track has none.
func Length(t layout.Track) string {
	if !t.HasLength {
		return unknownLength
	}
	return strconv.FormatFloat(t.Length, 'g', -1, 64)
}

// WriteLayout writes the full rendering of l to w.
func WriteLayout(w io.Writer, l *layout.Layout) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(header + "\n")

	nodes := l.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	for _, n := range nodes {
		bw.WriteString("\t" + Node(n) + "\n")
	}
	for _, t := range l.Tracks() {
		bw.WriteString("\t" + Track(t) + "\n")
	}
	return bw.Flush()
}

// Format returns the full rendering of l.
func Format(l *layout.Layout) string {
	var sb strings.Builder
	_ = WriteLayout(&sb, l)
	return sb.String()
}

// ParseIDs re-derives the node and track ids from a rendering produced by
// [WriteLayout]. Lines that are not node or track entries are ignored.
// Ids are returned in the order they appear.
func ParseIDs(s string) (nodes, tracks []string) {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimPrefix(strings.TrimSuffix(line, "\r"), "\t")
		if !strings.HasSuffix(line, ">") {
			continue
		}
		body := strings.TrimSuffix(line, ">")
		switch {
		case strings.HasPrefix(body, endPrefix):
			nodes = append(nodes, strings.TrimPrefix(body, endPrefix))
		case strings.HasPrefix(body, pointsPrefix):
			nodes = append(nodes, strings.TrimPrefix(body, pointsPrefix))
		case strings.HasPrefix(body, trackPrefix):
			body = strings.TrimPrefix(body, trackPrefix)
			if i := strings.LastIndex(body, lengthMarker); i >= 0 {
				tracks = append(tracks, body[:i])
			}
		}
	}
	return nodes, tracks
}
