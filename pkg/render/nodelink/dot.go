package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	rerrors "github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/layout"
	"github.com/matzehuels/railyard/pkg/render"
	"github.com/matzehuels/railyard/pkg/render/text"
)

// Format is an output format for [Render].
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// Formats lists every supported output format.
var Formats = []Format{FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", rerrors.New(rerrors.ErrCodeInvalidFormat, "unsupported render format %q (want dot, svg, png or pdf)", s)
}

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the track ids named by each node in its label.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts a layout to Graphviz DOT format. Nodes and edges appear in
// document order, so the output is stable for a given document.
func ToDOT(l *layout.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=14];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes() {
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.ID()), strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, t := range l.Tracks() {
		fmt.Fprintf(&buf, "  %s -- %s [label=%s];\n",
			quote(t.StartNode), quote(t.EndNode), label(t.ID, text.Length(t)))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n layout.Node, detailed bool) []string {
	lines := []string{n.ID()}
	if detailed {
		for _, ref := range n.TrackRefs() {
			lines = append(lines, ref.Field+": "+ref.TrackID)
		}
	}

	attrs := []string{"label=" + label(lines...)}
	switch n.(type) {
	case layout.TerminalNode:
		attrs = append(attrs, "shape=box", "style=\"rounded,filled\"")
	case layout.SwitchNode:
		attrs = append(attrs, "shape=diamond", "fillcolor=lightgrey")
	}
	return attrs
}

// quote returns s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + escape(s) + `"`
}

// label joins lines into a quoted DOT label using centered line breaks.
func label(lines ...string) string {
	esc := make([]string, len(lines))
	for i, l := range lines {
		esc[i] = escape(l)
	}
	return `"` + strings.Join(esc, `\n`) + `"`
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "")

func escape(s string) string { return dotEscaper.Replace(s) }

// Render renders DOT source in the requested format. DOT is returned as-is;
// SVG is produced by Graphviz; PNG and PDF are converted from the SVG.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPNG:
		svg, err := RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, svg, 2.0)
	case FormatPDF:
		svg, err := RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(ctx, svg)
	default:
		return nil, rerrors.New(rerrors.ErrCodeUnsupported, "unsupported render format %q", format)
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one
// whose viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}
