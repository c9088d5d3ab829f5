package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/wavetower/pkg/render"
	"github.com/matzehuels/wavetower/pkg/wave"
	"github.com/matzehuels/wavetower/pkg/wave/edges"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the signal name and cycle offset in node labels.
	// When false, only the node character is shown.
	Detailed bool
}

type node struct {
	char   rune
	signal string
	at     wave.CycleOffset
}

// ToDOT converts the named nodes and edges of a figure to Graphviz DOT
// format. The resulting DOT string can be rendered using [RenderSVG],
// [RenderPDF], or [RenderPNG].
//
// Only the first occurrence of a node character becomes a graph node, the
// same rule the waveform edge router uses. Silent (upper-case) anchors are
// drawn dashed. Edges that do not parse or that name unknown nodes are left
// out.
func ToDOT(f *wave.Figure, opts Options) string {
	var nodes []node
	seen := make(map[rune]bool)
	for _, sig := range f.Signals() {
		var i uint32
		for _, c := range sig.Nodes {
			if c != '.' && !seen[c] {
				seen[c] = true
				nodes = append(nodes, node{char: c, signal: sig.Name, at: sig.Phase.Add(wave.Rounded(i))})
			}
			i++
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [color=\"#0000FF\", fontsize=11];\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
		if n.char >= 'A' && n.char <= 'Z' {
			attrs = append(attrs, "style=\"filled,dashed\"", "fontcolor=grey40")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", string(n.char), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	defs, _ := edges.ParseAll(f.Edges)
	for _, d := range defs {
		if d.From == d.To || !seen[d.From] || !seen[d.To] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", string(d.From), string(d.To), strings.Join(edgeAttrs(d), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n node, detailed bool) string {
	if !detailed {
		return string(n.char)
	}
	parts := []string{string(n.char)}
	if n.signal != "" {
		parts = append(parts, "signal: "+n.signal)
	}
	parts = append(parts, "cycle: "+n.at.String())
	return strings.Join(parts, "\n")
}

func edgeAttrs(d edges.Definition) []string {
	var attrs []string
	if d.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", d.Label))
	}
	if d.Kind == edges.Cross {
		return append(attrs, "dir=both", "arrowhead=tee", "arrowtail=tee")
	}
	switch d.Arrow {
	case edges.ArrowNone:
		attrs = append(attrs, "dir=none")
	case edges.ArrowStart:
		attrs = append(attrs, "dir=back")
	case edges.ArrowBoth:
		attrs = append(attrs, "dir=both")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
