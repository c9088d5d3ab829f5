package sink

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/matzehuels/wavetower/pkg/fonts"
	"github.com/matzehuels/wavetower/pkg/render/layout"
	"github.com/matzehuels/wavetower/pkg/render/route"
	"github.com/matzehuels/wavetower/pkg/style"
	"github.com/matzehuels/wavetower/pkg/wave"
	"github.com/matzehuels/wavetower/pkg/wave/figure"
	"github.com/matzehuels/wavetower/pkg/wave/path"
)

// dashLength is the dash and gap length of dashed signal lines.
const dashLength = 4

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	metrics   fonts.Metrics
	dims      *layout.Dimensions
	edges     []route.Edge
	textNodes []route.Text
	routed    bool
}

// WithMetrics sets the font metrics used for text measurement. Defaults to
// [fonts.Helvetica].
func WithMetrics(m fonts.Metrics) SVGOption { return func(r *svgRenderer) { r.metrics = m } }

// WithDimensions reuses an existing layout instead of computing one.
func WithDimensions(d layout.Dimensions) SVGOption {
	return func(r *svgRenderer) { r.dims = &d }
}

// WithRoutes reuses routed edges and placed text nodes.
func WithRoutes(edges []route.Edge, textNodes []route.Text) SVGOption {
	return func(r *svgRenderer) { r.edges, r.textNodes, r.routed = edges, textNodes, true }
}

func newSVGRenderer(a *figure.Assembled, o style.Options, opts ...SVGOption) svgRenderer {
	r := svgRenderer{metrics: fonts.Helvetica()}
	for _, opt := range opts {
		opt(&r)
	}
	if r.dims == nil {
		d := layout.Compute(a, o, r.metrics)
		r.dims = &d
	}
	if !r.routed {
		r.edges = route.Route(a.Edges, r.dims, o.Signal.Edge, r.metrics)
		r.textNodes = route.TextNodes(a.Edges, r.dims, o.Signal.Edge, r.metrics)
	}
	return r
}

// RenderSVG renders a as a self-contained SVG document.
func RenderSVG(a *figure.Assembled, o style.Options, opts ...SVGOption) []byte {
	var buf bytes.Buffer
	_ = WriteSVG(&buf, a, o, opts...)
	return buf.Bytes()
}

// WriteSVG streams the SVG document of a to w. The first write error stops
// serialization and is returned unchanged.
func WriteSVG(w io.Writer, a *figure.Assembled, o style.Options, opts ...SVGOption) error {
	r := newSVGRenderer(a, o, opts...)
	sw := &svgWriter{w: w, family: r.metrics.Family()}
	if sw.family == "" {
		sw.family = fonts.FontFamily
	}

	d := r.dims
	sw.printf(`<svg version="1.1" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %d %d" overflow="hidden" width="%d" height="%d">`,
		d.Figure.Width, d.Figure.Height, d.Figure.Width, d.Figure.Height)

	writeDefs(sw, a, o, d)

	if o.Background != nil {
		sw.printf(`<rect width="100%%" height="100%%" fill="%s"/>`, o.Background)
	}

	if a.Header != "" {
		x, y := d.HeaderTextCenter()
		sw.text(float64(x), float64(y), a.Header, o.Header.FontSize, o.Header.Color, "")
	}
	writeRuler(sw, d.TopRuler(a.TopMarker, a.NumCycles), o.Header)

	sw.printf("<g>")
	for _, x := range d.HintLineX(a.NumCycles) {
		sw.printf(`<use transform="translate(%d,%d)" xlink:href="#cl"/>`, x, d.Schema.Y)
	}
	sw.printf("</g>")

	writeGroups(sw, a, o, d)
	writeSignals(sw, a, o, d)

	if a.Footer != "" {
		x, y := d.FooterTextCenter()
		sw.text(float64(x), float64(y), a.Footer, o.Footer.FontSize, o.Footer.Color, "")
	}
	writeRuler(sw, d.BottomRuler(a.BottomMarker, a.NumCycles), o.Footer)

	writeEdges(sw, r.edges, o.Signal.Edge)
	if len(r.textNodes) > 0 {
		sw.printf("<g>")
		for _, t := range r.textNodes {
			sw.boxedText(t, o.Signal.Edge.NodeTextColor, o.Signal.Edge.NodeBackgroundColor)
		}
		sw.printf("</g>")
	}

	sw.printf("</svg>")
	return sw.err
}

// svgWriter formats into w until the first error, which it keeps.
type svgWriter struct {
	w      io.Writer
	err    error
	family string
}

func (s *svgWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *svgWriter) text(x, y float64, text string, size uint32, color style.Color, transform string) {
	if transform != "" {
		transform = fmt.Sprintf(` transform="%s"`, transform)
	}
	s.printf(`<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%d" fill="%s" letter-spacing="0"%s><tspan>%s</tspan></text>`,
		route.FormatFloat(x), route.FormatFloat(y), s.family, size, color, transform, escape(text))
}

func (s *svgWriter) boxedText(t route.Text, color, background style.Color) {
	x, y, w, h := t.Box()
	s.printf(`<g><rect x="%s" y="%s" width="%d" height="%d" stroke="none" fill="%s"/>`,
		route.FormatFloat(x), route.FormatFloat(y), w, h, background)
	s.text(t.At.X, t.At.Y, t.Text, t.FontSize, color, "")
	s.printf("</g>")
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string {
	return escaper.Replace(s)
}

func writeDefs(s *svgWriter, a *figure.Assembled, o style.Options, d *layout.Dimensions) {
	s.printf("<defs>")
	if a.Definitions.HasUndefined {
		s.printf(`<pattern id="x-bg" patternUnits="userSpaceOnUse" width="4" height="10" patternTransform="rotate(45)">`)
		if o.UndefinedBackground != nil {
			s.printf(`<rect x="0" y="0" width="4" height="10" fill="%s"/>`, o.UndefinedBackground)
		}
		s.printf(`<line x1="0" y1="0" x2="0" y2="10" stroke="%s" stroke-width="1"/></pattern>`, o.Signal.UndefinedColor)
	}
	if a.Definitions.HasPosedgeMarker {
		s.printf(`<g id="pei">`)
		edgeArrow(s, d.SignalHeight, o.Signal.PathColor, 1)
		s.printf("</g>")
	}
	if a.Definitions.HasNegedgeMarker {
		s.printf(`<g id="nei">`)
		edgeArrow(s, d.SignalHeight, o.Signal.PathColor, -1)
		s.printf("</g>")
	}
	if a.Definitions.HasGaps {
		s.printf(`<g id="gap">`)
		gapGlyph(s, d.SignalHeight, o.Signal.GapColor, o.Signal.GapBackgroundColor)
		s.printf("</g>")
	}
	s.printf(`<g id="cl"><path fill="none" d="M0,0v%d" stroke-width="1" stroke-dasharray="2" stroke="%s"/></g>`,
		d.Schema.Height, o.Signal.HintLineColor)
	s.printf("</defs>")
}

// edgeArrow draws a clock-edge triangle pointing up for dir 1 and down for
// dir -1.
func edgeArrow(s *svgWriter, signalHeight uint32, color style.Color, dir int64) {
	k := int64(signalHeight / 6)
	s.printf(`<path d="M%d,%dL0,%dL%d,%dH%dz" fill="%s" stroke="none"/>`,
		-k, dir*k, -dir*k, k, dir*k, -2*k, color)
}

// gapGlyph draws the break marker: two parallel S-curves with the band
// between them filled.
func gapGlyph(s *svgWriter, signalHeight uint32, color, background style.Color) {
	const (
		a        = 8.0
		distance = 4.0
	)
	b := float64(signalHeight)/2 + 6
	rad := math.Atan(-2 * b / a)

	start := route.Point{X: -a, Y: b}
	end := route.Point{X: a, Y: -b}
	c1 := route.Point{X: -a / 2, Y: b}
	c2 := route.Point{X: math.Cos(rad) * a / -2, Y: math.Sin(rad) * a / -2}
	c3 := route.Point{X: a / 2, Y: -b}

	f := route.FormatFloat
	shift := func(p route.Point, dx float64) string {
		return f(p.X+dx) + "," + f(p.Y)
	}
	left := fmt.Sprintf("M%sC%s %s %sS%s %s",
		shift(start, -distance/2), shift(c1, -distance/2), shift(c2, -distance/2),
		shift(route.Point{}, -distance/2), shift(c3, -distance/2), shift(end, -distance/2))
	right := fmt.Sprintf("M%sC%s %s %sS%s %s",
		shift(end, distance/2), shift(c3, distance/2), shift(route.Point{X: -c2.X, Y: -c2.Y}, distance/2),
		shift(route.Point{}, distance/2), shift(c1, distance/2), shift(start, distance/2))
	fill := left + "H" + f(end.X+distance/2) + right[strings.IndexByte(right, 'C'):] + "H" + f(start.X-distance/2) + "z"

	s.printf(`<path d="%s" fill="%s" stroke="none"/>`, fill, background)
	s.printf(`<path d="%s" fill="none" stroke="%s" stroke-width="1"/>`, left, color)
	s.printf(`<path d="%s" fill="none" stroke="%s" stroke-width="1"/>`, right, color)
}

func writeRuler(s *svgWriter, ticks []layout.Tick, b style.Banner) {
	if len(ticks) == 0 {
		return
	}
	s.printf("<g>")
	for _, t := range ticks {
		s.text(float64(t.X), float64(t.Y), fmt.Sprint(t.Cycle), b.CycleMarkerFontSize, b.CycleMarkerColor, "")
	}
	s.printf("</g>")
}

func writeGroups(s *svgWriter, a *figure.Assembled, o style.Options, d *layout.Dimensions) {
	if len(a.GroupMarkers) == 0 {
		return
	}
	gi := o.Signal.GroupIndicator
	w := int64(gi.Width)

	s.printf("<g>")
	for _, g := range a.GroupMarkers {
		if g.IsEmpty() {
			continue
		}
		r := d.GroupIndicator(g)
		if g.Label != nil {
			s.printf(`<g transform="translate(%d,%d)">`, int64(r.X)-int64(gi.LabelFontSize/2), r.CenterY())
			s.printf(`<text text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%d" fill="%s" letter-spacing="0" transform="rotate(270)"><tspan>%s</tspan></text></g>`,
				s.family, gi.LabelFontSize, gi.LabelColor, escape(*g.Label))
		}
		s.printf(`<path fill="none" d="M%d,%dm%d,0c-3,0 -%d,1 -%d,%dv%dc0,3 1,%d %d,%d" stroke="%s"/>`,
			r.X, r.Y, w, w, w, w, int64(r.Height)-2*w, w, w, w, gi.Color)
	}
	s.printf("</g>")
}

func writeSignals(s *svgWriter, a *figure.Assembled, o style.Options, d *layout.Dimensions) {
	s.printf("<g>")
	for i, line := range a.Lines {
		x := d.Schema.X
		if d.HasTextbox {
			x = d.Textbox.X
		}
		s.printf(`<g transform="translate(%d,%d)">`, x, d.SignalTop(uint32(i)))

		if line.Text != "" {
			s.printf(`<g transform="translate(0,%d)"><text dominant-baseline="middle" font-family="%s" font-size="%d" fill="%s" letter-spacing="0"><tspan>%s</tspan></text></g>`,
				d.SignalHeight/2, s.family, o.Signal.NameFontSize, o.Signal.NameColor, escape(line.Text))
		}

		if d.HasTextbox {
			s.printf(`<g transform="translate(%d)">`, d.Schema.X-d.Textbox.X)
			writeSignal(s, line.Path, o, d)
			s.printf("</g>")
		} else {
			writeSignal(s, line.Path, o, d)
		}
		s.printf("</g>")
	}
	s.printf("</g>")
}

func writeSignal(s *svgWriter, p path.Assembled, o style.Options, d *layout.Dimensions) {
	for _, seg := range p.Segments {
		fill := "none"
		switch {
		case seg.Background == wave.BackgroundUndefined:
			fill = "url(#x-bg)"
		case seg.Background != wave.NoBackground:
			if c, ok := o.BackgroundColor(seg.Background); ok {
				fill = c.String()
			}
		}

		outline := segmentPath(seg, false)
		if seg.Background != wave.NoBackground {
			outline += "z"
		}
		if seg.FullyStroked {
			s.printf(`<path fill="%s" d="%s" stroke-width="1" stroke="%s"/>`, fill, outline, o.Signal.PathColor)
		} else {
			s.printf(`<path fill="%s" d="%s" stroke="none"/>`, fill, outline)
			s.printf(`<path fill="none" d="%s" stroke-width="1" stroke="%s"/>`, segmentPath(seg, true), o.Signal.PathColor)
		}

		if seg.Text != "" {
			s.printf(`<g transform="translate(%d,%d)">`, seg.X+seg.Width/2, d.SignalHeight/2)
			s.printf(`<text text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%d" fill="%s" letter-spacing="0"><tspan>%s</tspan></text></g>`,
				s.family, o.Signal.MarkerFontSize, o.Signal.MarkerColor, escape(seg.Text))
		}

		for _, m := range seg.Markers {
			id := "pei"
			if m.Edge == path.NegativeEdge {
				id = "nei"
			}
			s.printf(`<use transform="translate(%d,%d)" xlink:href="#%s"/>`, m.At.WidthOffset(d.CycleWidth), d.SignalHeight/2, id)
		}
		for _, g := range seg.Gaps {
			s.printf(`<use transform="translate(%d,%d)" xlink:href="#gap"/>`, g.WidthOffset(d.CycleWidth), d.SignalHeight/2)
		}
	}
}

// segmentPath renders the outline of seg. With strokeOnly, unstroked
// vertical moves become pen-up moves.
func segmentPath(seg path.Segment, strokeOnly bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M%d,%d", seg.X, seg.Y)
	for _, c := range seg.Commands {
		switch c.Kind {
		case path.VerticalNoStroke:
			if strokeOnly {
				fmt.Fprintf(&b, "m0,%d", c.DY)
			} else {
				fmt.Fprintf(&b, "v%d", c.DY)
			}
		case path.Vertical:
			fmt.Fprintf(&b, "v%d", c.DY)
		case path.Horizontal:
			fmt.Fprintf(&b, "h%d", c.DX)
		case path.DashedHorizontal:
			dashedHorizontal(&b, c.DX)
		case path.Line:
			fmt.Fprintf(&b, "l%d,%d", c.DX, c.DY)
		case path.Curve:
			fmt.Fprintf(&b, "c%d,%d %d,%d %d,%d", c.CX1, c.CY1, c.CX2, c.CY2, c.DX, c.DY)
		}
	}
	return b.String()
}

// dashedHorizontal alternates dashLength strokes and moves until dx is
// covered.
func dashedHorizontal(b *strings.Builder, dx int32) {
	step := int32(dashLength)
	if dx < 0 {
		step = -dashLength
	}
	total := abs(dx)
	for cx := int32(0); cx < total; {
		fmt.Fprintf(b, "h%d", step)
		cx = min(total, cx+dashLength)
		if cx >= total {
			break
		}
		fmt.Fprintf(b, "m%d,0", step)
		cx = min(total, cx+dashLength)
	}
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func writeEdges(s *svgWriter, edges []route.Edge, o style.Edge) {
	if len(edges) == 0 {
		return
	}
	s.printf("<g>")
	for _, e := range edges {
		s.printf(`<g><path d="%s" fill="none" stroke="%s" stroke-width="1"/>`, e.Path, o.EdgeColor)
		if e.Arrows != "" {
			s.printf(`<path d="%s" fill="%s" stroke="none"/>`, e.Arrows, o.EdgeArrowColor)
		}
		s.printf("</g>")
	}
	for _, e := range edges {
		if e.FromMarker != nil {
			s.boxedText(*e.FromMarker, o.NodeTextColor, o.NodeBackgroundColor)
		}
		if e.ToMarker != nil {
			s.boxedText(*e.ToMarker, o.NodeTextColor, o.NodeBackgroundColor)
		}
		if e.Label != nil {
			s.boxedText(*e.Label, o.EdgeTextColor, o.EdgeTextBackgroundColor)
		}
	}
	s.printf("</g>")
}
