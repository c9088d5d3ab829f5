// Package route computes the drawn geometry of resolved edges.
//
// Each [edges.Line] between two node positions becomes an [Edge]: an SVG
// path for the route, a path for its arrowheads, and the text boxes for its
// node markers and label. Routes start and end on the boundary of a visible
// marker's text box rather than at its center.
//
// When both endpoints share an x or a y coordinate the route degenerates to
// a pure vertical or horizontal segment, whatever shape was declared.
// Otherwise the declared [edges.Kind] selects a straight line, one of three
// orthogonal sharp routes or one of three cubic splines.
//
// An arrowed end is pulled back by the arrow size along its tangent and the
// arrowhead triangle is placed at the original end point. Cross edges are
// pulled back by a quarter of the arrow size and get a short perpendicular
// tick at both ends.
package route

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/wavetower/pkg/fonts"
	"github.com/matzehuels/wavetower/pkg/render/layout"
	"github.com/matzehuels/wavetower/pkg/style"
	"github.com/matzehuels/wavetower/pkg/wave/edges"
)

const (
	// crossTick is half the length of a cross edge's end tick.
	crossTick = 5

	splineStartC1 = 0.25
	splineStartC2 = 0.8
	splineEndC1   = 0.2
	splineEndC2   = 0.75
)

// Point is a position in figure pixels.
type Point struct {
	X, Y float64
}

// Text is a label drawn centered on At over a background box.
type Text struct {
	At       Point
	Text     string
	FontSize uint32
	Width    uint32
}

// Box returns the background rectangle of the text.
func (t Text) Box() (x, y float64, w, h uint32) {
	return t.At.X - float64(t.Width)/2, t.At.Y - float64(t.FontSize)/2, t.Width, t.FontSize
}

// Edge is the drawn form of one edge.
type Edge struct {
	// Path is the route, as SVG path data.
	Path string
	// Arrows is the arrowhead triangles, as SVG path data. Empty when the
	// edge has no arrowheads.
	Arrows string

	// Middle is the anchor of the label.
	Middle Point

	Label      *Text
	FromMarker *Text
	ToMarker   *Text
}

// ray is an origin with the local direction of the route there.
type ray struct {
	origin Point
	dir    Point
}

func (r ray) invert() ray {
	return ray{origin: r.origin, dir: Point{-r.dir.X, -r.dir.Y}}
}

func up(x, y float64) ray    { return ray{Point{x, y}, Point{0, -1}} }
func down(x, y float64) ray  { return ray{Point{x, y}, Point{0, 1}} }
func left(x, y float64) ray  { return ray{Point{x, y}, Point{-1, 0}} }
func right(x, y float64) ray { return ray{Point{x, y}, Point{1, 0}} }

// bbox is a text box around a node position. A zero-size box is a point.
type bbox struct {
	mid           Point
	width, height float64
}

func (b bbox) xMin() float64 { return b.mid.X - b.width/2 }
func (b bbox) xMax() float64 { return b.mid.X + b.width/2 }
func (b bbox) yMin() float64 { return b.mid.Y - b.height/2 }
func (b bbox) yMax() float64 { return b.mid.Y + b.height/2 }

// intersect returns where the ray from the box center toward p leaves the
// box.
func (b bbox) intersect(p Point) Point {
	if b.width == 0 || b.height == 0 {
		return b.mid
	}

	dx, dy := p.X-b.mid.X, p.Y-b.mid.Y
	bx := sign(dx) * b.width / 2
	by := sign(dy) * b.height / 2

	switch {
	case dx == 0 && dy == 0:
		return b.mid
	case dy == 0:
		return Point{b.mid.X + bx, b.mid.Y}
	case dx == 0:
		return Point{b.mid.X, b.mid.Y + by}
	}

	xy := bx * (dy / dx)
	yx := by * (dx / dy)

	if bx*bx+xy*xy < by*by+yx*yx {
		return Point{b.mid.X + bx, b.mid.Y + xy}
	}
	return Point{b.mid.X + yx, b.mid.Y + by}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// offset moves p by amount along dir. It reports false for a zero dir.
func offset(p, dir Point, amount float64) (Point, bool) {
	switch {
	case dir.X == 0 && dir.Y == 0:
		return p, false
	case dir.X == 0:
		return Point{p.X, p.Y + sign(dir.Y)*amount}, true
	case dir.Y == 0:
		return Point{p.X + sign(dir.X)*amount, p.Y}, true
	}
	dydx := dir.Y / dir.X
	xo := sign(dir.X) * amount / math.Sqrt(1+dydx*dydx)
	return Point{p.X + xo, p.Y + dydx*xo}, true
}

// Router routes edges within one laid out figure.
type Router struct {
	dims    *layout.Dimensions
	opts    style.Edge
	metrics fonts.Metrics
}

// NewRouter returns a router for the figure laid out as d.
func NewRouter(d *layout.Dimensions, o style.Edge, m fonts.Metrics) *Router {
	return &Router{dims: d, opts: o, metrics: m}
}

// Route draws every line of m. Lines whose endpoints coincide are skipped.
func Route(m edges.Markers, d *layout.Dimensions, o style.Edge, metrics fonts.Metrics) []Edge {
	r := NewRouter(d, o, metrics)
	out := make([]Edge, 0, len(m.Lines))
	for _, l := range m.Lines {
		if e, ok := r.Edge(l); ok {
			out = append(out, e)
		}
	}
	return out
}

// TextNodes places the free standing node characters of m.
func TextNodes(m edges.Markers, d *layout.Dimensions, o style.Edge, metrics fonts.Metrics) []Text {
	r := NewRouter(d, o, metrics)
	out := make([]Text, 0, len(m.TextNodes))
	for _, n := range m.TextNodes {
		out = append(out, r.text(r.position(n.At), string(n.Char), o.NodeFontSize))
	}
	return out
}

func (r *Router) position(p edges.Position) Point {
	return Point{float64(r.dims.CycleX(p.X)), float64(r.dims.SignalMiddle(p.Line))}
}

func (r *Router) text(at Point, s string, size uint32) Text {
	return Text{At: at, Text: s, FontSize: size, Width: r.metrics.Width(s, size)}
}

func (r *Router) box(at Point, marker rune) bbox {
	if marker == 0 {
		return bbox{mid: at}
	}
	size := r.opts.NodeFontSize
	return bbox{
		mid:    at,
		width:  float64(r.metrics.Width(string(marker), size)),
		height: float64(size),
	}
}

// Edge routes a single line. It reports false when both endpoints are the
// same point.
func (r *Router) Edge(l edges.Line) (Edge, bool) {
	from, to := r.position(l.From), r.position(l.To)
	if from == to {
		return Edge{}, false
	}

	fb, tb := r.box(from, l.FromMarker), r.box(to, l.ToMarker)
	kind := l.Variant.Kind
	start, end := r.endpoints(kind, from, to, fb, tb)

	arrowSize := float64(r.opts.EdgeArrowSize)
	startPt, endPt := start.origin, end.origin
	switch {
	case l.Variant.Arrow.HasStart():
		if p, ok := offset(start.origin, start.dir, arrowSize); ok {
			startPt = p
		}
	case kind == edges.Cross:
		if p, ok := offset(start.origin, start.dir, arrowSize/4); ok {
			startPt = p
		}
	}
	switch {
	case l.Variant.Arrow.HasEnd():
		if p, ok := offset(end.origin, end.dir, -arrowSize); ok {
			endPt = p
		}
	case kind == edges.Cross:
		if p, ok := offset(end.origin, end.dir, -arrowSize/4); ok {
			endPt = p
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M%s,%s", FormatFloat(startPt.X), FormatFloat(startPt.Y))
	middle := r.drawRoute(&b, kind, from, to, start, end, endPt)

	if kind == edges.Cross {
		crossTicks(&b, from, to, startPt, endPt)
	}

	e := Edge{Path: b.String(), Middle: middle}
	e.Arrows = arrowHeads(l.Variant.Arrow, start, end, r.opts.EdgeArrowSize)

	if l.FromMarker != 0 {
		t := r.text(from, string(l.FromMarker), r.opts.NodeFontSize)
		e.FromMarker = &t
	}
	if l.ToMarker != 0 {
		t := r.text(to, string(l.ToMarker), r.opts.NodeFontSize)
		e.ToMarker = &t
	}
	if l.Label != "" {
		t := r.text(middle, l.Label, r.opts.EdgeTextFontSize)
		e.Label = &t
	}
	return e, true
}

// endpoints returns the rays at which the route leaves from and enters to.
func (r *Router) endpoints(kind edges.Kind, from, to Point, fb, tb bbox) (ray, ray) {
	horizontal := func() (ray, ray) {
		if from.X < to.X {
			return right(fb.xMax(), from.Y), right(tb.xMin(), to.Y)
		}
		return left(fb.xMin(), from.Y), left(tb.xMax(), to.Y)
	}
	vertical := func(x float64, b bbox, isFrom bool) ray {
		if from.Y < to.Y {
			if isFrom {
				return down(x, b.yMax())
			}
			return down(x, b.yMin())
		}
		if isFrom {
			return up(x, b.yMin())
		}
		return up(x, b.yMax())
	}

	switch {
	case from.X == to.X:
		return vertical(from.X, fb, true), vertical(to.X, tb, false)
	case from.Y == to.Y:
		return horizontal()
	}

	switch kind {
	case edges.SplineBoth, edges.SharpBoth:
		return horizontal()
	case edges.SplineStart:
		dx := to.X - from.X
		c1 := Point{from.X + dx*splineStartC1, from.Y}
		c2 := Point{from.X + dx*splineStartC2, from.Y}
		return ray{fb.intersect(c1), Point{c1.X - from.X, 0}},
			ray{tb.intersect(c2), Point{to.X - c2.X, to.Y - c2.Y}}
	case edges.SplineEnd:
		dx := to.X - from.X
		c1 := Point{from.X + dx*splineEndC1, to.Y}
		c2 := Point{from.X + dx*splineEndC2, to.Y}
		return ray{fb.intersect(c1), Point{c1.X - from.X, c1.Y - from.Y}},
			ray{tb.intersect(c2), Point{to.X - c2.X, 0}}
	case edges.SharpStart:
		s, _ := horizontal()
		return s, vertical(to.X, tb, false)
	case edges.SharpEnd:
		_, e := horizontal()
		return vertical(from.X, fb, true), e
	}

	// Straight and Cross
	dir := Point{to.X - from.X, to.Y - from.Y}
	return ray{fb.intersect(to), dir}, ray{tb.intersect(from), dir}
}

// drawRoute appends the route after the initial move and returns the label
// anchor.
func (r *Router) drawRoute(b *strings.Builder, kind edges.Kind, from, to Point, start, end ray, endPt Point) Point {
	ex, ey := FormatFloat(endPt.X), FormatFloat(endPt.Y)
	mid := Point{(from.X + to.X) / 2, (from.Y + to.Y) / 2}

	switch {
	case from.X == to.X:
		fmt.Fprintf(b, "V%s", ey)
		return mid
	case from.Y == to.Y:
		fmt.Fprintf(b, "H%s", ex)
		return mid
	}

	switch kind {
	case edges.SplineBoth:
		hx := FormatFloat(math.Floor(mid.X))
		fmt.Fprintf(b, "C%s,%s %s,%s %s,%s", hx, FormatFloat(from.Y), hx, FormatFloat(to.Y), ex, ey)
		return mid
	case edges.SplineStart, edges.SplineEnd:
		c1 := Point{start.origin.X + start.dir.X, start.origin.Y + start.dir.Y}
		c2 := Point{end.origin.X - end.dir.X, end.origin.Y - end.dir.Y}
		fmt.Fprintf(b, "C%s,%s %s,%s %s,%s",
			FormatFloat(c1.X), FormatFloat(c1.Y), FormatFloat(c2.X), FormatFloat(c2.Y), ex, ey)
		return Point{
			((start.origin.X+end.origin.X)/2 + c1.X + c2.X) / 3,
			((start.origin.Y+end.origin.Y)/2 + c1.Y + c2.Y) / 3,
		}
	case edges.SharpBoth:
		fmt.Fprintf(b, "H%sV%sH%s", FormatFloat(math.Floor(mid.X)), ey, ex)
		return mid
	case edges.SharpStart:
		fmt.Fprintf(b, "H%sV%s", ex, ey)
		return Point{to.X, from.Y}
	case edges.SharpEnd:
		fmt.Fprintf(b, "V%sH%s", ey, ex)
		return Point{from.X, to.Y}
	}

	fmt.Fprintf(b, "L%s,%s", ex, ey)
	return mid
}

// crossTicks appends the perpendicular end ticks of a cross edge.
func crossTicks(b *strings.Builder, from, to, s, e Point) {
	switch {
	case from.X == to.X:
		x := FormatFloat(s.X - crossTick)
		fmt.Fprintf(b, "M%s,%sh%dM%s,%sh%d", x, FormatFloat(s.Y), 2*crossTick, x, FormatFloat(e.Y), 2*crossTick)
	case from.Y == to.Y:
		y := FormatFloat(s.Y - crossTick)
		fmt.Fprintf(b, "M%s,%sv%dM%s,%sv%d", FormatFloat(s.X), y, 2*crossTick, FormatFloat(e.X), y, 2*crossTick)
	default:
		o, _ := offset(Point{}, Point{from.Y - to.Y, to.X - from.X}, crossTick)
		for _, p := range []Point{s, e} {
			fmt.Fprintf(b, "M%s,%sL%s,%s",
				FormatFloat(p.X+o.X), FormatFloat(p.Y+o.Y), FormatFloat(p.X-o.X), FormatFloat(p.Y-o.Y))
		}
	}
}

// arrowHeads returns the triangles for the arrowed ends.
func arrowHeads(a edges.Arrow, start, end ray, size uint32) string {
	var b strings.Builder
	if a.HasStart() {
		arrowHead(&b, start, size)
	}
	if a.HasEnd() {
		arrowHead(&b, end.invert(), size)
	}
	return b.String()
}

// arrowHead appends a triangle with its tip at r.origin pointing against
// r.dir.
func arrowHead(b *strings.Builder, r ray, size uint32) {
	base, ok := offset(r.origin, r.dir, float64(size))
	if !ok {
		return
	}
	perp := Point{-r.dir.Y, r.dir.X}
	half := float64(size / 2)
	v1, _ := offset(base, perp, half)
	v2, _ := offset(base, perp, -half)
	fmt.Fprintf(b, "M%s,%sL%s,%sL%s,%sz",
		FormatFloat(r.origin.X), FormatFloat(r.origin.Y),
		FormatFloat(v1.X), FormatFloat(v1.Y),
		FormatFloat(v2.X), FormatFloat(v2.Y))
}

// FormatFloat formats v with at most three decimals and no trailing zeros.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
