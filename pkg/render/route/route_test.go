package route

import (
	"testing"

	"github.com/matzehuels/wavetower/pkg/fonts"
	"github.com/matzehuels/wavetower/pkg/render/layout"
	"github.com/matzehuels/wavetower/pkg/style"
	"github.com/matzehuels/wavetower/pkg/wave"
	"github.com/matzehuels/wavetower/pkg/wave/edges"
	"github.com/matzehuels/wavetower/pkg/wave/figure"
)

// routeOne lays out unnamed "0000" signals with the given node strings and
// routes the single edge decl. Line i's middle is at y = 28 + 32i and cycle
// c starts at x = 8 + 48c.
func routeOne(t *testing.T, decl string, nodes ...string) []Edge {
	t.Helper()
	var sections []wave.Section
	for _, n := range nodes {
		s := wave.NewSignal("0000").WithNodes(n)
		sections = append(sections, &s)
	}
	f := &wave.Figure{Sections: sections, Edges: []string{decl}}

	o := style.Default()
	a := figure.Assemble(f, o.Signal.Path)
	d := layout.Compute(a, o, fonts.Helvetica())
	return Route(a.Edges, &d, o.Signal.Edge, fonts.Helvetica())
}

func TestRoutePaths(t *testing.T) {
	tests := []struct {
		name       string
		decl       string
		nodes      []string
		wantPath   string
		wantArrows string
	}{
		{"horizontal", "A-B", []string{"A.B."}, "M8,28H104", ""},
		{"horizontal ignores spline", "A~B", []string{"A.B."}, "M8,28H104", ""},
		{"leftward", "B-A", []string{"A.B."}, "M104,28H8", ""},
		{"end arrow", "A->B", []string{"A.B."}, "M8,28H96", "M104,28L96,24L96,32z"},
		{"both arrows", "A<->B", []string{"A.B."}, "M16,28H96", "M8,28L16,32L16,24zM104,28L96,24L96,32z"},
		{"visible markers", "a-b", []string{"a.b."}, "M12,28H100", ""},
		{"vertical", "A-B", []string{".A", ".B"}, "M56,28V60", ""},
		{"sharp start", "A-|B", []string{"A...", "...B"}, "M8,28H152V60", ""},
		{"sharp end", "A|-B", []string{"A...", "...B"}, "M8,28V60H152", ""},
		{"sharp both", "A-|-B", []string{"A...", "...B"}, "M8,28H80V60H152", ""},
		{"spline both", "A~B", []string{"A...", "...B"}, "M8,28C80,28 80,60 152,60", ""},
		{"straight diagonal", "A-B", []string{"A...", "...B"}, "M8,28L152,60", ""},
		{"cross horizontal", "A+B", []string{"A.B."}, "M10,28H102M10,23v10M102,23v10", ""},
		{"cross vertical", "A+B", []string{".A", ".B"}, "M56,30V58M51,30h10M51,58h10", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := routeOne(t, tt.decl, tt.nodes...)
			if len(got) != 1 {
				t.Fatalf("Route() = %d edges, want 1", len(got))
			}
			if got[0].Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got[0].Path, tt.wantPath)
			}
			if got[0].Arrows != tt.wantArrows {
				t.Errorf("Arrows = %q, want %q", got[0].Arrows, tt.wantArrows)
			}
		})
	}
}

func TestRouteMiddleAndLabel(t *testing.T) {
	tests := []struct {
		name  string
		decl  string
		nodes []string
		want  Point
	}{
		{"straight", "A-B hold", []string{"A...", "...B"}, Point{80, 44}},
		{"sharp start", "A-|B hold", []string{"A...", "...B"}, Point{152, 28}},
		{"sharp end", "A|-B hold", []string{"A...", "...B"}, Point{8, 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := routeOne(t, tt.decl, tt.nodes...)[0]
			if e.Middle != tt.want {
				t.Errorf("Middle = %+v, want %+v", e.Middle, tt.want)
			}
			if e.Label == nil || e.Label.Text != "hold" || e.Label.At != tt.want {
				t.Errorf("Label = %+v, want %q at %+v", e.Label, "hold", tt.want)
			}
		})
	}
}

func TestRouteMarkers(t *testing.T) {
	e := routeOne(t, "a-B", "a.B.")[0]

	if e.FromMarker == nil || e.FromMarker.Text != "a" {
		t.Fatalf("FromMarker = %+v, want 'a'", e.FromMarker)
	}
	if e.FromMarker.At != (Point{8, 28}) || e.FromMarker.Width != 8 {
		t.Errorf("FromMarker = %+v, want at (8,28) width 8", e.FromMarker)
	}
	if e.ToMarker != nil {
		t.Errorf("ToMarker = %+v, want nil for silent anchor", e.ToMarker)
	}
	x, y, w, h := e.FromMarker.Box()
	if x != 4 || y != 21 || w != 8 || h != 14 {
		t.Errorf("Box() = %v,%v %vx%v, want 4,21 8x14", x, y, w, h)
	}
}

func TestSplineEndpointsLeaveMarkerBox(t *testing.T) {
	e := routeOne(t, "a-~b", "a...", "...b")[0]
	// from box spans x 4..12, y 21..35; the spline leaves it horizontally
	if e.Path[:6] != "M12,28" {
		t.Errorf("Path = %q, want start at M12,28", e.Path)
	}
}

func TestEdgeCoincidentDropped(t *testing.T) {
	o := style.Default()
	a := figure.Assemble(&wave.Figure{}, o.Signal.Path)
	d := layout.Compute(a, o, fonts.Helvetica())
	r := NewRouter(&d, o.Signal.Edge, fonts.Helvetica())

	p := edges.Position{X: wave.Rounded(1), Line: 0}
	if _, ok := r.Edge(edges.Line{From: p, To: p}); ok {
		t.Error("Edge() with coincident endpoints ok = true, want false")
	}
}

func TestTextNodes(t *testing.T) {
	s := wave.NewSignal("0000").WithNodes(".c.D")
	f := &wave.Figure{Sections: []wave.Section{&s}}
	o := style.Default()
	a := figure.Assemble(f, o.Signal.Path)
	d := layout.Compute(a, o, fonts.Helvetica())

	nodes := TextNodes(a.Edges, &d, o.Signal.Edge, fonts.Helvetica())
	if len(nodes) != 1 {
		t.Fatalf("TextNodes() = %d, want 1", len(nodes))
	}
	if nodes[0].Text != "c" || nodes[0].At != (Point{56, 28}) {
		t.Errorf("TextNodes()[0] = %+v, want 'c' at (56,28)", nodes[0])
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{12, "12"},
		{12.5, "12.5"},
		{1.0 / 3, "0.333"},
		{2.0 / 3, "0.667"},
		{-0.0001, "0"},
		{-4.25, "-4.25"},
		{100, "100"},
	}

	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
