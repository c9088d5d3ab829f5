package sink

import (
	"encoding/json"

	"github.com/matzehuels/wavetower/pkg/render/layout"
	"github.com/matzehuels/wavetower/pkg/style"
	"github.com/matzehuels/wavetower/pkg/wave/figure"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	svgRenderer
	svgOpts []SVGOption
	skins   []string
}

// WithJSONSVGOptions reuses metrics, dimensions or routes the same way the
// SVG sink does.
func WithJSONSVGOptions(opts ...SVGOption) JSONOption {
	return func(r *jsonRenderer) { r.svgOpts = opts }
}

// WithJSONSkins records the skin files the style was loaded from.
func WithJSONSkins(names ...string) JSONOption {
	return func(r *jsonRenderer) { r.skins = names }
}

type jsonOutput struct {
	Width        uint32        `json:"width"`
	Height       uint32        `json:"height"`
	FontFamily   string        `json:"font_family"`
	CycleWidth   uint32        `json:"cycle_width"`
	SignalHeight uint32        `json:"signal_height"`
	NumCycles    uint32        `json:"num_cycles"`
	Skins        []string      `json:"skins,omitempty"`
	Header       *jsonText     `json:"header,omitempty"`
	Footer       *jsonText     `json:"footer,omitempty"`
	Schema       layout.Region `json:"schema"`
	Lines        []jsonLine    `json:"lines"`
	Groups       []jsonGroup   `json:"groups,omitempty"`
	Edges        []jsonEdge    `json:"edges,omitempty"`
	Nodes        []jsonText    `json:"nodes,omitempty"`
	Dropped      []string      `json:"dropped_edges,omitempty"`
}

type jsonText struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type jsonLine struct {
	Name     string        `json:"name,omitempty"`
	Depth    uint32        `json:"depth"`
	Y        uint32        `json:"y"`
	Segments []jsonSegment `json:"segments"`
}

type jsonSegment struct {
	D          string `json:"d"`
	Background string `json:"background,omitempty"`
	Text       string `json:"text,omitempty"`
	Stroked    bool   `json:"fully_stroked"`
}

type jsonGroup struct {
	Label string        `json:"label,omitempty"`
	Depth uint32        `json:"depth"`
	Box   layout.Region `json:"box"`
}

type jsonEdge struct {
	Path   string `json:"path"`
	Arrows string `json:"arrows,omitempty"`
	Label  string `json:"label,omitempty"`
}

// RenderJSON exports the computed layout as a pretty-printed JSON document.
// Coordinates are absolute pixels in the same space as the SVG output,
// except segment paths, which are relative to their line's origin.
func RenderJSON(a *figure.Assembled, o style.Options, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	r.svgRenderer = newSVGRenderer(a, o, r.svgOpts...)
	d := r.dims

	out := jsonOutput{
		Width:        d.Figure.Width,
		Height:       d.Figure.Height,
		FontFamily:   r.metrics.Family(),
		CycleWidth:   d.CycleWidth,
		SignalHeight: d.SignalHeight,
		NumCycles:    a.NumCycles,
		Skins:        r.skins,
		Schema:       d.Schema,
		Lines:        make([]jsonLine, 0, len(a.Lines)),
	}
	if a.Header != "" {
		x, y := d.HeaderTextCenter()
		out.Header = &jsonText{Text: a.Header, X: float64(x), Y: float64(y)}
	}
	if a.Footer != "" {
		x, y := d.FooterTextCenter()
		out.Footer = &jsonText{Text: a.Footer, X: float64(x), Y: float64(y)}
	}

	for i, line := range a.Lines {
		jl := jsonLine{Name: line.Text, Depth: line.Depth, Y: d.SignalTop(uint32(i))}
		for _, seg := range line.Path.Segments {
			js := jsonSegment{D: segmentPath(seg, false), Text: seg.Text, Stroked: seg.FullyStroked}
			if c, ok := o.BackgroundColor(seg.Background); ok {
				js.Background = c.String()
			}
			jl.Segments = append(jl.Segments, js)
		}
		out.Lines = append(out.Lines, jl)
	}

	for _, g := range a.GroupMarkers {
		if g.IsEmpty() {
			continue
		}
		jg := jsonGroup{Depth: g.Depth, Box: d.GroupIndicator(g)}
		if g.Label != nil {
			jg.Label = *g.Label
		}
		out.Groups = append(out.Groups, jg)
	}

	for _, e := range r.edges {
		je := jsonEdge{Path: e.Path, Arrows: e.Arrows}
		if e.Label != nil {
			je.Label = e.Label.Text
		}
		out.Edges = append(out.Edges, je)
	}
	for _, n := range r.textNodes {
		out.Nodes = append(out.Nodes, jsonText{Text: n.Text, X: n.At.X, Y: n.At.Y})
	}
	for _, err := range a.DroppedEdges {
		out.Dropped = append(out.Dropped, err.Error())
	}

	return json.MarshalIndent(out, "", "  ")
}
