// Package figure flattens a figure's section tree into depth-annotated
// lines ready for layout.
//
// [Assemble] walks the tree depth first in document order using an explicit
// stack, so arbitrarily deep nesting never grows the call stack. Every signal
// leaf becomes a [Line] carrying its assembled path; every group becomes a
// [GroupMarker] spanning the half-open range of lines it contains, appended
// when the group closes (post-order). A parent's range therefore always
// contains its children's ranges and sibling ranges never overlap.
//
// Alongside the lines the assembler computes the [Definitions] flags that
// tell a serializer which reusable glyphs it must emit, and resolves the
// figure's edge declarations against the node strings of its signals.
package figure

import (
	"math"

	"github.com/matzehuels/wavetower/pkg/wave"
	"github.com/matzehuels/wavetower/pkg/wave/edges"
	"github.com/matzehuels/wavetower/pkg/wave/path"
)

// Line is one assembled signal row.
type Line struct {
	Text  string
	Depth uint32
	Path  path.Assembled
}

// GroupMarker spans lines [Start, End). Depth is 0 for outermost groups.
type GroupMarker struct {
	Start, End uint32
	Label      *string
	Depth      uint32
}

// IsEmpty reports whether the group contains no lines.
func (g GroupMarker) IsEmpty() bool {
	return g.Start >= g.End
}

// Len returns the number of lines in the group.
func (g GroupMarker) Len() uint32 {
	if g.IsEmpty() {
		return 0
	}
	return g.End - g.Start
}

// Definitions flags the reusable glyphs a figure needs.
type Definitions struct {
	HasUndefined     bool
	HasGaps          bool
	HasPosedgeMarker bool
	HasNegedgeMarker bool
}

// Assembled is the flattened, geometry-resolved form of a figure.
type Assembled struct {
	NumCycles uint32
	HScale    uint16

	// Path is the row geometry actually used, with the cycle width already
	// multiplied by HScale.
	Path path.Options

	Lines        []Line
	GroupMarkers []GroupMarker
	Definitions  Definitions

	// GroupLabelAtDepth[d] is true when some group at depth d has a label,
	// whether or not it contains lines.
	GroupLabelAtDepth []bool
	// MaxGroupDepth is the deepest group nesting of any line.
	MaxGroupDepth uint32

	Header, Footer string
	TopMarker      *wave.CycleMarker
	BottomMarker   *wave.CycleMarker

	Edges edges.Markers

	// DroppedEdges holds the parse errors of edge declarations that were
	// skipped.
	DroppedEdges []error
}

// NumLabeledDepths returns how many depths carry a labeled group.
func (a *Assembled) NumLabeledDepths() uint32 {
	var n uint32
	for _, labeled := range a.GroupLabelAtDepth {
		if labeled {
			n++
		}
	}
	return n
}

// LabeledDepthsThrough returns how many depths in [0, depth] carry a
// labeled group.
func (a *Assembled) LabeledDepthsThrough(depth uint32) uint32 {
	var n uint32
	for d, labeled := range a.GroupLabelAtDepth {
		if uint32(d) > depth {
			break
		}
		if labeled {
			n++
		}
	}
	return n
}

type frame struct {
	sections []wave.Section
	group    *wave.Group
	start    uint32
}

// Assemble flattens f using the row geometry opts. The figure is not
// modified.
func Assemble(f *wave.Figure, opts path.Options) *Assembled {
	hscale := f.HScaleOrDefault()
	opts.CycleWidth = uint16(min(uint32(opts.CycleWidth)*uint32(hscale), math.MaxUint16))

	a := &Assembled{
		HScale:       hscale,
		Path:         opts,
		Header:       f.Header,
		Footer:       f.Footer,
		TopMarker:    f.TopMarker,
		BottomMarker: f.BottomMarker,
	}

	nodes := edges.NewBuilder()

	stack := []frame{{sections: f.Sections}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if len(top.sections) == 0 {
			if top.group != nil {
				m := GroupMarker{
					Start: top.start,
					End:   uint32(len(a.Lines)),
					Label: top.group.Label,
					Depth: uint32(len(stack) - 2),
				}
				a.GroupMarkers = append(a.GroupMarkers, m)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		section := top.sections[0]
		top.sections = top.sections[1:]

		switch s := section.(type) {
		case *wave.Signal:
			if s == nil {
				continue
			}
			depth := uint32(len(stack) - 1)
			p := path.Assemble(s, opts)
			a.Lines = append(a.Lines, Line{Text: s.Name, Depth: depth, Path: p})
			a.NumCycles = max(a.NumCycles, p.NumCycles())
			a.MaxGroupDepth = max(a.MaxGroupDepth, depth)
			a.Definitions.scan(s.Cycles)
			nodes.AddSignal(s)
		case *wave.Group:
			if s == nil {
				continue
			}
			a.labelDepth(uint32(len(stack)-1), s.Label != nil)
			stack = append(stack, frame{
				sections: s.Sections,
				group:    s,
				start:    uint32(len(a.Lines)),
			})
		}
	}

	defs, dropped := edges.ParseAll(f.Edges)
	a.Edges = nodes.Build(defs)
	a.DroppedEdges = dropped

	return a
}

// labelDepth records a group opening at depth.
func (a *Assembled) labelDepth(depth uint32, labeled bool) {
	for uint32(len(a.GroupLabelAtDepth)) <= depth {
		a.GroupLabelAtDepth = append(a.GroupLabelAtDepth, false)
	}
	a.GroupLabelAtDepth[depth] = a.GroupLabelAtDepth[depth] || labeled
}

// scan sets the glyph flags required by states. High and low marked levels
// request the clock-edge glyphs too.
func (d *Definitions) scan(states []wave.CycleState) {
	if len(states) > 0 && states[0].IsMeta() {
		d.HasUndefined = true
	}
	for _, s := range states {
		switch s {
		case wave.X:
			d.HasUndefined = true
		case wave.Gap:
			d.HasGaps = true
		case wave.PosedgeMarked, wave.HighMarked:
			d.HasPosedgeMarker = true
		case wave.NegedgeMarked, wave.LowMarked:
			d.HasNegedgeMarker = true
		}
	}
}
