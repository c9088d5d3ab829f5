// Package layout computes the pixel regions of an assembled figure.
//
// The figure is a strict grid, so [Compute] derives everything from a
// handful of measured quantities: the widest signal name, the group nesting
// depth, the cycle count and the line count. No solving is involved.
//
// Horizontally the inner area is, left to right, the group-indicator column,
// the name column and the schema (the waveforms). Vertically it is the
// header band, the schema and the footer band. Each band or column collapses
// to zero, along with its trailing spacing, when it has no content.
//
//	+---------------------------------------------+
//	|                  header                     |
//	|  [ruler]                                    |
//	| grouping | names | schema ...               |
//	|  [ruler]                                    |
//	|                  footer                     |
//	+---------------------------------------------+
package layout

import (
	"github.com/matzehuels/wavetower/pkg/fonts"
	"github.com/matzehuels/wavetower/pkg/style"
	"github.com/matzehuels/wavetower/pkg/wave"
	"github.com/matzehuels/wavetower/pkg/wave/figure"
)

// Dimensions are the computed regions of one figure.
type Dimensions struct {
	Figure Region
	Inner  Region

	Header Region
	Footer Region

	// Grouping is the group-indicator column. Zero width when the figure
	// has no groups.
	Grouping Region
	// Textbox is the signal-name column. Zero width when no signal is
	// named.
	Textbox Region
	Schema  Region

	HasGrouping bool
	HasTextbox  bool

	// CycleWidth is the scaled width of one cycle.
	CycleWidth   uint32
	SignalHeight uint32

	HeaderTextHeight  uint32
	HeaderRulerHeight uint32
	FooterTextHeight  uint32
	FooterRulerHeight uint32

	lineToLine     uint32
	schemaTop      uint32
	labelDepths    []bool
	indicatorWidth uint32
	indicatorSpace uint32
	labelHeight    uint32
	labelSpacing   uint32
}

// Compute lays out a for the options o, measuring names with m.
func Compute(a *figure.Assembled, o style.Options, m fonts.Metrics) Dimensions {
	d := Dimensions{
		CycleWidth:     uint32(a.Path.CycleWidth),
		SignalHeight:   uint32(a.Path.SignalHeight),
		lineToLine:     o.Spacing.LineToLine,
		schemaTop:      o.Padding.SchemaTop,
		labelDepths:    a.GroupLabelAtDepth,
		indicatorWidth: o.Signal.GroupIndicator.Width,
		indicatorSpace: o.Signal.GroupIndicator.Spacing,
		labelHeight:    o.Signal.GroupIndicator.LabelHeight(),
		labelSpacing:   o.Signal.GroupIndicator.LabelSpacing,
	}

	var textboxWidth uint32
	for _, line := range a.Lines {
		if line.Text == "" {
			continue
		}
		d.HasTextbox = true
		textboxWidth = max(textboxWidth, m.Width(line.Text, o.Signal.NameFontSize))
	}

	d.HasGrouping = a.MaxGroupDepth != 0
	var groupingWidth uint32
	if d.HasGrouping {
		groupingWidth = span(a.MaxGroupDepth, o.Signal.GroupIndicator.Width, o.Signal.GroupIndicator.Spacing) +
			span(a.NumLabeledDepths(), o.Signal.GroupIndicator.LabelFontSize, o.Signal.GroupIndicator.LabelSpacing)
	}

	schemaWidth := a.NumCycles * d.CycleWidth
	var schemaHeight uint32
	if n := uint32(len(a.Lines)); n > 0 {
		schemaHeight = o.Padding.SchemaTop + o.Padding.SchemaBottom + span(n, d.SignalHeight, o.Spacing.LineToLine)
	}

	if a.Header != "" {
		d.HeaderTextHeight = o.Header.Height
	}
	if a.TopMarker != nil {
		d.HeaderRulerHeight = o.Header.CycleMarkerHeight
	}
	if a.Footer != "" {
		d.FooterTextHeight = o.Footer.Height
	}
	if a.BottomMarker != nil {
		d.FooterRulerHeight = o.Footer.CycleMarkerHeight
	}

	innerWidth := schemaWidth
	if d.HasGrouping {
		innerWidth += groupingWidth + o.Spacing.GroupboxToTextbox
	}
	if d.HasTextbox {
		innerWidth += textboxWidth + o.Spacing.TextboxToSchema
	}

	left, top := o.Padding.FigureLeft, o.Padding.FigureTop
	headerHeight := d.HeaderTextHeight + d.HeaderRulerHeight
	footerHeight := d.FooterTextHeight + d.FooterRulerHeight

	d.Header = Region{X: left, Y: top, Width: innerWidth, Height: headerHeight}
	schemaY := d.Header.Bottom()

	d.Grouping = Region{X: left, Y: schemaY, Width: groupingWidth, Height: schemaHeight}
	textboxX := left
	if d.HasGrouping {
		textboxX += groupingWidth + o.Spacing.GroupboxToTextbox
	}
	d.Textbox = Region{X: textboxX, Y: schemaY, Width: textboxWidth, Height: schemaHeight}
	schemaX := textboxX
	if d.HasTextbox {
		schemaX += textboxWidth + o.Spacing.TextboxToSchema
	}
	d.Schema = Region{X: schemaX, Y: schemaY, Width: schemaWidth, Height: schemaHeight}

	d.Footer = Region{X: left, Y: d.Schema.Bottom(), Width: innerWidth, Height: footerHeight}
	d.Inner = Region{X: left, Y: top, Width: innerWidth, Height: headerHeight + schemaHeight + footerHeight}
	d.Figure = Region{
		Width:  left + o.Padding.FigureRight + innerWidth,
		Height: top + d.Inner.Height + o.Padding.FigureBottom,
	}

	return d
}

// SignalTop returns the y coordinate of the top of line i.
func (d *Dimensions) SignalTop(i uint32) uint32 {
	return d.Schema.Y + d.schemaTop + i*(d.SignalHeight+d.lineToLine)
}

// SignalMiddle returns the y coordinate of the vertical center of line i.
func (d *Dimensions) SignalMiddle(i uint32) uint32 {
	return d.SignalTop(i) + d.SignalHeight/2
}

// CycleX returns the absolute x coordinate of a time offset.
func (d *Dimensions) CycleX(at wave.CycleOffset) uint32 {
	return d.Schema.X + at.WidthOffset(d.CycleWidth)
}

// HintLineX returns the x coordinates of the dashed cycle boundaries,
// including both schema edges.
func (d *Dimensions) HintLineX(numCycles uint32) []uint32 {
	xs := make([]uint32, 0, numCycles+1)
	for i := range numCycles + 1 {
		xs = append(xs, d.Schema.X+i*d.CycleWidth)
	}
	return xs
}

// GroupIndicator returns the bracket region of a non-empty group. The
// bracket's label, if any, is centered LabelFontSize/2 to its left.
func (d *Dimensions) GroupIndicator(g figure.GroupMarker) Region {
	var labels uint32
	for depth, labeled := range d.labelDepths {
		if uint32(depth) > g.Depth {
			break
		}
		if labeled {
			labels++
		}
	}

	x := d.Grouping.X + g.Depth*(d.indicatorWidth+d.indicatorSpace)
	if labels > 0 {
		x += labels*d.labelHeight - d.labelSpacing
	}
	return Region{
		X:      x,
		Y:      d.SignalTop(g.Start),
		Width:  d.indicatorWidth,
		Height: span(g.Len(), d.SignalHeight, d.lineToLine),
	}
}

// Tick is one cycle ruler label.
type Tick struct {
	Cycle uint32
	X, Y  uint32
}

// TopRuler returns the header ruler labels, or nil when the figure has no
// top marker or the marker's Every is zero.
func (d *Dimensions) TopRuler(m *wave.CycleMarker, numCycles uint32) []Tick {
	return d.ruler(m, numCycles, d.Header.Y+d.HeaderTextHeight+d.HeaderRulerHeight/2)
}

// BottomRuler returns the footer ruler labels. The footer ruler sits
// directly below the schema, above the footer text.
func (d *Dimensions) BottomRuler(m *wave.CycleMarker, numCycles uint32) []Tick {
	return d.ruler(m, numCycles, d.Footer.Y+d.FooterRulerHeight/2)
}

func (d *Dimensions) ruler(m *wave.CycleMarker, numCycles, y uint32) []Tick {
	if m == nil || m.Every == 0 {
		return nil
	}
	var ticks []Tick
	for i := uint32(0); i < numCycles; i += m.Every {
		ticks = append(ticks, Tick{
			Cycle: m.Start + i,
			X:     d.Schema.X + i*d.CycleWidth + d.CycleWidth/2,
			Y:     y,
		})
	}
	return ticks
}

// HeaderTextCenter returns the anchor of the header title.
func (d *Dimensions) HeaderTextCenter() (x, y uint32) {
	return d.Header.CenterX(), d.Header.Y + d.HeaderTextHeight/2
}

// FooterTextCenter returns the anchor of the footer title.
func (d *Dimensions) FooterTextCenter() (x, y uint32) {
	return d.Footer.CenterX(), d.Footer.Y + d.FooterRulerHeight + d.FooterTextHeight/2
}

// span is the extent of n items of the given size separated by gap.
func span(n, size, gap uint32) uint32 {
	if n == 0 {
		return 0
	}
	return n*size + (n-1)*gap
}
