package path

import "github.com/matzehuels/wavetower/pkg/wave"

// CommandKind identifies a relative drawing command.
type CommandKind uint8

const (
	// Vertical is a stroked vertical line by DY.
	Vertical CommandKind = iota
	// VerticalNoStroke moves vertically by DY as part of the fill outline
	// without stroking it.
	VerticalNoStroke
	// Horizontal is a horizontal line by DX.
	Horizontal
	// DashedHorizontal is a dashed horizontal line by DX.
	DashedHorizontal
	// Line is a straight line by (DX, DY).
	Line
	// Curve is a cubic bezier with relative control points and end (DX, DY).
	Curve
)

// Command is one relative drawing step of a segment outline.
type Command struct {
	Kind   CommandKind
	DX, DY int32

	// Curve control points, relative to the command start.
	CX1, CY1 int32
	CX2, CY2 int32
}

func V(dy int32) Command         { return Command{Kind: Vertical, DY: dy} }
func VNoStroke(dy int32) Command { return Command{Kind: VerticalNoStroke, DY: dy} }
func H(dx int32) Command         { return Command{Kind: Horizontal, DX: dx} }
func DashedH(dx int32) Command   { return Command{Kind: DashedHorizontal, DX: dx} }
func L(dx, dy int32) Command     { return Command{Kind: Line, DX: dx, DY: dy} }

func C(cx1, cy1, cx2, cy2, dx, dy int32) Command {
	return Command{Kind: Curve, CX1: cx1, CY1: cy1, CX2: cx2, CY2: cy2, DX: dx, DY: dy}
}

// HasNoStroke reports whether the command belongs to the unstroked part of
// an outline.
func (c Command) HasNoStroke() bool {
	return c.Kind == VerticalNoStroke
}

// ClockEdge is the polarity of a clock-edge arrow glyph.
type ClockEdge uint8

const (
	PositiveEdge ClockEdge = iota
	NegativeEdge
)

// ClockEdgeMarker places a clock-edge arrow at the start of a cycle.
type ClockEdgeMarker struct {
	At   wave.CycleOffset
	Edge ClockEdge
}

// Segment is one committed, independently fillable run of a signal outline.
// Coordinates are relative to the signal's row origin.
type Segment struct {
	X, Y  int32
	Width int32

	// Background is NoBackground for open stroked runs.
	Background wave.Background

	Commands []Command
	Gaps     []wave.CycleOffset
	Markers  []ClockEdgeMarker

	// Text is the box label; empty when the segment has none.
	Text string

	// FullyStroked is false when part of the outline must not be stroked
	// because an adjacent segment already draws that border.
	FullyStroked bool
}

// Assembled is the result of assembling one signal.
type Assembled struct {
	EndOffset wave.CycleOffset
	Segments  []Segment
}

// NumCycles returns the number of whole cycles the signal occupies,
// including its phase.
func (a Assembled) NumCycles() uint32 {
	return a.EndOffset.CeilNumCycles()
}
