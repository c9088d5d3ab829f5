package path

import "github.com/matzehuels/wavetower/pkg/wave"

// =============================================================================
// Geometry Defaults
// =============================================================================

const (
	DefaultSignalHeight     = 24
	DefaultCycleWidth       = 48
	DefaultTransitionOffset = 4
)

// Options is the pixel geometry of a signal row.
type Options struct {
	SignalHeight     uint16 `json:"signal_height" yaml:"signal_height" toml:"signal_height" validate:"gte=2"`
	CycleWidth       uint16 `json:"cycle_width" yaml:"cycle_width" toml:"cycle_width" validate:"gte=2"`
	TransitionOffset uint16 `json:"transition_offset" yaml:"transition_offset" toml:"transition_offset" validate:"ltefield=CycleWidth"`
}

// DefaultOptions returns the standard 24px high, 48px wide cycle geometry.
func DefaultOptions() Options {
	return Options{
		SignalHeight:     DefaultSignalHeight,
		CycleWidth:       DefaultCycleWidth,
		TransitionOffset: DefaultTransitionOffset,
	}
}

// assembler walks a state sequence while accumulating the outer (forward)
// and inner (backward) outline of the current segment.
type assembler struct {
	t, h, w int32
	period  uint16

	offset wave.CycleOffset
	prev   wave.CycleState

	forward  pathData
	backward pathData

	data     []string
	boxIndex int

	markers []ClockEdgeMarker
	gaps    []wave.CycleOffset
}

// Assemble converts a signal's cycle states into committed path segments.
// It never fails: missing box labels yield empty segment text.
func Assemble(sig *wave.Signal, opts Options) Assembled {
	if len(sig.Cycles) == 0 {
		return Assembled{}
	}

	a := &assembler{
		t:        int32(opts.TransitionOffset),
		h:        int32(opts.SignalHeight),
		w:        int32(opts.CycleWidth),
		period:   sig.PeriodOrDefault(),
		offset:   sig.Phase,
		forward:  newPathData(int32(sig.Phase.WidthOffset(uint32(opts.CycleWidth))), 0),
		backward: newPathData(0, 0),
		data:     sig.Data,
	}

	first := sig.Cycles[0]
	a.prev = first
	if first.IsMeta() {
		a.prev = wave.X
	}
	a.begin(first)
	a.wavePath(first)
	a.offset = a.offset.Add(a.cycleLength(first))

	var segments []Segment
	for _, state := range sig.Cycles[1:] {
		seg, committed := a.transition(a.prev, state)
		a.wavePath(state)

		if committed {
			segments = append(segments, seg)
		}
		if !state.IsMeta() {
			a.prev = state
		}
		a.offset = a.offset.Add(a.cycleLength(state))
	}

	end := a.offset
	segments = append(segments, a.end(a.prev))

	return Assembled{EndOffset: end, Segments: segments}
}

// cycleLength is the number of cycles state occupies: the period for clock
// states and one otherwise.
func (a *assembler) cycleLength(state wave.CycleState) wave.CycleOffset {
	if state.IsMeta() {
		state = a.prev
	}
	if state.IsClock() {
		return wave.Rounded(uint32(a.period))
	}
	return wave.Rounded(1)
}

func (a *assembler) posedgeMarker() {
	a.markers = append(a.markers, ClockEdgeMarker{At: a.offset, Edge: PositiveEdge})
}

func (a *assembler) negedgeMarker() {
	a.markers = append(a.markers, ClockEdgeMarker{At: a.offset, Edge: NegativeEdge})
}

// begin emits the lead-in of the first state.
func (a *assembler) begin(state wave.CycleState) {
	t, h := a.t, a.h

	switch {
	case state == wave.Top:
		a.forward.horizontal(t)
	case state == wave.Middle:
		a.forward.restartMoveTo(0, h/2)
		a.forward.horizontal(t)
	case state == wave.Bottom:
		a.forward.restartMoveTo(0, h)
		a.forward.horizontal(t)
	case state.IsPosedge(), state.IsLow():
		a.forward.restartMoveTo(0, h)
	case state.IsNegedge(), state.IsHigh():
	case state.IsBoxed(), state.IsMeta():
		a.forward.horizontal(t)
		a.backward.verticalNoStroke(-h)
		a.backward.horizontal(-t)
	case state == wave.Up:
		a.forward.dashed(t)
	case state == wave.Down:
		a.forward.restartMoveTo(0, h)
		a.forward.dashed(t)
	}
}

// wavePath emits the body of one cycle of state.
func (a *assembler) wavePath(state wave.CycleState) {
	t, h, w := a.t, a.h, a.w
	p := int32(a.period)

	if state == wave.Gap {
		a.gaps = append(a.gaps, a.offset.Add(a.cycleLength(a.prev).Half()))
	}
	if state.IsMeta() {
		state = a.prev
	}

	switch {
	case state == wave.Top, state == wave.Bottom, state == wave.Middle:
		a.forward.horizontal(w - 2*t)
	case state.IsPosedge():
		if state == wave.PosedgeMarked {
			a.posedgeMarker()
		}
		a.forward.vertical(-h)
		a.forward.horizontal(w * p / 2)
		a.forward.vertical(h)
		a.forward.horizontal(w * p / 2)
	case state.IsNegedge():
		if state == wave.NegedgeMarked {
			a.negedgeMarker()
		}
		a.forward.vertical(h)
		a.forward.horizontal(w * p / 2)
		a.forward.vertical(-h)
		a.forward.horizontal(w * p / 2)
	case state.IsHigh(), state.IsLow():
		a.forward.horizontal(w - t)
	case state.IsBoxed():
		a.forward.horizontal(w - 2*t)
		a.backward.horizontal(2*t - w)
	case state == wave.Up, state == wave.Down:
		a.forward.dashed(w - 2*t)
	}
}

// end emits the lead-out of the last state and commits the final segment.
func (a *assembler) end(state wave.CycleState) Segment {
	t, h := a.t, a.h

	switch {
	case state.IsBoxed():
		a.forward.horizontal(t)
		a.forward.verticalNoStroke(h)
		a.backward.horizontal(-t)
		return a.commitWithBackLine(state.Background())
	case state.IsClock():
		return a.commitWithoutBackLine()
	case state == wave.Up, state == wave.Down:
		a.forward.dashed(t)
		return a.commitWithoutBackLine()
	default:
		a.forward.horizontal(t)
		return a.commitWithoutBackLine()
	}
}

// commitWithBackLine closes the fill polygon by appending the reversed
// backward commands to the forward ones.
func (a *assembler) commitWithBackLine(bg wave.Background) Segment {
	seg := Segment{
		X:            a.forward.startX,
		Y:            a.forward.startY,
		Width:        a.forward.curX - a.forward.startX,
		Background:   bg,
		FullyStroked: a.forward.fullyStroked && a.backward.fullyStroked,
	}
	restartX, restartY := a.forward.curX, a.forward.curY

	back := a.backward.takeAndRestartAt(0, 0)
	for i := len(back) - 1; i >= 0; i-- {
		a.forward.cmds = append(a.forward.cmds, back[i])
	}

	if bg.IsDataBox() {
		if a.boxIndex < len(a.data) {
			seg.Text = a.data[a.boxIndex]
		}
		a.boxIndex++
	}

	seg.Markers, a.markers = a.markers, nil
	seg.Gaps, a.gaps = a.gaps, nil
	seg.Commands = a.forward.takeAndRestartAt(restartX, restartY)
	return seg
}

// commitWithoutBackLine flushes an open stroked run.
func (a *assembler) commitWithoutBackLine() Segment {
	seg := Segment{
		X:            a.forward.startX,
		Y:            a.forward.startY,
		Width:        a.forward.curX - a.forward.startX,
		FullyStroked: true,
	}
	restartX, restartY := a.forward.curX, a.forward.curY

	seg.Markers, a.markers = a.markers, nil
	seg.Gaps, a.gaps = a.gaps, nil
	seg.Commands = a.forward.takeAndRestartAt(restartX, restartY)
	return seg
}
