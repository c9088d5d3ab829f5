package path

import "github.com/matzehuels/wavetower/pkg/wave"

// kind groups states that share transition geometry.
type kind uint8

const (
	kTop kind = iota
	kBottom
	kMiddle
	kBox
	kPos
	kNeg
	kMeta
	kUp
	kDown
	kHigh
	kLow
)

func kindOf(s wave.CycleState) kind {
	switch {
	case s == wave.Top:
		return kTop
	case s == wave.Bottom:
		return kBottom
	case s == wave.Middle:
		return kMiddle
	case s.IsBoxed():
		return kBox
	case s.IsPosedge():
		return kPos
	case s.IsNegedge():
		return kNeg
	case s.IsMeta():
		return kMeta
	case s == wave.Up:
		return kUp
	case s == wave.Down:
		return kDown
	case s.IsHigh():
		return kHigh
	}
	return kLow
}

type pair struct{ from, to kind }

// transition emits the join between state and next. It returns a segment
// when the join enters or leaves a boxed run.
func (a *assembler) transition(state, next wave.CycleState) (Segment, bool) {
	t, h := a.t, a.h
	f, b := &a.forward, &a.backward

	if state.IsMeta() {
		state = wave.X
	}
	highMarked := next == wave.HighMarked
	lowMarked := next == wave.LowMarked

	switch (pair{kindOf(state), kindOf(next)}) {
	// Level to level.
	case pair{kTop, kTop}, pair{kBottom, kBottom}, pair{kMiddle, kMiddle},
		pair{kTop, kMeta}, pair{kBottom, kMeta}, pair{kMiddle, kMeta}:
		f.horizontal(2 * t)
	case pair{kHigh, kTop}, pair{kLow, kBottom}:
		// Covers the level's tail and the lead-in of the next body.
		f.horizontal(2 * t)
	case pair{kTop, kBottom}:
		f.line(2*t, h)
	case pair{kTop, kMiddle}, pair{kMiddle, kBottom}:
		f.curve(0, h/2, t, h/2, 2*t, h/2)
	case pair{kMiddle, kTop}, pair{kBottom, kMiddle}:
		f.curve(0, -h/2, t, -h/2, 2*t, -h/2)
	case pair{kBottom, kTop}:
		f.line(2*t, -h)

	// Boxed runs.
	case pair{kBox, kBox}:
		f.line(t, h/2)
		b.line(-t, h/2)
		seg := a.commitWithBackLine(state.Background())
		f.line(t, -h/2)
		b.line(-t, -h/2)
		return seg, true
	case pair{kBox, kMeta}:
		f.horizontal(2 * t)
		b.horizontal(-2 * t)
	case pair{kBottom, kBox}, pair{kLow, kBox}:
		f.horizontal(t)
		seg := a.commitWithoutBackLine()
		f.line(t, -h)
		b.horizontal(-t)
		return seg, true
	case pair{kMiddle, kBox}:
		f.horizontal(t)
		seg := a.commitWithoutBackLine()
		f.line(t, -h/2)
		b.line(-t, -h/2)
		return seg, true
	case pair{kTop, kBox}, pair{kHigh, kBox}:
		f.horizontal(t)
		seg := a.commitWithoutBackLine()
		f.horizontal(t)
		b.line(-t, -h)
		return seg, true
	case pair{kBox, kTop}:
		f.horizontal(t)
		b.line(-t, h)
		seg := a.commitWithBackLine(state.Background())
		f.horizontal(t)
		return seg, true
	case pair{kBox, kMiddle}:
		f.curve(0, h/2, t, h/2, 2*t, h/2)
		b.curve(-t, 0, -2*t, 0, -2*t, h/2)
		return a.commitWithBackLine(state.Background()), true
	case pair{kBox, kBottom}:
		f.line(t, h)
		b.horizontal(-t)
		seg := a.commitWithBackLine(state.Background())
		f.horizontal(t)
		return seg, true
	case pair{kBox, kPos}:
		f.line(t, h)
		b.horizontal(-t)
		return a.commitWithBackLine(state.Background()), true
	case pair{kBox, kNeg}:
		f.horizontal(t)
		b.line(-t, h)
		return a.commitWithBackLine(state.Background()), true
	case pair{kPos, kBox}:
		seg := a.commitWithoutBackLine()
		f.line(t, -h)
		b.horizontal(-t)
		return seg, true
	case pair{kNeg, kBox}:
		seg := a.commitWithoutBackLine()
		f.horizontal(t)
		b.line(-t, -h)
		return seg, true
	case pair{kUp, kBox}:
		f.dashed(t)
		seg := a.commitWithoutBackLine()
		f.horizontal(t)
		b.line(-t, -h)
		return seg, true
	case pair{kDown, kBox}:
		f.dashed(t)
		seg := a.commitWithoutBackLine()
		f.line(t, -h)
		b.horizontal(-t)
		return seg, true
	case pair{kBox, kUp}:
		f.horizontal(t)
		b.line(-t, h)
		seg := a.commitWithBackLine(state.Background())
		f.dashed(t)
		return seg, true
	case pair{kBox, kDown}:
		f.line(t, h)
		b.horizontal(-t)
		seg := a.commitWithBackLine(state.Background())
		f.dashed(t)
		return seg, true
	case pair{kBox, kHigh}:
		if highMarked {
			a.posedgeMarker()
		}
		f.horizontal(t)
		b.horizontal(-t)
		b.vertical(h)
		return a.commitWithBackLine(state.Background()), true
	case pair{kBox, kLow}:
		if lowMarked {
			a.negedgeMarker()
		}
		f.horizontal(t)
		f.vertical(h)
		b.horizontal(-t)
		return a.commitWithBackLine(state.Background()), true

	// Clocks.
	case pair{kPos, kPos}, pair{kPos, kMeta}, pair{kNeg, kNeg}, pair{kNeg, kMeta}:
	case pair{kPos, kNeg}:
		f.vertical(-h)
	case pair{kNeg, kPos}:
		f.vertical(h)
	case pair{kBottom, kPos}, pair{kTop, kNeg}, pair{kPos, kBottom}, pair{kNeg, kTop}:
		f.horizontal(t)
	case pair{kBottom, kNeg}, pair{kPos, kTop}:
		f.line(t, -h)
	case pair{kTop, kPos}, pair{kNeg, kBottom}:
		f.line(t, h)
	case pair{kMiddle, kPos}, pair{kNeg, kMiddle}:
		f.line(t, h/2)
	case pair{kMiddle, kNeg}, pair{kPos, kMiddle}:
		f.line(t, -h/2)

	// Dashed.
	case pair{kUp, kUp}, pair{kUp, kMeta}, pair{kDown, kDown}, pair{kDown, kMeta}:
		f.dashed(2 * t)
	case pair{kUp, kTop}, pair{kDown, kBottom}:
		f.dashed(t)
		f.horizontal(t)
	case pair{kTop, kUp}, pair{kBottom, kDown}, pair{kHigh, kUp}, pair{kLow, kDown}:
		f.horizontal(t)
		f.dashed(t)
	case pair{kUp, kBottom}, pair{kUp, kDown}, pair{kTop, kDown}:
		f.curve(t, 0, t, h, 2*t, h)
	case pair{kDown, kTop}, pair{kDown, kUp}, pair{kBottom, kUp}:
		f.curve(t, 0, t, -h, 2*t, -h)
	case pair{kUp, kMiddle}, pair{kMiddle, kDown}:
		f.curve(t, 0, t, h/2, 2*t, h/2)
	case pair{kDown, kMiddle}, pair{kMiddle, kUp}:
		f.curve(t, 0, t, -h/2, 2*t, -h/2)
	case pair{kUp, kPos}:
		f.dashed(t)
		f.verticalNoStroke(h)
	case pair{kPos, kUp}:
		f.verticalNoStroke(-h)
		f.dashed(t)
	case pair{kDown, kNeg}:
		f.dashed(t)
		f.verticalNoStroke(-h)
	case pair{kNeg, kDown}:
		f.verticalNoStroke(h)
		f.dashed(t)
	case pair{kUp, kNeg}, pair{kNeg, kUp}, pair{kDown, kPos}, pair{kPos, kDown},
		pair{kDown, kLow}, pair{kUp, kHigh}:
		f.dashed(t)

	// High and low levels.
	case pair{kHigh, kMeta}, pair{kLow, kMeta},
		pair{kTop, kHigh}, pair{kHigh, kHigh},
		pair{kBottom, kLow}, pair{kLow, kLow},
		pair{kHigh, kNeg}, pair{kLow, kPos}:
		f.horizontal(t)
	case pair{kHigh, kLow}, pair{kTop, kLow}:
		if lowMarked {
			a.negedgeMarker()
		}
		f.horizontal(t)
		f.vertical(h)
	case pair{kLow, kHigh}, pair{kBottom, kHigh}:
		if highMarked {
			a.posedgeMarker()
		}
		f.horizontal(t)
		f.vertical(-h)
	case pair{kMiddle, kLow}:
		if lowMarked {
			a.negedgeMarker()
		}
		f.horizontal(t)
		f.vertical(-h / 2)
		f.vertical(h)
	case pair{kMiddle, kHigh}:
		if highMarked {
			a.posedgeMarker()
		}
		f.horizontal(t)
		f.vertical(h / 2)
		f.vertical(-h)
	case pair{kUp, kLow}:
		if lowMarked {
			a.negedgeMarker()
		}
		f.dashed(t)
		f.vertical(h)
	case pair{kDown, kHigh}:
		if highMarked {
			a.posedgeMarker()
		}
		f.dashed(t)
		f.vertical(-h)
	case pair{kPos, kHigh}:
		if highMarked {
			a.posedgeMarker()
		}
		f.vertical(-h)
	case pair{kNeg, kHigh}:
		if highMarked {
			a.posedgeMarker()
		}
		f.vertical(h)
		f.vertical(-h)
	case pair{kPos, kLow}:
		if lowMarked {
			a.negedgeMarker()
		}
		f.vertical(-h)
		f.vertical(h)
	case pair{kNeg, kLow}:
		if lowMarked {
			a.negedgeMarker()
		}
		f.vertical(h)
	case pair{kHigh, kPos}:
		f.horizontal(t)
		f.vertical(h)
	case pair{kLow, kNeg}:
		f.horizontal(t)
		f.vertical(-h)
	case pair{kLow, kTop}:
		f.horizontal(t)
		f.vertical(-h)
		f.horizontal(t)
	case pair{kHigh, kBottom}:
		f.horizontal(t)
		f.vertical(h)
		f.horizontal(t)
	case pair{kLow, kUp}:
		f.curve(t, 0, t, -h, 2*t, -h)
	case pair{kHigh, kDown}:
		f.curve(t, 0, t, h, 2*t, h)
	case pair{kHigh, kMiddle}:
		f.curve(0, t, t, h/2, 2*t, h/2)
	case pair{kLow, kMiddle}:
		f.curve(0, -t, t, -h/2, 2*t, -h/2)
	}

	return Segment{}, false
}
