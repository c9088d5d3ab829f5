package path

import (
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/wavetower/pkg/wave"
)

func assemble(cycles string, period uint16) Assembled {
	sig := wave.NewSignal(cycles).WithPeriod(period)
	return Assemble(&sig, DefaultOptions())
}

func TestNumCycles(t *testing.T) {
	tests := []struct {
		name   string
		states []wave.CycleState
		period uint16
		want   uint32
	}{
		{"empty", nil, 1, 0},
		{"empty period 2", nil, 2, 0},
		{"box", []wave.CycleState{wave.Box2}, 1, 1},
		{"box period 2", []wave.CycleState{wave.Box2}, 2, 1},
		{"posedge", []wave.CycleState{wave.PosedgeMarked}, 1, 1},
		{"posedge period 2", []wave.CycleState{wave.PosedgeMarked}, 2, 2},
		{"box then posedge", []wave.CycleState{wave.Box2, wave.PosedgeMarked}, 3, 4},
		{"posedge then negedge", []wave.CycleState{wave.PosedgeMarked, wave.NegedgeMarked}, 3, 6},
		{"continued clock", []wave.CycleState{wave.PosedgeMarked, wave.Continue, wave.NegedgeMarked}, 3, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := wave.Signal{Cycles: tt.states, Period: tt.period}
			got := Assemble(&sig, DefaultOptions())
			if got.NumCycles() != tt.want {
				t.Errorf("NumCycles() = %d, want %d", got.NumCycles(), tt.want)
			}
		})
	}
}

func TestEmptySignal(t *testing.T) {
	got := assemble("", 1)
	if len(got.Segments) != 0 {
		t.Errorf("Segments = %d, want 0", len(got.Segments))
	}
	if got.EndOffset != (wave.CycleOffset{}) {
		t.Errorf("EndOffset = %v, want zero", got.EndOffset)
	}
}

func TestAlternatingLevels(t *testing.T) {
	got := assemble("0101", 1)

	if got.NumCycles() != 4 {
		t.Errorf("NumCycles() = %d, want 4", got.NumCycles())
	}
	if len(got.Segments) != 1 {
		t.Fatalf("Segments = %d, want 1", len(got.Segments))
	}

	seg := got.Segments[0]
	if seg.Background != wave.NoBackground {
		t.Errorf("Background = %v, want none", seg.Background)
	}
	if !seg.FullyStroked {
		t.Error("FullyStroked = false, want true")
	}
	if seg.X != 0 || seg.Y != DefaultSignalHeight || seg.Width != 4*DefaultCycleWidth {
		t.Errorf("segment origin/width = (%d,%d)/%d, want (0,24)/192", seg.X, seg.Y, seg.Width)
	}

	want := []Command{H(44), L(8, -24), H(40), L(8, 24), H(40), L(8, -24), H(44)}
	if !slices.Equal(seg.Commands, want) {
		t.Errorf("Commands = %v, want %v", seg.Commands, want)
	}
}

func TestSingleBox(t *testing.T) {
	got := assemble("2", 1)
	if len(got.Segments) != 1 {
		t.Fatalf("Segments = %d, want 1", len(got.Segments))
	}

	seg := got.Segments[0]
	want := []Command{H(48), VNoStroke(24), H(-48), VNoStroke(-24)}
	if !slices.Equal(seg.Commands, want) {
		t.Errorf("Commands = %v, want %v", seg.Commands, want)
	}
	if seg.FullyStroked {
		t.Error("FullyStroked = true, want false")
	}
	if seg.Background != wave.BackgroundB2 {
		t.Errorf("Background = %v, want B2", seg.Background)
	}
}

func TestBoxLabels(t *testing.T) {
	sig := wave.NewSignal("=.2x3").WithData("a", "b")
	got := Assemble(&sig, DefaultOptions())

	var texts []string
	var bgs []wave.Background
	for _, seg := range got.Segments {
		texts = append(texts, seg.Text)
		bgs = append(bgs, seg.Background)
	}

	if want := []string{"a", "b", "", ""}; !slices.Equal(texts, want) {
		t.Errorf("texts = %q, want %q", texts, want)
	}
	wantBgs := []wave.Background{wave.BackgroundB2, wave.BackgroundB2, wave.BackgroundUndefined, wave.BackgroundB3}
	if !slices.Equal(bgs, wantBgs) {
		t.Errorf("backgrounds = %v, want %v", bgs, wantBgs)
	}
}

func TestGapPosition(t *testing.T) {
	got := assemble("1|", 1)
	if len(got.Segments) != 1 {
		t.Fatalf("Segments = %d, want 1", len(got.Segments))
	}
	want := []wave.CycleOffset{{Index: 1, Fraction: wave.Half}}
	if !slices.Equal(got.Segments[0].Gaps, want) {
		t.Errorf("Gaps = %v, want %v", got.Segments[0].Gaps, want)
	}
}

func TestClockEdgeMarkers(t *testing.T) {
	tests := []struct {
		cycles string
		want   []ClockEdgeMarker
	}{
		{"P", []ClockEdgeMarker{{At: wave.Rounded(0), Edge: PositiveEdge}}},
		{"N", []ClockEdgeMarker{{At: wave.Rounded(0), Edge: NegativeEdge}}},
		{"lH", []ClockEdgeMarker{{At: wave.Rounded(1), Edge: PositiveEdge}}},
		{"hL", []ClockEdgeMarker{{At: wave.Rounded(1), Edge: NegativeEdge}}},
		{"pn", nil},
		{"Hp", nil},
	}

	for _, tt := range tests {
		t.Run(tt.cycles, func(t *testing.T) {
			got := assemble(tt.cycles, 1)
			var markers []ClockEdgeMarker
			for _, seg := range got.Segments {
				markers = append(markers, seg.Markers...)
			}
			if !slices.Equal(markers, tt.want) {
				t.Errorf("markers = %v, want %v", markers, tt.want)
			}
		})
	}
}

func TestPhaseShiftsOrigin(t *testing.T) {
	sig := wave.NewSignal("1").WithPhase(wave.CycleOffset{Index: 0, Fraction: wave.Half})
	got := Assemble(&sig, DefaultOptions())

	if got.Segments[0].X != 24 {
		t.Errorf("X = %d, want 24", got.Segments[0].X)
	}
	if got.NumCycles() != 2 {
		t.Errorf("NumCycles() = %d, want 2", got.NumCycles())
	}
}

// wantSegment is the exact outline expected for one committed segment.
type wantSegment struct {
	x, y, width int32
	bg          wave.Background
	stroked     bool
	cmds        []Command
	markers     []ClockEdgeMarker
	gaps        []wave.CycleOffset
}

func TestTransitionCommands(t *testing.T) {
	tests := []struct {
		name   string
		cycles string
		want   []wantSegment
	}{
		{
			name:   "box to middle curves into the open run",
			cycles: "2z",
			want: []wantSegment{
				{x: 0, y: 0, width: 52, bg: wave.BackgroundB2, cmds: []Command{
					H(44), C(0, 12, 4, 12, 8, 12), C(-4, 0, -8, 0, -8, 12), H(-44), VNoStroke(-24),
				}},
				{x: 52, y: 12, width: 44, stroked: true, cmds: []Command{H(44)}},
			},
		},
		{
			name:   "box to box closes with a back line",
			cycles: "23",
			want: []wantSegment{
				{x: 0, y: 0, width: 48, bg: wave.BackgroundB2, cmds: []Command{
					H(44), L(4, 12), L(-4, 12), H(-44), VNoStroke(-24),
				}},
				{x: 48, y: 12, width: 48, bg: wave.BackgroundB3, cmds: []Command{
					L(4, -12), H(44), VNoStroke(24), H(-44), L(-4, -12),
				}},
			},
		},
		{
			name:   "up into posedge drops without a stroke",
			cycles: "up",
			want: []wantSegment{
				{x: 0, y: 0, width: 96, stroked: true, cmds: []Command{
					DashedH(48), VNoStroke(24), V(-24), H(24), V(24), H(24),
				}},
			},
		},
		{
			name:   "marked high after low",
			cycles: "lH",
			want: []wantSegment{
				{x: 0, y: 24, width: 96, stroked: true,
					cmds:    []Command{H(48), V(-24), H(48)},
					markers: []ClockEdgeMarker{{At: wave.Rounded(1), Edge: PositiveEdge}},
				},
			},
		},
		{
			name:   "marked low after high",
			cycles: "hL",
			want: []wantSegment{
				{x: 0, y: 0, width: 96, stroked: true,
					cmds:    []Command{H(48), V(24), H(48)},
					markers: []ClockEdgeMarker{{At: wave.Rounded(1), Edge: NegativeEdge}},
				},
			},
		},
		{
			name:   "gap keeps the previous level",
			cycles: "1|0",
			want: []wantSegment{
				{x: 0, y: 0, width: 144, stroked: true,
					cmds: []Command{H(92), L(8, 24), H(44)},
					gaps: []wave.CycleOffset{{Index: 1, Fraction: wave.Half}},
				},
			},
		},
		{
			name:   "continued box transitions from its predecessor",
			cycles: "2.3",
			want: []wantSegment{
				{x: 0, y: 0, width: 96, bg: wave.BackgroundB2, cmds: []Command{
					H(92), L(4, 12), L(-4, 12), H(-92), VNoStroke(-24),
				}},
				{x: 96, y: 12, width: 48, bg: wave.BackgroundB3, cmds: []Command{
					L(4, -12), H(44), VNoStroke(24), H(-44), L(-4, -12),
				}},
			},
		},
		{
			name:   "high into top stays on the cycle grid",
			cycles: "h1",
			want:   []wantSegment{{x: 0, y: 0, width: 96, stroked: true, cmds: []Command{H(96)}}},
		},
		{
			name:   "marked high into top stays on the cycle grid",
			cycles: "H1",
			want:   []wantSegment{{x: 0, y: 0, width: 96, stroked: true, cmds: []Command{H(96)}}},
		},
		{
			name:   "low into bottom stays on the cycle grid",
			cycles: "l0",
			want:   []wantSegment{{x: 0, y: 24, width: 96, stroked: true, cmds: []Command{H(96)}}},
		},
		{
			name:   "marked low into bottom stays on the cycle grid",
			cycles: "L0",
			want:   []wantSegment{{x: 0, y: 24, width: 96, stroked: true, cmds: []Command{H(96)}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assemble(tt.cycles, 1)
			if len(got.Segments) != len(tt.want) {
				t.Fatalf("Segments = %d, want %d", len(got.Segments), len(tt.want))
			}

			for i, want := range tt.want {
				seg := got.Segments[i]
				if seg.X != want.x || seg.Y != want.y || seg.Width != want.width {
					t.Errorf("segment %d origin/width = (%d,%d)/%d, want (%d,%d)/%d",
						i, seg.X, seg.Y, seg.Width, want.x, want.y, want.width)
				}
				if seg.Background != want.bg {
					t.Errorf("segment %d Background = %v, want %v", i, seg.Background, want.bg)
				}
				if seg.FullyStroked != want.stroked {
					t.Errorf("segment %d FullyStroked = %v, want %v", i, seg.FullyStroked, want.stroked)
				}
				if !slices.Equal(seg.Commands, want.cmds) {
					t.Errorf("segment %d Commands = %v, want %v", i, seg.Commands, want.cmds)
				}
				if !slices.Equal(seg.Markers, want.markers) {
					t.Errorf("segment %d Markers = %v, want %v", i, seg.Markers, want.markers)
				}
				if !slices.Equal(seg.Gaps, want.gaps) {
					t.Errorf("segment %d Gaps = %v, want %v", i, seg.Gaps, want.gaps)
				}
			}
		})
	}
}

func cycleLen(s wave.CycleState, period uint16) uint32 {
	if s.IsClock() {
		return uint32(period)
	}
	return 1
}

// TestTransitionMatrix checks every ordered pair of states for balanced
// geometry.
func TestTransitionMatrix(t *testing.T) {
	opts := DefaultOptions()

	for _, period := range []uint16{1, 2} {
		for _, s := range wave.AllCycleStates() {
			for _, n := range wave.AllCycleStates() {
				name := fmt.Sprintf("%v%v/p%d", s, n, period)
				t.Run(name, func(t *testing.T) {
					sig := wave.Signal{Cycles: []wave.CycleState{s, n}, Period: period}
					got := Assemble(&sig, opts)

					first := s
					if first.IsMeta() {
						first = wave.X
					}
					second := n
					if second.IsMeta() {
						second = first
					}
					wantEnd := wave.Rounded(cycleLen(first, period) + cycleLen(second, period))
					if got.EndOffset != wantEnd {
						t.Errorf("EndOffset = %v, want %v", got.EndOffset, wantEnd)
					}

					if !first.IsBoxed() && !second.IsBoxed() && len(got.Segments) != 1 {
						t.Errorf("Segments = %d, want 1 for unboxed pair", len(got.Segments))
					}

					x := got.Segments[0].X
					for i, seg := range got.Segments {
						if seg.X != x {
							t.Errorf("segment %d starts at x=%d, want %d", i, seg.X, x)
						}
						x += seg.Width
						checkSegment(t, i, seg)
					}

					if wantX := int32(wantEnd.WidthOffset(uint32(opts.CycleWidth))); x != wantX {
						t.Errorf("outline ends at x=%d, want %d", x, wantX)
					}
				})
			}
		}
	}
}

func checkSegment(t *testing.T, i int, seg Segment) {
	t.Helper()

	var dx, dy int32
	for _, c := range seg.Commands {
		dx += c.DX
		dy += c.DY
		if seg.Background == wave.NoBackground && c.DX < 0 {
			t.Errorf("segment %d: open run moves backwards: %v", i, c)
		}
	}

	if seg.Background != wave.NoBackground {
		if dx != 0 || dy != 0 {
			t.Errorf("segment %d: fill outline not closed, ends at (%d,%d)", i, dx, dy)
		}
		return
	}
	if dx != seg.Width {
		t.Errorf("segment %d: commands advance %d, width %d", i, dx, seg.Width)
	}
	if !seg.FullyStroked && !slices.ContainsFunc(seg.Commands, Command.HasNoStroke) {
		t.Errorf("segment %d: not fully stroked without an unstroked edge", i)
	}
}
