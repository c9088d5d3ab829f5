package wave

import "fmt"

// CycleState is the visual state a signal occupies during one cycle.
type CycleState uint8

const (
	Top CycleState = iota
	Bottom
	Middle

	Box2
	Box3
	Box4
	Box5
	Box6
	Box7
	Box8
	Box9
	Data

	// X is the undefined state, drawn with a hatched fill.
	X

	PosedgeUnmarked
	PosedgeMarked
	NegedgeUnmarked
	NegedgeMarked

	// Continue repeats the previous real state.
	Continue
	// Gap repeats the previous real state and draws a break glyph.
	Gap

	Up
	Down

	HighUnmarked
	HighMarked
	LowUnmarked
	LowMarked

	numCycleStates
)

var stateChars = [numCycleStates]rune{
	Top:             '1',
	Bottom:          '0',
	Middle:          'z',
	Box2:            '2',
	Box3:            '3',
	Box4:            '4',
	Box5:            '5',
	Box6:            '6',
	Box7:            '7',
	Box8:            '8',
	Box9:            '9',
	Data:            '=',
	X:               'x',
	PosedgeUnmarked: 'p',
	PosedgeMarked:   'P',
	NegedgeUnmarked: 'n',
	NegedgeMarked:   'N',
	Continue:        '.',
	Gap:             '|',
	Up:              'u',
	Down:            'd',
	HighUnmarked:    'h',
	HighMarked:      'H',
	LowUnmarked:     'l',
	LowMarked:       'L',
}

// AllCycleStates returns every state in declaration order.
func AllCycleStates() []CycleState {
	states := make([]CycleState, numCycleStates)
	for i := range states {
		states[i] = CycleState(i)
	}
	return states
}

// ParseCycleState maps a notation character to its state. Unknown
// characters parse as [X].
func ParseCycleState(r rune) CycleState {
	switch r {
	case '1':
		return Top
	case '0':
		return Bottom
	case 'z':
		return Middle
	case '2', '3', '4', '5', '6', '7', '8', '9':
		return Box2 + CycleState(r-'2')
	case '=':
		return Data
	case 'p':
		return PosedgeUnmarked
	case 'P':
		return PosedgeMarked
	case 'n':
		return NegedgeUnmarked
	case 'N':
		return NegedgeMarked
	case '.':
		return Continue
	case '|':
		return Gap
	case 'u':
		return Up
	case 'd':
		return Down
	case 'h':
		return HighUnmarked
	case 'H':
		return HighMarked
	case 'l':
		return LowUnmarked
	case 'L':
		return LowMarked
	}
	return X
}

// ParseCycles parses one state per character of s.
func ParseCycles(s string) []CycleState {
	states := make([]CycleState, 0, len(s))
	for _, r := range s {
		states = append(states, ParseCycleState(r))
	}
	return states
}

// FormatCycles is the inverse of [ParseCycles].
func FormatCycles(states []CycleState) string {
	buf := make([]rune, len(states))
	for i, s := range states {
		buf[i] = s.Rune()
	}
	return string(buf)
}

// Rune returns the notation character of the state.
func (s CycleState) Rune() rune {
	if s >= numCycleStates {
		return '?'
	}
	return stateChars[s]
}

func (s CycleState) String() string {
	if s >= numCycleStates {
		return fmt.Sprintf("CycleState(%d)", uint8(s))
	}
	return string(stateChars[s])
}

// IsMeta reports whether s is [Continue] or [Gap].
func (s CycleState) IsMeta() bool { return s == Continue || s == Gap }

// IsBoxed reports whether s is drawn as a filled region: the numbered
// boxes, [Data] and [X].
func (s CycleState) IsBoxed() bool { return s >= Box2 && s <= X }

// IsPosedge reports whether s is a rising-edge clock.
func (s CycleState) IsPosedge() bool { return s == PosedgeUnmarked || s == PosedgeMarked }

// IsNegedge reports whether s is a falling-edge clock.
func (s CycleState) IsNegedge() bool { return s == NegedgeUnmarked || s == NegedgeMarked }

// IsClock reports whether s is any clock state.
func (s CycleState) IsClock() bool { return s.IsPosedge() || s.IsNegedge() }

// IsHigh reports whether s is a high level variant.
func (s CycleState) IsHigh() bool { return s == HighUnmarked || s == HighMarked }

// IsLow reports whether s is a low level variant.
func (s CycleState) IsLow() bool { return s == LowUnmarked || s == LowMarked }

// Background returns the fill class of a boxed state and [NoBackground] for
// every other state.
func (s CycleState) Background() Background {
	switch {
	case s == X:
		return BackgroundUndefined
	case s == Data:
		return BackgroundB2
	case s >= Box2 && s <= Box9:
		return BackgroundB2 + Background(s-Box2)
	}
	return NoBackground
}

// Background is the fill class of a committed path segment.
type Background uint8

const (
	NoBackground Background = iota
	BackgroundUndefined
	BackgroundB2
	BackgroundB3
	BackgroundB4
	BackgroundB5
	BackgroundB6
	BackgroundB7
	BackgroundB8
	BackgroundB9
)

// IsDataBox reports whether a segment with this background consumes a
// label from the signal's data list.
func (b Background) IsDataBox() bool {
	return b >= BackgroundB2 && b <= BackgroundB9
}

// PaletteIndex returns the index of a data box background in the
// eight-colour palette, or -1.
func (b Background) PaletteIndex() int {
	if !b.IsDataBox() {
		return -1
	}
	return int(b - BackgroundB2)
}
