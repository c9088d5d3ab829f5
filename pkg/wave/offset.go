package wave

import (
	"errors"
	"fmt"
	"math"
)

// minNormalFloat64 is the smallest positive normal float64 (2^-1022).
const minNormalFloat64 = 0x1p-1022

var (
	// ErrSubnormal is returned by [FromFloat] for subnormal inputs.
	ErrSubnormal = errors.New("cycle offset: subnormal value")

	// ErrInvalidOffset is returned by [FromFloat] for NaN, infinite, negative
	// or out of range inputs.
	ErrInvalidOffset = errors.New("cycle offset: value out of range")
)

// InCycleOffset is the quarter-cycle fraction of a [CycleOffset].
type InCycleOffset uint8

const (
	Begin InCycleOffset = iota
	Quarter
	Half
	ThreeQuarter
)

var inCycleFractions = [...]float64{0, 0.25, 0.5, 0.75}

// Fraction returns the fraction of a cycle the quarter represents.
func (q InCycleOffset) Fraction() float64 {
	return inCycleFractions[q&3]
}

// WidthOffset returns the pixel offset of the quarter inside a cycle of
// width pixels, rounded half away from zero.
func (q InCycleOffset) WidthOffset(width uint32) uint32 {
	return uint32(math.Round(float64(width) * q.Fraction()))
}

func (q InCycleOffset) String() string {
	switch q {
	case Begin:
		return "begin"
	case Quarter:
		return "quarter"
	case Half:
		return "half"
	case ThreeQuarter:
		return "three-quarter"
	}
	return fmt.Sprintf("InCycleOffset(%d)", uint8(q))
}

// quarterSum is the addition table over quarters: the resulting quarter and
// the carry into the cycle index.
type quarterSum struct {
	q     InCycleOffset
	carry uint32
}

var quarterAddTable = [4][4]quarterSum{
	Begin: {
		Begin:        {Begin, 0},
		Quarter:      {Quarter, 0},
		Half:         {Half, 0},
		ThreeQuarter: {ThreeQuarter, 0},
	},
	Quarter: {
		Begin:        {Quarter, 0},
		Quarter:      {Half, 0},
		Half:         {ThreeQuarter, 0},
		ThreeQuarter: {Begin, 1},
	},
	Half: {
		Begin:        {Half, 0},
		Quarter:      {ThreeQuarter, 0},
		Half:         {Begin, 1},
		ThreeQuarter: {Quarter, 1},
	},
	ThreeQuarter: {
		Begin:        {ThreeQuarter, 0},
		Quarter:      {Begin, 1},
		Half:         {Quarter, 1},
		ThreeQuarter: {Half, 1},
	},
}

// CycleOffset is a position on the time axis at quarter-cycle resolution.
// The zero value is the start of the first cycle.
type CycleOffset struct {
	Index    uint32
	Fraction InCycleOffset
}

// Rounded returns the offset at the start of cycle index.
func Rounded(index uint32) CycleOffset {
	return CycleOffset{Index: index}
}

// FromFloat converts a cycle count such as a signal phase into an offset.
// The fractional part is rounded to the nearest quarter; a fraction that
// rounds up to a whole cycle carries into the index.
func FromFloat(v float64) (CycleOffset, error) {
	if v != 0 && math.Abs(v) < minNormalFloat64 {
		return CycleOffset{}, ErrSubnormal
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v >= math.MaxUint32 {
		return CycleOffset{}, ErrInvalidOffset
	}

	floor := math.Floor(v)
	frac := v - floor
	q := InCycleOffset(uint64(math.Round(frac*4)) % 4)

	index := floor
	if frac > 0.75 && q == Begin {
		index = math.Ceil(v)
	}
	if index > math.MaxUint32 {
		return CycleOffset{}, ErrInvalidOffset
	}
	return CycleOffset{Index: uint32(index), Fraction: q}, nil
}

// Float returns the offset as a number of cycles.
func (o CycleOffset) Float() float64 {
	return float64(o.Index) + o.Fraction.Fraction()
}

// Add returns o+other.
func (o CycleOffset) Add(other CycleOffset) CycleOffset {
	s := quarterAddTable[o.Fraction&3][other.Fraction&3]
	return CycleOffset{
		Index:    o.Index + other.Index + s.carry,
		Fraction: s.q,
	}
}

// Half returns o/2. Even indices halve into Begin or Quarter, odd indices
// into Half or ThreeQuarter.
func (o CycleOffset) Half() CycleOffset {
	low := o.Fraction == Begin || o.Fraction == Quarter
	var q InCycleOffset
	switch {
	case o.Index%2 == 0 && low:
		q = Begin
	case o.Index%2 == 0:
		q = Quarter
	case low:
		q = Half
	default:
		q = ThreeQuarter
	}
	return CycleOffset{Index: o.Index / 2, Fraction: q}
}

// WidthOffset converts the offset to pixels for cycles that are width
// pixels wide.
func (o CycleOffset) WidthOffset(width uint32) uint32 {
	return o.Index*width + o.Fraction.WidthOffset(width)
}

// CeilNumCycles returns the number of whole cycles needed to contain o.
func (o CycleOffset) CeilNumCycles() uint32 {
	if o.Fraction != Begin {
		return o.Index + 1
	}
	return o.Index
}

// Compare orders offsets by index, then by quarter.
func Compare(a, b CycleOffset) int {
	switch {
	case a.Index < b.Index:
		return -1
	case a.Index > b.Index:
		return 1
	case a.Fraction < b.Fraction:
		return -1
	case a.Fraction > b.Fraction:
		return 1
	}
	return 0
}

// Less reports whether o is strictly before other.
func (o CycleOffset) Less(other CycleOffset) bool {
	return Compare(o, other) < 0
}

func (o CycleOffset) String() string {
	return fmt.Sprintf("%d+%s", o.Index, o.Fraction)
}
