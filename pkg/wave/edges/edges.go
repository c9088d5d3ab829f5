// Package edges parses edge declarations and resolves their node
// references against the signals of a figure.
//
// An edge declaration has the form
//
//	<from><route>[>]<to> [label]
//
// where from and to are single node characters placed with a signal's
// Nodes string, and route is one of "-", "-|-", "-|", "|-", "-~", "~-", "~"
// or "+". A leading '<' or trailing '>' on the route requests an arrowhead
// at the start or end. The cross route "+" takes no arrowheads.
//
// A lower-case node character is drawn as a visible marker at its position;
// an upper-case one is a silent anchor. Node characters that no edge uses
// are drawn as free standing text unless they are upper-case.
package edges

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/wave"
)

// Kind is the route shape of an edge.
type Kind uint8

const (
	// SplineBoth is "~": a bezier leaving and entering horizontally.
	SplineBoth Kind = iota
	// SplineStart is "-~": a bezier leaving horizontally.
	SplineStart
	// SplineEnd is "~-": a bezier entering horizontally.
	SplineEnd
	// Straight is "-".
	Straight
	// SharpBoth is "-|-": horizontal, vertical, horizontal.
	SharpBoth
	// SharpStart is "-|": horizontal then vertical.
	SharpStart
	// SharpEnd is "|-": vertical then horizontal.
	SharpEnd
	// Cross is "+": a straight line with perpendicular end ticks.
	Cross
)

var kindTokens = [...]string{
	SplineBoth:  "~",
	SplineStart: "-~",
	SplineEnd:   "~-",
	Straight:    "-",
	SharpBoth:   "-|-",
	SharpStart:  "-|",
	SharpEnd:    "|-",
	Cross:       "+",
}

func (k Kind) String() string {
	if int(k) < len(kindTokens) {
		return kindTokens[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsSpline reports whether the route is drawn as a bezier.
func (k Kind) IsSpline() bool {
	return k <= SplineEnd
}

// Arrow selects which ends of an edge carry an arrowhead.
type Arrow uint8

const (
	ArrowNone Arrow = iota
	ArrowStart
	ArrowEnd
	ArrowBoth
)

func newArrow(start, end bool) Arrow {
	switch {
	case start && end:
		return ArrowBoth
	case start:
		return ArrowStart
	case end:
		return ArrowEnd
	}
	return ArrowNone
}

// HasStart reports whether the start of the edge is arrowed.
func (a Arrow) HasStart() bool { return a == ArrowStart || a == ArrowBoth }

// HasEnd reports whether the end of the edge is arrowed.
func (a Arrow) HasEnd() bool { return a == ArrowEnd || a == ArrowBoth }

// Variant is the route shape and arrowheads of an edge.
type Variant struct {
	Kind  Kind
	Arrow Arrow
}

func (v Variant) String() string {
	var b strings.Builder
	if v.Arrow.HasStart() {
		b.WriteByte('<')
	}
	b.WriteString(v.Kind.String())
	if v.Arrow.HasEnd() {
		b.WriteByte('>')
	}
	return b.String()
}

// variantTokens is ordered so that longer tokens match first.
var variantTokens = []Kind{SharpBoth, SharpStart, SharpEnd, SplineStart, SplineEnd, Straight, Cross, SplineBoth}

// consumeVariant reads a route token with its optional arrow markers.
func consumeVariant(in string) (string, Variant, bool) {
	s, arrowStart := strings.CutPrefix(in, "<")

	for _, k := range variantTokens {
		rest, ok := strings.CutPrefix(s, k.String())
		if !ok {
			continue
		}
		if k == Cross {
			if arrowStart {
				return in, Variant{}, false
			}
			return rest, Variant{Kind: Cross}, true
		}
		rest, arrowEnd := strings.CutPrefix(rest, ">")
		return rest, Variant{Kind: k, Arrow: newArrow(arrowStart, arrowEnd)}, true
	}
	return in, Variant{}, false
}

// Definition is a parsed edge declaration.
type Definition struct {
	Variant
	From, To rune
	Label    string
}

// SyntaxError reports the byte column at which an edge declaration stopped
// parsing.
type SyntaxError struct {
	Input  string
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unexpected input at column %d in %q", e.Column, e.Input)
}

// Parse parses one edge declaration. Errors carry [errors.ErrCodeInvalidEdge]
// and wrap a *[SyntaxError].
func Parse(decl string) (Definition, error) {
	s := strings.TrimLeftFunc(decl, unicode.IsSpace)
	fail := func() (Definition, error) {
		return Definition{}, errors.Wrap(errors.ErrCodeInvalidEdge,
			&SyntaxError{Input: decl, Column: len(decl) - len(s)}, "invalid edge")
	}

	from, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return fail()
	}
	s = strings.TrimLeftFunc(s[size:], unicode.IsSpace)

	rest, variant, ok := consumeVariant(s)
	if !ok {
		return fail()
	}
	s = strings.TrimLeftFunc(rest, unicode.IsSpace)

	to, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return fail()
	}

	return Definition{
		Variant: variant,
		From:    from,
		To:      to,
		Label:   strings.TrimLeftFunc(s[size:], unicode.IsSpace),
	}, nil
}

// ParseAll parses every declaration, returning the valid definitions in
// order and the errors of the dropped ones.
func ParseAll(decls []string) ([]Definition, []error) {
	var defs []Definition
	var errs []error
	for _, d := range decls {
		def, err := Parse(d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		defs = append(defs, def)
	}
	return defs, errs
}

// Position is a node location: a time offset on a signal line.
type Position struct {
	X    wave.CycleOffset
	Line uint32
}

// TextNode is a node character drawn on its own.
type TextNode struct {
	At   Position
	Char rune
}

// Line is a resolved edge between two node positions.
type Line struct {
	From, To Position

	// FromMarker and ToMarker are the visible node characters at each end,
	// or 0 for silent anchors.
	FromMarker rune
	ToMarker   rune

	Label   string
	Variant Variant
}

// Markers holds everything an edge layer draws.
type Markers struct {
	Lines     []Line
	TextNodes []TextNode
}

// Builder collects node positions line by line.
type Builder struct {
	line       uint32
	positions  map[rune]Position
	candidates []TextNode
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{positions: make(map[rune]Position)}
}

// AddSignal registers the nodes of the next signal line. The first
// occurrence of a character defines its position; every occurrence remains
// a candidate for free standing text.
func (b *Builder) AddSignal(sig *wave.Signal) {
	i := uint32(0)
	for _, c := range sig.Nodes {
		if c != '.' {
			at := Position{X: sig.Phase.Add(wave.Rounded(i)), Line: b.line}
			if _, ok := b.positions[c]; !ok {
				b.positions[c] = at
			}
			b.candidates = append(b.candidates, TextNode{At: at, Char: c})
		}
		i++
	}
	b.line++
}

// Build resolves the definitions. Edges from a node to itself and edges
// naming unknown nodes are dropped.
func (b *Builder) Build(defs []Definition) Markers {
	var m Markers
	used := make(map[rune]bool)

	for _, def := range defs {
		if def.From == def.To {
			continue
		}
		from, ok := b.positions[def.From]
		if !ok {
			continue
		}
		to, ok := b.positions[def.To]
		if !ok {
			continue
		}

		used[def.From] = true
		used[def.To] = true

		m.Lines = append(m.Lines, Line{
			From:       from,
			To:         to,
			FromMarker: visibleMarker(def.From),
			ToMarker:   visibleMarker(def.To),
			Label:      def.Label,
			Variant:    def.Variant,
		})
	}

	for _, n := range b.candidates {
		if !used[n.Char] && !isASCIIUpper(n.Char) {
			m.TextNodes = append(m.TextNodes, n)
		}
	}
	return m
}

func visibleMarker(c rune) rune {
	if isASCIIUpper(c) {
		return 0
	}
	return c
}

func isASCIIUpper(c rune) bool {
	return c >= 'A' && c <= 'Z'
}
