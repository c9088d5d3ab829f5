package style

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is an RGB color written as a CSS hex string.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}
	White = Color{0xFF, 0xFF, 0xFF}
)

// ColorParseError reports the character position at which a color string
// stopped being valid.
type ColorParseError struct {
	Input string
	At    int
}

func (e *ColorParseError) Error() string {
	return fmt.Sprintf("invalid color %q at position %d", e.Input, e.At)
}

// ParseColor parses "#RGB" or "#RRGGBB". Hex digits are case insensitive.
func ParseColor(s string) (Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return Color{}, &ColorParseError{Input: s, At: 0}
	}

	switch len(hex) {
	case 3:
		var c [3]uint8
		for i := range 3 {
			v, err := strconv.ParseUint(hex[i:i+1], 16, 8)
			if err != nil {
				return Color{}, &ColorParseError{Input: s, At: i + 1}
			}
			c[i] = uint8(v<<4 | v)
		}
		return Color{c[0], c[1], c[2]}, nil
	case 6:
		var c [3]uint8
		for i := range 3 {
			v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
			if err != nil {
				return Color{}, &ColorParseError{Input: s, At: 2*i + 1}
			}
			c[i] = uint8(v)
		}
		return Color{c[0], c[1], c[2]}, nil
	}
	return Color{}, &ColorParseError{Input: s, At: min(len(hex), 6) + 1}
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func shortenable(b uint8) bool {
	return b>>4 == b&0xF
}

// String formats the color as "#RGB" when every channel repeats its nibble,
// otherwise as "#RRGGBB". Digits are upper case.
func (c Color) String() string {
	if shortenable(c.R) && shortenable(c.G) && shortenable(c.B) {
		return fmt.Sprintf("#%X%X%X", c.R&0xF, c.G&0xF, c.B&0xF)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalJSON accepts a hex string or a [r, g, b] array.
func (c *Color) UnmarshalJSON(data []byte) error {
	var rgb [3]uint8
	if err := json.Unmarshal(data, &rgb); err == nil {
		*c = Color{rgb[0], rgb[1], rgb[2]}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("color must be a string or [r, g, b]: %w", err)
	}
	return c.UnmarshalText([]byte(s))
}

// UnmarshalYAML accepts a hex string or a [r, g, b] sequence.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var rgb [3]uint8
		if err := node.Decode(&rgb); err != nil {
			return err
		}
		*c = Color{rgb[0], rgb[1], rgb[2]}
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return c.UnmarshalText([]byte(s))
}
