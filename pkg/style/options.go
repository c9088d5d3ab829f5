// Package style holds the render options of a timing diagram.
//
// [Options] is a nested, fully-defaulted record. It is a plain value passed
// to every render call; there is no package-level configuration. Partial
// documents called skins (JSON, YAML or TOML) are decoded over [Default],
// so any field a skin leaves out keeps its default and nested groups merge
// field by field:
//
//	opts := style.Default()
//	if err := style.Merge(&opts, data, style.FormatTOML); err != nil {
//	    return err
//	}
//	if err := opts.Validate(); err != nil {
//	    return err
//	}
//
// The fixed-size Backgrounds array is the one exception: a skin that sets it
// replaces the whole palette.
package style

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/wave"
	"github.com/matzehuels/wavetower/pkg/wave/path"
)

// Options are the complete render options.
type Options struct {
	// Background fills the whole figure. Nil leaves it transparent.
	Background *Color `json:"background" yaml:"background" toml:"background"`

	Padding Padding       `json:"padding" yaml:"padding" toml:"padding"`
	Spacing Spacing       `json:"spacing" yaml:"spacing" toml:"spacing"`
	Header  Banner        `json:"header" yaml:"header" toml:"header"`
	Footer  Banner        `json:"footer" yaml:"footer" toml:"footer"`
	Signal  SignalOptions `json:"signal" yaml:"signal" toml:"signal"`

	// Backgrounds are the fills of the box states 2 through 9.
	Backgrounds [8]Color `json:"backgrounds" yaml:"backgrounds" toml:"backgrounds"`

	// UndefinedBackground fills behind the undefined hatch pattern. Nil
	// leaves it transparent.
	UndefinedBackground *Color `json:"undefined_background" yaml:"undefined_background" toml:"undefined_background"`
}

// Padding surrounds the figure and the signal schema.
type Padding struct {
	FigureTop    uint32 `json:"figure_top" yaml:"figure_top" toml:"figure_top"`
	FigureBottom uint32 `json:"figure_bottom" yaml:"figure_bottom" toml:"figure_bottom"`
	FigureLeft   uint32 `json:"figure_left" yaml:"figure_left" toml:"figure_left"`
	FigureRight  uint32 `json:"figure_right" yaml:"figure_right" toml:"figure_right"`
	SchemaTop    uint32 `json:"schema_top" yaml:"schema_top" toml:"schema_top"`
	SchemaBottom uint32 `json:"schema_bottom" yaml:"schema_bottom" toml:"schema_bottom"`
}

// Spacing separates the figure columns and signal rows.
type Spacing struct {
	TextboxToSchema   uint32 `json:"textbox_to_schema" yaml:"textbox_to_schema" toml:"textbox_to_schema"`
	GroupboxToTextbox uint32 `json:"groupbox_to_textbox" yaml:"groupbox_to_textbox" toml:"groupbox_to_textbox"`
	LineToLine        uint32 `json:"line_to_line" yaml:"line_to_line" toml:"line_to_line"`
}

// Banner styles the header or footer band: an optional title and an
// optional cycle ruler.
type Banner struct {
	FontSize uint32 `json:"font_size" yaml:"font_size" toml:"font_size" validate:"gte=1"`
	Height   uint32 `json:"height" yaml:"height" toml:"height"`
	Color    Color  `json:"color" yaml:"color" toml:"color"`

	CycleMarkerHeight   uint32 `json:"cycle_marker_height" yaml:"cycle_marker_height" toml:"cycle_marker_height"`
	CycleMarkerFontSize uint32 `json:"cycle_marker_fontsize" yaml:"cycle_marker_fontsize" toml:"cycle_marker_fontsize" validate:"gte=1"`
	CycleMarkerColor    Color  `json:"cycle_marker_color" yaml:"cycle_marker_color" toml:"cycle_marker_color"`
}

// SignalOptions style the signal rows.
type SignalOptions struct {
	GroupIndicator GroupIndicator `json:"group_indicator" yaml:"group_indicator" toml:"group_indicator"`
	Edge           Edge           `json:"edge" yaml:"edge" toml:"edge"`
	Path           path.Options   `json:"path" yaml:"path" toml:"path"`

	MarkerFontSize uint32 `json:"marker_font_size" yaml:"marker_font_size" toml:"marker_font_size" validate:"gte=1"`
	MarkerColor    Color  `json:"marker_color" yaml:"marker_color" toml:"marker_color"`
	NameFontSize   uint32 `json:"name_font_size" yaml:"name_font_size" toml:"name_font_size" validate:"gte=1"`
	NameColor      Color  `json:"name_color" yaml:"name_color" toml:"name_color"`

	GapColor           Color `json:"gap_color" yaml:"gap_color" toml:"gap_color"`
	GapBackgroundColor Color `json:"gap_background_color" yaml:"gap_background_color" toml:"gap_background_color"`
	PathColor          Color `json:"path_color" yaml:"path_color" toml:"path_color"`
	HintLineColor      Color `json:"hint_line_color" yaml:"hint_line_color" toml:"hint_line_color"`
	UndefinedColor     Color `json:"undefined_color" yaml:"undefined_color" toml:"undefined_color"`
}

// GroupIndicator styles group brackets and their rotated labels.
type GroupIndicator struct {
	Width   uint32 `json:"width" yaml:"width" toml:"width" validate:"gte=1"`
	Spacing uint32 `json:"spacing" yaml:"spacing" toml:"spacing"`
	Color   Color  `json:"color" yaml:"color" toml:"color"`

	LabelSpacing  uint32 `json:"label_spacing" yaml:"label_spacing" toml:"label_spacing"`
	LabelFontSize uint32 `json:"label_fontsize" yaml:"label_fontsize" toml:"label_fontsize" validate:"gte=1"`
	LabelColor    Color  `json:"label_color" yaml:"label_color" toml:"label_color"`
}

// LabelHeight is the horizontal room one rotated label column takes.
func (g GroupIndicator) LabelHeight() uint32 {
	return g.LabelSpacing + g.LabelFontSize
}

// Edge styles edge routes, node markers and edge labels.
type Edge struct {
	NodeFontSize        uint32 `json:"node_font_size" yaml:"node_font_size" toml:"node_font_size" validate:"gte=1"`
	NodeTextColor       Color  `json:"node_text_color" yaml:"node_text_color" toml:"node_text_color"`
	NodeBackgroundColor Color  `json:"node_background_color" yaml:"node_background_color" toml:"node_background_color"`

	EdgeTextFontSize        uint32 `json:"edge_text_font_size" yaml:"edge_text_font_size" toml:"edge_text_font_size" validate:"gte=1"`
	EdgeTextColor           Color  `json:"edge_text_color" yaml:"edge_text_color" toml:"edge_text_color"`
	EdgeTextBackgroundColor Color  `json:"edge_text_background_color" yaml:"edge_text_background_color" toml:"edge_text_background_color"`

	EdgeColor      Color  `json:"edge_color" yaml:"edge_color" toml:"edge_color"`
	EdgeArrowColor Color  `json:"edge_arrow_color" yaml:"edge_arrow_color" toml:"edge_arrow_color"`
	EdgeArrowSize  uint32 `json:"edge_arrow_size" yaml:"edge_arrow_size" toml:"edge_arrow_size" validate:"gte=1,lte=64"`
}

// Default returns the documented defaults.
func Default() Options {
	white := White
	banner := Banner{
		FontSize:            24,
		Height:              32,
		Color:               Black,
		CycleMarkerHeight:   12,
		CycleMarkerFontSize: 12,
		CycleMarkerColor:    Black,
	}
	blue := Color{0, 0, 0xFF}

	return Options{
		Background: &white,
		Padding: Padding{
			FigureTop:    8,
			FigureBottom: 8,
			FigureLeft:   8,
			FigureRight:  8,
			SchemaTop:    8,
			SchemaBottom: 8,
		},
		Spacing: Spacing{
			TextboxToSchema:   8,
			GroupboxToTextbox: 8,
			LineToLine:        8,
		},
		Header: banner,
		Footer: banner,
		Signal: SignalOptions{
			GroupIndicator: GroupIndicator{
				Width:         4,
				Spacing:       4,
				Color:         Black,
				LabelSpacing:  4,
				LabelFontSize: 14,
				LabelColor:    Black,
			},
			Edge: Edge{
				NodeFontSize:            14,
				NodeTextColor:           Black,
				NodeBackgroundColor:     White,
				EdgeTextFontSize:        14,
				EdgeTextColor:           Black,
				EdgeTextBackgroundColor: White,
				EdgeColor:               blue,
				EdgeArrowColor:          blue,
				EdgeArrowSize:           8,
			},
			Path:               path.DefaultOptions(),
			MarkerFontSize:     14,
			MarkerColor:        Black,
			NameFontSize:       14,
			NameColor:          Black,
			GapColor:           Black,
			GapBackgroundColor: White,
			PathColor:          Black,
			HintLineColor:      Color{0xCC, 0xCC, 0xCC},
			UndefinedColor:     Black,
		},
		Backgrounds: [8]Color{
			{0xFF, 0xFF, 0xFF},
			{0xF7, 0xF7, 0xA1},
			{0xF9, 0xD4, 0x9F},
			{0xAD, 0xDE, 0xFF},
			{0xAC, 0xD5, 0xB6},
			{0xA4, 0xAB, 0xE1},
			{0xE8, 0xA8, 0xF0},
			{0xFB, 0xDA, 0xDA},
		},
	}
}

// BackgroundColor returns the fill of a box background, or false for
// backgrounds that are not a palette color.
func (o *Options) BackgroundColor(bg wave.Background) (Color, bool) {
	i := bg.PaletteIndex()
	if i < 0 || i >= len(o.Backgrounds) {
		return Color{}, false
	}
	return o.Backgrounds[i], true
}

var optionsValidate = validator.New()

// Validate checks value ranges. Errors carry [errors.ErrCodeInvalidStyle].
func (o *Options) Validate() error {
	err := optionsValidate.Struct(o)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInvalidStyle, err, "invalid style")
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s=%s)", fe.Namespace(), fe.Tag(), fe.Param()))
	}
	return errors.Wrap(errors.ErrCodeInvalidStyle, err, "invalid style: %s", strings.Join(fields, ", "))
}
