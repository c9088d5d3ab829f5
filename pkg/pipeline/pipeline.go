// Package pipeline provides the render pipeline for wavetower.
//
// This package implements the complete assemble → layout → render pipeline
// that the CLI and the HTTP service share. By centralizing this logic, both
// entry points resolve skins, fonts and formats the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Assemble: Flatten the figure tree and build per-signal path segments
//  2. Layout: Size every region of the figure and route its edges
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// The core stages cannot fail; only style loading and format conversion
// produce errors. Cancellation is checked between stages.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	    Skins:   []string{"dark.toml"},
//	}
//	result, err := runner.Execute(ctx, fig, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/fonts"
	"github.com/matzehuels/wavetower/pkg/render/layout"
	"github.com/matzehuels/wavetower/pkg/render/route"
	"github.com/matzehuels/wavetower/pkg/render/sink"
	"github.com/matzehuels/wavetower/pkg/style"
	"github.com/matzehuels/wavetower/pkg/wave/figure"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFont measures text with the built-in Helvetica advance table.
	DefaultFont = FontHelvetica

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = sink.DefaultPNGScale

	// DefaultView draws waveforms.
	DefaultView = ViewWave
)

// Font names accepted by [Options.Font].
const (
	FontHelvetica = "helvetica"
	FontGo        = "go"
)

// View names accepted by [Options.View].
const (
	ViewWave     = "wave"
	ViewNodelink = "nodelink"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidFonts is the set of supported font metrics.
var ValidFonts = map[string]bool{
	FontHelvetica: true,
	FontGo:        true,
}

// ValidViews is the set of supported views.
var ValidViews = map[string]bool{
	ViewWave:     true,
	ViewNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats []string `json:"formats,omitempty"`
	// Skins are style files merged over the defaults, in order.
	Skins []string `json:"skins,omitempty"`
	Font  string   `json:"font,omitempty"`
	View  string   `json:"view,omitempty"`
	Scale float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	// Style, when set, is used instead of loading Skins.
	Style *style.Options `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Assembled is the flattened figure. Nil for the nodelink view.
	Assembled *figure.Assembled

	// Dimensions are the computed layout regions.
	Dimensions layout.Dimensions

	// Edges are the routed edges.
	Edges []route.Edge

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Lines        int
	Cycles       uint32
	Edges        int
	DroppedEdges int
	AssembleTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, slices.Sorted(maps.Keys(ValidFormats)))
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFont checks that a font name is valid.
func ValidateFont(font string) error {
	if !ValidFonts[font] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid font: %q (must be one of: helvetica, go)", font)
	}
	return nil
}

// ValidateView checks that a view name is valid.
func ValidateView(view string) error {
	if !ValidViews[view] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid view: %q (must be one of: wave, nodelink)", view)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Font == "" {
		o.Font = DefaultFont
	}
	if o.View == "" {
		o.View = DefaultView
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateView(o.View); err != nil {
		return err
	}
	if o.IsNodelink() && slices.Contains(o.Formats, FormatJSON) {
		return errors.New(errors.ErrCodeInvalidFormat, "the nodelink view has no json output")
	}
	return ValidateFont(o.Font)
}

// IsNodelink returns true if the node graph view is requested.
func (o *Options) IsNodelink() bool {
	return o.View == ViewNodelink
}

// LoadStyle returns the explicit style, or the defaults with every skin
// merged in order.
func (o *Options) LoadStyle() (style.Options, error) {
	if o.Style != nil {
		s := *o.Style
		return s, s.Validate()
	}
	return style.Load(o.Skins...)
}

// Metrics returns the font metrics selected by Font.
func (o *Options) Metrics() (fonts.Metrics, error) {
	switch o.Font {
	case FontGo:
		return fonts.GoRegular()
	case FontHelvetica, "":
		return fonts.Helvetica(), nil
	}
	return nil, ValidateFont(o.Font)
}
