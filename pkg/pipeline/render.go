package pipeline

import (
	"fmt"

	"github.com/matzehuels/wavetower/pkg/fonts"
	"github.com/matzehuels/wavetower/pkg/render/layout"
	"github.com/matzehuels/wavetower/pkg/render/nodelink"
	"github.com/matzehuels/wavetower/pkg/render/route"
	"github.com/matzehuels/wavetower/pkg/render/sink"
	"github.com/matzehuels/wavetower/pkg/style"
	"github.com/matzehuels/wavetower/pkg/wave"
	"github.com/matzehuels/wavetower/pkg/wave/figure"
)

// Input is everything the render stage consumes.
type Input struct {
	Assembled  *figure.Assembled
	Style      style.Options
	Metrics    fonts.Metrics
	Dimensions layout.Dimensions
	Edges      []route.Edge
	TextNodes  []route.Text
}

// Render generates output artifacts in the requested formats.
func Render(in Input, opts Options) (map[string][]byte, error) {
	svgOpts := []sink.SVGOption{
		sink.WithMetrics(in.Metrics),
		sink.WithDimensions(in.Dimensions),
		sink.WithRoutes(in.Edges, in.TextNodes),
	}
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(in.Assembled, in.Style, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(in.Assembled, in.Style,
				sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(in.Assembled, in.Style, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(in.Assembled, in.Style,
				sink.WithJSONSVGOptions(svgOpts...), sink.WithJSONSkins(opts.Skins...))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderNodelink renders the node graph view of f.
func RenderNodelink(f *wave.Figure, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(f, nodelink.Options{Detailed: true})
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		default:
			return nil, fmt.Errorf("unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
