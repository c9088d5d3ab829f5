// Package render turns assembled timing diagrams into pictures.
//
// # Overview
//
// Rendering happens in three steps, each in its own subpackage:
//
//   - [layout] sizes every region of the figure from text metrics and style
//     options
//   - [route] resolves edge endpoints into pixel paths and arrowheads
//   - [sink] serializes the result as SVG, JSON, PDF or PNG
//
// The [nodelink] subpackage draws a different view of the same figure: the
// named nodes and the edges between them as a Graphviz graph.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the waveform sinks and
// the node-link renderer use them.
//
//	svg := sink.RenderSVG(assembled, style.Default())
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [layout]: github.com/matzehuels/wavetower/pkg/render/layout
// [route]: github.com/matzehuels/wavetower/pkg/render/route
// [sink]: github.com/matzehuels/wavetower/pkg/render/sink
// [nodelink]: github.com/matzehuels/wavetower/pkg/render/nodelink
package render
