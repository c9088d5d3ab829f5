// Package nodelink renders the node graph of a timing diagram.
//
// # Overview
//
// A waveform figure names points in time with node characters and joins
// them with edges. This package draws just that graph with Graphviz: one
// circle per node character and one arrow per resolvable edge, with edge
// labels carried over. It is useful for checking edge declarations of large
// figures without the waveforms in the way.
//
// # Usage
//
//	dot := nodelink.ToDOT(fig, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
