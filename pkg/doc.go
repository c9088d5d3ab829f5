// Package pkg provides the core libraries for Wavetower timing diagrams.
//
// # Overview
//
// Wavetower turns WaveJSON documents into digital timing diagrams: rows of
// clock and data waveforms on a shared cycle axis, with groups, rulers and
// annotated edges between named points. The pkg directory is organized into
// four main areas:
//
//  1. [wave] - The diagram model (signals, cycle states, offsets, edges)
//  2. [render] - Layout, edge routing and output sinks
//  3. [pipeline] - Orchestration (assemble → layout → render)
//  4. [server] - The HTTP rendering service
//
// # Architecture
//
// The typical data flow through Wavetower:
//
//	WaveJSON / YAML / JSON5 document
//	         ↓
//	    [wavejson] package (decode, validate, convert)
//	         ↓
//	    [wave/figure] package (assemble signal paths and edge markers)
//	         ↓
//	    [render/layout] + [render/route] packages (pixel geometry)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
// Read a document and render it to SVG:
//
//	import (
//	    "github.com/matzehuels/wavetower/pkg/fonts"
//	    "github.com/matzehuels/wavetower/pkg/io"
//	    "github.com/matzehuels/wavetower/pkg/render/sink"
//	    "github.com/matzehuels/wavetower/pkg/style"
//	    "github.com/matzehuels/wavetower/pkg/wave/figure"
//	    "github.com/matzehuels/wavetower/pkg/wave/path"
//	)
//
//	// 1. Read the document
//	fig, _, _ := io.ImportFigure("read-cycle.json", false)
//
//	// 2. Assemble signal paths and edges
//	assembled := figure.Assemble(fig, path.DefaultOptions())
//
//	// 3. Render to SVG
//	svg := sink.RenderSVG(assembled, style.Default(), sink.WithMetrics(fonts.Helvetica()))
//
// Most callers go through [pipeline] instead, which also applies skins,
// picks the font metrics and reports to [observability].
//
// # Main Packages
//
// ## Diagram Model
//
// [wave] - Signals, groups and figures. Cycle states are parsed from the
// compact one-character-per-cycle notation and positions on the time axis
// are exact quarter-cycle [wave.CycleOffset] values.
//
// [wave/path] - Per-signal path assembly: the state machine that turns a
// signal's cycles into stroke and fill segments.
//
// [wave/edges] - Edge declaration parsing ("a~>b label") and resolution of
// node characters to cycle positions.
//
// [wave/figure] - Assembly of a whole figure: flattened lines, group
// markers and the shared definitions a renderer needs.
//
// ## Input
//
// [wavejson] - WaveJSON decoding in strict JSON, YAML and relaxed JSON5
// notation, with optional JSON Schema validation.
//
// [io] - File import of documents and atomic export of artifacts.
//
// ## Visualization
//
// [render] - Top-level utilities for format conversion (SVG to PDF/PNG).
//
//   - [render/layout]: Size every region of the figure
//   - [render/route]: Resolve edges into pixel paths and arrowheads
//   - [render/sink]: Output formats (SVG, PDF, PNG, JSON)
//   - [render/nodelink]: The named nodes and edges as a Graphviz graph
//
// [style] - Render options and skins (TOML, YAML or JSON files merged over
// the defaults). [fonts] - Text metrics used for sizing.
//
// ## Infrastructure
//
// [pipeline] - The complete pipeline used by both the CLI and the server.
//
// [observability] - Pipeline and HTTP hooks with Prometheus and
// OpenTelemetry implementations.
//
// [errors] - Error codes shared by every package and mapped to exit messages
// and HTTP statuses.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/wave/...               # Specific package
//
// [wave]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/wave
// [wave/path]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/wave/path
// [wave/edges]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/wave/edges
// [wave/figure]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/wave/figure
// [wavejson]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/wavejson
// [io]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/render
// [render/layout]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/render/layout
// [render/route]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/render/route
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/render/nodelink
// [style]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/style
// [fonts]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/fonts
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/observability
// [server]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/errors
package pkg
