// Package sink serializes laid-out timing diagrams.
//
// [WriteSVG] streams a standalone SVG document; [RenderSVG] is the
// in-memory convenience form. [RenderPDF] and [RenderPNG] convert that SVG
// through rsvg-convert, and [RenderJSON] exports the computed layout for
// tools that draw the diagram themselves.
//
// All sinks compute the layout and edge routes on demand. Callers that
// already hold them (the pipeline, for instance) pass them in with
// [WithDimensions] and [WithRoutes] to avoid doing the work twice.
package sink
