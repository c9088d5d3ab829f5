package sink

import (
	"github.com/matzehuels/wavetower/pkg/render"
	"github.com/matzehuels/wavetower/pkg/style"
	"github.com/matzehuels/wavetower/pkg/wave/figure"
)

// PDFOption adjusts a PDF export of a timing diagram.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts []SVGOption
}

// WithPDFSVGOptions forwards SVG options, such as font metrics or
// precomputed edge routes, to the diagram drawn before conversion.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// RenderPDF draws the assembled figure as SVG and converts it to a single
// PDF page of the same size. rsvg-convert must be on PATH.
func RenderPDF(a *figure.Assembled, o style.Options, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	return render.ToPDF(RenderSVG(a, o, r.svgOpts...))
}
