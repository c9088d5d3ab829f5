// Package fonts measures text for SVG layout.
//
// Layout only needs advance widths, never glyph outlines, so a [Metrics]
// implementation maps a string and a font size to a pixel width. [Helvetica]
// is a fixed lookup table of ASCII advances and is what the renderer uses by
// default. [GoRegular] measures with the embedded Go Regular TrueType font,
// which is useful when the output is rasterized with that font installed.
package fonts

import (
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Metrics measures the rendered width of text.
type Metrics interface {
	// Family is the CSS font-family the measurements assume.
	Family() string
	// Width returns the advance width of text at size pixels, rounded up.
	Width(text string, size uint32) uint32
}

// FontFamily is the CSS font-family of the default metrics.
const FontFamily = "Helvetica"

// FallbackFontFamily lists fallbacks for systems without Helvetica.
const FallbackFontFamily = `Helvetica, Arial, 'Liberation Sans', sans-serif`

const (
	helveticaUnitsPerEm = 2048
	helveticaNonASCII   = 2052
)

// helveticaAdvances holds advance widths of ASCII characters in font units.
var helveticaAdvances = [128]uint16{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 569, 569, 0, 0, 569, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	569, 569, 727, 1139, 1139, 1821, 1366, 391, 682, 682, 797, 1196, 569, 682, 569, 569,
	1139, 1139, 1139, 1139, 1139, 1139, 1139, 1139, 1139, 1139, 569, 569, 1196, 1196, 1196, 1139,
	2079, 1366, 1366, 1479, 1479, 1366, 1251, 1593, 1479, 569, 1024, 1366, 1139, 1706, 1479, 1593,
	1366, 1593, 1479, 1366, 1251, 1479, 1366, 1933, 1366, 1366, 1251, 569, 569, 569, 961, 1139,
	682, 1139, 1139, 1024, 1139, 1139, 569, 1139, 1139, 455, 455, 1024, 455, 1706, 1139, 1139,
	1139, 1139, 682, 1024, 569, 1139, 1024, 1479, 1024, 1024, 1024, 684, 532, 684, 1196, 0,
}

type helvetica struct{}

// Helvetica returns table-driven Helvetica metrics.
func Helvetica() Metrics { return helvetica{} }

func (helvetica) Family() string { return FontFamily }

func (helvetica) Width(text string, size uint32) uint32 {
	var units uint64
	for _, r := range text {
		if r >= 0 && r < 128 {
			units += uint64(helveticaAdvances[r])
		} else {
			units += helveticaNonASCII
		}
	}
	return uint32((units*uint64(size) + helveticaUnitsPerEm - 1) / helveticaUnitsPerEm)
}

// goRegular measures with the parsed Go Regular font. sfnt.Buffer is not
// safe for concurrent use, so measurements are serialized.
type goRegular struct {
	mu   sync.Mutex
	font *sfnt.Font
	buf  sfnt.Buffer
}

var (
	goRegularOnce    sync.Once
	goRegularMetrics *goRegular
	goRegularErr     error
)

// GoRegular returns metrics backed by the embedded Go Regular font. The font
// is parsed once on first use.
func GoRegular() (Metrics, error) {
	goRegularOnce.Do(func() {
		f, err := sfnt.Parse(goregular.TTF)
		if err != nil {
			goRegularErr = err
			return
		}
		goRegularMetrics = &goRegular{font: f}
	})
	if goRegularErr != nil {
		return nil, goRegularErr
	}
	return goRegularMetrics, nil
}

func (*goRegular) Family() string { return "Go" }

func (g *goRegular) Width(text string, size uint32) uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ppem := fixed.I(int(size))
	var total fixed.Int26_6
	prev := sfnt.GlyphIndex(0)
	for i, r := range text {
		idx, err := g.font.GlyphIndex(&g.buf, r)
		if err != nil {
			continue
		}
		if i > 0 {
			if k, err := g.font.Kern(&g.buf, prev, idx, ppem, font.HintingNone); err == nil {
				total += k
			}
		}
		adv, err := g.font.GlyphAdvance(&g.buf, idx, ppem, font.HintingNone)
		if err == nil {
			total += adv
		}
		prev = idx
	}
	return uint32(math.Ceil(float64(total) / 64))
}
