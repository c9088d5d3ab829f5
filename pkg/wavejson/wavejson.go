package wavejson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/wave"
)

// Format is the concrete syntax of a WaveJSON document.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatRelaxed Format = "json5"
)

// FormatForPath picks the format from a file extension. Unknown extensions
// are read as JSON.
func FormatForPath(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json5", ".js":
		return FormatRelaxed
	default:
		return FormatJSON
	}
}

// Document is a decoded WaveJSON signal document.
type Document struct {
	Signal []Item           `json:"signal"`
	Head   *Head            `json:"head,omitempty"`
	Foot   *Foot            `json:"foot,omitempty"`
	Config *Config          `json:"config,omitempty"`
	Edge   []string         `json:"edge,omitempty"`
	Reg    *json.RawMessage `json:"reg,omitempty"`
}

// Head is the figure title and top cycle ruler.
type Head struct {
	Text  *string `json:"text,omitempty"`
	Tick  *uint32 `json:"tick,omitempty"`
	Every *uint32 `json:"every,omitempty"`
}

// Foot is the figure footer and bottom cycle ruler.
type Foot struct {
	Text  *string `json:"text,omitempty"`
	Tock  *uint32 `json:"tock,omitempty"`
	Every *uint32 `json:"every,omitempty"`
}

// Config holds figure-wide settings.
type Config struct {
	HScale *uint16 `json:"hscale,omitempty"`
	// Skin names a style skin to apply. Resolving it is up to the caller.
	Skin *string `json:"skin,omitempty"`
}

// Item is one entry of a signal list: exactly one of Object and Group is
// set.
type Item struct {
	Object *Object
	Group  *Group
}

// Group is a bracketed run of items.
type Group struct {
	Label *string
	Items []Item
}

// Object describes one signal.
type Object struct {
	Name   *string  `json:"name,omitempty"`
	Wave   *string  `json:"wave,omitempty"`
	Data   Data     `json:"data,omitempty"`
	Node   *string  `json:"node,omitempty"`
	Period *float64 `json:"period,omitempty"`
	Phase  *float64 `json:"phase,omitempty"`
}

// Data holds box labels given either as one whitespace-separated string or
// as a list.
type Data []string

func (d *Data) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = strings.Fields(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("data must be a string or a list of strings: %w", err)
	}
	*d = list
	return nil
}

func (it *Item) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		var o Object
		if err := json.Unmarshal(b, &o); err != nil {
			return err
		}
		*it = Item{Object: &o}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	g := &Group{}
	for _, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) > 0 && r[0] == '"' {
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				return err
			}
			if g.Label == nil {
				g.Label = &s
			}
			continue
		}
		var child Item
		if err := json.Unmarshal(r, &child); err != nil {
			return err
		}
		g.Items = append(g.Items, child)
	}
	*it = Item{Group: g}
	return nil
}

func (it Item) MarshalJSON() ([]byte, error) {
	if it.Object != nil {
		return json.Marshal(it.Object)
	}
	var out []any
	if it.Group != nil {
		if it.Group.Label != nil {
			out = append(out, *it.Group.Label)
		}
		for _, c := range it.Group.Items {
			out = append(out, c)
		}
	}
	return json.Marshal(out)
}

// Decode parses a document in the given format. Syntax errors carry
// [errors.ErrCodeInvalidWaveJSON]; register documents carry
// [errors.ErrCodeUnsupported].
func Decode(data []byte, format Format) (*Document, error) {
	js, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(js, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWaveJSON, err, "decode %s", format)
	}
	if doc.Reg != nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "register diagrams are not supported")
	}
	return &doc, nil
}

// Parse decodes a document and converts it to a figure.
func Parse(data []byte, format Format) (*wave.Figure, *Document, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, nil, err
	}
	return doc.Figure(), doc, nil
}

// toJSON normalizes YAML and relaxed input to strict JSON.
func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return data, nil
	case FormatYAML, FormatRelaxed:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidWaveJSON, err, "decode %s", format)
		}
		js, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidWaveJSON, err, "decode %s", format)
		}
		return js, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown WaveJSON format %q", format)
	}
}

// Skin returns the skin named in the config block, or "".
func (d *Document) Skin() string {
	if d.Config == nil || d.Config.Skin == nil {
		return ""
	}
	return *d.Config.Skin
}

// Figure converts the document to a figure model.
func (d *Document) Figure() *wave.Figure {
	f := &wave.Figure{HScale: 1, Edges: d.Edge}

	if h := d.Head; h != nil {
		f.Header = deref(h.Text)
		f.TopMarker = cycleMarker(h.Tick, h.Every)
	}
	if ft := d.Foot; ft != nil {
		f.Footer = deref(ft.Text)
		f.BottomMarker = cycleMarker(ft.Tock, ft.Every)
	}
	if d.Config != nil && d.Config.HScale != nil && *d.Config.HScale > 0 {
		f.HScale = *d.Config.HScale
	}

	f.Sections = make([]wave.Section, 0, len(d.Signal))
	for _, it := range d.Signal {
		f.Sections = append(f.Sections, it.section())
	}
	return f
}

func (it Item) section() wave.Section {
	if it.Group != nil {
		g := &wave.Group{Label: it.Group.Label}
		for _, c := range it.Group.Items {
			g.Sections = append(g.Sections, c.section())
		}
		return g
	}
	if it.Object == nil {
		s := wave.NewSignal("")
		return &s
	}
	return it.Object.signal()
}

func (o *Object) signal() *wave.Signal {
	s := wave.NewSignal(deref(o.Wave)).
		WithName(deref(o.Name)).
		WithData(o.Data...).
		WithNodes(deref(o.Node))
	if o.Period != nil {
		s.Period = period(*o.Period)
	}
	if o.Phase != nil {
		if phase, err := wave.FromFloat(*o.Phase); err == nil {
			s.Phase = phase
		}
	}
	return &s
}

// period rounds a period up to whole cycles, clamped to [1, MaxUint16].
func period(v float64) uint16 {
	c := math.Ceil(v)
	switch {
	case math.IsNaN(c) || c < 1:
		return 1
	case c > math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(c)
}

func cycleMarker(start, every *uint32) *wave.CycleMarker {
	if start == nil {
		return nil
	}
	m := &wave.CycleMarker{Start: *start, Every: 1}
	if every != nil {
		m.Every = *every
	}
	return m
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
