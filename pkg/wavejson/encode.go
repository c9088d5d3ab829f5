package wavejson

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/wavetower/pkg/wave"
)

// FromFigure converts a figure back to a document. Defaults (period 1,
// phase 0, hscale 1) are omitted.
func FromFigure(f *wave.Figure) *Document {
	d := &Document{Signal: make([]Item, 0, len(f.Sections)), Edge: f.Edges}

	if f.Header != "" || f.TopMarker != nil {
		d.Head = &Head{Text: optString(f.Header)}
		if m := f.TopMarker; m != nil {
			d.Head.Tick, d.Head.Every = &m.Start, &m.Every
		}
	}
	if f.Footer != "" || f.BottomMarker != nil {
		d.Foot = &Foot{Text: optString(f.Footer)}
		if m := f.BottomMarker; m != nil {
			d.Foot.Tock, d.Foot.Every = &m.Start, &m.Every
		}
	}
	if f.HScale > 1 {
		h := f.HScale
		d.Config = &Config{HScale: &h}
	}

	for _, s := range f.Sections {
		d.Signal = append(d.Signal, itemOf(s))
	}
	return d
}

func itemOf(s wave.Section) Item {
	switch s := s.(type) {
	case *wave.Group:
		g := &Group{Label: s.Label}
		for _, c := range s.Sections {
			g.Items = append(g.Items, itemOf(c))
		}
		return Item{Group: g}
	case *wave.Signal:
		o := &Object{
			Name: optString(s.Name),
			Node: optString(s.Nodes),
			Data: s.Data,
		}
		if len(s.Cycles) > 0 {
			w := wave.FormatCycles(s.Cycles)
			o.Wave = &w
		}
		if p := s.PeriodOrDefault(); p > 1 {
			v := float64(p)
			o.Period = &v
		}
		if s.Phase != (wave.CycleOffset{}) {
			v := s.Phase.Float()
			o.Phase = &v
		}
		return Item{Object: o}
	}
	return Item{Object: &Object{}}
}

// Encode writes d as indented JSON.
func Encode(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
