package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/pipeline"
)

const busDoc = `{
  "signal": [
    {"name": "clk", "wave": "p...", "node": ".a.."},
    ["bus", {"name": "data", "wave": "x=.x", "data": "d0", "node": "...b"}]
  ],
  "edge": ["a~>b setup"]
}`

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("WAVETOWER_SKIN", "")
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"json only", "json", []string{"json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		batch  bool
		want   string
	}{
		{"derived from input", "", "docs/bus.json", false, "docs/bus"},
		{"format extension stripped", "out/bus.svg", "bus.json", false, "out/bus"},
		{"unknown extension kept", "out/bus.v2", "bus.json", false, "out/bus.v2"},
		{"batch without output", "", "docs/bus.yaml", true, "docs/bus"},
		{"batch into directory", "out", "docs/bus.yaml", true, "out/bus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputBase(tt.output, tt.input, tt.batch)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("outputBase(%q, %q, %v) = %q, want %q", tt.output, tt.input, tt.batch, got, tt.want)
			}
		})
	}
}

func TestRenderFlagsOptions(t *testing.T) {
	tests := []struct {
		name     string
		flags    renderFlags
		wantCode errors.Code
	}{
		{"defaults", renderFlags{noLookup: true}, ""},
		{"bad format", renderFlags{formats: "gif", noLookup: true}, errors.ErrCodeInvalidFormat},
		{"bad font", renderFlags{font: "comic", noLookup: true}, errors.ErrCodeInvalidInput},
		{"bad view", renderFlags{view: "tower", noLookup: true}, errors.ErrCodeInvalidInput},
		{"nodelink json", renderFlags{view: "nodelink", formats: "json", noLookup: true}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := tt.flags.options()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("options() error = %v", err)
				}
				if opts.Font != pipeline.DefaultFont || opts.View != pipeline.DefaultView {
					t.Errorf("options() = font %q view %q, want defaults", opts.Font, opts.View)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("options() error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeDoc(t, dir, "bus.json", busDoc)

	if err := execute(t, "render", input, "-f", "svg,json", "--no-user-skin"); err != nil {
		t.Fatalf("render error = %v", err)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "bus.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.HasPrefix(string(svg), "<svg") {
		t.Errorf("bus.svg starts %q, want <svg", string(svg[:min(10, len(svg))]))
	}
	if !strings.Contains(string(svg), "setup") {
		t.Error("bus.svg missing edge label")
	}
	if _, err := os.Stat(filepath.Join(dir, "bus.layout.json")); err != nil {
		t.Errorf("missing layout: %v", err)
	}
	if in, _ := os.ReadFile(input); string(in) != busDoc {
		t.Error("render overwrote its input")
	}
}

func TestRenderCommandBatch(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.json", busDoc)
	b := writeDoc(t, dir, "b.yaml", "signal:\n  - {name: clk, wave: p.}\n")
	out := filepath.Join(dir, "out")

	if err := execute(t, "render", a, b, "-o", out, "--no-user-skin", "-j", "2"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	for _, name := range []string{"a.svg", "b.svg"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRenderCommandDocumentSkin(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "dark.yaml", "background: \"#102030\"\n")
	input := writeDoc(t, dir, "doc.json", `{"signal": [{"wave": "01"}], "config": {"skin": "dark"}}`)

	if err := execute(t, "render", input, "--no-user-skin"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	svg, err := os.ReadFile(filepath.Join(dir, "doc.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `fill="#102030"`) {
		t.Error("document skin not applied")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeDoc(t, dir, "bad.json", `{"signal": [`)

	tests := []struct {
		name     string
		args     []string
		wantCode errors.Code
	}{
		{"missing file", []string{"render", filepath.Join(dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"malformed", []string{"render", bad}, errors.ErrCodeInvalidWaveJSON},
		{"bad format", []string{"render", bad, "-f", "gif"}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, append(tt.args, "--no-user-skin")...)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("render error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestNodesCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeDoc(t, dir, "bus.json", busDoc)
	output := filepath.Join(dir, "bus.dot")

	if err := execute(t, "nodes", input, "-o", output, "--detailed"); err != nil {
		t.Fatalf("nodes error = %v", err)
	}
	dot, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"digraph G", "signal: clk", "setup"} {
		if !strings.Contains(string(dot), want) {
			t.Errorf("DOT missing %q", want)
		}
	}
}

func TestScanDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.json", busDoc)
	writeDoc(t, dir, "b.yaml", "signal: [")
	writeDoc(t, dir, "notes.txt", "not a diagram")

	docs, err := scanDocuments(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("scanDocuments() = %d entries, want 2", len(docs))
	}
	if docs[0].Signals != 2 || !docs[0].Valid() {
		t.Errorf("a.json signals = %d, want 2", docs[0].Signals)
	}
	if docs[1].Valid() {
		t.Error("b.yaml Valid() = true, want false")
	}
}

func TestDocumentListModel(t *testing.T) {
	docs := []documentEntry{
		{Path: "a.json", Signals: 2},
		{Path: "b.json", Signals: -1},
		{Path: "c.json", Signals: 1},
	}
	key := func(s string) tea.KeyMsg {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	var m tea.Model = NewDocumentListModel(docs)
	m, _ = m.Update(key("j"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.(DocumentListModel); got.Selected != nil {
		t.Fatalf("selected invalid document %q", got.Selected.Path)
	}

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := m.(DocumentListModel)
	if got.Selected == nil || got.Selected.Path != "c.json" {
		t.Fatalf("Selected = %+v, want c.json", got.Selected)
	}
	if cmd == nil {
		t.Error("enter on valid document returned no quit command")
	}
	if !strings.Contains(got.View(), "c.json") {
		t.Error("View() missing file name")
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{12, "12 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.in); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "a.json", busDoc)
	other := writeDoc(t, dir, "other.json", busDoc)

	fw, err := newFileWatcher([]string{path})
	if err != nil {
		t.Fatalf("newFileWatcher() error = %v", err)
	}
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 8)
	go fw.run(ctx, func(input string) { changed <- input })

	writeDoc(t, dir, filepath.Base(other), busDoc)
	writeDoc(t, dir, filepath.Base(path), busDoc)

	select {
	case got := <-changed:
		if got != path {
			t.Errorf("changed(%q), want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestPrintOutcome(t *testing.T) {
	var buf bytes.Buffer
	stdout = &buf
	defer func() { stdout = os.Stdout }()

	printOutcome(renderOutcome{
		input: "bus.json",
		paths: []string{"bus.svg", "bus.layout.json"},
		stats: pipeline.Stats{Lines: 2, Edges: 1, DroppedEdges: 1},
	})

	out := buf.String()
	for _, want := range []string{"Rendered bus.json", "bus.svg", "bus.layout.json", "2 lines", "1 edges", "1 dropped", "could not be parsed"} {
		if !strings.Contains(out, want) {
			t.Errorf("printOutcome() output missing %q:\n%s", want, out)
		}
	}
}
