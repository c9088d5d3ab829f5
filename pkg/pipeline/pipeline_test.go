package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/style"
	"github.com/matzehuels/wavetower/pkg/wave"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateForRender(); err != nil {
		t.Fatalf("ValidateForRender() = %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Font != DefaultFont || opts.View != DefaultView || opts.Scale != DefaultScale {
		t.Errorf("Font, View, Scale = %q, %q, %v", opts.Font, opts.View, opts.Scale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"bad font", Options{Font: "comic"}, true},
		{"bad view", Options{View: "tower"}, true},
		{"nodelink json", Options{View: ViewNodelink, Formats: []string{"json"}}, true},
		{"nodelink svg", Options{View: ViewNodelink}, false},
		{"go font", Options{Font: FontGo}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForRender() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func testFigure() *wave.Figure {
	clk := wave.NewSignal("p....").WithName("clk")
	req := wave.NewSignal("01..0").WithName("req").WithNodes(".a..b")
	return &wave.Figure{
		Sections: []wave.Section{&clk, wave.NewGroup("ctl", &req)},
		Edges:    []string{"a~>b wait", "nonsense"},
	}
}

func TestRunnerExecute(t *testing.T) {
	var logs bytes.Buffer
	r := NewRunner(log.New(&logs))

	res, err := r.Execute(context.Background(), testFigure(), Options{Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.Stats.Lines != 2 || res.Stats.Cycles != 5 || res.Stats.Edges != 1 || res.Stats.DroppedEdges != 1 {
		t.Errorf("Stats = %+v, want 2 lines, 5 cycles, 1 edge, 1 dropped", res.Stats)
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<svg ")) {
		t.Errorf("svg artifact = %.40q", res.Artifacts["svg"])
	}

	var doc map[string]any
	if err := json.Unmarshal(res.Artifacts["json"], &doc); err != nil {
		t.Errorf("json artifact does not decode: %v", err)
	}
	if w, _ := doc["width"].(float64); uint32(w) != res.Dimensions.Figure.Width {
		t.Errorf("json width = %v, want %d", doc["width"], res.Dimensions.Figure.Width)
	}

	for _, msg := range []string{"assembled figure", "computed layout", "rendered outputs", "dropped edge"} {
		if !strings.Contains(logs.String(), msg) {
			t.Errorf("logs missing %q", msg)
		}
	}
}

func TestRunnerExecuteSkins(t *testing.T) {
	skin := filepath.Join(t.TempDir(), "wide.toml")
	if err := os.WriteFile(skin, []byte("[signal.path]\ncycle_width = 96\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil).Execute(context.Background(), testFigure(), Options{Skins: []string{skin}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Dimensions.Schema.Width != 5*96 {
		t.Errorf("schema width = %d, want %d", res.Dimensions.Schema.Width, 5*96)
	}

	_, err = NewRunner(nil).Execute(context.Background(), testFigure(), Options{Skins: []string{filepath.Join(filepath.Dir(skin), "missing.toml")}})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Execute() with missing skin = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRunnerExecuteExplicitStyle(t *testing.T) {
	st := style.Default()
	st.Signal.Path.CycleWidth = 1

	_, err := NewRunner(nil).Execute(context.Background(), testFigure(), Options{Style: &st})
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("Execute() with invalid style = %v, want INVALID_STYLE", err)
	}
}

func TestRunnerExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewRunner(nil).Execute(ctx, testFigure(), Options{}); err != context.Canceled {
		t.Errorf("Execute() = %v, want context.Canceled", err)
	}
}
