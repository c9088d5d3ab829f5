package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wavetower/pkg/observability"
	"github.com/matzehuels/wavetower/pkg/render/layout"
	"github.com/matzehuels/wavetower/pkg/render/route"
	"github.com/matzehuels/wavetower/pkg/wave"
	"github.com/matzehuels/wavetower/pkg/wave/figure"
)

// Runner executes the pipeline and reports stage timings.
//
// The Runner is stateless except for the logger - it doesn't store pipeline
// results. Multiple goroutines can safely use the same Runner with different
// figures and options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete assemble → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, f *wave.Figure, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	hooks := observability.Pipeline()

	st, err := opts.LoadStyle()
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}
	metrics, err := opts.Metrics()
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	if opts.IsNodelink() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		renderStart := time.Now()
		hooks.OnRenderStart(ctx, opts.Formats)
		artifacts, err := RenderNodelink(f, opts)
		result.Stats.RenderTime = time.Since(renderStart)
		hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		logger.Info("rendered node graph", "formats", opts.Formats, "duration", result.Stats.RenderTime)
		return result, nil
	}

	// Stage 1: Assemble
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	assembleStart := time.Now()
	hooks.OnAssembleStart(ctx, len(f.Signals()))
	a := figure.Assemble(f, st.Signal.Path)
	result.Assembled = a
	result.Stats.AssembleTime = time.Since(assembleStart)
	result.Stats.Lines = len(a.Lines)
	result.Stats.Cycles = a.NumCycles
	result.Stats.DroppedEdges = len(a.DroppedEdges)
	hooks.OnAssembleComplete(ctx, len(a.Lines), len(a.DroppedEdges), result.Stats.AssembleTime)

	for _, err := range a.DroppedEdges {
		logger.Warn("dropped edge", "err", err)
	}
	logger.Info("assembled figure",
		"lines", len(a.Lines),
		"cycles", a.NumCycles,
		"duration", result.Stats.AssembleTime)

	// Stage 2: Layout
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	layoutStart := time.Now()
	hooks.OnLayoutStart(ctx, len(a.Lines))
	dims := layout.Compute(a, st, metrics)
	edges := route.Route(a.Edges, &dims, st.Signal.Edge, metrics)
	nodes := route.TextNodes(a.Edges, &dims, st.Signal.Edge, metrics)
	result.Dimensions = dims
	result.Edges = edges
	result.Stats.Edges = len(edges)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, dims.Figure.Width, dims.Figure.Height, result.Stats.LayoutTime)

	logger.Info("computed layout",
		"width", dims.Figure.Width,
		"height", dims.Figure.Height,
		"edges", len(edges),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(Input{
		Assembled:  a,
		Style:      st,
		Metrics:    metrics,
		Dimensions: dims,
		Edges:      edges,
		TextNodes:  nodes,
	}, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}
