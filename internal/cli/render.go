package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	pkgio "github.com/matzehuels/wavetower/pkg/io"
	"github.com/matzehuels/wavetower/pkg/pipeline"
	"github.com/matzehuels/wavetower/pkg/style"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	output   string   // output file (single input) or directory (several inputs)
	formats  string   // comma-separated output formats
	skins    []string // skin files merged over the defaults, in order
	noLookup bool     // skip WAVETOWER_SKIN and the user config skin
	font     string   // font metrics: helvetica or go
	view     string   // wave or nodelink
	scale    float64  // PNG scale factor
	validate bool     // check documents against the WaveJSON schema
	watch    bool     // re-render on change
	jobs     int      // files rendered concurrently
}

// renderOutcome is what one rendered file reports back for display.
type renderOutcome struct {
	input string
	paths []string
	stats pipeline.Stats
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	flags := renderFlags{
		font:  pipeline.DefaultFont,
		view:  pipeline.DefaultView,
		scale: pipeline.DefaultScale,
		jobs:  defaultJobs,
	}

	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render WaveJSON documents",
		Long: `Render WaveJSON timing diagrams to SVG, PNG, PDF or a JSON layout.

Documents are read as JSON, YAML (.yaml, .yml) or relaxed JSON (.json5).
Each output is written next to its input unless --output is given. With
several inputs, --output names a directory.

Skins are merged over the built-in style in order: the --skin files, or
when none are given the user skin (~/.config/wavetower/skin.toml) and the
entries of WAVETOWER_SKIN, then the skin named by the document's config
block, resolved next to the document.

PNG and PDF output requires rsvg-convert on PATH.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			opts.Logger = c.Logger
			ctx := cmd.Context()

			err = c.runRender(ctx, args, opts, &flags)
			if !flags.watch {
				return err
			}
			if err != nil {
				printError("%v", err)
			}
			return c.runWatch(ctx, args, opts, &flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file or base path (one input) or directory (several inputs)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringSliceVarP(&flags.skins, "skin", "s", nil, "skin file(s) to merge over the default style")
	cmd.Flags().BoolVar(&flags.noLookup, "no-user-skin", false, "ignore the user skin and WAVETOWER_SKIN")
	cmd.Flags().StringVar(&flags.font, "font", flags.font, "font metrics: helvetica (default), go")
	cmd.Flags().StringVar(&flags.view, "view", flags.view, "view: wave (default), nodelink")
	cmd.Flags().Float64Var(&flags.scale, "scale", flags.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&flags.validate, "validate", false, "validate documents against the WaveJSON schema")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-render when an input changes")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", flags.jobs, "files rendered concurrently")
	registerRenderCompletions(cmd)

	return cmd
}

// options builds validated pipeline options from the flags.
func (f *renderFlags) options() (pipeline.Options, error) {
	opts := pipeline.Options{
		Formats: parseFormats(f.formats),
		Skins:   skinsFor(f.skins, !f.noLookup),
		Font:    f.font,
		View:    f.view,
		Scale:   f.scale,
	}
	if err := opts.ValidateForRender(); err != nil {
		return opts, err
	}
	return opts, nil
}

// runRender renders every input concurrently and reports the written files.
// The first failure cancels the remaining renders.
func (c *CLI) runRender(ctx context.Context, inputs []string, opts pipeline.Options, flags *renderFlags) error {
	runner := c.newRunner()
	batch := len(inputs) > 1
	outcomes := make([]renderOutcome, len(inputs))

	spinner := newSpinner(ctx, len(inputs))
	spinner.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(flags.jobs, 1))
	for i, input := range inputs {
		g.Go(func() error {
			out, err := c.renderFile(gctx, runner, input, opts, outputBase(flags.output, input, batch), flags.validate)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			outcomes[i] = out
			spinner.Advance()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			printWarning("Render cancelled")
			return err
		}
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	for _, out := range outcomes {
		printOutcome(out)
	}
	return nil
}

// renderFile renders one document and writes every requested format.
func (c *CLI) renderFile(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options, base string, validate bool) (renderOutcome, error) {
	prog := newProgress(loggerFromContext(ctx))

	f, doc, err := pkgio.ImportFigure(input, validate)
	if err != nil {
		return renderOutcome{}, err
	}
	if name := doc.Skin(); name != "" {
		path, err := style.Resolve(filepath.Dir(input), name)
		if err != nil {
			return renderOutcome{}, fmt.Errorf("document skin: %w", err)
		}
		opts.Skins = append(slices.Clone(opts.Skins), path)
	}
	opts.Logger = opts.Logger.With("file", input)

	result, err := runner.Execute(ctx, f, opts)
	if err != nil {
		return renderOutcome{}, err
	}

	out := renderOutcome{input: input, stats: result.Stats}
	for _, format := range opts.Formats {
		path := artifactPath(base, format)
		if err := pkgio.ExportArtifact(path, result.Artifacts[format]); err != nil {
			return renderOutcome{}, err
		}
		out.paths = append(out.paths, path)
	}
	prog.done(fmt.Sprintf("Wrote %d artifact(s) for %s", len(out.paths), input))
	return out, nil
}

// artifactPath names the output file for one format. JSON layouts get a
// .layout.json suffix so they never overwrite a JSON input.
func artifactPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}

// printOutcome prints the files written for one input.
func printOutcome(out renderOutcome) {
	printSuccess("Rendered %s", out.input)
	for _, p := range out.paths {
		printFile(p)
	}
	printStats(out.stats.Lines, out.stats.Edges, out.stats.DroppedEdges)
	if out.stats.DroppedEdges > 0 {
		printWarning("%d edge(s) could not be parsed; rerun with -v for details", out.stats.DroppedEdges)
	}
}
