package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/matzehuels/wavetower/pkg/observability"
	"github.com/matzehuels/wavetower/pkg/pipeline"
	"github.com/matzehuels/wavetower/pkg/render"
	"github.com/matzehuels/wavetower/pkg/server"
)

// serveFlags holds the command-line flags for the serve command.
type serveFlags struct {
	addr     string
	skins    []string
	noLookup bool
	skinDir  string
	font     string
	timeout  time.Duration
	trace    bool
}

// serveCommand creates the serve command, which runs the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	flags := serveFlags{
		addr:    server.DefaultAddr,
		font:    pipeline.DefaultFont,
		timeout: server.DefaultTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run the HTTP render service.

Routes:
  POST /v1/render   render the WaveJSON request body (?format=svg|json|pdf|png)
  GET  /healthz     liveness
  GET  /metrics     Prometheus metrics

Skins named by a document's config block are resolved in --skin-dir; without
it such documents are rejected. With --trace, one span per pipeline stage is
written to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFont(flags.font); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", flags.addr, "listen address")
	cmd.Flags().StringSliceVarP(&flags.skins, "skin", "s", nil, "skin file(s) applied to every request")
	cmd.Flags().BoolVar(&flags.noLookup, "no-user-skin", false, "ignore the user skin and WAVETOWER_SKIN")
	cmd.Flags().StringVar(&flags.skinDir, "skin-dir", "", "directory for skins named by documents")
	cmd.Flags().StringVar(&flags.font, "font", flags.font, "default font metrics: helvetica, go")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", flags.timeout, "per-request render timeout")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "write pipeline spans to stderr")

	return cmd
}

// runServe registers metrics and tracing hooks and serves until ctx is done.
func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewPrometheusHooks(reg)

	hooks := observability.MultiPipelineHooks{metrics}
	if flags.trace {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
		if err != nil {
			return fmt.Errorf("trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				c.Logger.Warn("trace shutdown", "err", err)
			}
		}()
		hooks = append(hooks, observability.NewTracingHooksWithProvider(tp))
	}
	observability.SetPipelineHooks(hooks)
	observability.SetHTTPHooks(metrics)
	defer observability.Reset()

	opts := []server.Option{
		server.WithLogger(c.Logger),
		server.WithGatherer(reg),
		server.WithSkins(skinsFor(flags.skins, !flags.noLookup)...),
		server.WithFont(flags.font),
		server.WithTimeout(flags.timeout),
	}
	if flags.skinDir != "" {
		if !isDir(flags.skinDir) {
			return fmt.Errorf("skin directory %s does not exist", flags.skinDir)
		}
		opts = append(opts, server.WithSkinDir(flags.skinDir))
	}

	printSuccess("Serving on %s", StyleLink.Render(flags.addr))
	printKeyValue("render", "POST /v1/render")
	printKeyValue("metrics", "GET /metrics")
	if !render.Available() {
		printWarning("rsvg-convert not found: png and pdf requests will fail")
	}
	printNewline()

	return server.New(opts...).ListenAndServe(ctx, flags.addr)
}
