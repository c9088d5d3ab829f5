package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/wavetower/pkg/pipeline"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultAddr is the listen address used by the serve command.
	DefaultAddr = ":8080"

	// DefaultTimeout bounds a single render request.
	DefaultTimeout = 30 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// MaxBodySize bounds a render request body.
	MaxBodySize = 8 << 20
)

// HeaderRenderID carries the per-request ID on every response.
const HeaderRenderID = "X-Render-ID"

// =============================================================================
// Server
// =============================================================================

// Server renders WaveJSON documents over HTTP.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	gatherer prometheus.Gatherer
	skins    []string
	skinDir  string
	font     string
	timeout  time.Duration
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and pipeline logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGatherer sets the registry exposed on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithSkins sets the skins applied to every request, in order.
func WithSkins(skins ...string) Option {
	return func(s *Server) { s.skins = skins }
}

// WithSkinDir sets the directory that skins named by a document's config
// block are resolved in. Without it such names are rejected.
func WithSkinDir(dir string) Option {
	return func(s *Server) { s.skinDir = dir }
}

// WithFont sets the default font for requests that don't name one.
func WithFont(font string) Option {
	return func(s *Server) { s.font = font }
}

// WithTimeout bounds each render. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a server. Without WithLogger nothing is logged.
func New(opts ...Option) *Server {
	s := &Server{
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		gatherer: prometheus.DefaultGatherer,
		font:     pipeline.DefaultFont,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.runner = pipeline.NewRunner(s.logger)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json", "application/yaml", "application/x-yaml", "text/yaml", "application/json5"))
		r.Post("/render", s.handleRender)
	})
	return r
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
