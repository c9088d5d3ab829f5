package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks records pipeline and HTTP events as Prometheus metrics.
// It implements both [PipelineHooks] and [HTTPHooks].
type PrometheusHooks struct {
	NoopPipelineHooks

	stageDuration *prometheus.HistogramVec
	renders       *prometheus.CounterVec
	droppedEdges  prometheus.Counter
	figureLines   prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPrometheusHooks registers the wavetower metrics with reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wavetower_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14), // 50us to ~400ms
		}, []string{"stage"}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wavetower_renders_total",
			Help: "Render stage completions by format and outcome",
		}, []string{"format", "status"}),
		droppedEdges: f.NewCounter(prometheus.CounterOpts{
			Name: "wavetower_dropped_edges_total",
			Help: "Edge declarations that failed to parse",
		}),
		figureLines: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wavetower_figure_lines",
			Help:    "Number of signal lines per assembled figure",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wavetower_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wavetower_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (p *PrometheusHooks) OnAssembleComplete(_ context.Context, lines, dropped int, d time.Duration) {
	p.stageDuration.WithLabelValues("assemble").Observe(d.Seconds())
	p.figureLines.Observe(float64(lines))
	p.droppedEdges.Add(float64(dropped))
}

func (p *PrometheusHooks) OnLayoutComplete(_ context.Context, _, _ uint32, d time.Duration) {
	p.stageDuration.WithLabelValues("layout").Observe(d.Seconds())
}

func (p *PrometheusHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	p.stageDuration.WithLabelValues("render").Observe(d.Seconds())
	status := "ok"
	if err != nil {
		status = "error"
	}
	for _, f := range formats {
		p.renders.WithLabelValues(f, status).Inc()
	}
}

func (p *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (p *PrometheusHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
