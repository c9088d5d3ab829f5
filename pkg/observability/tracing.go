package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingHooks records one OpenTelemetry span per pipeline stage. Spans are
// emitted on completion, backdated by the stage duration, so the hooks keep
// no state between start and completion events.
type TracingHooks struct {
	NoopPipelineHooks
	tracer trace.Tracer
}

// NewTracingHooks uses the globally registered tracer provider.
func NewTracingHooks() *TracingHooks {
	return NewTracingHooksWithProvider(otel.GetTracerProvider())
}

// NewTracingHooksWithProvider records spans with tp.
func NewTracingHooksWithProvider(tp trace.TracerProvider) *TracingHooks {
	return &TracingHooks{tracer: tp.Tracer("wavetower.pipeline")}
}

func (h *TracingHooks) span(ctx context.Context, name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, span := h.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attrs...),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(end))
}

func (h *TracingHooks) OnAssembleComplete(ctx context.Context, lines, dropped int, d time.Duration) {
	h.span(ctx, "wavetower.assemble", d, nil,
		attribute.Int("wavetower.lines", lines),
		attribute.Int("wavetower.dropped_edges", dropped))
}

func (h *TracingHooks) OnLayoutComplete(ctx context.Context, width, height uint32, d time.Duration) {
	h.span(ctx, "wavetower.layout", d, nil,
		attribute.Int64("wavetower.width", int64(width)),
		attribute.Int64("wavetower.height", int64(height)))
}

func (h *TracingHooks) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	h.span(ctx, "wavetower.render", d, err, attribute.StringSlice("wavetower.formats", formats))
}
