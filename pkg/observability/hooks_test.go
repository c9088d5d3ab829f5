package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnAssembleStart(ctx, 3)
	p.OnAssembleComplete(ctx, 3, 1, time.Millisecond)
	p.OnLayoutStart(ctx, 3)
	p.OnLayoutComplete(ctx, 200, 100, time.Millisecond)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/render")
	h.OnResponse(ctx, "POST", "/v1/render", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	custom := &countingHooks{}
	SetPipelineHooks(custom)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should keep existing hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

type countingHooks struct {
	NoopPipelineHooks
	renders int
}

func (c *countingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	c.renders++
}

func TestMultiPipelineHooks(t *testing.T) {
	a, b := &countingHooks{}, &countingHooks{}
	m := MultiPipelineHooks{a, b}
	m.OnRenderComplete(context.Background(), nil, 0, nil)
	m.OnLayoutStart(context.Background(), 1)

	if a.renders != 1 || b.renders != 1 {
		t.Errorf("renders = %d, %d, want 1, 1", a.renders, b.renders)
	}
}

func TestPrometheusHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusHooks(reg)
	ctx := context.Background()

	p.OnAssembleComplete(ctx, 4, 2, time.Millisecond)
	p.OnRenderComplete(ctx, []string{"svg", "png"}, time.Millisecond, nil)
	p.OnRenderComplete(ctx, []string{"png"}, time.Millisecond, errors.New("no rsvg"))
	p.OnResponse(ctx, "POST", "/v1/render", 200, time.Millisecond)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"dropped edges", testutil.ToFloat64(p.droppedEdges), 2},
		{"svg ok", testutil.ToFloat64(p.renders.WithLabelValues("svg", "ok")), 1},
		{"png ok", testutil.ToFloat64(p.renders.WithLabelValues("png", "ok")), 1},
		{"png error", testutil.ToFloat64(p.renders.WithLabelValues("png", "error")), 1},
		{"http 200", testutil.ToFloat64(p.httpRequests.WithLabelValues("POST", "/v1/render", "200")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if n, err := testutil.GatherAndCount(reg, "wavetower_stage_duration_seconds"); err != nil || n != 2 {
		t.Errorf("stage duration series = %d, %v, want 2 (assemble, render)", n, err)
	}
}

func TestTracingHooks(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	h := NewTracingHooksWithProvider(tp)
	ctx := context.Background()

	h.OnAssembleComplete(ctx, 2, 0, 5*time.Millisecond)
	h.OnLayoutComplete(ctx, 100, 50, time.Millisecond)
	h.OnRenderComplete(ctx, []string{"pdf"}, time.Millisecond, errors.New("boom"))

	spans := sr.Ended()
	if len(spans) != 3 {
		t.Fatalf("ended spans = %d, want 3", len(spans))
	}
	wantNames := []string{"wavetower.assemble", "wavetower.layout", "wavetower.render"}
	for i, s := range spans {
		if s.Name() != wantNames[i] {
			t.Errorf("span[%d] = %q, want %q", i, s.Name(), wantNames[i])
		}
	}
	if d := spans[0].EndTime().Sub(spans[0].StartTime()); d != 5*time.Millisecond {
		t.Errorf("assemble span duration = %v, want 5ms", d)
	}
	if spans[2].Status().Code != codes.Error {
		t.Errorf("render span status = %v, want Error", spans[2].Status().Code)
	}
}
