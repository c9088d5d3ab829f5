package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/observability"
)

const clockDoc = `{"signal": [{"name": "clk", "wave": "p..."}, {"name": "d", "wave": "x=.x", "data": "a"}]}`

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	rec := do(t, New(), http.MethodGet, "/healthz", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz status = %d, want %d", rec.Code, http.StatusOK)
	}
	if _, err := uuid.Parse(rec.Header().Get(HeaderRenderID)); err != nil {
		t.Errorf("%s = %q, want a UUID", HeaderRenderID, rec.Header().Get(HeaderRenderID))
	}
	for _, want := range []string{`"status":"ok"`, `"version":"dev"`, `"commit":"none"`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("body = %q, want %s", rec.Body.String(), want)
		}
	}
}

func TestRenderIDsAreUnique(t *testing.T) {
	s := New()
	a := do(t, s, http.MethodGet, "/healthz", "", "").Header().Get(HeaderRenderID)
	b := do(t, s, http.MethodGet, "/healthz", "", "").Header().Get(HeaderRenderID)
	if a == b {
		t.Errorf("render IDs %q and %q, want distinct", a, b)
	}
}

func TestRenderFormats(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		wantType    string
		wantPrefix  string
	}{
		{"default svg", "/v1/render", "application/json", clockDoc, "image/svg+xml", "<svg"},
		{"explicit svg", "/v1/render?format=svg&font=go", "application/json", clockDoc, "image/svg+xml", "<svg"},
		{"layout json", "/v1/render?format=json", "application/json", clockDoc, "application/json", "{"},
		{"yaml body", "/v1/render", "application/yaml", "signal:\n  - {name: clk, wave: p...}\n", "image/svg+xml", "<svg"},
		{"validated", "/v1/render?validate=true", "application/json; charset=utf-8", clockDoc, "image/svg+xml", "<svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, New(), http.MethodPost, tt.target, tt.contentType, tt.body)

			if rec.Code != http.StatusOK {
				t.Fatalf("POST %s status = %d, want %d (body %q)", tt.target, rec.Code, http.StatusOK, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
			}
			if !strings.HasPrefix(rec.Body.String(), tt.wantPrefix) {
				t.Errorf("body starts %q, want prefix %q", rec.Body.String()[:min(20, rec.Body.Len())], tt.wantPrefix)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		wantStatus  int
		wantCode    errors.Code
	}{
		{"bad format", "/v1/render?format=gif", "application/json", clockDoc, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad font", "/v1/render?font=comic", "application/json", clockDoc, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad scale", "/v1/render?scale=-1", "application/json", clockDoc, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"malformed body", "/v1/render", "application/json", `{"signal": [`, http.StatusBadRequest, errors.ErrCodeInvalidWaveJSON},
		{"schema violation", "/v1/render?validate=1", "application/json", `{"signal": [{"wave": 3}]}`, http.StatusBadRequest, errors.ErrCodeInvalidWaveJSON},
		{"register diagram", "/v1/render", "application/json", `{"reg": []}`, http.StatusNotImplemented, errors.ErrCodeUnsupported},
		{"document skin", "/v1/render", "application/json", `{"signal": [], "config": {"skin": "narrow"}}`, http.StatusNotImplemented, errors.ErrCodeUnsupported},
		{"nodelink json", "/v1/render?view=nodelink&format=json", "application/json", clockDoc, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, New(), http.MethodPost, tt.target, tt.contentType, tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("POST %s status = %d, want %d (body %q)", tt.target, rec.Code, tt.wantStatus, rec.Body.String())
			}
			resp := decodeError(t, rec)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantCode)
			}
			if resp.ID != rec.Header().Get(HeaderRenderID) {
				t.Errorf("id = %q, want %q", resp.ID, rec.Header().Get(HeaderRenderID))
			}
		})
	}
}

func TestRenderRejectsContentType(t *testing.T) {
	rec := do(t, New(), http.MethodPost, "/v1/render", "text/plain", clockDoc)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnsupportedMediaType)
	}
}

func TestRenderDocumentSkin(t *testing.T) {
	dir := t.TempDir()
	skin := "background = \"#123456\"\n"
	if err := os.WriteFile(filepath.Join(dir, "dark.toml"), []byte(skin), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(WithSkinDir(dir))

	rec := do(t, s, http.MethodPost, "/v1/render", "application/json",
		`{"signal": [{"wave": "01"}], "config": {"skin": "dark"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `fill="#123456"`) {
		t.Error("skin background missing from SVG")
	}

	rec = do(t, s, http.MethodPost, "/v1/render", "application/json",
		`{"signal": [], "config": {"skin": "../dark"}}`)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != errors.ErrCodeInvalidPath {
		t.Errorf("escaping skin status = %d body %q, want 400 INVALID_PATH", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetHTTPHooks(hooks)
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	s := New(WithGatherer(reg))
	do(t, s, http.MethodPost, "/v1/render", "application/json", clockDoc)
	do(t, s, http.MethodPost, "/v1/render?format=gif", "application/json", clockDoc)

	c, err := testutil.GatherAndCount(reg, "wavetower_http_requests_total")
	if err != nil {
		t.Fatal(err)
	}
	if c != 2 {
		t.Errorf("wavetower_http_requests_total series = %d, want 2", c)
	}

	rec := do(t, s, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`wavetower_http_requests_total{code="200",method="POST",route="/v1/render"} 1`,
		`wavetower_http_requests_total{code="400",method="POST",route="/v1/render"} 1`,
		`wavetower_renders_total{format="svg",status="ok"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidEdge, http.StatusBadRequest},
		{errors.ErrCodeInvalidStyle, http.StatusUnprocessableEntity},
		{errors.ErrCodeFileNotFound, http.StatusNotFound},
		{errors.ErrCodeUnsupported, http.StatusNotImplemented},
		{errors.ErrCodeOutputWrite, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(errors.New(tt.code, "x")); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
	if got := statusFor(os.ErrClosed); got != http.StatusInternalServerError {
		t.Errorf("statusFor(uncoded) = %d, want %d", got, http.StatusInternalServerError)
	}
}
