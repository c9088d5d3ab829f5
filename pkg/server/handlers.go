package server

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/wavetower/pkg/buildinfo"
	"github.com/matzehuels/wavetower/pkg/errors"
	wtio "github.com/matzehuels/wavetower/pkg/io"
	"github.com/matzehuels/wavetower/pkg/pipeline"
	"github.com/matzehuels/wavetower/pkg/style"
	"github.com/matzehuels/wavetower/pkg/wavejson"
)

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	ID      string      `json:"id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := buildinfo.Fields()
	body["status"] = "ok"
	writeJSON(w, http.StatusOK, body)
}

// handleRender renders the WaveJSON request body.
//
// Query parameters:
//
//	format    svg (default), json, pdf or png
//	view      wave (default) or nodelink
//	font      helvetica or go
//	scale     PNG scale factor
//	validate  check the body against the WaveJSON schema first
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := pipeline.Options{
		Formats: []string{q.Get("format")},
		View:    q.Get("view"),
		Font:    q.Get("font"),
		Skins:   s.skins,
		Logger:  s.logger.With("id", RenderID(r.Context())),
	}
	if opts.Formats[0] == "" {
		opts.Formats[0] = pipeline.FormatSVG
	}
	if opts.Font == "" {
		opts.Font = s.font
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v))
			return
		}
		opts.Scale = scale
	}
	validate, _ := strconv.ParseBool(q.Get("validate"))

	body := http.MaxBytesReader(w, r.Body, MaxBodySize)
	f, doc, err := wtio.ReadFigure(body, inputFormat(r), validate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if name := doc.Skin(); name != "" {
		if s.skinDir == "" {
			s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "document skin %q: server has no skin directory", name))
			return
		}
		path, err := style.Resolve(s.skinDir, name)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Skins = append(append([]string(nil), s.skins...), path)
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.runner.Execute(ctx, f, opts)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = errors.Wrap(errors.ErrCodeInternal, err, "render timed out after %s", s.timeout)
			s.writeErrorStatus(w, r, http.StatusGatewayTimeout, err)
			return
		}
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Artifacts[format])))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[format]); err != nil {
		s.logger.Warn("write response", "id", RenderID(r.Context()), "err", err)
	}
}

// inputFormat picks the WaveJSON encoding from the request Content-Type.
func inputFormat(r *http.Request) wavejson.Format {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return wavejson.FormatJSON
	}
	switch {
	case strings.HasSuffix(mt, "json5"):
		return wavejson.FormatRelaxed
	case strings.HasSuffix(mt, "yaml"):
		return wavejson.FormatYAML
	}
	return wavejson.FormatJSON
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidEdge,
		errors.ErrCodeInvalidWaveJSON, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidStyle:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorStatus(w, r, statusFor(err), err)
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)

	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "id", RenderID(r.Context()), "err", err)
	} else {
		s.logger.Debug("rejected request", "id", RenderID(r.Context()), "code", code, "err", msg)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, ID: RenderID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
