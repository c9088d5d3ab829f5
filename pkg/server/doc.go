// Package server exposes the render pipeline over HTTP.
//
// # Routes
//
//	POST /v1/render   render the WaveJSON request body
//	GET  /healthz     liveness and build version
//	GET  /metrics     Prometheus exposition
//
// The request body is JSON, YAML or relaxed JSON, selected by Content-Type
// (application/json, application/yaml, application/json5). The query string
// selects the output: format (svg, json, pdf, png), view (wave, nodelink),
// font, scale and validate.
//
// # Errors
//
// Failures are returned as a JSON object carrying the [errors.Code], a
// message and the request ID. Input errors map to 400, invalid skins to 422,
// unsupported documents (register diagrams, missing rsvg-convert) to 501 and
// everything else to 500.
//
// # Request IDs
//
// Every response carries an X-Render-ID header holding a random UUID. The
// same ID is attached to every log line for the request.
//
// # Usage
//
//	reg := prometheus.NewRegistry()
//	hooks := observability.NewPrometheusHooks(reg)
//	observability.SetPipelineHooks(hooks)
//	observability.SetHTTPHooks(hooks)
//
//	srv := server.New(server.WithLogger(logger), server.WithGatherer(reg))
//	err := srv.ListenAndServe(ctx, ":8080")
//
// [errors.Code]: github.com/matzehuels/wavetower/pkg/errors.Code
package server
