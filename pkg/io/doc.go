// Package io reads timing diagram documents from disk and writes rendered
// artifacts back.
//
// # Import
//
// Use [ImportFigure] to read a figure from a file path, or [ReadFigure] to
// read from any io.Reader:
//
//	fig, doc, err := io.ImportFigure("read-cycle.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The document format follows the file extension: .json is strict JSON,
// .yaml and .yml are YAML, and .json5 is the relaxed JavaScript-style
// notation. See [wavejson] for the document model. Passing validate runs the
// WaveJSON schema before conversion.
//
// # Export
//
// Use [ExportFigure] to write a figure model as WaveJSON, or [WriteFigure] to
// write to any io.Writer. Use [ExportArtifact] to store rendered bytes (SVG,
// PNG, ...) at a path, creating parent directories as needed.
//
// Errors carry codes from [errors]: FILE_NOT_FOUND for missing inputs,
// INVALID_WAVEJSON for undecodable documents and OUTPUT_WRITE for failed
// writes.
//
// [wavejson]: github.com/matzehuels/wavetower/pkg/wavejson
// [errors]: github.com/matzehuels/wavetower/pkg/errors
package io
