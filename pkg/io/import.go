package io

import (
	"io"
	"os"

	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/wave"
	"github.com/matzehuels/wavetower/pkg/wavejson"
)

// maxDocumentSize bounds how much of a reader is consumed.
const maxDocumentSize = 8 << 20

// ReadFigure decodes a WaveJSON document from r. When validate is set the
// document is checked against the WaveJSON schema first. ReadFigure does
// not close r.
func ReadFigure(r io.Reader, format wavejson.Format, validate bool) (*wave.Figure, *wavejson.Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document")
	}
	if len(data) > maxDocumentSize {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "document larger than %d bytes", maxDocumentSize)
	}
	if validate {
		if err := wavejson.Validate(data, format); err != nil {
			return nil, nil, err
		}
	}
	return wavejson.Parse(data, format)
}

// ImportFigure reads the document at path, choosing the format from its
// extension.
func ImportFigure(path string, validate bool) (*wave.Figure, *wavejson.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	fig, doc, err := ReadFigure(f, wavejson.FormatForPath(path), validate)
	if err != nil {
		return nil, nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return fig, doc, nil
}
