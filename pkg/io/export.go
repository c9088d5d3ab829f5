package io

import (
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/wave"
	"github.com/matzehuels/wavetower/pkg/wavejson"
)

// WriteFigure encodes f as WaveJSON and writes it to w. The output can be
// re-imported with [ReadFigure].
func WriteFigure(f *wave.Figure, w io.Writer) error {
	if err := wavejson.Encode(w, wavejson.FromFigure(f)); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "encode")
	}
	return nil
}

// ExportFigure writes f as WaveJSON to path.
func ExportFigure(f *wave.Figure, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "create %s", path)
	}
	if err := WriteFigure(f, out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "close %s", path)
	}
	return nil
}

// ExportArtifact writes rendered bytes to path, creating missing parent
// directories. The file is written next to its destination and renamed
// into place so watchers never observe a partial artifact.
func ExportArtifact(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", path)
	}
	return nil
}
