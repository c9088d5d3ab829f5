package style

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/wavetower/pkg/errors"
)

// Format is the encoding of a skin document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// EnvSkin names a list of skin files, separated like PATH, applied in order.
const EnvSkin = "WAVETOWER_SKIN"

// FormatForPath picks the skin format from a file extension.
func FormatForPath(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown skin format for %s (valid: .json, .yaml, .yml, .toml)", name)
}

// Merge decodes a partial skin over o. Fields absent from data keep their
// current value. Unknown keys are rejected.
func Merge(o *Options, data []byte, format Format) error {
	o.detach()

	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(o)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(o)
		if err == io.EOF {
			err = nil
		}
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.Decode(string(data), o)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return errors.New(errors.ErrCodeInvalidStyle, "unknown skin key %q", undecoded[0].String())
			}
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported skin format %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStyle, err, "decode %s skin", format)
	}
	return nil
}

// detach gives o its own copies of pointer fields so decoding into it never
// writes through to an Options it was copied from.
func (o *Options) detach() {
	if o.Background != nil {
		c := *o.Background
		o.Background = &c
	}
	if o.UndefinedBackground != nil {
		c := *o.UndefinedBackground
		o.UndefinedBackground = &c
	}
}

// MergeFile merges the skin stored at name, choosing the format by extension.
func MergeFile(o *Options, name string) error {
	format, err := FormatForPath(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "skin %s not found", name)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read skin %s", name)
	}
	if err := Merge(o, data, format); err != nil {
		return errors.Wrap(errors.GetCode(err), err, "skin %s", name)
	}
	return nil
}

// Load returns the defaults with every named skin merged in order, then
// validated.
func Load(names ...string) (Options, error) {
	o := Default()
	for _, name := range names {
		if err := MergeFile(&o, name); err != nil {
			return Options{}, err
		}
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Lookup returns the skins that apply when none are given explicitly: the
// user skin in the config directory, if present, followed by the entries of
// WAVETOWER_SKIN.
func Lookup() []string {
	var names []string
	if dir, err := os.UserConfigDir(); err == nil {
		for _, base := range []string{"skin.toml", "skin.yaml", "skin.yml", "skin.json"} {
			p := filepath.Join(dir, "wavetower", base)
			if _, err := os.Stat(p); err == nil {
				names = append(names, p)
				break
			}
		}
	}
	for _, p := range filepath.SplitList(os.Getenv(EnvSkin)) {
		if p != "" {
			names = append(names, p)
		}
	}
	return names
}

// skinExts are tried, in order, when a skin is named without an extension.
var skinExts = []string{".toml", ".yaml", ".yml", ".json"}

// Resolve finds the skin a document names inside dir. The name may carry an
// extension or not; it may not escape dir.
func Resolve(dir, name string) (string, error) {
	if err := errors.ValidatePath(name, dir); err != nil {
		return "", err
	}
	base := filepath.Join(dir, name)
	candidates := []string{base}
	if filepath.Ext(name) == "" {
		candidates = candidates[:0]
		for _, ext := range skinExts {
			candidates = append(candidates, base+ext)
		}
	}
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeFileNotFound, "skin %q not found in %s", name, dir)
}
