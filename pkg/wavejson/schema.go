package wavejson

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/matzehuels/wavetower/pkg/errors"
)

//go:embed wavejson.schema.json
var schemaJSON string

const schemaURL = "https://wavetower.dev/schemas/wavejson.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("unmarshal wavejson schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add wavejson schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// Validate checks a document against the WaveJSON schema. Violations are
// reported with their JSON pointer under [errors.ErrCodeInvalidWaveJSON].
func Validate(data []byte, format Format) error {
	js, err := toJSON(data, format)
	if err != nil {
		return err
	}

	sch, err := loadSchema()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load schema")
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(js))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidWaveJSON, err, "decode %s", format)
	}
	if m, ok := inst.(map[string]any); ok {
		if _, ok := m["reg"]; ok {
			return errors.New(errors.ErrCodeUnsupported, "register diagrams are not supported")
		}
	}

	if err := sch.Validate(inst); err != nil {
		verr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return errors.Wrap(errors.ErrCodeInvalidWaveJSON, err, "validate")
		}
		violations := collectViolations(verr)
		if len(violations) == 1 {
			return errors.New(errors.ErrCodeInvalidWaveJSON, "%s", violations[0])
		}
		return errors.New(errors.ErrCodeInvalidWaveJSON, "%d schema violations: %s",
			len(violations), strings.Join(violations, "; "))
	}
	return nil
}

// collectViolations flattens a validation error tree into leaf messages
// prefixed with their instance location.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/" + strings.Join(verr.InstanceLocation, "/")
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}
	var out []string
	for _, c := range verr.Causes {
		out = append(out, collectViolations(c)...)
	}
	return out
}
