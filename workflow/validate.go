package workflow

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "https://aiarchitect.dev/schemas/workflow.json"

//go:embed schema.json
var schemaJSON []byte

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal workflow schema: %w", err)
	}
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add workflow schema resource: %w", err)
	}

	return c.Compile(schemaURL)
})

// Schema returns the JSON Schema that workflow trees are validated against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// Validate checks a decoded JSON document (maps, slices, scalars) against
// the workflow tree schema. Violations are reported wrapped in ErrValidation.
func Validate(doc any) error {
	schema, err := compiled()
	if err != nil {
		return err
	}

	value, err := toJSONValue(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, describe(err))
	}

	return nil
}

// DecodeDetail reads a workflow tree from r, validating it strictly.
// No repair is attempted.
func DecodeDetail(r io.Reader) (Detail, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Detail{}, err
	}
	return UnmarshalDetail(data)
}

// UnmarshalDetail validates data against the schema and decodes it.
func UnmarshalDetail(data []byte) (Detail, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Detail{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := Validate(doc); err != nil {
		return Detail{}, err
	}

	var d Detail
	if err := json.Unmarshal(data, &d); err != nil {
		return Detail{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return d, nil
}

// toJSONValue round-trips a value through JSON so numbers reach the
// validator as json.Number.
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(b))
}

func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}

	var msgs []string
	collect(ve, &msgs)
	if len(msgs) == 0 {
		return ve.Error()
	}
	return strings.Join(msgs, "; ")
}

func collect(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/" + strings.Join(ve.InstanceLocation, "/")
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, ve.Error()))
		return
	}
	for _, c := range ve.Causes {
		collect(c, msgs)
	}
}
