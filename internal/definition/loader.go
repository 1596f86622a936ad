package definition

import (
	"encoding/json"
	"os"

	"github.com/itchyny/gojq"

	"github.com/stateviz/stateviz/pkg/schema"
)

// LoadOption configures definition loading.
type LoadOption func(*loadOptions)

type loadOptions struct {
	selector string
}

// WithSelector applies a jq expression to the parsed document before
// decoding, so a machine definition embedded in a larger configuration
// file can be extracted (e.g. ".machines[0]" or ".config.machine").
func WithSelector(query string) LoadOption {
	return func(o *loadOptions) {
		o.selector = query
	}
}

// Load reads and parses a machine definition from a JSON file.
func Load(path string, opts ...LoadOption) (*MachineDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeIO, "read definition %s", path).WithCause(err)
	}
	return Parse(data, opts...)
}

// Parse decodes a machine definition from JSON bytes, applying the jq
// selector first when one is configured, and validates it.
func Parse(data []byte, opts ...LoadOption) (*MachineDefinition, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.selector != "" {
		selected, err := applySelector(data, o.selector)
		if err != nil {
			return nil, err
		}
		data = selected
	}

	var def MachineDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "invalid machine definition JSON").WithCause(err)
	}

	if err := Validate(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

// applySelector runs a jq query over the decoded document and returns
// the first result re-encoded as JSON. Queries yielding no result or an
// error surface as validation failures.
func applySelector(data []byte, query string) ([]byte, error) {
	q, err := gojq.Parse(query)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "invalid jq selector %q", query).WithCause(err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "invalid jq selector %q", query).WithCause(err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "invalid JSON document").WithCause(err)
	}

	iter := code.Run(doc)
	val, ok := iter.Next()
	if !ok {
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "jq selector %q produced no result", query)
	}
	if qErr, isErr := val.(error); isErr {
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "jq selector %q failed", query).WithCause(qErr)
	}

	out, err := json.Marshal(val)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "re-encode selected document").WithCause(err)
	}
	return out, nil
}
