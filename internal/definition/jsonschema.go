package definition

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/stateviz/stateviz/pkg/schema"
)

// machineSchemaJSON is the JSON Schema for MachineDefinition validation.
// Embedded as a constant to avoid filesystem dependencies.
const machineSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://stateviz.dev/schemas/machine.json",
  "type": "object",
  "required": ["name", "states", "transitions"],
  "properties": {
    "name": { "type": "string", "minLength": 1 },
    "version": { "type": "string" },
    "guard_engine": { "type": "string", "enum": ["cel", "expr"] },
    "states": {
      "type": "array",
      "minItems": 1,
      "items": { "type": "string", "minLength": 1 }
    },
    "choices": {
      "type": "array",
      "items": { "type": "string", "minLength": 1 }
    },
    "initial": {
      "type": "array",
      "items": { "$ref": "#/$defs/marker" }
    },
    "final": {
      "type": "array",
      "items": { "$ref": "#/$defs/marker" }
    },
    "transitions": {
      "type": "array",
      "items": { "$ref": "#/$defs/transition" }
    },
    "metadata": { "type": "object" }
  },
  "additionalProperties": false,
  "$defs": {
    "marker": {
      "type": "object",
      "required": ["state"],
      "properties": {
        "state": { "type": "string", "minLength": 1 },
        "label": { "type": "string" }
      },
      "additionalProperties": false
    },
    "transition": {
      "type": "object",
      "required": ["on"],
      "properties": {
        "from": { "type": "string" },
        "on": { "type": "string", "minLength": 1 },
        "to": { "type": "string" },
        "label": { "type": "string" },
        "terminal": { "type": "boolean" },
        "branches": {
          "type": "array",
          "minItems": 1,
          "items": { "$ref": "#/$defs/branch" }
        }
      },
      "additionalProperties": false
    },
    "branch": {
      "type": "object",
      "properties": {
        "to": { "type": "string" },
        "terminal": { "type": "boolean" },
        "label": { "type": "string" },
        "guard": { "type": "string" }
      },
      "additionalProperties": false
    }
  }
}`

var (
	schemaOnce    sync.Once
	machineSchema *jsonschema.Schema
	schemaInitErr error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.AssertFormat()

		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(machineSchemaJSON))
		if err != nil {
			schemaInitErr = fmt.Errorf("unmarshal machine schema: %w", err)
			return
		}
		if err := c.AddResource("https://stateviz.dev/schemas/machine.json", doc); err != nil {
			schemaInitErr = fmt.Errorf("add machine schema resource: %w", err)
			return
		}
		machineSchema, schemaInitErr = c.Compile("https://stateviz.dev/schemas/machine.json")
	})
	return machineSchema, schemaInitErr
}

// ValidateSchema validates a MachineDefinition against the embedded
// JSON Schema. Structural and cross-reference rules that the schema
// cannot express are checked by Validate.
func ValidateSchema(def *MachineDefinition) error {
	if def == nil {
		return schema.NewError(schema.ErrCodeValidation, "machine definition is nil")
	}

	compiled, err := compiledSchema()
	if err != nil {
		return schema.NewError(schema.ErrCodeValidation, "machine schema unavailable").WithCause(err)
	}

	doc, err := toJSONValue(def)
	if err != nil {
		return schema.NewError(schema.ErrCodeValidation, "failed to serialize machine definition").WithCause(err)
	}

	if err := compiled.Validate(doc); err != nil {
		return toValidationError(err)
	}
	return nil
}

// toJSONValue round-trips a Go value through JSON encoding/decoding so
// that numeric values become json.Number (required by the jsonschema
// library).
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

// toValidationError converts a jsonschema.ValidationError into a
// structured Error with one message per leaf violation.
func toValidationError(err error) *schema.Error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return schema.NewError(schema.ErrCodeValidation, err.Error())
	}

	violations := collectViolations(verr)
	if len(violations) == 0 {
		return schema.NewError(schema.ErrCodeValidation, verr.Error())
	}

	if len(violations) == 1 {
		return schema.NewError(schema.ErrCodeValidation, violations[0]).
			WithDetails(map[string]any{"violations": violations})
	}

	msg := fmt.Sprintf("validation failed with %d errors", len(violations))
	return schema.NewError(schema.ErrCodeValidation, msg).
		WithDetails(map[string]any{"violations": violations})
}

// collectViolations walks a ValidationError tree and collects leaf
// error messages with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
