package panel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PreferencesValidator checks a raw preferences payload before it is decoded
// and persisted.
type PreferencesValidator interface {
	Validate(payload map[string]any) error
}

const preferencesSchemaJSON = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"default_section": {
			"type": "string",
			"enum": ["sales", "customers", "products", "status"]
		},
		"stock_threshold": {
			"type": "integer",
			"minimum": 0,
			"maximum": 100000
		}
	}
}`

// JSONSchemaValidator validates preference payloads with jsonschema v5. The
// schema is compiled once, on first use.
type JSONSchemaValidator struct {
	once     sync.Once
	compiled *jsonschema.Schema
	compileE error
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{}
}

// Validate ensures the payload satisfies the preferences schema.
func (v *JSONSchemaValidator) Validate(payload map[string]any) error {
	schema, err := v.schema()
	if err != nil {
		return err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("panel: marshal preferences payload: %w", err)
	}
	var normalized map[string]any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return fmt.Errorf("panel: normalize preferences payload: %w", err)
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("panel: preferences failed validation: %w", err)
	}
	return nil
}

func (v *JSONSchemaValidator) schema() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		name := "preferences.json"
		if err := compiler.AddResource(name, bytes.NewReader([]byte(preferencesSchemaJSON))); err != nil {
			v.compileE = fmt.Errorf("panel: load preferences schema: %w", err)
			return
		}
		v.compiled, v.compileE = compiler.Compile(name)
		if v.compileE != nil {
			v.compileE = fmt.Errorf("panel: compile preferences schema: %w", v.compileE)
		}
	})
	return v.compiled, v.compileE
}
