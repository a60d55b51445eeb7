// Package validate checks extraction payloads against a JSON Schema before
// they are persisted, so a malformed field map never reaches storage.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tirepoint/garage-docs/constants"
)

// BuildExtractionJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing a persisted extraction payload: the per-field value
// objects keyed by field name, plus confidence and source kind.
func BuildExtractionJSONSchema() map[string]any {
	fieldProp := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"value":                 map[string]any{"type": "string", "minLength": 1},
			"matched_rule_priority": map[string]any{"type": "integer"},
		},
		"required": []string{"value", "matched_rule_priority"},
	}
	fields := map[string]any{}
	for _, f := range constants.AllFields {
		fields[string(f)] = fieldProp
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"fields": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           fields,
			},
			"confidence": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"source_kind": map[string]any{
				"type": "string",
				"enum": []string{"TEXT_LAYER", "OCR"},
			},
		},
		"required": []string{"fields", "confidence", "source_kind"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
