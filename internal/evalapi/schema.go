package evalapi

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// envelopeSchema describes the expected JSON shape of a response body.
type envelopeSchema struct {
	Name       string
	Definition map[string]any
}

var nullableString = map[string]any{"type": []any{"string", "null"}}

// questionsEnvelope is the response of the question-generation endpoint.
var questionsEnvelope = &envelopeSchema{
	Name: "questions-envelope",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"success": map[string]any{"type": "boolean"},
			"data": map[string]any{
				"type":  []any{"array", "null"},
				"items": map[string]any{"type": "string"},
			},
			"session_id": nullableString,
			"message":    nullableString,
		},
		"required": []any{"success"},
	},
}

// evaluationEnvelope is the response of the answer-evaluation endpoint.
// The report itself is loosely typed and decoded leniently later.
var evaluationEnvelope = &envelopeSchema{
	Name: "evaluation-envelope",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"success":  map[string]any{"type": "boolean"},
			"data":     map[string]any{"type": []any{"object", "null"}},
			"feedback": map[string]any{"type": []any{"object", "null"}},
			"message":  nullableString,
		},
		"required": []any{"success"},
	},
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateEnvelope checks raw against schema. raw must already be valid JSON.
func validateEnvelope(schema *envelopeSchema, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func compiledSchema(schema *envelopeSchema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not Go maps with typed slices.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
