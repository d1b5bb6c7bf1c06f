package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Response schemas, keyed by endpoint name. They check shape only; the
// duck-typed fields (ids, explanations, choices) are normalized afterwards.
var schemas = map[string]string{
	endpointFilters: `{
		"type": "object",
		"properties": {
			"subjects":     {"type": ["array", "null"], "items": {"type": "string"}},
			"systems":      {"type": ["array", "null"], "items": {"type": "string"}},
			"statuses":     {"type": ["array", "null"], "items": {"type": "string"}},
			"difficulties": {"type": ["array", "null"], "items": {"type": "string"}},
			"tags":         {"type": ["array", "null"], "items": {"type": "string"}}
		}
	}`,

	endpointSearch: `{
		"type": "object",
		"required": ["data", "pagination"],
		"properties": {
			"data": {"type": "array", "items": {"$ref": "#/$defs/question"}},
			"pagination": {
				"type": "object",
				"required": ["total"],
				"properties": {
					"total":    {"type": "integer", "minimum": 0},
					"limit":    {"type": "integer", "minimum": 0},
					"offset":   {"type": "integer", "minimum": 0},
					"returned": {"type": "integer", "minimum": 0}
				}
			}
		},
		"$defs": {
			"question": ` + questionSchema + `
		}
	}`,

	endpointCreate: `{
		"type": "object",
		"required": ["assessmentId"],
		"properties": {
			"assessmentId":  {"type": ["string", "number"]},
			"questionCount": {"type": "integer", "minimum": 0},
			"status":        {"type": "string"}
		}
	}`,

	endpointStart: `{
		"type": "object",
		"required": ["assessmentId", "questions"],
		"properties": {
			"assessmentId":     {"type": ["string", "number"]},
			"startedAt":        {"type": ["string", "null"]},
			"expiresAt":        {"type": ["string", "null"]},
			"timeLimitSeconds": {"type": ["integer", "null"], "minimum": 0},
			"questions":        {"type": "array", "items": {"$ref": "#/$defs/question"}}
		},
		"$defs": {
			"question": ` + questionSchema + `
		}
	}`,

	endpointSubmit: `{
		"type": "object",
		"required": ["assessmentId", "score"],
		"properties": {
			"assessmentId": {"type": ["string", "number"]},
			"submittedAt":  {"type": ["string", "null"]},
			"score": {
				"type": "object",
				"required": ["totalQuestions", "correct", "incorrect", "omitted"],
				"properties": {
					"totalQuestions":  {"type": "integer", "minimum": 0},
					"correct":         {"type": "integer", "minimum": 0},
					"incorrect":       {"type": "integer", "minimum": 0},
					"omitted":         {"type": "integer", "minimum": 0},
					"percentage":      {"type": "number"},
					"durationSeconds": {"type": ["integer", "null"], "minimum": 0}
				}
			}
		}
	}`,

	endpointAnalytics: `{
		"type": "object",
		"properties": {
			"totalAnswered":  {"type": "integer", "minimum": 0},
			"correct":        {"type": "integer", "minimum": 0},
			"accuracy":       {"type": "number"},
			"averageSeconds": {"type": "number"},
			"subjects": {
				"type": ["array", "null"],
				"items": {
					"type": "object",
					"required": ["subject"],
					"properties": {
						"subject":  {"type": "string"},
						"answered": {"type": "integer"},
						"accuracy": {"type": "number"}
					}
				}
			}
		}
	}`,
}

const questionSchema = `{
	"type": "object",
	"required": ["id", "choices"],
	"properties": {
		"id":            {"type": ["string", "number"]},
		"stem":          {"type": "string"},
		"choices":       {"type": "array", "items": {"type": ["string", "object"]}},
		"correctAnswer": {"type": ["string", "null"]},
		"explanation":   {"type": ["string", "object", "null"]},
		"metadata":      {"type": ["object", "null"]},
		"tags":          {"type": ["array", "null"], "items": {"type": "string"}}
	}
}`

// schemaCache caches compiled JSON schemas by endpoint name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateResponse validates raw JSON against the schema registered for
// endpoint. Returns *InvalidResponseError on failure.
func validateResponse(endpoint string, raw []byte) error {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &InvalidResponseError{Endpoint: endpoint, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(endpoint)
	if err != nil {
		return &InvalidResponseError{Endpoint: endpoint, Err: fmt.Errorf("compile schema: %w", err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &InvalidResponseError{Endpoint: endpoint, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(endpoint string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(endpoint); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, ok := schemas[endpoint]
	if !ok {
		return nil, fmt.Errorf("no schema registered for %q", endpoint)
	}
	var defParsed any
	if err := json.Unmarshal([]byte(def), &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", endpoint)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(endpoint, compiled)
	return compiled, nil
}
