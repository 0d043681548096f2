package story

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema is the structural contract for generator output and
// persisted documents. Setting and role values are deliberately plain
// strings here: out-of-vocabulary values are repaired by substitution
// during enrichment, never rejected at the schema boundary.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "topic": {"type": "string"},
    "nodes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["situation", "reasoning", "choices"],
        "properties": {
          "situation": {"type": "string", "minLength": 1},
          "reasoning": {"type": "string"},
          "setting": {"type": "string"},
          "speaker_one": {"$ref": "#/$defs/speaker"},
          "speaker_two": {"$ref": "#/$defs/speaker"},
          "dialogue": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["speaker", "text"],
              "properties": {
                "speaker": {"type": "integer"},
                "text": {"type": "string"}
              }
            }
          },
          "choices": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["text", "outcome", "impact"],
              "properties": {
                "text": {"type": "string"},
                "outcome": {"type": "string"},
                "impact": {"type": "string"},
                "score": {"type": "integer"}
              }
            }
          }
        }
      }
    }
  },
  "required": ["nodes"],
  "$defs": {
    "speaker": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "role": {"type": "string"}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("document.schema.json", strings.NewReader(documentSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("document.schema.json")
	})
	return compiledSchema, schemaErr
}

// ValidateSchema checks the document against the embedded JSON Schema.
func ValidateSchema(d *Document) error {
	if d == nil {
		return fmt.Errorf("document is nil")
	}
	schema, err := loadCompiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile document schema: %w", err)
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal document for schema validation: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to normalize document for schema validation: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("document schema validation failed: %w", err)
	}
	return nil
}
