package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const manifestSchemaJSON = `{
  "type": "object",
  "required": ["chapters"],
  "properties": {
    "version": {"type": "string"},
    "chapters": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["key", "title"],
        "properties": {
          "key":   {"type": "string", "pattern": "^[A-Za-z0-9][A-Za-z0-9_-]*$"},
          "title": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

const levelSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["question", "choices", "correctIndex"],
    "properties": {
      "question":     {"type": "string", "minLength": 1},
      "choices":      {"type": "array", "items": {"type": "string"}, "minItems": 4, "maxItems": 4},
      "correctIndex": {"type": "integer", "minimum": 0, "maximum": 3}
    }
  }
}`

var (
	schemaOnce     sync.Once
	manifestSchema *jsonschema.Schema
	levelSchema    *jsonschema.Schema
	schemaErr      error
)

func compileSchemas() error {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		for url, src := range map[string]string{
			"calcquiz://manifest.json": manifestSchemaJSON,
			"calcquiz://level.json":    levelSchemaJSON,
		} {
			doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
			if err != nil {
				schemaErr = fmt.Errorf("parse %s: %w", url, err)
				return
			}
			if err := c.AddResource(url, doc); err != nil {
				schemaErr = fmt.Errorf("add %s: %w", url, err)
				return
			}
		}
		if manifestSchema, schemaErr = c.Compile("calcquiz://manifest.json"); schemaErr != nil {
			return
		}
		levelSchema, schemaErr = c.Compile("calcquiz://level.json")
	})
	return schemaErr
}

// decodeValidated checks raw against schema and then decodes it into out.
func decodeValidated(schema *jsonschema.Schema, raw []byte, out any) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
