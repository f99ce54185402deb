package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache holds compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateResponse checks raw against schema. A nil schema accepts
// anything. Failures are *ErrInvalidResponse carrying the batch level
// from ctx and the first failing question.
func validateResponse(ctx context.Context, schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	invalid := func(idx int, err error) error {
		return &ErrInvalidResponse{Level: batchLevel(ctx), Index: idx, Content: raw, Err: err}
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid(-1, fmt.Errorf("invalid JSON: %w", err))
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return invalid(-1, fmt.Errorf("compile schema %q: %w", schema.Name, err))
	}

	if err := compiled.Validate(parsed); err != nil {
		return invalid(questionIndex(err), err)
	}
	return nil
}

// questionIndex finds the first /questions/N location in a validation
// error tree, or -1.
func questionIndex(err error) int {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return -1
	}
	return firstQuestion(ve)
}

func firstQuestion(ve *jsonschema.ValidationError) int {
	loc := ve.InstanceLocation
	if len(loc) >= 2 && loc[0] == "questions" {
		if i, err := strconv.Atoi(loc[1]); err == nil {
			return i
		}
	}
	best := -1
	for _, c := range ve.Causes {
		if i := firstQuestion(c); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// Go ints in the definition must become json.Number for the compiler.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := "calcquiz://batch/" + schema.Name + ".json"
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
