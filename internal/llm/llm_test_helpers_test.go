package llm

import (
	"context"
	"sync"

	"github.com/abhisek/calcquiz/internal/store"
)

// batchSchema is a small stand-in for the question batch schema.
func batchSchema() *Schema {
	return &Schema{
		Name:        "test-batch",
		Description: "questions for one level",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type":     "array",
					"minItems": 1,
					"maxItems": 10,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question": map[string]any{"type": "string", "minLength": 1},
							"choices": map[string]any{
								"type":     "array",
								"minItems": 4,
								"maxItems": 4,
								"items":    map[string]any{"type": "string"},
							},
							"correctIndex": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
						},
						"required":             []any{"question", "choices", "correctIndex"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []any{"questions"},
			"additionalProperties": false,
		},
	}
}

const validBatch = `{"questions":[{"question":"d/dx x^2?","choices":["2x","x","x^2","2"],"correctIndex":0}]}`

type fakeRecorder struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
	return f.err
}
