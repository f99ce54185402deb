package generate

import (
	"fmt"

	"github.com/abhisek/calcquiz/internal/llm"
	"github.com/abhisek/calcquiz/internal/question"
)

// batchSchema describes a response holding up to n problems. The upper
// bound is part of the name so compiled schemas cache per size.
func batchSchema(n int) *llm.Schema {
	return &llm.Schema{
		Name:        fmt.Sprintf("question-batch-%d", n),
		Description: "A batch of multiple-choice calculus practice problems at one difficulty level",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type":     "array",
					"minItems": 1,
					"maxItems": n,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question": map[string]any{
								"type":        "string",
								"minLength":   1,
								"description": "The problem statement. Inline math uses TeX between \\( and \\).",
							},
							"choices": map[string]any{
								"type":        "array",
								"minItems":    question.ChoiceCount,
								"maxItems":    question.ChoiceCount,
								"items":       map[string]any{"type": "string"},
								"description": "Exactly four options, one of them correct",
							},
							"correctIndex": map[string]any{
								"type":        "integer",
								"minimum":     0,
								"maximum":     question.ChoiceCount - 1,
								"description": "Zero-based position of the correct option",
							},
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

// batchOutput is the raw LLM response before validation.
type batchOutput struct {
	Questions []question.Record `json:"questions"`
}
