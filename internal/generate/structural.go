package generate

import (
	"strings"

	"github.com/abhisek/calcquiz/internal/question"
)

// StructuralValidator applies the same record rules the loaders enforce,
// so anything generated can be imported.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(r question.Record, _ Input) *ValidationError {
	if err := question.Validate(r); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	return nil
}

// DistinctChoicesValidator rejects problems whose options repeat after
// trimming and case folding, which would make two answers look right.
type DistinctChoicesValidator struct{}

func (v *DistinctChoicesValidator) Name() string { return "distinct-choices" }

func (v *DistinctChoicesValidator) Validate(r question.Record, _ Input) *ValidationError {
	seen := make(map[string]bool, len(r.Choices))
	for _, c := range r.Choices {
		k := normalize(c)
		if k == "" {
			return &ValidationError{Validator: v.Name(), Message: "blank choice"}
		}
		if seen[k] {
			return &ValidationError{Validator: v.Name(), Message: "duplicate choice " + strings.TrimSpace(c)}
		}
		seen[k] = true
	}
	return nil
}
