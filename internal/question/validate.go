package question

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// MaxQuestionLength bounds the prompt size accepted from any source.
const MaxQuestionLength = 2000

// ValidationError describes why a record was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks the structural rules every Record must satisfy.
func Validate(r Record) error {
	if strings.TrimSpace(r.Question) == "" {
		return &ValidationError{Field: "question", Message: "empty"}
	}
	if len(r.Question) > MaxQuestionLength {
		return &ValidationError{
			Field:   "question",
			Message: fmt.Sprintf("exceeds %d characters", MaxQuestionLength),
		}
	}
	if len(r.Choices) != ChoiceCount {
		return &ValidationError{
			Field:   "choices",
			Message: fmt.Sprintf("want %d, got %d", ChoiceCount, len(r.Choices)),
		}
	}
	for i, c := range r.Choices {
		if strings.TrimSpace(c) == "" {
			return &ValidationError{
				Field:   "choices",
				Message: fmt.Sprintf("choice %d is empty", i),
			}
		}
	}
	if r.CorrectIndex < 0 || r.CorrectIndex >= ChoiceCount {
		return &ValidationError{
			Field:   "correctIndex",
			Message: fmt.Sprintf("%d out of range [0,%d]", r.CorrectIndex, ChoiceCount-1),
		}
	}
	return nil
}

// ValidatePools validates every record and reports the first failure with
// its level and position. Levels are checked in ascending order, unknown
// levels first, so the same pools always yield the same error.
func ValidatePools(p Pools) error {
	for _, lvl := range slices.Sorted(maps.Keys(p)) {
		if !lvl.Valid() {
			return &ValidationError{
				Field:   "level",
				Message: fmt.Sprintf("%d out of range [%d,%d]", lvl, MinLevel, MaxLevel),
			}
		}
	}
	for _, lvl := range Levels() {
		for i, r := range p[lvl] {
			if err := Validate(r); err != nil {
				return fmt.Errorf("level %d, question %d: %w", lvl, i, err)
			}
		}
	}
	return nil
}
