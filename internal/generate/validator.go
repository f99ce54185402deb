package generate

import (
	"fmt"

	"github.com/abhisek/calcquiz/internal/question"
)

// Validator checks a generated problem.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in errors and logs.
	Name() string

	// Validate returns nil if r passes.
	Validate(r question.Record, in Input) *ValidationError
}

// ValidationError describes why a generated problem was dropped.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
