package generate

import (
	"fmt"

	"github.com/abhisek/calcquiz/internal/question"
)

// Input holds all context needed to generate one level's problems.
type Input struct {
	// Chapter is the topic the problems belong to. Its Title is what the
	// model sees.
	Chapter question.Chapter

	// Description optionally narrows the chapter, e.g. "chain rule only".
	Description string

	// Level is the difficulty the batch targets.
	Level question.Level

	// Count is how many problems are wanted.
	Count int

	// Prior holds question texts already in the bank or accepted earlier
	// in this run. They are listed in the prompt and rejected on sight.
	Prior []string
}

// ShortBatchError reports a level that ended with fewer problems than
// requested after all rounds. The accepted problems are still returned.
type ShortBatchError struct {
	Level question.Level
	Want  int
	Got   int
}

func (e *ShortBatchError) Error() string {
	return fmt.Sprintf("level %d: generated %d of %d problems", e.Level, e.Got, e.Want)
}
