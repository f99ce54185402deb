package generate

import (
	"fmt"
	"strings"

	"github.com/abhisek/calcquiz/internal/question"
)

const systemPrompt = `You write multiple-choice practice problems for a first-year university calculus course.

Rules:
- Write exactly the number of problems requested, all at the requested difficulty level.
- Each problem has exactly 4 options and exactly one correct option. correctIndex is its zero-based position.
- Distractors should reflect common mistakes (sign errors, forgotten chain rule factors, off-by-one limits), not random values.
- Vary the position of the correct option across the batch.
- Write inline math as TeX between \( and \). Keep each problem self-contained.
- Do not repeat or lightly reword any problem from the "already written" list.`

// levelGuides describe what each difficulty level should feel like.
var levelGuides = map[question.Level]string{
	1: "recall: a single rule applied directly to a simple expression",
	2: "routine: one rule applied to a slightly larger expression",
	3: "standard: two rules combined or one non-obvious simplification",
	4: "challenging: several steps, a trap that punishes a common shortcut",
	5: "hard: multi-step reasoning, unusual setup, or a result that needs interpretation",
}

// buildUserMessage constructs the user message for one level batch.
func buildUserMessage(in Input, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Chapter: %s\n", in.Chapter.Title)
	if in.Description != "" {
		fmt.Fprintf(&b, "Focus: %s\n", in.Description)
	}
	fmt.Fprintf(&b, "Difficulty level: %d of %d (%s)\n", in.Level, question.MaxLevel, levelGuides[in.Level])
	fmt.Fprintf(&b, "Problems requested: %d\n", in.Count)

	b.WriteString("\nAlready written for this chapter:\n")
	b.WriteString(buildDedup(in.Prior, cfg.MaxPriorQuestions))

	return b.String()
}
