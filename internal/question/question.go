package question

// ChoiceCount is the number of options every question carries.
const ChoiceCount = 4

// Level is a difficulty level from MinLevel (easiest) to MaxLevel (hardest).
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 5
)

// Levels returns every level in ascending order.
func Levels() []Level {
	out := make([]Level, 0, MaxLevel)
	for l := MinLevel; l <= MaxLevel; l++ {
		out = append(out, l)
	}
	return out
}

// Valid reports whether l is within [MinLevel, MaxLevel].
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// ClampLevel forces n into [MinLevel, MaxLevel].
func ClampLevel(n int) Level {
	if n < int(MinLevel) {
		return MinLevel
	}
	if n > int(MaxLevel) {
		return MaxLevel
	}
	return Level(n)
}

// Record is a single multiple-choice practice problem.
type Record struct {
	// Question is the prompt. It may contain TeX markup; rendering it is
	// left to the display layer.
	Question string `json:"question"`

	// Choices holds exactly ChoiceCount options.
	Choices []string `json:"choices"`

	// CorrectIndex is the position of the right option in Choices.
	CorrectIndex int `json:"correctIndex"`
}

// IsCorrect reports whether choice is the right answer.
func (r Record) IsCorrect(choice int) bool {
	return choice == r.CorrectIndex
}

// Chapter identifies a set of leveled problems.
type Chapter struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Pools maps each level to its ordered problems, as produced by a loader.
type Pools map[Level][]Record

// Count returns the number of problems across all levels.
func (p Pools) Count() int {
	n := 0
	for _, l := range Levels() {
		n += len(p[l])
	}
	return n
}
