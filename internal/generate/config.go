package generate

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every generated problem; the first
	// failure drops the problem.
	Validators []Validator

	// MaxTokens is the token budget for one batch response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions caps how many earlier questions are quoted in the
	// prompt.
	MaxPriorQuestions int

	// MaxRounds bounds the requests spent topping up one level.
	MaxRounds int

	// Parallelism is how many levels GenerateChapter requests at once.
	Parallelism int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DistinctChoicesValidator{},
		},
		MaxTokens:         8192,
		Temperature:       0.7,
		MaxPriorQuestions: 30,
		MaxRounds:         3,
		Parallelism:       5,
	}
}
