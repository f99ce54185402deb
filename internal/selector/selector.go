// Package selector decides which difficulty level the next problem is
// drawn from.
package selector

import (
	"errors"
	"math"

	"github.com/abhisek/calcquiz/internal/pool"
	"github.com/abhisek/calcquiz/internal/question"
)

// ErrPoolExhausted is returned when no level has problems left.
var ErrPoolExhausted = errors.New("question pool exhausted")

// Outcome is one recorded result in the history the selector adapts to.
type Outcome struct {
	Difficulty question.Level
	Correct    bool
}

// Availability reports how many problems remain at a level.
type Availability interface {
	Remaining(level question.Level) int
}

// Config controls level selection.
type Config struct {
	// Preset fixes the target level for the first len(Preset) problems.
	Preset []question.Level

	// DefaultScore is the adaptive score used before any history exists.
	DefaultScore float64
}

// DefaultConfig returns the escalating 2, 3, 4 opening ramp.
func DefaultConfig() Config {
	return Config{
		Preset:       []question.Level{2, 3, 4},
		DefaultScore: 3,
	}
}

// Selector picks and draws problems according to its Config.
type Selector struct {
	config Config
}

// New creates a Selector.
func New(cfg Config) *Selector {
	return &Selector{config: cfg}
}

// Config returns the selector's configuration.
func (s *Selector) Config() Config {
	return s.config
}

// AdaptiveScore is the mean of difficulty+1 for correct outcomes and
// difficulty-1 for wrong ones, over the whole history.
func (s *Selector) AdaptiveScore(history []Outcome) float64 {
	if len(history) == 0 {
		return s.config.DefaultScore
	}
	var sum float64
	for _, o := range history {
		delta := -1.0
		if o.Correct {
			delta = 1.0
		}
		sum += float64(o.Difficulty) + delta
	}
	return sum / float64(len(history))
}

// Target returns the desired level for the problem at the 1-based index.
func (s *Selector) Target(index int, history []Outcome) question.Level {
	if index >= 1 && index <= len(s.config.Preset) {
		return s.config.Preset[index-1]
	}
	score := s.AdaptiveScore(history)
	// Round half up.
	return question.ClampLevel(int(math.Floor(score + 0.5)))
}

// Resolve returns target if it has problems left, otherwise the nearest
// level that does. At each radius the lower neighbour is tried first.
// It returns false when every level is empty.
func Resolve(target question.Level, avail Availability) (question.Level, bool) {
	target = question.ClampLevel(int(target))
	if avail.Remaining(target) > 0 {
		return target, true
	}
	for step := question.Level(1); step <= question.MaxLevel; step++ {
		lo, hi := target-step, target+step
		if lo >= question.MinLevel && avail.Remaining(lo) > 0 {
			return lo, true
		}
		if hi <= question.MaxLevel && avail.Remaining(hi) > 0 {
			return hi, true
		}
	}
	return 0, false
}

// Next resolves the level for the problem at index and draws from it.
func (s *Selector) Next(index int, history []Outcome, p *pool.Pool) (question.Record, question.Level, error) {
	level, ok := Resolve(s.Target(index, history), p)
	if !ok {
		return question.Record{}, 0, ErrPoolExhausted
	}
	q, ok := p.Draw(level)
	if !ok {
		return question.Record{}, 0, ErrPoolExhausted
	}
	return q, level, nil
}
