// Package pool holds the per-level problem queues a session draws from.
// Every problem can be drawn at most once.
package pool

import (
	"math/rand/v2"

	"github.com/abhisek/calcquiz/internal/question"
)

// Pool is a one-shot, per-level queue of problems. It is not safe for
// concurrent use; a session owns its pool.
type Pool struct {
	levels [question.MaxLevel + 1][]question.Record
}

type options struct {
	shuffle       *rand.Rand
	shuffleChoice *rand.Rand
}

// Option configures a Pool at construction.
type Option func(*options)

// WithShuffle permutes each level's order once, before any draw.
func WithShuffle(r *rand.Rand) Option {
	return func(o *options) { o.shuffle = r }
}

// WithChoiceShuffle permutes the options of every problem and remaps its
// correct index accordingly.
func WithChoiceShuffle(r *rand.Rand) Option {
	return func(o *options) { o.shuffleChoice = r }
}

// New builds a Pool from loaded problems. Levels outside the valid range
// are ignored. The input is copied so callers keep their slices.
func New(src question.Pools, opts ...Option) *Pool {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool{}
	for _, lvl := range question.Levels() {
		recs := src[lvl]
		if len(recs) == 0 {
			continue
		}
		owned := make([]question.Record, len(recs))
		for i, r := range recs {
			owned[i] = cloneRecord(r)
		}
		if o.shuffle != nil {
			o.shuffle.Shuffle(len(owned), func(i, j int) {
				owned[i], owned[j] = owned[j], owned[i]
			})
		}
		if o.shuffleChoice != nil {
			for i := range owned {
				owned[i] = ShuffleChoices(owned[i], o.shuffleChoice)
			}
		}
		p.levels[lvl] = owned
	}
	return p
}

// Draw removes and returns the first remaining problem at level.
// It returns false when the level is empty or out of range.
func (p *Pool) Draw(level question.Level) (question.Record, bool) {
	if !level.Valid() || len(p.levels[level]) == 0 {
		return question.Record{}, false
	}
	q := p.levels[level][0]
	p.levels[level] = p.levels[level][1:]
	return q, true
}

// Remaining returns the number of problems left at level.
func (p *Pool) Remaining(level question.Level) int {
	if !level.Valid() {
		return 0
	}
	return len(p.levels[level])
}

// Total returns the number of problems left across all levels.
func (p *Pool) Total() int {
	n := 0
	for _, lvl := range question.Levels() {
		n += len(p.levels[lvl])
	}
	return n
}

// Empty reports whether no level has problems left.
func (p *Pool) Empty() bool {
	return p.Total() == 0
}

// ShuffleChoices returns a copy of r with its options permuted and the
// correct index following the right option.
func ShuffleChoices(r question.Record, rng *rand.Rand) question.Record {
	out := cloneRecord(r)
	perm := rng.Perm(len(out.Choices))
	shuffled := make([]string, len(out.Choices))
	correct := out.CorrectIndex
	for newPos, oldPos := range perm {
		shuffled[newPos] = out.Choices[oldPos]
		if oldPos == r.CorrectIndex {
			correct = newPos
		}
	}
	out.Choices = shuffled
	out.CorrectIndex = correct
	return out
}

func cloneRecord(r question.Record) question.Record {
	r.Choices = append([]string(nil), r.Choices...)
	return r
}
