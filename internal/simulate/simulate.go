// Package simulate drives the session controller with a scripted learner
// to show how the adaptive selection behaves on a chapter.
package simulate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/calcquiz/internal/question"
	"github.com/abhisek/calcquiz/internal/session"
)

// Config controls a batch of simulated sessions.
type Config struct {
	Runs      int
	Questions int
	Seed      uint64

	// Accuracy is the chance of answering correctly at level 3. Each level
	// above or below moves it by Slope.
	Accuracy float64
	Slope    float64
	SkipRate float64

	ShufflePool bool
}

// DefaultConfig returns the settings used by `calcquiz simulate`.
func DefaultConfig() Config {
	return Config{
		Runs:        10,
		Questions:   session.DefaultQuestions,
		Seed:        1,
		Accuracy:    0.7,
		Slope:       0.1,
		SkipRate:    0.05,
		ShufflePool: true,
	}
}

// Learner decides how each problem is answered.
type Learner struct {
	cfg Config
	rng *rand.Rand
}

func NewLearner(cfg Config, rng *rand.Rand) *Learner {
	return &Learner{cfg: cfg, rng: rng}
}

// Correctness returns the chance of a correct answer at level l.
func (l *Learner) Correctness(level question.Level) float64 {
	p := l.cfg.Accuracy - l.cfg.Slope*float64(int(level)-3)
	return max(0, min(1, p))
}

// Respond answers or skips v on ctrl.
func (l *Learner) Respond(ctrl *session.Controller, v session.QuestionView) {
	if l.rng.Float64() < l.cfg.SkipRate {
		ctrl.Skip()
		return
	}
	choice := v.Record.CorrectIndex
	if l.rng.Float64() >= l.Correctness(v.Difficulty) {
		n := len(v.Record.Choices)
		choice = (choice + 1 + l.rng.IntN(n-1)) % n
	}
	ctrl.Answer(choice)
}

// Report aggregates a batch of simulated sessions.
type Report struct {
	Results    []session.Result
	Tally      session.Tally
	Mean       float64
	EndedEarly int
}

// Run plays cfg.Runs sessions of chapterKey concurrently. Each run uses
// its own random stream derived from cfg.Seed, so a batch is reproducible.
func Run(ctx context.Context, loader session.PoolLoader, chapterKey string, cfg Config, log *zap.Logger) (Report, error) {
	if cfg.Runs <= 0 {
		return Report{}, fmt.Errorf("runs must be positive, got %d", cfg.Runs)
	}
	if log == nil {
		log = zap.NewNop()
	}

	results := make([]session.Result, cfg.Runs)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i := range cfg.Runs {
		eg.Go(func() error {
			r, err := runOne(ctx, loader, chapterKey, cfg, uint64(i), log)
			if err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Report{}, err
	}

	rep := Report{Results: results, Tally: session.NewTally()}
	var sum float64
	for _, r := range results {
		sum += r.Average
		if r.EndedEarly {
			rep.EndedEarly++
		}
		for _, row := range r.Rows() {
			lt := rep.Tally[row.Level]
			lt.Correct += row.Correct
			lt.Wrong += row.Wrong
			rep.Tally[row.Level] = lt
		}
	}
	rep.Mean = sum / float64(len(results))
	return rep, nil
}

func runOne(ctx context.Context, loader session.PoolLoader, key string, cfg Config, stream uint64, log *zap.Logger) (session.Result, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, stream))
	ctrl := session.NewController(loader,
		session.WithRand(rng),
		session.WithPoolShuffle(cfg.ShufflePool),
		session.WithLogger(log),
	)
	if err := ctrl.Start(ctx, key, cfg.Questions); err != nil {
		return session.Result{}, err
	}

	learner := NewLearner(cfg, rng)
	for {
		if err := ctx.Err(); err != nil {
			ctrl.Abandon()
			return session.Result{}, err
		}
		v, ok := ctrl.Current()
		if !ok {
			break
		}
		learner.Respond(ctrl, v)
		ctrl.Advance()
	}

	r, ok := ctrl.Result()
	if !ok {
		return session.Result{}, fmt.Errorf("session did not complete")
	}
	return r, nil
}
