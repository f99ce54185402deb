package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/calcquiz/internal/llm"
	"github.com/abhisek/calcquiz/internal/question"
)

// Generator produces leveled problem pools with an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
	log      *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger for dropped problems and short batches.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config, opts ...Option) *Generator {
	g := &Generator{provider: provider, config: cfg, log: zap.NewNop()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// GenerateLevel requests batches until in.Count problems pass validation
// or MaxRounds requests have been made. Problems that fail a validator or
// repeat an earlier text are dropped. When some but not all problems were
// accepted, it returns them together with a *ShortBatchError.
func (g *Generator) GenerateLevel(ctx context.Context, in Input) ([]question.Record, error) {
	if !in.Level.Valid() {
		return nil, fmt.Errorf("level %d out of range", in.Level)
	}
	if in.Count <= 0 {
		return nil, nil
	}
	ctx = llm.WithBatch(ctx, llm.Batch{Chapter: in.Chapter.Key, Level: int(in.Level)})

	rounds := max(g.config.MaxRounds, 1)
	seen := newSeenSet(in.Prior)
	prior := append([]string(nil), in.Prior...)
	var accepted []question.Record

	for round := 0; round < rounds && len(accepted) < in.Count; round++ {
		ask := in
		ask.Count = in.Count - len(accepted)
		ask.Prior = prior

		batch, err := g.requestBatch(ctx, ask)
		if err != nil {
			if len(accepted) > 0 && ctx.Err() == nil {
				g.log.Warn("batch request failed, keeping accepted problems",
					zap.Int("level", int(in.Level)), zap.Int("accepted", len(accepted)), zap.Error(err))
				break
			}
			return nil, fmt.Errorf("level %d: %w", in.Level, err)
		}

		for i, r := range batch {
			if len(accepted) == in.Count {
				break
			}
			if verr := g.validate(r, in); verr != nil {
				g.log.Debug("dropped generated problem",
					zap.Int("level", int(in.Level)), zap.Int("round", round), zap.Int("item", i), zap.Error(verr))
				continue
			}
			if seen.has(r.Question) {
				g.log.Debug("dropped duplicate problem",
					zap.Int("level", int(in.Level)), zap.String("question", r.Question))
				continue
			}
			seen.add(r.Question)
			prior = append(prior, r.Question)
			accepted = append(accepted, r)
		}
	}

	if len(accepted) == 0 {
		return nil, fmt.Errorf("level %d: no usable problems after %d rounds", in.Level, rounds)
	}
	if len(accepted) < in.Count {
		return accepted, &ShortBatchError{Level: in.Level, Want: in.Count, Got: len(accepted)}
	}
	return accepted, nil
}

func (g *Generator) requestBatch(ctx context.Context, in Input) ([]question.Record, error) {
	req := llm.Request{
		System:      systemPrompt,
		Prompt:      buildUserMessage(in, g.config),
		Schema:      batchSchema(in.Count),
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &llm.ErrInvalidResponse{Level: int(in.Level), Index: -1, Content: resp.Content, Err: err}
	}
	return out.Questions, nil
}

func (g *Generator) validate(r question.Record, in Input) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(r, in); verr != nil {
			return verr
		}
	}
	return nil
}

// GenerateChapter fills every level of a chapter with perLevel problems,
// requesting levels concurrently. existing supplies problems already in
// the bank per level so they are not generated again. Short levels are
// logged and kept; any other failure cancels the remaining requests.
func (g *Generator) GenerateChapter(ctx context.Context, ch question.Chapter, description string, perLevel int, existing question.Pools) (question.Pools, error) {
	levels := question.Levels()
	results := make([][]question.Record, len(levels))

	eg, ctx := errgroup.WithContext(ctx)
	if g.config.Parallelism > 0 {
		eg.SetLimit(g.config.Parallelism)
	}

	for i, lvl := range levels {
		var prior []string
		for _, r := range existing[lvl] {
			prior = append(prior, r.Question)
		}

		eg.Go(func() error {
			recs, err := g.GenerateLevel(ctx, Input{
				Chapter:     ch,
				Description: description,
				Level:       lvl,
				Count:       perLevel,
				Prior:       prior,
			})
			var short *ShortBatchError
			if errors.As(err, &short) {
				g.log.Warn("level came up short", zap.String("chapter", ch.Key),
					zap.Int("level", int(lvl)), zap.Int("want", short.Want), zap.Int("got", short.Got))
				err = nil
			}
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("chapter %q: %w", ch.Key, err)
	}

	pools := make(question.Pools, len(levels))
	for i, lvl := range levels {
		pools[lvl] = results[i]
	}
	if err := question.ValidatePools(pools); err != nil {
		return nil, fmt.Errorf("chapter %q: %w", ch.Key, err)
	}

	g.log.Info("chapter generated", zap.String("chapter", ch.Key), zap.Int("problems", pools.Count()))
	return pools, nil
}
