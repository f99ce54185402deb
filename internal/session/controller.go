package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/calcquiz/internal/pool"
	"github.com/abhisek/calcquiz/internal/question"
	"github.com/abhisek/calcquiz/internal/selector"
)

// Bounds applied to the requested number of problems.
const (
	MinQuestions     = 15
	MaxQuestions     = 100
	DefaultQuestions = 20
)

// ClampTotal forces a requested problem count into [MinQuestions, MaxQuestions].
func ClampTotal(n int) int {
	return max(MinQuestions, min(MaxQuestions, n))
}

// PoolLoader fetches the leveled problems of a chapter.
type PoolLoader interface {
	LoadPools(ctx context.Context, chapterKey string) (question.Pools, error)
}

// QuestionView is what a renderer needs to display the current problem.
type QuestionView struct {
	Record     question.Record
	Difficulty question.Level
	Index      int
	Total      int
	Average    float64
	Resolved   bool
}

// Feedback describes how an answer or skip was marked.
type Feedback struct {
	// Chosen is the picked option, or -1 for a skip.
	Chosen       int
	CorrectIndex int
	Correct      bool
	Difficulty   question.Level
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for session events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithResultSink sets where completed results are delivered.
func WithResultSink(s ResultSink) Option {
	return func(c *Controller) { c.sink = s }
}

// WithSelector overrides the level selection config.
func WithSelector(cfg selector.Config) Option {
	return func(c *Controller) { c.selector = selector.New(cfg) }
}

// WithRand sets the random source used for shuffling.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) {
		if r != nil {
			c.rng = r
		}
	}
}

// WithPoolShuffle permutes each level's problems when a session starts.
func WithPoolShuffle(on bool) Option {
	return func(c *Controller) { c.shufflePool = on }
}

// WithChoiceShuffle permutes each problem's options when a session starts.
func WithChoiceShuffle(on bool) Option {
	return func(c *Controller) { c.shuffleChoices = on }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller runs one quiz session at a time through
// Idle -> Active -> Complete. It is not safe for concurrent use.
type Controller struct {
	loader   PoolLoader
	selector *selector.Selector
	sink     ResultSink
	log      *zap.Logger
	rng      *rand.Rand
	now      func() time.Time
	newID    func() string

	shufflePool    bool
	shuffleChoices bool

	state  *State
	pool   *pool.Pool
	result *Result
}

// NewController creates an idle Controller.
func NewController(loader PoolLoader, opts ...Option) *Controller {
	c := &Controller{
		loader:   loader,
		selector: selector.New(selector.DefaultConfig()),
		log:      zap.NewNop(),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start loads the chapter and serves the first problem. Any session in
// progress is discarded. An empty chapter completes immediately.
// A loader error abandons any previous session and leaves the controller
// idle.
func (c *Controller) Start(ctx context.Context, chapterKey string, requested int) error {
	pools, err := c.loader.LoadPools(ctx, chapterKey)
	if err != nil {
		c.Abandon()
		return fmt.Errorf("load chapter %q: %w", chapterKey, err)
	}

	if c.state != nil && c.state.Phase == PhaseActive {
		c.log.Info("session replaced", zap.String("session_id", c.state.SessionID))
	}

	var popts []pool.Option
	if c.shufflePool {
		popts = append(popts, pool.WithShuffle(c.rng))
	}
	if c.shuffleChoices {
		popts = append(popts, pool.WithChoiceShuffle(c.rng))
	}
	p := pool.New(pools, popts...)

	total := ClampTotal(requested)
	if avail := p.Total(); total > avail {
		total = avail
	}

	c.pool = p
	c.result = nil
	c.state = NewState(c.newID(), chapterKey, total, c.now())

	c.log.Info("session started",
		zap.String("session_id", c.state.SessionID),
		zap.String("chapter", chapterKey),
		zap.Int("requested", requested),
		zap.Int("total", total),
		zap.Int("available", p.Total()),
	)

	if total == 0 {
		c.log.Warn("chapter has no problems", zap.String("chapter", chapterKey))
		c.complete(true)
		return nil
	}

	c.drawNext()
	return nil
}

// Answer marks the current problem with the chosen option. It is a no-op
// returning false when no problem is open, the problem was already
// resolved, or choice is out of range.
func (c *Controller) Answer(choice int) (Feedback, bool) {
	if !c.open() {
		return Feedback{}, false
	}
	q := c.state.CurrentQuestion
	if choice < 0 || choice >= len(q.Choices) {
		return Feedback{}, false
	}

	correct := q.IsCorrect(choice)
	entry := c.state.recordOutcome(correct)

	c.log.Debug("answer recorded",
		zap.String("session_id", c.state.SessionID),
		zap.Int("index", c.state.CurrentIndex),
		zap.Int("difficulty", int(entry.Difficulty)),
		zap.Bool("correct", correct),
		zap.Float64("average", c.state.Average()),
	)

	return Feedback{
		Chosen:       choice,
		CorrectIndex: q.CorrectIndex,
		Correct:      correct,
		Difficulty:   entry.Difficulty,
	}, true
}

// Skip records the current problem as wrong if it has not been resolved.
// Repeated calls on the same problem are no-ops returning false.
func (c *Controller) Skip() (Feedback, bool) {
	if !c.open() {
		return Feedback{}, false
	}
	entry := c.state.recordOutcome(false)

	c.log.Debug("problem skipped",
		zap.String("session_id", c.state.SessionID),
		zap.Int("index", c.state.CurrentIndex),
		zap.Int("difficulty", int(entry.Difficulty)),
	)

	return Feedback{
		Chosen:       -1,
		CorrectIndex: c.state.CurrentQuestion.CorrectIndex,
		Difficulty:   entry.Difficulty,
	}, true
}

// Advance resolves an unanswered problem as wrong and moves on. It
// returns true while the session is still active afterwards.
func (c *Controller) Advance() bool {
	if c.Phase() != PhaseActive {
		return false
	}
	c.Skip()

	if c.state.CurrentIndex >= c.state.TotalQuestions {
		c.complete(false)
		return false
	}

	c.state.CurrentIndex++
	c.drawNext()
	return c.state.Phase == PhaseActive
}

// Abandon discards the session without delivering a result.
func (c *Controller) Abandon() {
	if c.state != nil {
		c.log.Info("session abandoned",
			zap.String("session_id", c.state.SessionID),
			zap.String("phase", c.state.Phase.String()),
			zap.Int("answered", len(c.state.Answered)),
		)
	}
	c.state = nil
	c.pool = nil
	c.result = nil
}

// Phase returns the lifecycle phase.
func (c *Controller) Phase() Phase {
	if c.state == nil {
		return PhaseIdle
	}
	return c.state.Phase
}

// Current returns the problem on screen.
func (c *Controller) Current() (QuestionView, bool) {
	if c.Phase() != PhaseActive || c.state.CurrentQuestion == nil {
		return QuestionView{}, false
	}
	snap := c.state.Clone()
	return QuestionView{
		Record:     *snap.CurrentQuestion,
		Difficulty: snap.CurrentDifficulty,
		Index:      snap.CurrentIndex,
		Total:      snap.TotalQuestions,
		Average:    snap.Average(),
		Resolved:   snap.Resolved,
	}, true
}

// Snapshot returns a copy of the session state.
func (c *Controller) Snapshot() State {
	if c.state == nil {
		return State{Phase: PhaseIdle, Tally: NewTally()}
	}
	return c.state.Clone()
}

// Result returns the frozen result once the session is complete.
func (c *Controller) Result() (Result, bool) {
	if c.result == nil {
		return Result{}, false
	}
	return *c.result, true
}

// open reports whether there is an active, unresolved problem.
func (c *Controller) open() bool {
	return c.Phase() == PhaseActive && c.state.CurrentQuestion != nil && !c.state.Resolved
}

func (c *Controller) drawNext() {
	q, lvl, err := c.selector.Next(c.state.CurrentIndex, c.state.history(), c.pool)
	if err != nil {
		if errors.Is(err, selector.ErrPoolExhausted) {
			c.log.Warn("pool exhausted before session end",
				zap.String("session_id", c.state.SessionID),
				zap.Int("index", c.state.CurrentIndex),
				zap.Int("total", c.state.TotalQuestions),
			)
		}
		c.complete(true)
		return
	}

	c.state.CurrentQuestion = &q
	c.state.CurrentDifficulty = lvl
	c.state.Resolved = false
}

func (c *Controller) complete(endedEarly bool) {
	c.state.Phase = PhaseComplete
	c.state.CurrentQuestion = nil

	r := buildResult(c.state, endedEarly, c.now())
	c.result = &r

	c.log.Info("session complete",
		zap.String("session_id", r.SessionID),
		zap.Int("served", r.Served),
		zap.Float64("average", r.Average),
		zap.Bool("ended_early", r.EndedEarly),
	)

	if c.sink != nil {
		c.sink.Deliver(r)
	}
}

func levelKey(l question.Level) string {
	return fmt.Sprintf("level_%d", l)
}
