package session

import (
	"time"

	"github.com/abhisek/calcquiz/internal/question"
	"github.com/abhisek/calcquiz/internal/selector"
)

// Phase represents where a session is in its lifecycle.
type Phase int

const (
	PhaseIdle     Phase = iota // No session, or the session was abandoned
	PhaseActive                // Serving problems
	PhaseComplete              // Finished; results are frozen
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	}
	return "unknown"
}

// AnsweredEntry records the outcome of one answered or skipped problem.
type AnsweredEntry struct {
	Difficulty question.Level
	Correct    bool
}

// LevelTally counts outcomes at a single level.
type LevelTally struct {
	Correct int
	Wrong   int
}

// Tally holds per-level outcome counts.
type Tally map[question.Level]LevelTally

// NewTally returns a Tally with a zero entry for every level.
func NewTally() Tally {
	t := make(Tally, question.MaxLevel)
	for _, l := range question.Levels() {
		t[l] = LevelTally{}
	}
	return t
}

// Total returns the number of outcomes across all levels.
func (t Tally) Total() int {
	n := 0
	for _, lt := range t {
		n += lt.Correct + lt.Wrong
	}
	return n
}

// Clone returns an independent copy.
func (t Tally) Clone() Tally {
	out := make(Tally, len(t))
	for l, lt := range t {
		out[l] = lt
	}
	return out
}

func (t Tally) add(level question.Level, correct bool) {
	lt := t[level]
	if correct {
		lt.Correct++
	} else {
		lt.Wrong++
	}
	t[level] = lt
}

// State tracks the runtime state of a single quiz session.
type State struct {
	// SessionID identifies the session in logs and results.
	SessionID string

	// ChapterKey is the chapter the pools were loaded from.
	ChapterKey string

	// TotalQuestions is the number of problems the session plans to serve.
	TotalQuestions int

	// CurrentIndex is the 1-based position of the problem on screen.
	CurrentIndex int

	// CurrentDifficulty is the level the current problem was drawn from.
	CurrentDifficulty question.Level

	// CurrentQuestion is the problem on screen (nil outside PhaseActive).
	CurrentQuestion *question.Record

	// Resolved is true once the current problem was answered or skipped.
	Resolved bool

	// ScoreSum adds the difficulty of every correct problem from
	// position ScoredFrom onward.
	ScoreSum int

	// ScoreCounted counts every problem from position ScoredFrom onward.
	ScoreCounted int

	// Answered logs one entry per answered or skipped problem.
	Answered []AnsweredEntry

	// Tally counts outcomes per level.
	Tally Tally

	// Phase is the current lifecycle phase.
	Phase Phase

	// StartedAt is when the session was started.
	StartedAt time.Time
}

// NewState creates a fresh state positioned at the first problem.
func NewState(sessionID, chapterKey string, total int, now time.Time) *State {
	return &State{
		SessionID:      sessionID,
		ChapterKey:     chapterKey,
		TotalQuestions: total,
		CurrentIndex:   1,
		Tally:          NewTally(),
		Phase:          PhaseActive,
		StartedAt:      now,
	}
}

// Clone returns a deep copy that shares nothing with s.
func (s *State) Clone() State {
	out := *s
	out.Answered = append([]AnsweredEntry(nil), s.Answered...)
	out.Tally = s.Tally.Clone()
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		q.Choices = append([]string(nil), q.Choices...)
		out.CurrentQuestion = &q
	}
	return out
}

// history converts the answer log for the selector.
func (s *State) history() []selector.Outcome {
	out := make([]selector.Outcome, len(s.Answered))
	for i, a := range s.Answered {
		out[i] = selector.Outcome{Difficulty: a.Difficulty, Correct: a.Correct}
	}
	return out
}
