package session

import (
	"time"

	"github.com/abhisek/calcquiz/internal/question"
)

// Result is the frozen outcome of a completed session.
type Result struct {
	SessionID      string
	ChapterKey     string
	TotalQuestions int
	Served         int
	Average        float64
	ScoreSum       int
	ScoreCounted   int
	Tally          Tally
	Answered       []AnsweredEntry

	// EndedEarly is set when the pools ran dry before TotalQuestions
	// problems were served, including a chapter with no problems at all.
	EndedEarly bool

	StartedAt   time.Time
	CompletedAt time.Time
}

// TallyRow is one level of a result's breakdown.
type TallyRow struct {
	Level   question.Level
	Correct int
	Wrong   int
}

// Rows returns the tally in ascending level order, including empty levels.
func (r Result) Rows() []TallyRow {
	rows := make([]TallyRow, 0, question.MaxLevel)
	for _, l := range question.Levels() {
		lt := r.Tally[l]
		rows = append(rows, TallyRow{Level: l, Correct: lt.Correct, Wrong: lt.Wrong})
	}
	return rows
}

// CorrectCount returns how many problems were answered correctly.
func (r Result) CorrectCount() int {
	n := 0
	for _, a := range r.Answered {
		if a.Correct {
			n++
		}
	}
	return n
}

// Duration is the wall time between start and completion.
func (r Result) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

func buildResult(s *State, endedEarly bool, completedAt time.Time) Result {
	snap := s.Clone()
	return Result{
		SessionID:      snap.SessionID,
		ChapterKey:     snap.ChapterKey,
		TotalQuestions: snap.TotalQuestions,
		Served:         len(snap.Answered),
		Average:        snap.Average(),
		ScoreSum:       snap.ScoreSum,
		ScoreCounted:   snap.ScoreCounted,
		Tally:          snap.Tally,
		Answered:       snap.Answered,
		EndedEarly:     endedEarly,
		StartedAt:      snap.StartedAt,
		CompletedAt:    completedAt,
	}
}
