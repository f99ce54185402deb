package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/calcquiz/internal/question"
)

func TestCounts(t *testing.T) {
	for i, want := range map[int]bool{1: false, 2: false, 3: false, 4: true, 5: true, 100: true} {
		if got := Counts(i); got != want {
			t.Errorf("Counts(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestAverage(t *testing.T) {
	s := NewState("id", "ch", 20, time.Now())
	if got := s.Average(); got != 0 {
		t.Fatalf("Average() with nothing counted = %v, want 0", got)
	}

	// Problems 1-3 only calibrate.
	for _, lvl := range []question.Level{2, 3, 4} {
		s.CurrentDifficulty = lvl
		s.recordOutcome(true)
		s.CurrentIndex++
	}

	// Scored: 2 right, 4 right, 3 wrong -> 6 / 3.
	outcomes := []struct {
		level   question.Level
		correct bool
	}{{2, true}, {4, true}, {3, false}}
	for _, o := range outcomes {
		s.CurrentDifficulty = o.level
		s.recordOutcome(o.correct)
		s.CurrentIndex++
	}

	if s.ScoreSum != 6 || s.ScoreCounted != 3 {
		t.Fatalf("ScoreSum/ScoreCounted = %d/%d, want 6/3", s.ScoreSum, s.ScoreCounted)
	}
	if got := s.Average(); got != 2.0 {
		t.Errorf("Average() = %v, want 2", got)
	}
	if got := s.Tally.Total(); got != len(s.Answered) {
		t.Errorf("Tally.Total() = %d, want %d", got, len(s.Answered))
	}
}

func TestResultRows(t *testing.T) {
	r := Result{Tally: Tally{3: {Correct: 2, Wrong: 1}}}
	rows := r.Rows()
	if len(rows) != int(question.MaxLevel) {
		t.Fatalf("len(Rows()) = %d, want %d", len(rows), question.MaxLevel)
	}
	for i, row := range rows {
		if row.Level != question.Level(i+1) {
			t.Errorf("rows[%d].Level = %d", i, row.Level)
		}
	}
	if rows[2] != (TallyRow{Level: 3, Correct: 2, Wrong: 1}) {
		t.Errorf("rows[2] = %+v", rows[2])
	}
}

func TestCorrectCount(t *testing.T) {
	r := Result{Answered: []AnsweredEntry{{2, true}, {3, false}, {4, true}}}
	if got := r.CorrectCount(); got != 2 {
		t.Errorf("CorrectCount() = %d, want 2", got)
	}
}

func TestMultiSink(t *testing.T) {
	var a, b int
	m := MultiSink{
		ResultSinkFunc(func(Result) { a++ }),
		nil,
		ResultSinkFunc(func(Result) { b++ }),
	}
	m.Deliver(Result{})
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	NewLogSink(zap.New(core)).Deliver(Result{
		SessionID:  "abc",
		ChapterKey: "limits",
		Served:     15,
		Tally:      NewTally(),
	})

	entries := logs.FilterMessage("session result").All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "abc", ctx["session_id"])
		assert.Equal(t, "limits", ctx["chapter"])
		assert.Contains(t, ctx, "level_1")
		assert.Contains(t, ctx, "level_5")
	}

	// A nil logger is accepted.
	NewLogSink(nil).Deliver(Result{})
}
