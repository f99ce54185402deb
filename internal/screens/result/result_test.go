package result

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/calcquiz/internal/question"
	"github.com/abhisek/calcquiz/internal/router"
	"github.com/abhisek/calcquiz/internal/screen"
	"github.com/abhisek/calcquiz/internal/session"
)

type stub struct{ screen.Screen }

func sampleResult() session.Result {
	tally := session.NewTally()
	tally[question.Level(2)] = session.LevelTally{Correct: 3, Wrong: 1}
	tally[question.Level(4)] = session.LevelTally{Correct: 0, Wrong: 2}
	return session.Result{
		TotalQuestions: 20,
		Served:         6,
		Average:        2.3333,
		Tally:          tally,
		Answered: []session.AnsweredEntry{
			{Correct: true}, {Correct: true}, {Correct: true},
			{Correct: false}, {Correct: false}, {Correct: false},
		},
		EndedEarly: true,
	}
}

func key(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

func TestView(t *testing.T) {
	s := New(sampleResult(), "Limits", nil)
	out := s.View(100, 40)

	for _, want := range []string{"Limits: complete", "2.33", "counted from question 4", "3 of 6 correct", "ran out of problems after 6 of 20", "Level", "Wrong"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Play again", "no replay without a builder")
}

func TestView_EmptyChapter(t *testing.T) {
	r := session.Result{TotalQuestions: 15, Tally: session.NewTally(), EndedEarly: true}
	out := New(r, "Series", nil).View(100, 40)
	assert.Contains(t, out, "no problems yet")
}

func TestTallyTable_AllLevels(t *testing.T) {
	out := TallyTable(sampleResult())
	lines := strings.Split(out, "\n")
	// Five levels plus header and borders.
	assert.GreaterOrEqual(t, len(lines), 8)
}

func TestEscReturnsHome(t *testing.T) {
	s := New(sampleResult(), "Limits", nil)
	_, cmd := s.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopToRootMsg{}, cmd())
}

func TestPlayAgain(t *testing.T) {
	built := 0
	again := func() screen.Screen { built++; return stub{} }
	s := New(sampleResult(), "Limits", again)

	_, cmd := s.Update(key("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.Equal(t, stub{}, msg.Screen)
	assert.Equal(t, 1, built)

	s.Update(key("right"))
	_, cmd = s.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopToRootMsg{}, cmd())

	_, cmd = s.Update(key("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, 2, built)
}
