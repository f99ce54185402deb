package app

import (
	"context"
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/calcquiz/internal/question"
	"github.com/abhisek/calcquiz/internal/session"
)

type source struct{}

func (source) ListChapters(context.Context) ([]question.Chapter, error) {
	return []question.Chapter{{Key: "limits", Title: "Limits"}}, nil
}

func (source) LoadPools(context.Context, string) (question.Pools, error) {
	p := question.Pools{}
	for _, l := range question.Levels() {
		for i := range 20 {
			p[l] = append(p[l], question.Record{
				Question:     fmt.Sprintf("L%d-%d", l, i),
				Choices:      []string{"a", "b", "c", "d"},
				CorrectIndex: 0,
			})
		}
	}
	return p, nil
}

// drive feeds msg to the model and runs returned commands until none are
// left. Batches and quits are dropped.
func drive(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		model, cmd := m.Update(next)
		m = model.(AppModel)
		if cmd == nil {
			continue
		}
		out := cmd()
		switch out.(type) {
		case nil, tea.BatchMsg, tea.QuitMsg:
			continue
		}
		queue = append(queue, out)
	}
	return m
}

func key(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

func TestFullFlow(t *testing.T) {
	var delivered []session.Result
	m := newAppModel(Options{
		Chapters:  source{},
		Loader:    source{},
		Questions: 15,
		Sink:      session.ResultSinkFunc(func(r session.Result) { delivered = append(delivered, r) }),
	})
	m = drive(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	init := m.Init()
	require.NotNil(t, init)
	m = drive(t, m, init())
	assert.Equal(t, "Chapters", m.router.Active().Title())

	m = drive(t, m, key("enter"))
	assert.Equal(t, "Limits", m.router.Active().Title())
	assert.Equal(t, 2, m.router.Depth())

	for range 15 {
		m = drive(t, m, key("1"))
		m = drive(t, m, key("n"))
	}
	assert.Equal(t, "Results", m.router.Active().Title())
	require.Len(t, delivered, 1)
	assert.Equal(t, 15, delivered[0].Served)

	m = drive(t, m, key("esc"))
	assert.Equal(t, 1, m.router.Depth())
}

func TestEscOnQuizAsksFirst(t *testing.T) {
	m := newAppModel(Options{Chapters: source{}, Loader: source{}})
	m = drive(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = drive(t, m, m.Init()())
	m = drive(t, m, key("enter"))
	require.Equal(t, 2, m.router.Depth())

	m = drive(t, m, key("esc"))
	assert.Equal(t, 2, m.router.Depth(), "quiz shows a confirmation instead of popping")
	assert.Contains(t, m.router.View(100, 30), "Leave this quiz?")
}

func TestRunRequiresSource(t *testing.T) {
	assert.Error(t, Run(Options{}))
}
