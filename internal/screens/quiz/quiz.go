package quiz

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/calcquiz/internal/question"
	"github.com/abhisek/calcquiz/internal/router"
	"github.com/abhisek/calcquiz/internal/screen"
	sess "github.com/abhisek/calcquiz/internal/session"
	"github.com/abhisek/calcquiz/internal/ui/components"
	"github.com/abhisek/calcquiz/internal/ui/layout"
)

// ResultScreenFunc builds the screen that replaces the quiz when it ends.
type ResultScreenFunc func(r sess.Result) screen.Screen

// QuizScreen runs one session on a controller.
type QuizScreen struct {
	ctrl      *sess.Controller
	chapter   question.Chapter
	requested int
	onResult  ResultScreenFunc

	loading     bool
	errMsg      string
	view        sess.QuestionView
	choice      components.MultiChoice
	feedback    *sess.Feedback
	confirmQuit bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.BackHandler = (*QuizScreen)(nil)

// New creates a quiz over chapter asking for requested problems.
func New(ctrl *sess.Controller, chapter question.Chapter, requested int, onResult ResultScreenFunc) *QuizScreen {
	return &QuizScreen{
		ctrl:      ctrl,
		chapter:   chapter,
		requested: requested,
		onResult:  onResult,
		loading:   true,
	}
}

// Init loads the chapter off the UI goroutine. The controller is not
// touched elsewhere until startedMsg arrives.
func (s *QuizScreen) Init() tea.Cmd {
	ctrl, key, n := s.ctrl, s.chapter.Key, s.requested
	return func() tea.Msg {
		return startedMsg{Err: ctrl.Start(context.Background(), key, n)}
	}
}

func (s *QuizScreen) Title() string {
	return s.chapter.Title
}

func (s *QuizScreen) HandlesBack() bool { return true }

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, s.refresh()

	case finishedMsg:
		if s.onResult == nil {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		next := s.onResult(msg.Result)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.loading {
		if key == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.ctrl.Abandon()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	if s.feedback != nil {
		switch key {
		case "n", "space", " ", "enter", "right":
			s.ctrl.Advance()
			return s, s.refresh()
		}
		return s, nil
	}

	if idx, ok := s.choice.ChoiceForKey(key); ok {
		return s.answer(idx)
	}
	switch key {
	case "enter":
		return s.answer(s.choice.Selected)
	case "s":
		if fb, ok := s.ctrl.Skip(); ok {
			s.reveal(fb)
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	return s, cmd
}

func (s *QuizScreen) answer(idx int) (screen.Screen, tea.Cmd) {
	if fb, ok := s.ctrl.Answer(idx); ok {
		s.reveal(fb)
	}
	return s, nil
}

func (s *QuizScreen) reveal(fb sess.Feedback) {
	s.feedback = &fb
	s.choice.Reveal(fb.Chosen, fb.CorrectIndex)
	if v, ok := s.ctrl.Current(); ok {
		s.view = v
	}
}

// refresh picks up the next problem, or hands off to the result screen
// once the controller has completed.
func (s *QuizScreen) refresh() tea.Cmd {
	s.feedback = nil
	if v, ok := s.ctrl.Current(); ok {
		s.view = v
		s.choice = components.NewMultiChoice(v.Record.Question, v.Record.Choices)
		return nil
	}
	if r, ok := s.ctrl.Result(); ok {
		return func() tea.Msg { return finishedMsg{Result: r} }
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.loading || s.errMsg != "":
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.feedback != nil:
		return []layout.KeyHint{
			{Key: "N/Space", Description: "Next"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4/A-D", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Pick"},
		{Key: "S", Description: "Skip"},
		{Key: "Esc", Description: "Quit"},
	}
}
