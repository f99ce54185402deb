package result

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcquiz/internal/router"
	"github.com/abhisek/calcquiz/internal/screen"
	"github.com/abhisek/calcquiz/internal/session"
	"github.com/abhisek/calcquiz/internal/ui/components"
	"github.com/abhisek/calcquiz/internal/ui/layout"
	"github.com/abhisek/calcquiz/internal/ui/theme"
)

// ResultScreen shows a finished session.
type ResultScreen struct {
	result  session.Result
	title   string
	again   func() screen.Screen
	buttons components.ButtonRow
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)
var _ screen.BackHandler = (*ResultScreen)(nil)

// New creates a result view. again builds a fresh quiz for "Play again";
// when nil only the home action is offered.
func New(r session.Result, chapterTitle string, again func() screen.Screen) *ResultScreen {
	s := &ResultScreen{result: r, title: chapterTitle, again: again}
	if again != nil {
		s.buttons.Buttons = append(s.buttons.Buttons, components.Button{Label: "Play again", Key: "again"})
	}
	s.buttons.Buttons = append(s.buttons.Buttons, components.Button{Label: "Chapters", Key: "home"})
	return s
}

func (s *ResultScreen) Init() tea.Cmd { return nil }

func (s *ResultScreen) Title() string { return "Results" }

func (s *ResultScreen) HandlesBack() bool { return true }

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Chapters"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "left", "h", "shift+tab":
		s.buttons.Prev()
	case "right", "l", "tab":
		s.buttons.Next()
	case "r":
		return s, s.playAgain()
	case "enter":
		if s.buttons.Current() == "again" {
			return s, s.playAgain()
		}
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case "esc", "q":
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return s, nil
}

func (s *ResultScreen) playAgain() tea.Cmd {
	if s.again == nil {
		return nil
	}
	next := s.again()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *ResultScreen) View(width, height int) string {
	r := s.result
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Render(theme.Title.Render(s.title + ": complete")))
	b.WriteString("\n\n")

	avg := theme.Correct.Render(fmt.Sprintf("%.2f", r.Average))
	b.WriteString(center.Render("Average difficulty solved " + avg + theme.Dimmed.Render(
		fmt.Sprintf("  (counted from question %d)", session.ScoredFrom))))
	b.WriteString("\n")
	b.WriteString(center.Render(theme.Dimmed.Render(
		fmt.Sprintf("%d of %d correct", r.CorrectCount(), r.Served))))
	b.WriteString("\n")

	if r.EndedEarly {
		msg := fmt.Sprintf("The chapter ran out of problems after %d of %d.", r.Served, r.TotalQuestions)
		if r.Served == 0 {
			msg = "This chapter has no problems yet."
		}
		b.WriteString(center.Render(theme.Hint.Render(msg)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, TallyTable(r)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.buttons.View()))
	return b.String()
}

// TallyTable renders the per-level correct/wrong breakdown.
func TallyTable(r session.Result) string {
	rows := make([][]string, 0, len(r.Rows()))
	for _, row := range r.Rows() {
		rows = append(rows, []string{
			strconv.Itoa(int(row.Level)),
			strconv.Itoa(row.Correct),
			strconv.Itoa(row.Wrong),
		})
	}
	return components.Table([]string{"Level", "Correct", "Wrong"}, rows)
}
