package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcquiz/internal/session"
	"github.com/abhisek/calcquiz/internal/ui/components"
	"github.com/abhisek/calcquiz/internal/ui/layout"
	"github.com/abhisek/calcquiz/internal/ui/theme"
)

// Status shows the position and running average in the header.
func (s *QuizScreen) Status() string {
	if s.loading || s.errMsg != "" || s.view.Total == 0 {
		return ""
	}
	return fmt.Sprintf("Question %d/%d   Avg %.2f  ", s.view.Index, s.view.Total, s.view.Average)
}

func (s *QuizScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	switch {
	case s.errMsg != "":
		return center.Render("\n\n" + theme.Incorrect.Render("Could not start the quiz") +
			"\n\n" + theme.Dimmed.Render(s.errMsg) +
			"\n\n" + theme.Hint.Render("Press any key to go back"))
	case s.loading:
		return center.Render("\n\n" + theme.Dimmed.Render("Loading "+s.chapter.Title+"..."))
	case s.confirmQuit:
		return center.Render("\n\n" + theme.Title.Render("Leave this quiz?") +
			"\n\n" + theme.Dimmed.Render("Your answers so far will be discarded."))
	}

	var b strings.Builder
	if !layout.IsCompactHeight(height) {
		b.WriteString("\n")
	}

	// The bar shows finished problems, so it starts empty on question 1.
	bar := components.NewProgressBar("", components.Fraction(s.view.Index-1, s.view.Total), false, min(width-8, 60))
	level := theme.Dimmed.Render(fmt.Sprintf("Level %d", s.view.Difficulty))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()+"  "+level))
	b.WriteString("\n\n")

	card := theme.Card.Width(min(width-6, 90)).Render(s.choice.View(min(width-10, 86)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n")

	if s.feedback != nil {
		b.WriteString(center.Render(renderVerdict(*s.feedback)))
	}
	return b.String()
}

func renderVerdict(fb session.Feedback) string {
	switch {
	case fb.Chosen < 0:
		return theme.Hint.Render("Skipped. Counted as wrong.")
	case fb.Correct:
		return theme.Correct.Render("Correct!")
	default:
		return theme.Incorrect.Render("Not quite.")
	}
}
