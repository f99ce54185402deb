package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcquiz/internal/ui/theme"
)

var choiceLabels = []string{"A", "B", "C", "D"}

// MultiChoice shows a question with lettered options. It only tracks the
// cursor; marking comes from Reveal once the answer has been scored.
type MultiChoice struct {
	Question string
	Options  []string
	Selected int

	revealed bool
	correct  int
	chosen   int // -1 when the question was skipped
}

// NewMultiChoice creates a selector with the cursor on the first option.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{Question: question, Options: options, chosen: -1}
}

// Update moves the cursor. It ignores input once revealed.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.revealed {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	}
	return m, nil
}

// ChoiceForKey maps 1-4 and a-d to an option index.
func (m MultiChoice) ChoiceForKey(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	var idx int
	switch {
	case c >= '1' && c <= '9':
		idx = int(c - '1')
	case c >= 'a' && c <= 'z':
		idx = int(c - 'a')
	default:
		return 0, false
	}
	if idx >= len(m.Options) {
		return 0, false
	}
	return idx, true
}

// Reveal marks the correct option and, for a wrong answer, the chosen one.
// Pass chosen -1 for a skip.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.revealed = true
	m.chosen = chosen
	m.correct = correct
}

// Revealed reports whether marks are showing.
func (m MultiChoice) Revealed() bool {
	return m.revealed
}

// View renders the question and options.
func (m MultiChoice) View(width int) string {
	var b strings.Builder

	q := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(max(width-4, 10))
	b.WriteString(q.Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		label := "?"
		if i < len(choiceLabels) {
			label = choiceLabels[i]
		}
		cursor := "  "
		if i == m.Selected && !m.revealed {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", cursor, label, opt)

		switch {
		case m.revealed && i == m.correct:
			b.WriteString(theme.Correct.Render(line + "  ✓"))
		case m.revealed && i == m.chosen:
			b.WriteString(theme.Incorrect.Render(line + "  ✗"))
		case m.revealed:
			b.WriteString(theme.Dimmed.Render(line))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
