package components

import (
	"strings"

	"github.com/abhisek/calcquiz/internal/ui/theme"
)

// Button is a labelled action in a horizontal button row.
type Button struct {
	Label string
	Key   string
}

// ButtonRow is a set of buttons with one focused.
type ButtonRow struct {
	Buttons []Button
	Focused int
}

// Next moves focus right, wrapping around.
func (r *ButtonRow) Next() {
	if len(r.Buttons) > 0 {
		r.Focused = (r.Focused + 1) % len(r.Buttons)
	}
}

// Prev moves focus left, wrapping around.
func (r *ButtonRow) Prev() {
	if n := len(r.Buttons); n > 0 {
		r.Focused = (r.Focused + n - 1) % n
	}
}

// Current returns the focused button's key.
func (r ButtonRow) Current() string {
	if r.Focused < 0 || r.Focused >= len(r.Buttons) {
		return ""
	}
	return r.Buttons[r.Focused].Key
}

// View renders the row.
func (r ButtonRow) View() string {
	parts := make([]string, len(r.Buttons))
	for i, b := range r.Buttons {
		if i == r.Focused {
			parts[i] = theme.ButtonActive.Render(b.Label)
		} else {
			parts[i] = theme.ButtonInactive.Render(b.Label)
		}
	}
	return strings.Join(parts, "  ")
}
