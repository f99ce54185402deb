package components

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/calcquiz/internal/ui/theme"
)

// Table renders rows under bold headers with a rounded border. Numeric
// columns after the first are right-aligned.
func Table(headers []string, rows [][]string) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cell
			if row == table.HeaderRow {
				s = header
			}
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
	return t.String()
}
