package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8E6E3"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3F3F46"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

// renderTable lays rows out in left-aligned columns under a bold header.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(joinPadded(headers, widths)) + "\n")
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	b.WriteString(ruleStyle.Render(strings.Repeat("─", total)) + "\n")
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("(none)") + "\n")
		return b.String()
	}
	for _, row := range rows {
		b.WriteString(joinPadded(row, widths) + "\n")
	}
	return b.String()
}

func joinPadded(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = cell
		if i < len(cells)-1 {
			parts[i] += strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
	}
	return strings.Join(parts, "  ")
}
