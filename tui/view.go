package tui

import (
	"fmt"
	"strings"
)

const barWidth = 40

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Timeline: " + m.Title))
	b.WriteString("\n")

	switch {
	case !m.Loaded:
		b.WriteString(StatusStyle.Render("Loading..."))
	case m.Err != nil:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
	default:
		b.WriteString(InfoStyle.Render(fmt.Sprintf("%d layers, %.3fs total", len(m.Rows), m.Total)))
		b.WriteString("\n\n")
		var table strings.Builder
		for i, row := range m.Rows {
			line := fmt.Sprintf("%-10s %8.3f %8.3f  %s  %s", row.Layer, row.Start, row.End, Bar(row.Start, row.End, m.Total, barWidth), row.Path)
			if i == m.Cursor {
				line = SelectedStyle.Render(line)
			}
			table.WriteString(line)
			if i < len(m.Rows)-1 {
				table.WriteString("\n")
			}
		}
		b.WriteString(BoxStyle.Render(table.String()))
	}

	b.WriteString("\n\n")
	b.WriteString(InfoStyle.Render("up/down to select | 'r' to reload | 'q' or Ctrl+C to quit"))
	return b.String()
}

// Bar draws the [start,end) window of a total-long timeline in width cells.
func Bar(start, end, total float64, width int) string {
	if total <= 0 || width <= 0 {
		return strings.Repeat(" ", max(width, 0))
	}
	from := int(start / total * float64(width))
	to := int(end/total*float64(width) + 0.5)
	from = min(max(from, 0), width)
	to = min(max(to, from), width)
	if to == from && from < width {
		to = from + 1
	}
	return strings.Repeat(".", from) + strings.Repeat("#", to-from) + strings.Repeat(".", width-to)
}
