package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// truncate shortens a string to limit cells, adding an ellipsis if needed.
// Wide runes count as two cells.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || lipgloss.Width(value) <= limit {
		return value
	}
	if limit <= 3 {
		return cutCells(value, limit)
	}
	return cutCells(value, limit-3) + "..."
}

func cutCells(value string, limit int) string {
	var b strings.Builder
	width := 0
	for _, r := range value {
		w := lipgloss.Width(string(r))
		if width+w > limit {
			break
		}
		b.WriteRune(r)
		width += w
	}
	return b.String()
}

// padRight pads a string with spaces to the given cell width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if width <= 0 || w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// plural returns "1 slot" or "n slots".
func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
