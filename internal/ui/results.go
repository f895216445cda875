package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/courtcheck/internal/availability"
	"github.com/five82/courtcheck/internal/catalog"
	"github.com/five82/courtcheck/internal/slots"
	"github.com/five82/courtcheck/internal/state"
)

// resultsBoxHeight is the height of the results box below the chrome.
func (m Model) resultsBoxHeight() int {
	return max(m.height-chromeHeight, 3)
}

// syncResultsViewport resizes the viewport and re-renders the snapshot into it.
func (m *Model) syncResultsViewport() {
	width := max(m.width-4, 10)
	height := max(m.resultsBoxHeight()-2, 1)
	if m.results.Width == 0 {
		m.results = viewport.New(width, height)
	}
	m.results.Width = width
	m.results.Height = height
	m.results.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.results.SetContent(renderDays(m.theme, m.snapshot, width))
}

// renderDays renders one section per checked date.
func renderDays(th Theme, snap state.Snapshot, width int) string {
	styles := th.Styles().WithBackground(th.FocusBg)

	var b strings.Builder
	for i, day := range snap.Days {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.AccentText.Bold(true).Render("Date: " + day.Date))
		b.WriteString("\n")
		if day.Empty() {
			b.WriteString(styles.MutedText.Render(availability.NoSlotsMessage))
		} else {
			b.WriteString(renderSlotTable(th, day.Slots, width))
		}
		b.WriteString("\n")
		for _, line := range failureLines(day) {
			b.WriteString(styles.DangerText.Render(truncate(line, width)))
			b.WriteString("\n")
		}
	}

	if !snap.Running && snap.LastError != nil {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.WarningText.Render("Check stopped: " + snap.LastError.Error()))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// failureLines lists the locations that could not be checked for a day.
func failureLines(day slots.Day) []string {
	codes := make([]string, 0, len(day.Failures))
	for _, code := range catalog.AllLocationCodes() {
		if _, ok := day.Failures[code]; ok {
			codes = append(codes, code)
		}
	}
	var extra []string
	for code := range day.Failures {
		if catalog.LocationName(code) == code {
			extra = append(extra, code)
		}
	}
	slices.Sort(extra)
	codes = append(codes, extra...)
	lines := make([]string, 0, len(codes))
	for _, code := range codes {
		lines = append(lines, fmt.Sprintf("! %s %s: %s", catalog.LocationName(code), code, day.Failures[code]))
	}
	return lines
}

func renderSlotTable(th Theme, list []slots.Slot, width int) string {
	border := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Border))
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color(th.Accent))
	cell := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(th.Text))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		Headers(availability.SlotColumns...).
		Rows(availability.SlotRows(list)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	if rendered := t.String(); lipgloss.Width(rendered) > width {
		t = t.Width(width)
	}
	return t.String()
}

// renderResults renders the results view.
func (m Model) renderResults() string {
	return m.renderTitledBox(m.resultsTitle(), m.results.View(), m.width, m.resultsBoxHeight())
}

func (m Model) resultsTitle() string {
	if m.lastReq == nil {
		return "Results"
	}
	return "Results · " + m.lastReq.String()
}
