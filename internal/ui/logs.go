package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/courtcheck/internal/logtail"
)

// LogTailLines is how many log lines the log view keeps.
const LogTailLines = 500

type logLinesMsg struct {
	entries []logtail.Entry
	err     error
}

func fetchLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Tail(path, LogTailLines)
		return logLinesMsg{entries: entries, err: err}
	}
}

// openLogs switches to the log view and loads the file right away.
func (m Model) openLogs() (tea.Model, tea.Cmd) {
	if m.view != viewLogs {
		m.prevView = m.view
	}
	m.view = viewLogs
	m.syncLogViewport()
	return m, fetchLogsCmd(m.logFile)
}

func (m *Model) closeLogs() {
	m.view = m.prevView
}

func (m *Model) syncLogViewport() {
	width := max(m.width-4, 10)
	height := max(m.resultsBoxHeight()-2, 1)
	if m.logs.Width == 0 {
		m.logs = viewport.New(width, height)
	}
	m.logs.Width = width
	m.logs.Height = height
	m.logs.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
}

func (m *Model) applyLogLines(msg logLinesMsg) {
	atBottom := m.logs.AtBottom() || m.logs.TotalLineCount() == 0
	m.logs.SetContent(renderLogEntries(m.theme, m.logFile, msg, m.logs.Width))
	if atBottom {
		m.logs.GotoBottom()
	}
}

func renderLogEntries(th Theme, path string, msg logLinesMsg, width int) string {
	styles := th.Styles().WithBackground(th.FocusBg)
	if msg.err != nil {
		return styles.DangerText.Render(truncate(msg.err.Error(), width))
	}
	if len(msg.entries) == 0 {
		if path == "" {
			return styles.MutedText.Render("Logging to a file is disabled.")
		}
		return styles.MutedText.Render("No log entries in " + truncate(path, max(width-18, 10)))
	}

	lines := make([]string, 0, len(msg.entries))
	for _, e := range msg.entries {
		lines = append(lines, levelStyle(styles, e.Level).Render(truncate(e.String(), width)))
	}
	return strings.Join(lines, "\n")
}

func levelStyle(styles Styles, level string) lipgloss.Style {
	switch logtail.LevelLabel(level) {
	case "WRN":
		return styles.WarningText
	case "ERR", "FTL", "PNC":
		return styles.DangerText
	case "DBG", "TRC":
		return styles.FaintText
	default:
		return styles.Text
	}
}

func (m Model) renderLogs() string {
	return m.renderTitledBox("Log · "+truncate(m.logFile, max(m.width-12, 10)), m.logs.View(), m.width, m.resultsBoxHeight())
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Logs):
		m.closeLogs()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logs.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logs, cmd = m.logs.Update(msg)
	return m, cmd
}
