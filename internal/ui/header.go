package ui

import (
	"fmt"
	"strings"

	"github.com/five82/courtcheck/internal/state"
)

// renderHeader renders the status bar: logo, run progress and last update.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("courtcheck", styles.Logo)}

	switch {
	case m.running:
		total := m.snapshot.Total
		if m.lastReq != nil {
			total = len(m.lastReq.Dates)
		}
		parts = append(parts,
			m.spin.View()+bg.space+bg.Render("Checking", styles.AccentText),
			bg.Render(progressLabel(m.snapshot.Done(), total), styles.Text))
	case m.lastReq != nil && m.snapshot.LastError != nil:
		parts = append(parts,
			bg.Render("Stopped", styles.WarningText.Bold(true)),
			bg.Render(progressLabel(m.snapshot.Done(), m.snapshot.Total), styles.MutedText))
	case m.lastReq != nil:
		found := m.snapshot.SlotCount()
		style := styles.MutedText
		if found > 0 {
			style = styles.SuccessText
		}
		parts = append(parts,
			bg.Render(plural(found, "slot"), style),
			bg.Render("across "+plural(m.snapshot.Done(), "date"), styles.MutedText))
		if failed := failedLocations(m.snapshot); failed > 0 {
			parts = append(parts, bg.Render(plural(failed, "location")+" failed", styles.DangerText))
		}
	default:
		parts = append(parts, bg.Render("Ready", styles.MutedText))
	}

	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd
	switch m.view {
	case viewForm:
		commands = []cmd{
			{"Tab", "Field"},
			{"←/→", "Option"},
			{"Enter", "Check"},
		}
		if m.lastReq != nil {
			commands = append(commands, cmd{"Esc", "Results"})
		}
	case viewLogs:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"Esc", "Back"},
		}
	default:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"r", "Rerun"},
			{"L", "Log"},
			{"Esc", "Form"},
			{"?", "Help"},
		}
	}
	commands = append(commands, cmd{"^C", "Quit"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// progressLabel renders "done/total dates".
func progressLabel(done, total int) string {
	if total == 1 {
		return fmt.Sprintf("%d/1 date", done)
	}
	return fmt.Sprintf("%d/%d dates", done, total)
}

// failedLocations counts location fetches that failed across all dates.
func failedLocations(snap state.Snapshot) int {
	n := 0
	for _, d := range snap.Days {
		n += len(d.Failures)
	}
	return n
}
