package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/courtcheck/internal/availability"
	"github.com/five82/courtcheck/internal/catalog"
)

// Form field indexes in focus order.
const (
	fieldCategory = iota
	fieldFrom
	fieldUntil
	fieldTime
	fieldLocation
	fieldCount
)

// Prefill seeds the form, typically from command-line flags.
type Prefill struct {
	Category   string
	From       string
	Until      string
	TimeBucket string
	Location   string
}

// selector cycles through a fixed list of options.
type selector struct {
	options []string
	idx     int
}

func newSelector(options []string, initial string) selector {
	s := selector{options: options}
	s.set(initial)
	return s
}

func (s *selector) set(value string) {
	value = strings.TrimSpace(value)
	for i, opt := range s.options {
		if strings.EqualFold(opt, value) {
			s.idx = i
			return
		}
	}
}

func (s *selector) next() {
	if len(s.options) > 0 {
		s.idx = (s.idx + 1) % len(s.options)
	}
}

func (s *selector) prev() {
	if len(s.options) > 0 {
		s.idx = (s.idx - 1 + len(s.options)) % len(s.options)
	}
}

func (s selector) value() string {
	if len(s.options) == 0 {
		return ""
	}
	return s.options[s.idx]
}

// formState holds the inputs that make up a Request.
type formState struct {
	category textinput.Model
	from     textinput.Model
	until    textinput.Model
	bucket   selector
	location selector
	focus    int
	err      string
}

func newTextInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 40
	ti.Width = inputWidth
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(value)
	return ti
}

func newForm(defaultCategory string, p Prefill, now time.Time) formState {
	category := strings.TrimSpace(p.Category)
	if category == "" {
		category = defaultCategory
	}
	from := strings.TrimSpace(p.From)
	if from == "" {
		from = now.Format(availability.DateLayout)
	}
	location := p.Location
	if code := catalog.ResolveLocation(location); code != catalog.AllLocations {
		location = catalog.LocationName(code)
	}

	f := formState{
		category: newTextInput(defaultCategory, category),
		from:     newTextInput("YYYY-MM-DD", from),
		until:    newTextInput("same day", strings.TrimSpace(p.Until)),
		bucket:   newSelector(catalog.TimeBucketNames(), p.TimeBucket),
		location: newSelector(catalog.LocationNames(), location),
	}
	f.setFocus(fieldCategory)
	return f
}

// setFocus moves keyboard focus, blurring the text inputs that lose it.
func (f *formState) setFocus(idx int) {
	f.focus = (idx%fieldCount + fieldCount) % fieldCount
	inputs := []*textinput.Model{&f.category, &f.from, &f.until}
	for i, in := range inputs {
		if i == f.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (f formState) onSelector() bool {
	return f.focus == fieldTime || f.focus == fieldLocation
}

// cycle moves the focused selector by one option.
func (f *formState) cycle(forward bool) {
	var s *selector
	switch f.focus {
	case fieldTime:
		s = &f.bucket
	case fieldLocation:
		s = &f.location
	default:
		return
	}
	if forward {
		s.next()
	} else {
		s.prev()
	}
}

// updateInput forwards a message to the focused text input.
func (f *formState) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldCategory:
		f.category, cmd = f.category.Update(msg)
	case fieldFrom:
		f.from, cmd = f.from.Update(msg)
	case fieldUntil:
		f.until, cmd = f.until.Update(msg)
	}
	return cmd
}

// request validates the form. Date errors are kept on the form for display.
func (f *formState) request(defaultCategory string, now time.Time) (availability.Request, bool) {
	dates, err := availability.ParseDateRange(f.from.Value(), f.until.Value(), now)
	if err != nil {
		f.err = err.Error()
		return availability.Request{}, false
	}
	f.err = ""
	return availability.NewRequest(f.category.Value(), defaultCategory, dates, f.bucket.value(), f.location.value()), true
}

// renderForm renders the centered form panel.
func (m Model) renderForm() string {
	styles := m.theme.Styles()
	f := m.form

	label := func(idx int, text string) string {
		text = padRight(text, 12)
		if f.focus == idx {
			return styles.AccentText.Bold(true).Render(text)
		}
		return styles.MutedText.Render(text)
	}
	options := func(idx int, s selector) string {
		value := " " + s.value() + " "
		if f.focus == idx {
			return styles.FaintText.Render("‹ ") + styles.Selected.Render(value) + styles.FaintText.Render(" ›")
		}
		return "  " + styles.Text.Render(value)
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Court availability"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", formWidth-6)))
	b.WriteString("\n\n")

	b.WriteString(label(fieldCategory, "Category") + f.category.View() + "\n\n")
	b.WriteString(label(fieldFrom, "From") + f.from.View() + "\n\n")
	b.WriteString(label(fieldUntil, "Until") + f.until.View() + "\n\n")
	b.WriteString(label(fieldTime, "Time") + options(fieldTime, f.bucket) + "\n\n")
	b.WriteString(label(fieldLocation, "Location") + options(fieldLocation, f.location) + "\n")

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(truncate(f.err, formWidth-6)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Tab: Next  •  ←/→: Change  •  Enter: Check"))

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Width(formWidth).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height-chromeHeight,
		lipgloss.Center,
		lipgloss.Center,
		panel,
	)
}
