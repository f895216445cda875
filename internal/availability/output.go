package availability

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/five82/courtcheck/internal/slots"
)

// Output formats for one-shot mode.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// NoSlotsMessage is shown for a date without any open slot.
const NoSlotsMessage = "No available slots found for this date."

// SlotColumns are the result table headers in display order.
var SlotColumns = []string{"Date", "LIDName", "Place", "Time", "Price"}

// ParseFormat validates an output format name.
func ParseFormat(name string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(name)); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", name)
	}
}

// WriteDays renders the checked dates to w in the given format.
func WriteDays(w io.Writer, format string, days []slots.Day) error {
	if days == nil {
		days = []slots.Day{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(days); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plainDays(days)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return writeTables(w, days)
	}
}

func writeTables(w io.Writer, days []slots.Day) error {
	var b strings.Builder
	for i, day := range days {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Date: " + day.Date + "\n")
		if day.Empty() {
			b.WriteString(NoSlotsMessage + "\n")
		} else {
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers(SlotColumns...).
				Rows(SlotRows(day.Slots)...)
			b.WriteString(t.String() + "\n")
		}
		for _, code := range sortedKeys(day.Failures) {
			fmt.Fprintf(&b, "! %s: %s\n", code, day.Failures[code])
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// SlotRows turns slots into table rows matching SlotColumns.
func SlotRows(list []slots.Slot) [][]string {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{s.Date, Cell(s.LIDName), Cell(s.Place), s.Time, Cell(s.Price)})
	}
	return rows
}

// Cell formats a pass-through payload value; absent values render empty.
func Cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// plainDays converts json.Number values so YAML prints them as numbers
// rather than quoted strings.
func plainDays(days []slots.Day) []slots.Day {
	out := make([]slots.Day, len(days))
	for i, d := range days {
		out[i] = d
		out[i].Slots = make([]slots.Slot, len(d.Slots))
		for j, s := range d.Slots {
			s.LIDName = plainValue(s.LIDName)
			s.Place = plainValue(s.Place)
			s.Price = plainValue(s.Price)
			out[i].Slots[j] = s
		}
	}
	return out
}

func plainValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
