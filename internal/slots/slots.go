// Package slots turns raw booking payloads into bookable slot records.
package slots

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/courtcheck/internal/catalog"
)

// StatusReservable is the row status the booking site uses for open slots.
const StatusReservable = "預約"

// Slot is one bookable interval at one court on one date. Fields copied from
// the payload keep whatever JSON type the site sent and are nil when absent.
type Slot struct {
	Date    string `json:"Date" yaml:"Date"`
	LIDName any    `json:"LIDName" yaml:"LIDName"`
	Place   any    `json:"Place" yaml:"Place"`
	Time    string `json:"Time" yaml:"Time"`
	Price   any    `json:"Price" yaml:"Price"`
}

// AvailableSlots returns the reservable slots in payload for the given date,
// keeping only slots whose end hour falls in the named time bucket. Unknown
// buckets (including "All Time") apply no time filter.
//
// payload is the generic JSON value decoded from one location's response.
// Anything other than an object with a "rows" array yields no slots; the
// function never fails on malformed input. Row order is preserved.
func AvailableSlots(date, bucket string, payload any) []Slot {
	out := []Slot{}

	obj, ok := payload.(map[string]any)
	if !ok {
		return out
	}
	rows, ok := obj["rows"].([]any)
	if !ok {
		return out
	}

	window, hasWindow := catalog.ResolveTimeWindow(bucket)

	for _, raw := range rows {
		row, _ := raw.(map[string]any)
		if status, _ := row["Status"].(string); status != StatusReservable {
			continue
		}
		endHour := hourField(row, "EndTime")
		if hasWindow && !(isDigits(endHour) && window.Contains(endHour)) {
			continue
		}
		startHour := hourField(row, "StartTime")
		out = append(out, Slot{
			Date:    date,
			LIDName: row["LIDName"],
			Place:   row["LSIDName"],
			Time:    startHour + "-" + endHour,
			Price:   row["TotalPrice"],
		})
	}
	return out
}

// hourField reads row[key].Hours as a two-digit zero-padded string. Missing or
// null values pad to "00".
func hourField(row map[string]any, key string) string {
	t, _ := row[key].(map[string]any)
	return zeroPad(hourString(t["Hours"]), 2)
}

func hourString(v any) string {
	switch h := v.(type) {
	case nil:
		return ""
	case string:
		return h
	case json.Number:
		return h.String()
	case float64:
		return strconv.FormatFloat(h, 'f', -1, 64)
	case int:
		return strconv.Itoa(h)
	case int64:
		return strconv.FormatInt(h, 10)
	default:
		return fmt.Sprint(h)
	}
}

// zeroPad left-pads s with zeros to width, keeping a leading sign in front.
func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	return sign + strings.Repeat("0", width-len(sign)-len(s)) + s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Day gathers every slot found for one date across the queried locations.
// Failures maps a location code to the fetch error message for locations
// that returned nothing usable.
type Day struct {
	Date     string            `json:"date" yaml:"date"`
	Slots    []Slot            `json:"slots" yaml:"slots"`
	Failures map[string]string `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Empty reports whether no slots were found for the day.
func (d Day) Empty() bool {
	return len(d.Slots) == 0
}
