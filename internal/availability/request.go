package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/courtcheck/internal/catalog"
)

// DateLayout is the date format the booking API and every output use.
const DateLayout = "2006-01-02"

// Request is everything a check needs from the user.
type Request struct {
	Category   string
	Dates      []string
	TimeBucket string
	Location   string
}

// String renders the request for logs and headers.
func (r Request) String() string {
	dates := ""
	switch len(r.Dates) {
	case 0:
	case 1:
		dates = r.Dates[0]
	default:
		dates = r.Dates[0] + ".." + r.Dates[len(r.Dates)-1]
	}
	return fmt.Sprintf("%s %s %s @ %s", r.Category, dates, r.TimeBucket, r.Location)
}

// NewRequest trims the inputs and fills defaults: the given category when
// empty, "All Time" and every location.
func NewRequest(category, defaultCategory string, dates []string, bucket, location string) Request {
	category = strings.TrimSpace(category)
	if category == "" {
		category = defaultCategory
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		bucket = catalog.BucketAllTime
	}
	location = strings.TrimSpace(location)
	if location == "" {
		location = catalog.AllLocations
	}
	return Request{
		Category:   category,
		Dates:      dates,
		TimeBucket: bucket,
		Location:   location,
	}
}

// ExpandDates lists every date from start to end inclusive in chronological
// order. A reversed range yields no dates.
func ExpandDates(start, end time.Time) []string {
	start = truncateDay(start)
	end = truncateDay(end)
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// ParseDateRange parses "YYYY-MM-DD" inputs into the list of dates to check.
// An empty from means today; an empty until means a single date.
func ParseDateRange(from, until string, now time.Time) ([]string, error) {
	start := truncateDay(now)
	if s := strings.TrimSpace(from); s != "" {
		parsed, err := time.ParseInLocation(DateLayout, s, now.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
		}
		start = parsed
	}
	end := start
	if s := strings.TrimSpace(until); s != "" {
		parsed, err := time.ParseInLocation(DateLayout, s, now.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
		}
		end = parsed
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s", end.Format(DateLayout), start.Format(DateLayout))
	}
	return ExpandDates(start, end), nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
