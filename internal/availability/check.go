package availability

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/courtcheck/internal/catalog"
	"github.com/five82/courtcheck/internal/slots"
	"github.com/five82/courtcheck/internal/sportcenter"
	"github.com/five82/courtcheck/internal/state"
)

// Source returns a fetcher bound to a sport category.
type Source func(category string) sportcenter.Fetcher

// ClientSource adapts a booking client into a Source.
func ClientSource(client *sportcenter.Client) Source {
	return func(category string) sportcenter.Fetcher {
		return client.WithCategory(category)
	}
}

// Check fetches and filters every requested date in order. onDay, when set,
// is called after each date. Location failures never stop the run; only a
// cancelled ctx ends it early, returning the dates finished so far.
func Check(ctx context.Context, fetcher sportcenter.Fetcher, req Request, onDay func(slots.Day)) []slots.Day {
	days := make([]slots.Day, 0, len(req.Dates))
	for _, date := range req.Dates {
		if ctx.Err() != nil {
			break
		}
		results := fetcher.FetchForDate(ctx, date, req.Location)
		day := Collect(date, req.TimeBucket, results)
		days = append(days, day)
		if onDay != nil {
			onDay(day)
		}
	}
	return days
}

// Collect filters each location's payload and concatenates the slots in
// location table order. Failed locations contribute no slots and are listed
// in Day.Failures.
func Collect(date, bucket string, results sportcenter.FetchResultMap) slots.Day {
	day := slots.Day{Date: date, Slots: []slots.Slot{}}
	for _, code := range orderedCodes(results) {
		res := results[code]
		if res.Failed() {
			if day.Failures == nil {
				day.Failures = make(map[string]string)
			}
			day.Failures[code] = res.Err.Error
			continue
		}
		day.Slots = append(day.Slots, slots.AvailableSlots(date, bucket, res.Payload)...)
	}
	return day
}

func orderedCodes(results sportcenter.FetchResultMap) []string {
	codes := make([]string, 0, len(results))
	for _, code := range catalog.AllLocationCodes() {
		if _, ok := results[code]; ok {
			codes = append(codes, code)
		}
	}
	var extra []string
	for code := range results {
		if !slices.Contains(codes, code) {
			extra = append(extra, code)
		}
	}
	slices.Sort(extra)
	return append(codes, extra...)
}

// RunCheck executes req against source, publishing progress to store. It
// blocks until every date is checked or ctx is cancelled and returns the run id.
func RunCheck(ctx context.Context, store *state.Store, source Source, req Request, log zerolog.Logger) string {
	runID := uuid.NewString()
	logger := log.With().Str("run", runID).Logger()

	store.Begin(runID, len(req.Dates))
	logger.Info().Stringer("request", req).Int("dates", len(req.Dates)).Msg("check started")

	days := Check(ctx, source(req.Category), req, func(day slots.Day) {
		store.AddDay(runID, day)
		logger.Info().
			Str("date", day.Date).
			Int("slots", len(day.Slots)).
			Int("failed_locations", len(day.Failures)).
			Msg("date checked")
	})

	err := ctx.Err()
	if err != nil {
		logger.Warn().Err(err).Int("checked", len(days)).Msg("check interrupted")
	} else {
		logger.Info().Int("checked", len(days)).Msg("check finished")
	}
	store.Finish(runID, err)
	return runID
}
