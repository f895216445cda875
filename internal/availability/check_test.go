package availability

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/five82/courtcheck/internal/catalog"
	"github.com/five82/courtcheck/internal/slots"
	"github.com/five82/courtcheck/internal/sportcenter"
	"github.com/five82/courtcheck/internal/state"
)

type fakeFetcher struct {
	calls   []string
	byDate  map[string]sportcenter.FetchResultMap
	onFetch func(date string)
}

func (f *fakeFetcher) FetchForDate(ctx context.Context, date, location string) sportcenter.FetchResultMap {
	f.calls = append(f.calls, date+"|"+location)
	if f.onFetch != nil {
		f.onFetch(date)
	}
	return f.byDate[date]
}

func row(status, place string, start, end int) map[string]any {
	return map[string]any{
		"Status":     status,
		"StartTime":  map[string]any{"Hours": start},
		"EndTime":    map[string]any{"Hours": end},
		"LIDName":    "Center",
		"LSIDName":   place,
		"TotalPrice": 300,
	}
}

func payload(rows ...map[string]any) any {
	list := make([]any, len(rows))
	for i, r := range rows {
		list[i] = r
	}
	return map[string]any{"rows": list}
}

func TestCollect_OrdersByLocationTableAndRecordsFailures(t *testing.T) {
	results := sportcenter.FetchResultMap{
		"WHSC": {Payload: payload(row(slots.StatusReservable, "W1", 8, 10))},
		"WSSC": {Payload: payload(row(slots.StatusReservable, "A1", 9, 11), row("已預約", "A2", 9, 11))},
		"XYSC": {Err: &sportcenter.FetchError{Error: "execute request: refused"}},
		"DASC": {Payload: "garbage"},
	}

	day := Collect("2024-06-01", catalog.BucketMorning, results)
	if day.Date != "2024-06-01" {
		t.Fatalf("Date = %q, want 2024-06-01", day.Date)
	}
	var places []any
	for _, s := range day.Slots {
		places = append(places, s.Place)
	}
	if !reflect.DeepEqual(places, []any{"A1", "W1"}) {
		t.Fatalf("places = %v, want [A1 W1] in table order", places)
	}
	if !reflect.DeepEqual(day.Failures, map[string]string{"XYSC": "execute request: refused"}) {
		t.Fatalf("Failures = %v, want XYSC only", day.Failures)
	}
}

func TestCollect_AllFailedIsEmptyNotNil(t *testing.T) {
	day := Collect("2024-06-01", "All Time", sportcenter.FetchResultMap{
		"WSSC": {Err: &sportcenter.FetchError{Error: "boom"}},
	})
	if day.Slots == nil || !day.Empty() {
		t.Fatalf("Slots = %#v, want empty non-nil", day.Slots)
	}
}

func TestOrderedCodes_UnknownCodesSortedLast(t *testing.T) {
	got := orderedCodes(sportcenter.FetchResultMap{"ZZZZ": {}, "AAAA": {}, "SSSC": {}, "WSSC": {}})
	want := []string{"WSSC", "SSSC", "AAAA", "ZZZZ"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("orderedCodes = %v, want %v", got, want)
	}
}

func TestCheck_RunsEveryDateInOrder(t *testing.T) {
	f := &fakeFetcher{byDate: map[string]sportcenter.FetchResultMap{
		"2024-06-01": {"WSSC": {Err: &sportcenter.FetchError{Error: "down"}}},
		"2024-06-02": {"WSSC": {Payload: payload(row(slots.StatusReservable, "C1", 18, 20))}},
	}}
	req := Request{Category: "Badminton", Dates: []string{"2024-06-01", "2024-06-02"}, TimeBucket: "Evening", Location: "文山"}

	var seen []string
	days := Check(context.Background(), f, req, func(d slots.Day) { seen = append(seen, d.Date) })

	if !reflect.DeepEqual(f.calls, []string{"2024-06-01|文山", "2024-06-02|文山"}) {
		t.Fatalf("fetch calls = %v", f.calls)
	}
	if !reflect.DeepEqual(seen, []string{"2024-06-01", "2024-06-02"}) {
		t.Fatalf("onDay dates = %v", seen)
	}
	if len(days) != 2 || !days[0].Empty() || len(days[1].Slots) != 1 {
		t.Fatalf("days = %+v, want empty first day and one slot on second", days)
	}
	if days[1].Slots[0].Time != "18-20" {
		t.Fatalf("Time = %q, want 18-20", days[1].Slots[0].Time)
	}
}

func TestCheck_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &fakeFetcher{onFetch: func(string) { cancel() }}
	req := Request{Dates: []string{"2024-06-01", "2024-06-02", "2024-06-03"}}

	days := Check(ctx, f, req, nil)
	if len(f.calls) != 1 || len(days) != 1 {
		t.Fatalf("calls/days = %d/%d, want 1/1 after cancellation", len(f.calls), len(days))
	}
}

func TestRunCheck_PublishesToStore(t *testing.T) {
	f := &fakeFetcher{byDate: map[string]sportcenter.FetchResultMap{
		"2024-06-01": {"WSSC": {Payload: payload(row(slots.StatusReservable, "C1", 8, 10))}},
	}}
	var gotCategory string
	source := func(category string) sportcenter.Fetcher {
		gotCategory = category
		return f
	}
	store := &state.Store{}
	req := Request{Category: "Tennis", Dates: []string{"2024-06-01", "2024-06-02"}, TimeBucket: "Morning", Location: "ALL"}

	runID := RunCheck(context.Background(), store, source, req, zerolog.Nop())

	if gotCategory != "Tennis" {
		t.Fatalf("source category = %q, want Tennis", gotCategory)
	}
	snap := store.Snapshot()
	if snap.RunID != runID || runID == "" {
		t.Fatalf("RunID = %q, want %q", snap.RunID, runID)
	}
	if snap.Running || snap.LastError != nil {
		t.Fatalf("snapshot = %+v, want finished without error", snap)
	}
	if snap.Total != 2 || snap.Done() != 2 || snap.SlotCount() != 1 {
		t.Fatalf("Total/Done/SlotCount = %d/%d/%d, want 2/2/1", snap.Total, snap.Done(), snap.SlotCount())
	}
}

func TestRunCheck_CancelledRecordsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := &state.Store{}
	source := func(string) sportcenter.Fetcher { return &fakeFetcher{} }

	RunCheck(ctx, store, source, Request{Dates: []string{"2024-06-01"}}, zerolog.Nop())

	snap := store.Snapshot()
	if snap.Running || snap.LastError == nil || snap.Done() != 0 {
		t.Fatalf("snapshot = %+v, want stopped with error and no days", snap)
	}
}
