package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/courtcheck/internal/slots"
)

func TestStore_BeginAddDayAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Begin("run-1", 2)
	s.AddDay("run-1", slots.Day{
		Date:     "2024-06-01",
		Slots:    []slots.Slot{{Date: "2024-06-01", Time: "08-10"}},
		Failures: map[string]string{"XYSC": "boom"},
	})

	snap := s.Snapshot()
	if snap.RunID != "run-1" || snap.Total != 2 || !snap.Running {
		t.Fatalf("snapshot = %+v, want run-1 running with total 2", snap)
	}
	if snap.Done() != 1 || snap.SlotCount() != 1 {
		t.Fatalf("Done/SlotCount = %d/%d, want 1/1", snap.Done(), snap.SlotCount())
	}
	if snap.StartedAt.Before(before) || snap.LastUpdated.Before(before) {
		t.Fatalf("timestamps = %v/%v, want >= %v", snap.StartedAt, snap.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Days[0].Slots[0].Time = "99-99"
	snap.Days[0].Failures["XYSC"] = "changed"
	snap2 := s.Snapshot()
	if snap2.Days[0].Slots[0].Time != "08-10" {
		t.Fatalf("Snapshot should clone slots; got %q want 08-10", snap2.Days[0].Slots[0].Time)
	}
	if snap2.Days[0].Failures["XYSC"] != "boom" {
		t.Fatalf("Snapshot should clone failures; got %q want boom", snap2.Days[0].Failures["XYSC"])
	}
}

func TestStore_FinishKeepsDaysAndClonesError(t *testing.T) {
	var s Store

	s.Begin("run-1", 3)
	s.AddDay("run-1", slots.Day{Date: "2024-06-01"})
	origErr := errors.New("interrupted")
	s.Finish("run-1", origErr)

	snap := s.Snapshot()
	if snap.Running {
		t.Fatalf("Running = true after Finish, want false")
	}
	if snap.Done() != 1 {
		t.Fatalf("Done = %d, want 1", snap.Done())
	}
	if snap.LastError == nil || snap.LastError.Error() != "interrupted" {
		t.Fatalf("LastError = %v, want interrupted", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_IgnoresSupersededRun(t *testing.T) {
	var s Store

	s.Begin("old", 1)
	s.Begin("new", 2)
	s.AddDay("old", slots.Day{Date: "2024-06-01"})
	s.Finish("old", nil)

	snap := s.Snapshot()
	if snap.RunID != "new" || snap.Done() != 0 || !snap.Running {
		t.Fatalf("snapshot = %+v, want untouched new run", snap)
	}
}

func TestStore_BeginResetsPreviousResults(t *testing.T) {
	var s Store

	s.Begin("run-1", 1)
	s.AddDay("run-1", slots.Day{Date: "2024-06-01"})
	s.Finish("run-1", errors.New("boom"))

	s.Begin("run-2", 1)
	snap := s.Snapshot()
	if snap.Done() != 0 || snap.LastError != nil {
		t.Fatalf("snapshot = %+v, want cleared days and error", snap)
	}
}
