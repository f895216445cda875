package state

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/five82/courtcheck/internal/slots"
)

// Snapshot represents the latest check progress available to the UI.
type Snapshot struct {
	RunID       string
	Days        []slots.Day
	Total       int // dates requested
	Running     bool
	StartedAt   time.Time
	LastUpdated time.Time
	LastError   error
}

// Done returns how many dates have been checked so far.
func (s Snapshot) Done() int {
	return len(s.Days)
}

// SlotCount returns the number of slots found across all checked dates.
func (s Snapshot) SlotCount() int {
	n := 0
	for _, d := range s.Days {
		n += len(d.Slots)
	}
	return n
}

// Store coordinates the check pipeline writing results and the UI reading them.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Begin clears previous results and marks a new run as in progress.
func (s *Store) Begin(runID string, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot = Snapshot{
		RunID:       runID,
		Total:       total,
		Running:     true,
		StartedAt:   now,
		LastUpdated: now,
	}
}

// AddDay appends one date's results. Days from a superseded run are dropped.
func (s *Store) AddDay(runID string, day slots.Day) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID != s.snapshot.RunID {
		return
	}
	s.snapshot.Days = append(s.snapshot.Days, day)
	s.snapshot.LastUpdated = time.Now()
}

// Finish marks the run complete. A non-nil err is kept for display; the days
// gathered so far stay available.
func (s *Store) Finish(runID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID != s.snapshot.RunID {
		return
	}
	s.snapshot.Running = false
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Days = cloneDays(s.snapshot.Days)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneDays(days []slots.Day) []slots.Day {
	if len(days) == 0 {
		return nil
	}
	dup := make([]slots.Day, len(days))
	for i, d := range days {
		dup[i] = slots.Day{
			Date:     d.Date,
			Slots:    append([]slots.Slot(nil), d.Slots...),
			Failures: maps.Clone(d.Failures),
		}
	}
	return dup
}
