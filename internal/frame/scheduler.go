// Package frame provides dirty-flag frame scheduling for widgets.
//
// A Scheduler runs its callback at most once per tick, and only when
// something marked it dirty since the previous run. Any number of
// marks between two ticks coalesce into a single callback invocation,
// decoupling highlight cost from input event frequency. A suspended
// scheduler ignores ticks entirely, so a detached widget consumes no
// scheduling work.
package frame

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval approximates a 60 Hz frame cadence for the ticker
// driver. Embedders with their own frame source call Tick directly.
const DefaultInterval = 16 * time.Millisecond

// Scheduler coalesces dirty marks into single-flight callback runs.
type Scheduler struct {
	mu        sync.Mutex
	callback  func()
	dirty     bool
	suspended bool

	// Stats
	ticks  atomic.Uint64
	passes atomic.Uint64
	marks  atomic.Uint64
}

// NewScheduler creates a suspended scheduler for the given callback.
// Resume starts it; a nil callback makes ticks no-ops.
func NewScheduler(callback func()) *Scheduler {
	return &Scheduler{
		callback:  callback,
		suspended: true,
	}
}

// Mark sets the dirty flag. The next tick runs the callback once,
// regardless of how many marks accumulated.
func (s *Scheduler) Mark() {
	s.marks.Add(1)
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Dirty reports whether a callback run is pending.
func (s *Scheduler) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Suspend stops the scheduler from acting on ticks. The dirty flag is
// preserved, so a mark made while suspended runs on the first tick
// after Resume.
func (s *Scheduler) Suspend() {
	s.mu.Lock()
	s.suspended = true
	s.mu.Unlock()
}

// Resume re-enables tick processing.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	s.suspended = false
	s.mu.Unlock()
}

// Suspended reports whether the scheduler ignores ticks.
func (s *Scheduler) Suspended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suspended
}

// Tick runs the callback if the scheduler is active and dirty. The
// flag clears before the callback runs, so a callback marking the
// scheduler again schedules one further run rather than looping.
func (s *Scheduler) Tick() {
	s.ticks.Add(1)
	s.mu.Lock()
	if s.suspended || !s.dirty || s.callback == nil {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	cb := s.callback
	s.mu.Unlock()

	s.passes.Add(1)
	cb()
}

// Stats reports scheduler counters since creation.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Ticks:  s.ticks.Load(),
		Passes: s.passes.Load(),
		Marks:  s.marks.Load(),
	}
}

// Stats holds scheduler counters.
type Stats struct {
	// Ticks is the number of Tick calls.
	Ticks uint64

	// Passes is the number of callback runs.
	Passes uint64

	// Marks is the number of Mark calls.
	Marks uint64
}

// Run drives the scheduler from a ticker until ctx is cancelled. It is
// the frame source for hosts without their own render loop.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}
