// Package timer provides a reaction-time stopwatch.
package timer

import "time"

// ReactionTimer measures one open interval at a time.
type ReactionTimer struct {
	now func() time.Time

	running   bool
	paused    bool
	startedAt time.Time
	pausedAt  time.Time
	suspended time.Duration
}

// New returns a ReactionTimer using the wall clock.
func New() *ReactionTimer {
	return NewWithClock(time.Now)
}

// NewWithClock returns a ReactionTimer that reads time from now.
func NewWithClock(now func() time.Time) *ReactionTimer {
	if now == nil {
		now = time.Now
	}
	return &ReactionTimer{now: now}
}

// Start opens a new interval, replacing any interval already open.
func (t *ReactionTimer) Start() {
	t.running = true
	t.paused = false
	t.startedAt = t.now()
	t.pausedAt = time.Time{}
	t.suspended = 0
}

// Stop closes the interval and returns its length in whole milliseconds,
// excluding time spent paused. Without an open interval it returns 0.
func (t *ReactionTimer) Stop() int64 {
	if !t.running {
		return 0
	}
	end := t.now()
	if t.paused {
		end = t.pausedAt
	}
	elapsed := end.Sub(t.startedAt) - t.suspended
	t.running = false
	t.paused = false
	t.suspended = 0
	if elapsed < 0 {
		return 0
	}
	return elapsed.Milliseconds()
}

// Pause suspends the open interval. No-op when nothing is running.
func (t *ReactionTimer) Pause() {
	if !t.running || t.paused {
		return
	}
	t.paused = true
	t.pausedAt = t.now()
}

// Resume continues a paused interval.
func (t *ReactionTimer) Resume() {
	if !t.running || !t.paused {
		return
	}
	t.suspended += t.now().Sub(t.pausedAt)
	t.paused = false
	t.pausedAt = time.Time{}
}

// Running reports whether an interval is open.
func (t *ReactionTimer) Running() bool {
	return t.running
}
