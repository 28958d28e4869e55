// Package debounce coalesces rapid per-record edits into a single durable
// write. Each record gets at most one pending timer; a new edit to the
// same record cancels and reschedules its timer, while edits to other
// records are independent. The persist callback is a read-through: it runs
// against the record's current state at fire time, never against a
// snapshot captured when the timer was scheduled.
package debounce

import (
	"sync"
	"time"
)

// PersistFunc persists the current state of the record with the given id.
type PersistFunc func(id string)

// Debouncer schedules deferred persists keyed by record id.
type Debouncer struct {
	window  time.Duration
	persist PersistFunc

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New returns a Debouncer that waits window after the last Schedule call
// for a given id before invoking persist for it.
func New(window time.Duration, persist PersistFunc) *Debouncer {
	return &Debouncer{
		window:  window,
		persist: persist,
		timers:  make(map[string]*time.Timer),
	}
}

// Schedule (re)arms the timer for id. Any pending persist for the same id
// is cancelled first, so a burst of edits produces exactly one write.
func (d *Debouncer) Schedule(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[id]; ok {
		t.Stop()
	}
	d.timers[id] = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		delete(d.timers, id)
		d.mu.Unlock()
		d.persist(id)
	})
}

// Cancel drops any pending persist for id without firing it. Used when the
// record was just persisted through the immediate path.
func (d *Debouncer) Cancel(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[id]; ok {
		t.Stop()
		delete(d.timers, id)
	}
}

// Flush fires every pending persist now, synchronously, and clears the
// timer map. Called on shutdown so the last edit of a session is never
// lost to a still-pending window.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	ids := make([]string, 0, len(d.timers))
	for id, t := range d.timers {
		t.Stop()
		ids = append(ids, id)
	}
	d.timers = make(map[string]*time.Timer)
	d.mu.Unlock()

	for _, id := range ids {
		d.persist(id)
	}
}

// Pending reports whether id currently has a scheduled persist.
func (d *Debouncer) Pending(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.timers[id]
	return ok
}
