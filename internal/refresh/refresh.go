// Package refresh coordinates list reloads triggered by typing users.
//
// A Debouncer coalesces a burst of triggers into one reload after a quiet
// period. A Guard hands out a generation per started reload and accepts only
// the latest one, so a slow early response can not overwrite the result of a
// later request.
package refresh

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period applied to search boxes.
const DefaultDelay = 450 * time.Millisecond

// Debouncer runs a callback once per burst of triggers.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer returns a debouncer with the given quiet period. A zero
// delay falls back to DefaultDelay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}

	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet period, cancelling any previously
// scheduled callback.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Guard orders reload completions per control: only the most recently
// started reload may publish its result.
type Guard struct {
	mu  sync.Mutex
	gen uint64
}

// Begin marks the start of a reload and returns its generation.
func (g *Guard) Begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gen++

	return g.gen
}

// Keep reports whether a reload started with gen is still the latest and
// may publish its result.
func (g *Guard) Keep(gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return gen == g.gen
}
