// Package debounce coalesces bursts of triggers into a single deferred
// action. The appliance uses two instances: a short one in front of the
// hardware codec volume write and a longer one in front of settings
// persistence, so slider drags cost one write instead of dozens.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the latest submitted action once the trigger burst has
// been quiet for the configured window.
type Debouncer struct {
	window time.Duration

	mu      sync.Mutex
	pending func()
	timer   *time.Timer
	stopped bool
}

func New(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Trigger records fn as the pending action and restarts the quiet window.
// Only the most recent fn survives a burst.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending = fn

	// Reset the timer
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Flush cancels the timer and runs any pending action synchronously.
// Used before shutdown so a staged write is not lost.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop prevents any further actions from firing.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
}
