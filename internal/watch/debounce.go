// Package watch re-runs filtering passes when the selected folder changes.
package watch

import (
	"sync"
	"time"
)

// Debouncer collects change events and reports the last one once the
// window passes without a new event. If any event in the burst touched a
// pattern file, the reported event is marked as a pattern-file change.
type Debouncer struct {
	window   time.Duration
	callback func(ChangeEvent)

	mu      sync.Mutex
	timer   *time.Timer
	pending *ChangeEvent
	stopped bool
}

// NewDebouncer creates a debouncer that calls callback after window of quiet
func NewDebouncer(window time.Duration, callback func(ChangeEvent)) *Debouncer {
	return &Debouncer{
		window:   window,
		callback: callback,
	}
}

// Add records ev and restarts the window
func (d *Debouncer) Add(ev ChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.pending != nil && d.pending.IsPatternFile {
		ev.IsPatternFile = true
	}
	d.pending = &ev

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	ev := d.pending
	d.pending = nil
	stopped := d.stopped
	d.mu.Unlock()

	if ev == nil || stopped || d.callback == nil {
		return
	}
	d.callback(*ev)
}

// Stop drops any pending event; later calls to Add are ignored
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
}
