package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collects changed paths and calls its callback once no new
// change has arrived for the debounce interval. Callbacks never overlap.
type Debouncer struct {
	interval time.Duration
	callback func([]string)

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	stopped bool

	// run serializes callbacks
	run sync.Mutex
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration, callback func([]string)) *Debouncer {
	return &Debouncer{
		interval: interval,
		callback: callback,
		pending:  make(map[string]struct{}),
	}
}

// Trigger records a change and restarts the quiet period.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	changed := make([]string, 0, len(d.pending))
	for path := range d.pending {
		changed = append(changed, path)
	}
	d.pending = make(map[string]struct{})
	d.mu.Unlock()

	sort.Strings(changed)
	d.callback(changed)
}

// Stop cancels any pending callback. It waits for a running callback to
// finish.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.mu.Unlock()

	// Wait for a callback already in progress.
	d.run.Lock()
	d.run.Unlock() //nolint:staticcheck
}
