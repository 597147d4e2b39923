package cache

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of updates into one delivery: fn receives only
// the latest value, once no new update has arrived for the configured delay.
// It is the input side of search-as-you-type, where firing a fetch per
// keystroke would waste the coalescing the store provides.
//
// A Debouncer is safe for concurrent use.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	latest  T
	waiting bool
	stopped bool
	// seq names the latest update. A timer carries the seq current when it
	// was armed and delivers only if no newer update arrived meanwhile.
	seq uint64
}

// NewDebouncer returns a debouncer delivering to fn after delay of quiet.
func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if fn == nil {
		panic("cache: debouncer requires a delivery function")
	}
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Update records a new value and restarts the quiet period. Values superseded
// before the delay elapses are never delivered.
func (d *Debouncer[T]) Update(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.latest = value
	d.waiting = true
	d.seq++
	token := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(token) })
}

// fire delivers the pending value, unless a newer update superseded the timer
// that scheduled it. A superseded timer may have expired before Update could
// Stop it; its token no longer matches and it delivers nothing.
func (d *Debouncer[T]) fire(token uint64) {
	d.mu.Lock()
	if d.stopped || !d.waiting || token != d.seq {
		d.mu.Unlock()
		return
	}
	value := d.latest
	d.waiting = false
	var zero T
	d.latest = zero
	d.mu.Unlock()

	d.fn(value)
}

// Flush delivers the pending value immediately, if there is one. Submitting a
// search form should not wait out the quiet period.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.stopped || !d.waiting {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	value := d.latest
	d.waiting = false
	var zero T
	d.latest = zero
	d.mu.Unlock()

	d.fn(value)
}

// Stop discards any pending value and prevents all future delivery.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.waiting = false
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Pending reports whether a value is waiting out the quiet period.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.waiting
}
