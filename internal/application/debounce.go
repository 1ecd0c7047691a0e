package application

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of calls into a single trailing
// invocation carrying the most recent argument. Typing "john" fires fn
// once with "john", not five times.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Call schedules fn after the delay, cancelling any pending schedule.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fn(arg)
	})
}

// Stop cancels a pending invocation, if any.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
