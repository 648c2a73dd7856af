// Package testutils provides deterministic fakes of the runtime ports.
package testutils

import (
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/motion/pkg/ports"
)

// FakeTimer is a timer registered with FakeTimers.
type FakeTimer struct {
	ID       int
	Duration time.Duration
	Owner    any

	fn      func()
	aborted bool
	fired   bool
	parent  *FakeTimers
}

// Abort implements ports.Registration.
func (t *FakeTimer) Abort() {
	t.parent.mu.Lock()
	defer t.parent.mu.Unlock()
	if t.aborted || t.fired {
		return
	}
	t.aborted = true
	t.parent.events = append(t.parent.events, fmt.Sprintf("abort:%d", t.ID))
}

// Aborted reports whether Abort was called before the timer fired.
func (t *FakeTimer) Aborted() bool {
	t.parent.mu.Lock()
	defer t.parent.mu.Unlock()
	return t.aborted
}

// FakeTimers is a ports.TimerService whose timers only fire when the test
// says so. Non-positive durations run synchronously, as with the real service.
type FakeTimers struct {
	mu     sync.Mutex
	timers []*FakeTimer
	events []string
}

var _ ports.TimerService = (*FakeTimers)(nil)

// NewFakeTimers creates an empty fake.
func NewFakeTimers() *FakeTimers {
	return &FakeTimers{}
}

// StartNew implements ports.TimerService.
func (f *FakeTimers) StartNew(d time.Duration, fn func(), owner any, previous ports.Registration) ports.Registration {
	if previous != nil {
		previous.Abort()
	}
	if d <= 0 {
		f.mu.Lock()
		f.events = append(f.events, "inline")
		f.mu.Unlock()
		fn()
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	t := &FakeTimer{ID: len(f.timers), Duration: d, Owner: owner, fn: fn, parent: f}
	f.timers = append(f.timers, t)
	f.events = append(f.events, fmt.Sprintf("start:%d", t.ID))
	return t
}

// Timers returns every timer registered so far, in order.
func (f *FakeTimers) Timers() []*FakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeTimer(nil), f.timers...)
}

// Pending returns the timers that neither fired nor were aborted.
func (f *FakeTimers) Pending() []*FakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*FakeTimer
	for _, t := range f.timers {
		if !t.aborted && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// Last returns the most recently registered timer, or nil.
func (f *FakeTimers) Last() *FakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.timers) == 0 {
		return nil
	}
	return f.timers[len(f.timers)-1]
}

// Events returns the log of "start:N", "abort:N", "fire:N" and "inline" entries.
func (f *FakeTimers) Events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

// Fire runs the callback of t unless it was aborted or already fired.
// It reports whether the callback ran.
func (f *FakeTimers) Fire(t *FakeTimer) bool {
	f.mu.Lock()
	if t.aborted || t.fired {
		f.mu.Unlock()
		return false
	}
	t.fired = true
	f.events = append(f.events, fmt.Sprintf("fire:%d", t.ID))
	f.mu.Unlock()

	t.fn()
	return true
}

// FireAll fires pending timers until none is left, including timers started
// by the callbacks themselves. It returns how many callbacks ran.
func (f *FakeTimers) FireAll() int {
	n := 0
	for {
		pending := f.Pending()
		if len(pending) == 0 {
			return n
		}
		for _, t := range pending {
			if f.Fire(t) {
				n++
			}
		}
	}
}

// ForceFire runs the callback of t even when it was aborted, simulating a
// stale timer that was already queued.
func (f *FakeTimers) ForceFire(t *FakeTimer) {
	f.mu.Lock()
	f.events = append(f.events, fmt.Sprintf("fire:%d", t.ID))
	f.mu.Unlock()
	t.fn()
}
