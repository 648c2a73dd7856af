// Package timer implements ports.TimerService on top of time.AfterFunc.
package timer

import (
	"sync/atomic"
	"time"

	"github.com/aretw0/motion/pkg/ports"
)

// Service starts real timers. When a dispatcher is set, callbacks are handed
// to it instead of running on the timer goroutine.
type Service struct {
	dispatcher ports.Dispatcher
}

var _ ports.TimerService = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithDispatcher routes callbacks through d.
func WithDispatcher(d ports.Dispatcher) Option {
	return func(s *Service) { s.dispatcher = d }
}

// New creates a timer service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type registration struct {
	timer   *time.Timer
	aborted atomic.Bool
}

// Abort stops the timer. A callback already handed to the dispatcher checks
// the flag and returns without running.
func (r *registration) Abort() {
	if r.aborted.Swap(true) {
		return
	}
	r.timer.Stop()
}

// StartNew implements ports.TimerService.
func (s *Service) StartNew(d time.Duration, fn func(), _ any, previous ports.Registration) ports.Registration {
	if previous != nil {
		previous.Abort()
	}
	if d <= 0 {
		fn()
		return nil
	}

	r := &registration{}
	r.timer = time.AfterFunc(d, func() {
		if r.aborted.Load() {
			return
		}
		if s.dispatcher == nil {
			fn()
			return
		}
		s.dispatcher.Dispatch(func() {
			if r.aborted.Load() {
				return
			}
			fn()
		})
	})
	return r
}
