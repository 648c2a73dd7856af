// Package loop provides the single goroutine that owns every state machine
// of a host. Timer callbacks and API calls are funneled through it so the
// machines never need locks.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/motion/internal/logging"
	"github.com/aretw0/motion/pkg/ports"
)

// ErrStopped is returned by Do once the loop has stopped.
var ErrStopped = errors.New("event loop stopped")

// Loop executes queued functions one at a time, in order.
type Loop struct {
	queue  chan func()
	done   chan struct{}
	logger *slog.Logger

	stopOnce sync.Once
}

var _ ports.Dispatcher = (*Loop)(nil)

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used to report recovered panics.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) { lp.logger = l }
}

// WithQueueSize sets the capacity of the pending-work queue.
func WithQueueSize(n int) Option {
	return func(lp *Loop) { lp.queue = make(chan func(), n) }
}

// New creates a loop. It does nothing until Run is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		queue:  make(chan func(), 256),
		done:   make(chan struct{}),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes queued work until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopOnce.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("panic in event loop", "panic", r)
		}
	}()
	fn()
}

// Dispatch queues fn without waiting. Work queued after the loop stopped is dropped.
func (l *Loop) Dispatch(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
		l.logger.Debug("dispatch after stop dropped")
	}
}

// Do queues fn and waits for it to return. A panic inside fn is returned as
// an error.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	work := func() {
		defer func() {
			if r := recover(); r != nil {
				if err, ok := r.(error); ok {
					result <- err
					return
				}
				result <- errors.New("panic in event loop: " + formatPanic(r))
			}
		}()
		result <- fn()
	}

	select {
	case l.queue <- work:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func formatPanic(r any) string {
	if s, ok := r.(string); ok {
		return s
	}
	return slog.AnyValue(r).String()
}
