package motion

import (
	"time"

	"github.com/aretw0/motion/pkg/ports"
)

// loopTimers hands every timer callback to the engine loop and renders the
// sessions it dirtied before the loop takes the next job.
type loopTimers struct {
	inner  ports.TimerService
	engine *Engine
}

var _ ports.TimerService = (*loopTimers)(nil)

func (t *loopTimers) StartNew(d time.Duration, fn func(), owner any, previous ports.Registration) ports.Registration {
	if d <= 0 {
		// Already on the loop: complete inline.
		return t.inner.StartNew(d, fn, owner, previous)
	}
	return t.inner.StartNew(d, func() {
		t.engine.loop.Dispatch(func() {
			fn()
			t.engine.renderDirty()
		})
	}, owner, previous)
}
