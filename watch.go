package motion

import (
	"context"

	"github.com/aretw0/motion/pkg/domain"
)

// Watch streams the diff of every frame a session renders, starting with
// the whole current frame. The channel is closed when ctx is done or the
// session is closed. Diffs are dropped for a watcher that falls behind.
func (e *Engine) Watch(ctx context.Context, sessionID string) (<-chan domain.FrameDiff, error) {
	ch := make(chan domain.FrameDiff, watchBuffer)
	done := make(chan struct{})
	err := e.loop.Do(ctx, func() error {
		s, err := e.liveSession(sessionID)
		if err != nil {
			return err
		}
		if initial := domain.Diff(nil, s.last); initial != nil {
			ch <- *initial
		}
		e.watchMu.Lock()
		defer e.watchMu.Unlock()
		set, ok := e.watchers[sessionID]
		if !ok {
			set = make(map[chan domain.FrameDiff]chan struct{})
			e.watchers[sessionID] = set
		}
		set[ch] = done
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.watching.Add(1)
	go func() {
		defer e.watching.Done()
		select {
		case <-ctx.Done():
			e.unwatch(sessionID, ch)
		case <-done:
		}
	}()
	return ch, nil
}

func (e *Engine) broadcast(sessionID string, diff *domain.FrameDiff) {
	if diff == nil {
		return
	}
	e.watchMu.Lock()
	defer e.watchMu.Unlock()
	for ch := range e.watchers[sessionID] {
		select {
		case ch <- *diff:
		default:
			e.logger.Debug("watcher behind, diff dropped", "session_id", sessionID, "revision", diff.Revision)
		}
	}
}

func (e *Engine) unwatch(sessionID string, ch chan domain.FrameDiff) {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()
	set := e.watchers[sessionID]
	done, ok := set[ch]
	if !ok {
		return
	}
	delete(set, ch)
	close(ch)
	close(done)
	if len(set) == 0 {
		delete(e.watchers, sessionID)
	}
}

func (e *Engine) closeWatchers(sessionID string) {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()
	for ch, done := range e.watchers[sessionID] {
		close(ch)
		close(done)
	}
	delete(e.watchers, sessionID)
}
