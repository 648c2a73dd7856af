package motion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/motion/internal/logging"
	"github.com/aretw0/motion/pkg/adapters/flush"
	"github.com/aretw0/motion/pkg/adapters/loop"
	"github.com/aretw0/motion/pkg/adapters/memory"
	"github.com/aretw0/motion/pkg/adapters/timer"
	"github.com/aretw0/motion/pkg/config"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/ports"
	"github.com/aretw0/motion/pkg/session"
	"github.com/aretw0/motion/pkg/transition"
)

// persistTimeout bounds the store write that follows a timer-driven render.
const persistTimeout = 5 * time.Second

// watchBuffer is the number of diffs a slow watcher may fall behind before
// diffs are dropped for it.
const watchBuffer = 32

// Engine hosts animated sessions. Every machine lives on one event loop;
// each render pass is persisted as a domain.Frame.
type Engine struct {
	loop     *loop.Loop
	sessions *session.Manager
	library  *config.Library
	timers   ports.TimerService
	flusher  ports.StyleFlusher
	hooks    domain.Hooks
	logger   *slog.Logger
	now      func() time.Time

	store  ports.FrameStore
	locker ports.DistributedLocker
	inner  ports.TimerService

	// Owned by the loop.
	live    map[string]*liveSession
	pending []*liveSession

	watchMu  sync.Mutex
	watchers map[string]map[chan domain.FrameDiff]chan struct{}
	watching sync.WaitGroup

	persisting sync.WaitGroup
}

var _ ports.SessionEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks, passed to every machine.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStore sets where frames are persisted. Defaults to an in-memory store.
func WithStore(store ports.FrameStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker serializes frame writes across engines sharing a store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLibrary sets the named transitions requests refer to.
// Defaults to config.Default().
func WithLibrary(lib *config.Library) Option {
	return func(e *Engine) {
		e.library = lib
	}
}

// WithTimers replaces the timer service. Callbacks are moved onto the
// engine loop whatever goroutine the service runs them on.
func WithTimers(t ports.TimerService) Option {
	return func(e *Engine) {
		e.inner = t
	}
}

// WithFlusher sets the style flusher. Defaults to flush.Immediate.
func WithFlusher(f ports.StyleFlusher) Option {
	return func(e *Engine) {
		e.flusher = f
	}
}

// New creates an Engine. Nothing runs until Run is called.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:   logging.NewNop(),
		library:  config.Default(),
		flusher:  flush.Immediate{},
		now:      time.Now,
		live:     make(map[string]*liveSession),
		watchers: make(map[string]map[chan domain.FrameDiff]chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}
	if e.inner == nil {
		e.inner = timer.New()
	}

	e.loop = loop.New(loop.WithLogger(e.logger))
	e.timers = &loopTimers{inner: e.inner, engine: e}

	sessionOpts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(e.store, sessionOpts...)
	return e
}

// Library returns the transition library of the engine.
func (e *Engine) Library() *config.Library { return e.library }

// Run processes sessions until ctx is done. Live sessions are disposed
// silently on return and pending writes are awaited.
func (e *Engine) Run(ctx context.Context) error {
	err := e.loop.Run(ctx)

	// The loop has stopped: nothing else touches the live sessions.
	for id, s := range e.live {
		s.closed = true
		s.driver.dispose()
		e.closeWatchers(id)
	}
	e.live = make(map[string]*liveSession)
	e.persisting.Wait()

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// OpenVisibility creates a session driving one visibility machine.
func (e *Engine) OpenVisibility(ctx context.Context, sessionID string, req ports.VisibilityRequest) (*domain.Frame, error) {
	enter, exit, err := e.transitions(req.Enter, req.Exit)
	if err != nil {
		return nil, err
	}
	return e.open(ctx, sessionID, domain.KindVisibility, func(s *liveSession) error {
		e.openVisibility(s, req, enter, exit)
		return nil
	})
}

// OpenContent creates a session driving a content tracker over string states.
func (e *Engine) OpenContent(ctx context.Context, sessionID string, req ports.ContentRequest) (*domain.Frame, error) {
	enter, exit, err := e.transitions(req.SharedEnter, req.SharedExit)
	if err != nil {
		return nil, err
	}
	return e.open(ctx, sessionID, domain.KindContent, func(s *liveSession) error {
		return e.openContent(s, req, enter, exit)
	})
}

func (e *Engine) open(ctx context.Context, sessionID string, kind domain.SessionKind, build func(*liveSession) error) (*domain.Frame, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty", domain.ErrInvalidSessionID)
	}
	placeholder := &domain.Frame{SessionID: sessionID, Kind: kind, UpdatedAt: e.now()}
	if err := e.sessions.Create(ctx, placeholder); err != nil {
		return nil, err
	}

	var frame *domain.Frame
	err := e.loop.Do(ctx, func() error {
		if _, exists := e.live[sessionID]; exists {
			return fmt.Errorf("%w: %s", domain.ErrSessionExists, sessionID)
		}
		s := &liveSession{id: sessionID, kind: kind}
		if err := build(s); err != nil {
			if s.driver != nil {
				s.driver.dispose()
			}
			return err
		}
		e.live[sessionID] = s
		frame = e.renderPass(ctx, s)
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrSessionExists) {
			_ = e.sessions.Delete(context.WithoutCancel(ctx), sessionID)
		}
		return nil, err
	}

	e.logger.Info("session opened", "session_id", sessionID, "kind", kind)
	return frame, e.persist(ctx, frame)
}

// SetVisible changes the visibility of a visibility session. Empty
// transition names keep the current transitions.
func (e *Engine) SetVisible(ctx context.Context, sessionID string, visible bool, enterName, exitName string) (*domain.Frame, error) {
	enter, exit, err := e.transitions(enterName, exitName)
	if err != nil {
		return nil, err
	}
	return e.mutate(ctx, sessionID, func(s *liveSession) error {
		d, err := e.visibilityOf(s)
		if err != nil {
			return err
		}
		d.apply(visible, enter, exit)
		return nil
	})
}

// SetTarget moves a content session to target. Non-empty transition names
// become the enter and exit of that state.
func (e *Engine) SetTarget(ctx context.Context, sessionID, target, enterName, exitName string) (*domain.Frame, error) {
	enter, exit, err := e.transitions(enterName, exitName)
	if err != nil {
		return nil, err
	}
	return e.mutate(ctx, sessionID, func(s *liveSession) error {
		d, err := e.contentOf(s)
		if err != nil {
			return err
		}
		return d.apply(target, enter, exit)
	})
}

func (e *Engine) mutate(ctx context.Context, sessionID string, apply func(*liveSession) error) (*domain.Frame, error) {
	var frame *domain.Frame
	err := e.loop.Do(ctx, func() error {
		s, err := e.liveSession(sessionID)
		if err != nil {
			return err
		}
		if err := apply(s); err != nil {
			return err
		}
		frame = e.renderPass(ctx, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return frame, e.persist(ctx, frame)
}

// Frame returns the last frame of a session. Sessions hosted by another
// engine are read from the store.
func (e *Engine) Frame(ctx context.Context, sessionID string) (*domain.Frame, error) {
	var frame *domain.Frame
	err := e.loop.Do(ctx, func() error {
		if s, ok := e.live[sessionID]; ok {
			frame = s.last.Clone()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if frame != nil {
		return frame, nil
	}
	return e.sessions.Load(ctx, sessionID)
}

// Sessions lists every stored session.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Close disposes a session silently and deletes its frame.
func (e *Engine) Close(ctx context.Context, sessionID string) error {
	live := false
	err := e.loop.Do(ctx, func() error {
		s, ok := e.live[sessionID]
		if !ok {
			return nil
		}
		live = true
		s.closed = true
		s.driver.dispose()
		delete(e.live, sessionID)
		e.closeWatchers(sessionID)
		return nil
	})
	if err != nil {
		return err
	}
	if !live {
		if _, err := e.sessions.Load(ctx, sessionID); err != nil {
			return err
		}
	}
	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	e.logger.Info("session closed", "session_id", sessionID)
	return nil
}

func (e *Engine) liveSession(sessionID string) (*liveSession, error) {
	s, ok := e.live[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return s, nil
}

func (e *Engine) transitions(enterName, exitName string) (transition.Enter, transition.Exit, error) {
	enter, err := e.library.Enter(enterName)
	if err != nil {
		return transition.Enter{}, transition.Exit{}, err
	}
	exit, err := e.library.Exit(exitName)
	if err != nil {
		return transition.Enter{}, transition.Exit{}, err
	}
	return enter, exit, nil
}

// requestRender returns the render request of s. Requests made outside a
// render pass are served by renderDirty.
func (e *Engine) requestRender(s *liveSession) func() {
	return func() {
		if s.closed {
			return
		}
		s.dirty = true
		if !s.inPass && !s.queued {
			s.queued = true
			e.pending = append(e.pending, s)
		}
	}
}

// renderPass renders s until no machine asks for another render, and
// returns the final frame. Runs on the loop.
func (e *Engine) renderPass(ctx context.Context, s *liveSession) *domain.Frame {
	s.inPass = true
	defer func() { s.inPass = false }()

	for i := 0; ; i++ {
		if i == maxPasses {
			e.logger.Warn("render pass did not settle", "session_id", s.id, "passes", maxPasses)
			break
		}
		s.dirty = false
		e.commit(s)
		if err := s.driver.afterRender(ctx); err != nil {
			e.logger.Warn("after render failed", "session_id", s.id, "err", err)
		}
		if !s.dirty {
			break
		}
	}
	return s.last.Clone()
}

// commit renders s and publishes the frame when it differs from the last one.
func (e *Engine) commit(s *liveSession) {
	class, style, elements, markup := s.driver.render()
	frame := &domain.Frame{
		SessionID: s.id,
		Kind:      s.kind,
		Revision:  s.revision + 1,
		Class:     class,
		Style:     style,
		Elements:  elements,
		Markup:    markup,
		UpdatedAt: e.now(),
	}
	diff := domain.Diff(s.last, frame)
	if diff == nil && s.last != nil {
		return
	}
	s.revision = frame.Revision
	s.last = frame
	e.broadcast(s.id, diff)
}

// renderDirty renders the sessions whose machines asked for it, typically
// from a timer callback, and persists the results in the background.
func (e *Engine) renderDirty() {
	pending := e.pending
	e.pending = nil
	for _, s := range pending {
		s.queued = false
		if s.closed || !s.dirty {
			continue
		}
		frame := e.renderPass(context.Background(), s)
		e.persistAsync(frame)
	}
}

func (e *Engine) persist(ctx context.Context, frame *domain.Frame) error {
	if _, err := e.sessions.Update(ctx, frame); err != nil {
		return fmt.Errorf("failed to persist frame: %w", err)
	}
	return nil
}

func (e *Engine) persistAsync(frame *domain.Frame) {
	e.persisting.Add(1)
	go func() {
		defer e.persisting.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := e.persist(ctx, frame); err != nil {
			e.logger.Warn("background persist failed", "session_id", frame.SessionID, "revision", frame.Revision, "err", err)
		}
	}()
}
