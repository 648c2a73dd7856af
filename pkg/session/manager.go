package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/motion/internal/logging"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to the persisted frame of each session.
// Unused locks are garbage collected by reference counting.
type Manager struct {
	store ports.FrameStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks. Defaults to DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager on top of store.
func NewManager(store ports.FrameStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load retrieves the last frame of a session.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Frame, error) {
	var frame *domain.Frame
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		frame, err = m.store.Load(ctx, sessionID)
		return err
	})
	return frame, err
}

// Create reserves a session ID by persisting its first frame.
// It fails with domain.ErrSessionExists when the ID is taken.
func (m *Manager) Create(ctx context.Context, frame *domain.Frame) error {
	return m.WithLock(ctx, frame.SessionID, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, frame.SessionID)
		if err == nil {
			return fmt.Errorf("%w: %s", domain.ErrSessionExists, frame.SessionID)
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}
		if err := m.store.Save(ctx, frame); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
}

// Save persists a frame unless a newer revision is already stored.
// It reports whether the frame was written.
func (m *Manager) Save(ctx context.Context, frame *domain.Frame) (bool, error) {
	return m.save(ctx, frame, true)
}

// Update is like Save but never recreates a deleted session: a frame for a
// missing session is dropped.
func (m *Manager) Update(ctx context.Context, frame *domain.Frame) (bool, error) {
	return m.save(ctx, frame, false)
}

func (m *Manager) save(ctx context.Context, frame *domain.Frame, create bool) (bool, error) {
	written := false
	err := m.WithLock(ctx, frame.SessionID, func(ctx context.Context) error {
		current, err := m.store.Load(ctx, frame.SessionID)
		switch {
		case err == nil:
			if current.Revision > frame.Revision {
				m.logger.Debug("stale frame skipped", "session_id", frame.SessionID,
					"stored", current.Revision, "revision", frame.Revision)
				return nil
			}
		case errors.Is(err, domain.ErrSessionNotFound):
			if !create {
				m.logger.Debug("frame of deleted session dropped", "session_id", frame.SessionID)
				return nil
			}
		default:
			return fmt.Errorf("failed to load current frame: %w", err)
		}
		if err := m.store.Save(ctx, frame); err != nil {
			return err
		}
		written = true
		return nil
	})
	return written, err
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying frame store.
func (m *Manager) Store() ports.FrameStore {
	return m.store
}

// WithLock executes fn while holding the local and, if configured, the
// distributed lock of the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
