// Package memory provides an in-process ports.FrameStore.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/ports"
)

// Store implements ports.FrameStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Frame
	mu   sync.RWMutex
}

var _ ports.FrameStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Frame),
	}
}

// Save keeps a copy of the frame.
func (s *Store) Save(ctx context.Context, frame *domain.Frame) error {
	if frame == nil || frame.SessionID == "" {
		return fmt.Errorf("save frame: missing session id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[frame.SessionID] = frame.Clone()
	return nil
}

// Load returns a copy so callers cannot mutate the stored frame.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	frame, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return frame.Clone(), nil
}

// Delete removes the frame.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns the stored session IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
