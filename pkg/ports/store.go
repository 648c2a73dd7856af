package ports

import (
	"context"

	"github.com/aretw0/motion/pkg/domain"
)

// FrameStore persists the last rendered frame of every session.
type FrameStore interface {
	// Save persists the frame under its session ID.
	Save(ctx context.Context, frame *domain.Frame) error

	// Load retrieves the frame for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Frame, error)

	// Delete removes the frame for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
