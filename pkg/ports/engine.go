package ports

import (
	"context"

	"github.com/aretw0/motion/pkg/domain"
)

// VisibilityRequest opens a session driving one visibility machine.
type VisibilityRequest struct {
	Visible                 bool   `json:"visible"`
	StartWithTransition     bool   `json:"start_with_transition"`
	RemoveFromDOMWhenHidden bool   `json:"remove_from_dom_when_hidden"`
	DisappearWhenHidden     bool   `json:"disappear_when_hidden"`
	Enter                   string `json:"enter,omitempty"`
	Exit                    string `json:"exit,omitempty"`
	Class                   string `json:"class,omitempty"`
	Style                   string `json:"style,omitempty"`
}

// ContentRequest opens a session driving one content tracker over string states.
type ContentRequest struct {
	Target                          string `json:"target"`
	NewStateOnTop                   bool   `json:"new_state_on_top"`
	StartWithTransition             bool   `json:"start_with_transition"`
	PreserveHiddenElements          bool   `json:"preserve_hidden_elements"`
	ReassignTransitionsOnEachUpdate bool   `json:"reassign_transitions_on_each_update"`
	KeepContentInBounds             bool   `json:"keep_content_in_bounds"`
	SharedEnter                     string `json:"shared_enter,omitempty"`
	SharedExit                      string `json:"shared_exit,omitempty"`
	Class                           string `json:"class,omitempty"`
	Style                           string `json:"style,omitempty"`
}

// SessionEngine is the surface that adapters (HTTP, MCP) drive.
// Transition names refer to entries of the loaded library; empty names keep
// the current transition.
type SessionEngine interface {
	OpenVisibility(ctx context.Context, sessionID string, req VisibilityRequest) (*domain.Frame, error)
	SetVisible(ctx context.Context, sessionID string, visible bool, enter, exit string) (*domain.Frame, error)
	OpenContent(ctx context.Context, sessionID string, req ContentRequest) (*domain.Frame, error)
	SetTarget(ctx context.Context, sessionID, target, enter, exit string) (*domain.Frame, error)
	Frame(ctx context.Context, sessionID string) (*domain.Frame, error)
	Sessions(ctx context.Context) ([]string, error)
	Close(ctx context.Context, sessionID string) error

	// Watch streams the difference between consecutive frames of a session
	// until ctx is done, including frames produced by timers.
	Watch(ctx context.Context, sessionID string) (<-chan domain.FrameDiff, error)
}
