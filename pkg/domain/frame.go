package domain

import "time"

// SessionKind identifies what drives a session.
type SessionKind string

const (
	KindVisibility SessionKind = "visibility"
	KindContent    SessionKind = "content"
)

// ElementFrame is the rendered snapshot of one animated element.
type ElementFrame struct {
	// Key is the stable render identity of the element (content slots only).
	Key int `json:"key"`

	// Label names the content state the element belongs to, if any.
	Label string `json:"label,omitempty"`

	State VisibilityState `json:"state"`

	// Rendered is false when the element is removed from the DOM.
	Rendered bool `json:"rendered"`

	// Disappeared marks an element kept in the DOM with display:none.
	Disappeared bool `json:"disappeared,omitempty"`

	Class string `json:"class"`
	Style string `json:"style"`
}

// Frame is the snapshot of a whole session after a render pass.
type Frame struct {
	SessionID string         `json:"session_id"`
	Kind      SessionKind    `json:"kind"`
	Revision  int64          `json:"revision"`
	Class     string         `json:"class,omitempty"`
	Style     string         `json:"style,omitempty"`
	Elements  []ElementFrame `json:"elements"`
	Markup    string         `json:"markup"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	c := *f
	c.Elements = append([]ElementFrame(nil), f.Elements...)
	return &c
}
