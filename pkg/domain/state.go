package domain

import "fmt"

// VisibilityState is the position of an animated element in its
// Hidden → Showing → Shown → Hiding cycle.
type VisibilityState int

const (
	Hidden  VisibilityState = iota // Settled out of view
	Showing                        // Enter transition in flight
	Shown                          // Settled in view
	Hiding                         // Exit transition in flight
)

// String returns the lower-case name of the state.
func (s VisibilityState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Showing:
		return "showing"
	case Shown:
		return "shown"
	case Hiding:
		return "hiding"
	default:
		return fmt.Sprintf("VisibilityState(%d)", int(s))
	}
}

// IsIntermediate reports whether a transition is in flight.
func (s VisibilityState) IsIntermediate() bool {
	return s == Showing || s == Hiding
}

// IsTerminal reports whether the state is settled (Shown or Hidden).
func (s VisibilityState) IsTerminal() bool {
	return s == Shown || s == Hidden
}

// MarshalText encodes the state by name.
func (s VisibilityState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name produced by MarshalText.
func (s *VisibilityState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hidden":
		*s = Hidden
	case "showing":
		*s = Showing
	case "shown":
		*s = Shown
	case "hiding":
		*s = Hiding
	default:
		return &ParseError{Value: string(text), Type: "VisibilityState"}
	}
	return nil
}
