package content

import "github.com/aretw0/motion/pkg/transition"

const (
	// ContainerClass marks the element that wraps every content slot.
	ContainerClass = "animated-content"
	// ItemClass is passed to the visibility machine of every slot.
	ItemClass = "animated-content-item"
)

// Case is what a Switch returns for one state: the content to render and
// optional transitions overriding the shared ones.
type Case struct {
	Content string
	Enter   transition.Enter
	Exit    transition.Exit
}

// StateChange describes the change a slot takes part in: from Source (the
// next older slot, if any) to Target.
type StateChange[S comparable] struct {
	Source          S
	IsSourcePresent bool
	Target          S
}

// SourceEquals reports whether a source is present and equal to s.
func (c StateChange[S]) SourceEquals(s S) bool {
	return c.IsSourcePresent && c.Source == s
}

// SourceOrDefault returns the source, or fallback when there is none.
func (c StateChange[S]) SourceOrDefault(fallback S) S {
	if !c.IsSourcePresent {
		return fallback
	}
	return c.Source
}

// InterstateTransitions is returned by a transitions provider for one
// state change. Unassigned fields fall back to the case and then to the
// shared transitions.
type InterstateTransitions struct {
	TargetEnter transition.Enter
	SourceExit  transition.Exit
}

// Config holds the settings fixed for the lifetime of a Tracker.
type Config struct {
	// NewStateOnTop renders the target after the past states.
	NewStateOnTop bool

	// StartWithTransition animates the very first target.
	StartWithTransition bool

	// PreserveHiddenElements keeps hidden past slots rendered and reuses
	// them when their state becomes the target again.
	PreserveHiddenElements bool

	// ReassignTransitionsOnEachUpdate disables the transition cache.
	ReassignTransitionsOnEachUpdate bool

	// DefaultEnter and DefaultExit configure every slot machine.
	DefaultEnter transition.Enter
	DefaultExit  transition.Exit
}

// Params are the inputs of one update.
type Params[S comparable] struct {
	Target S

	// Switch maps a state to its content and transition overrides.
	// ChildContent is used when Switch is nil.
	Switch       func(S) Case
	ChildContent func(S) string

	TransitionsProvider func(StateChange[S]) InterstateTransitions

	SharedEnter transition.Enter
	SharedExit  transition.Exit

	Class string
	Style string

	// KeepContentInBounds adds "min-height: 0;" to every slot.
	KeepContentInBounds bool

	OnTargetStateAppearing func(S)
	OnTargetStateAppeared  func(S)
}

func (p Params[S]) hasContentSource() bool {
	return p.Switch != nil || p.ChildContent != nil
}

func (p Params[S]) caseOf(s S) Case {
	if p.Switch != nil {
		return p.Switch(s)
	}
	return Case{Content: p.ChildContent(s)}
}
