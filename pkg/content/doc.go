// Package content animates between the states of a discriminator value.
//
// A Tracker keeps one slot for the current target state and one slot per
// past state that is still animating out, or kept hidden when
// PreserveHiddenElements is set. Each slot is driven by a visibility
// machine: the target is visible, past states are not.
//
// Transitions are resolved per slot, newest first, from the
// TransitionsProvider, then the Case returned by Switch, then the shared
// transitions. Once resolved they are cached until the slot is reused.
package content
