package ports

import "context"

// ElementRef identifies a rendered element in the host.
type ElementRef string

// StyleFlusher forces the host to apply pending styles.
//
// Rendering two style states back to back lets the browser coalesce them
// into one paint, which skips the transition. Callers await EnsureStylesWereApplied
// between the initial and the finish style.
type StyleFlusher interface {
	EnsureStylesWereApplied(ctx context.Context, ref ElementRef) error
}
