// Package flush provides ports.StyleFlusher implementations for hosts that
// have no browser to synchronize with, or that supply their own hook.
package flush

import (
	"context"

	"github.com/aretw0/motion/pkg/ports"
)

// Immediate reports every style as applied. It suits headless hosts whose
// frames are consumed after each render pass.
type Immediate struct{}

// EnsureStylesWereApplied implements ports.StyleFlusher.
func (Immediate) EnsureStylesWereApplied(ctx context.Context, _ ports.ElementRef) error {
	return ctx.Err()
}

// Func adapts a function to ports.StyleFlusher.
type Func func(ctx context.Context, ref ports.ElementRef) error

// EnsureStylesWereApplied calls f.
func (f Func) EnsureStylesWereApplied(ctx context.Context, ref ports.ElementRef) error {
	return f(ctx, ref)
}

var (
	_ ports.StyleFlusher = Immediate{}
	_ ports.StyleFlusher = Func(nil)
)
