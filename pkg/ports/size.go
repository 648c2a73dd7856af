package ports

import (
	"context"

	"github.com/aretw0/motion/pkg/domain"
)

// SizeMeter reads element geometry from the host.
type SizeMeter interface {
	MeasureElement(ctx context.Context, ref ElementRef) (domain.Rect, error)
	MeasureElementScroll(ctx context.Context, ref ElementRef) (domain.ScrollRect, error)
}

// SizeObserver notifies when an element's size changes.
type SizeObserver interface {
	// Observe calls onResize after every size change of ref until the
	// returned stop function is called.
	Observe(ctx context.Context, ref ElementRef, onResize func()) (stop func(), err error)
}
