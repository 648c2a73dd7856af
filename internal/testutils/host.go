package testutils

import (
	"context"
	"sync"

	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/ports"
)

// FakeFlusher records style-flush requests and returns Err.
type FakeFlusher struct {
	mu    sync.Mutex
	Err   error
	calls []ports.ElementRef
}

var _ ports.StyleFlusher = (*FakeFlusher)(nil)

// EnsureStylesWereApplied implements ports.StyleFlusher.
func (f *FakeFlusher) EnsureStylesWereApplied(_ context.Context, ref ports.ElementRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ref)
	return f.Err
}

// Calls returns the refs flushed so far.
func (f *FakeFlusher) Calls() []ports.ElementRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.ElementRef(nil), f.calls...)
}

// FakeSizeMeter returns the scroll sizes set by the test.
type FakeSizeMeter struct {
	mu     sync.Mutex
	Scroll map[ports.ElementRef]domain.ScrollRect
	Rects  map[ports.ElementRef]domain.Rect
}

var _ ports.SizeMeter = (*FakeSizeMeter)(nil)

// NewFakeSizeMeter creates a meter with no known elements.
func NewFakeSizeMeter() *FakeSizeMeter {
	return &FakeSizeMeter{
		Scroll: make(map[ports.ElementRef]domain.ScrollRect),
		Rects:  make(map[ports.ElementRef]domain.Rect),
	}
}

// SetScroll sets the scroll size reported for ref.
func (m *FakeSizeMeter) SetScroll(ref ports.ElementRef, width, height float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scroll[ref] = domain.ScrollRect{Width: width, Height: height}
}

// MeasureElement implements ports.SizeMeter.
func (m *FakeSizeMeter) MeasureElement(_ context.Context, ref ports.ElementRef) (domain.Rect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Rects[ref], nil
}

// MeasureElementScroll implements ports.SizeMeter.
func (m *FakeSizeMeter) MeasureElementScroll(_ context.Context, ref ports.ElementRef) (domain.ScrollRect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Scroll[ref], nil
}

// FakeSizeObserver lets tests trigger resize notifications.
type FakeSizeObserver struct {
	mu        sync.Mutex
	callbacks map[ports.ElementRef]func()
}

var _ ports.SizeObserver = (*FakeSizeObserver)(nil)

// NewFakeSizeObserver creates an observer with no subscriptions.
func NewFakeSizeObserver() *FakeSizeObserver {
	return &FakeSizeObserver{callbacks: make(map[ports.ElementRef]func())}
}

// Observe implements ports.SizeObserver.
func (o *FakeSizeObserver) Observe(_ context.Context, ref ports.ElementRef, onResize func()) (func(), error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.callbacks[ref] = onResize
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.callbacks, ref)
	}, nil
}

// Resize calls the callback registered for ref, if any. It reports whether
// a subscription existed.
func (o *FakeSizeObserver) Resize(ref ports.ElementRef) bool {
	o.mu.Lock()
	cb, ok := o.callbacks[ref]
	o.mu.Unlock()
	if ok {
		cb()
	}
	return ok
}
