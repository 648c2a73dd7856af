// Package sizing animates the width and height of a container towards the
// scroll size of its content.
package sizing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/motion/internal/logging"
	"github.com/aretw0/motion/pkg/adapters/flush"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/ports"
	"github.com/aretw0/motion/pkg/spec"
)

// ErrNoTimers is the panic value of New when no timer service was given.
var ErrNoTimers = errors.New("sizing: a timer service is required")

const (
	ContainerClass  = "animated-size-container"
	FillWidthClass  = "fill-width"
	FillHeightClass = "fill-height"
)

// Dimensions is the target size handed to ShouldAnimate.
type Dimensions struct {
	Height float64
	Width  float64
}

// Params are the inputs of one parameter pass.
type Params struct {
	// Spec drives the size transition. Zero means spec.Linear().
	Spec spec.Specification

	FillWidth  bool
	FillHeight bool

	// StopAnimating applies size changes instantly. Turning it off again
	// waits for a style flush before the next change is animated.
	StopAnimating bool

	// ShouldAnimate can veto animating towards the given target size.
	ShouldAnimate func(Dimensions) bool

	// CollapseVertically and CollapseHorizontally animate the size to zero.
	// They are ignored on a filled axis.
	CollapseVertically   bool
	CollapseHorizontally bool

	Class string
	Style string

	// OnResized runs once the transition towards a new size completed.
	OnResized func()
}

// Output is what the host renders for the container element.
type Output struct {
	Class string
	Style string
}

// Container tracks the measured size of a mask element and renders the
// container style animating towards it. It is not safe for concurrent use;
// resize notifications are handed to the dispatcher when one is set.
type Container struct {
	meter      ports.SizeMeter
	observer   ports.SizeObserver
	timers     ports.TimerService
	flusher    ports.StyleFlusher
	dispatcher ports.Dispatcher
	logger     *slog.Logger
	onRender   func()
	ref        ports.ElementRef
	mask       ports.ElementRef

	params Params
	spec   spec.Specification

	stopAnimating        bool
	collapseVertically   bool
	collapseHorizontally bool

	contentHeight float64
	contentWidth  float64
	targetHeight  float64
	targetWidth   float64

	afterFirstRender bool
	resumeScheduled  bool
	animating        bool

	timer      ports.Registration
	stopListen func()
	disposed   bool
}

// Option configures a Container.
type Option func(*Container)

// WithMeter sets the size meter. Required.
func WithMeter(m ports.SizeMeter) Option {
	return func(c *Container) { c.meter = m }
}

// WithObserver subscribes to size changes of the mask after the first render.
func WithObserver(o ports.SizeObserver) Option {
	return func(c *Container) { c.observer = o }
}

// WithTimers sets the timer service. Required: its callbacks must run on the
// goroutine that owns the Container.
func WithTimers(t ports.TimerService) Option {
	return func(c *Container) { c.timers = t }
}

// WithFlusher sets the style flusher. Defaults to flush.Immediate.
func WithFlusher(f ports.StyleFlusher) Option {
	return func(c *Container) { c.flusher = f }
}

// WithDispatcher routes resize notifications through d.
func WithDispatcher(d ports.Dispatcher) Option {
	return func(c *Container) { c.dispatcher = d }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// WithRenderRequest sets the function called when the output changed
// outside of a parameter pass.
func WithRenderRequest(fn func()) Option {
	return func(c *Container) { c.onRender = fn }
}

// WithElements sets the container and the mask element references.
func WithElements(container, mask ports.ElementRef) Option {
	return func(c *Container) {
		c.ref = container
		c.mask = mask
	}
}

// New creates a container. It panics with ErrNoTimers when WithTimers is missing.
func New(opts ...Option) *Container {
	c := &Container{
		logger: logging.NewNop(),
		spec:   spec.Linear(),
		ref:    "size-container",
		mask:   "size-container-mask",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timers == nil {
		panic(ErrNoTimers)
	}
	if c.flusher == nil {
		c.flusher = flush.Immediate{}
	}
	return c
}

// IsAnimating reports whether a size transition is in flight.
func (c *Container) IsAnimating() bool { return c.animating }

// Target returns the size the container is animating towards.
func (c *Container) Target() Dimensions {
	return Dimensions{Height: c.targetHeight, Width: c.targetWidth}
}

// SetParameters applies one parameter pass.
func (c *Container) SetParameters(p Params) {
	if c.disposed {
		return
	}
	c.params = p
	c.spec = p.Spec.Or(spec.Linear())

	respondNow := true
	if c.stopAnimating != p.StopAnimating {
		if !p.StopAnimating {
			respondNow = false
			c.resumeScheduled = true
		}
		c.stopAnimating = p.StopAnimating
	}
	if respondNow {
		c.respondToSizeRequest()
	}
}

func (c *Container) respondToSizeRequest() {
	if c.collapseHorizontally == c.params.CollapseHorizontally &&
		c.collapseVertically == c.params.CollapseVertically {
		return
	}
	c.collapseHorizontally = c.params.CollapseHorizontally
	c.collapseVertically = c.params.CollapseVertically
	c.updateTargetSize()
}

// AfterRender completes a render pass. After the first one it starts
// observing the mask and measures it.
func (c *Container) AfterRender(ctx context.Context) error {
	if c.disposed {
		return nil
	}
	if c.resumeScheduled {
		c.resumeScheduled = false
		if err := c.flusher.EnsureStylesWereApplied(ctx, c.ref); err != nil {
			return fmt.Errorf("flush styles of %s: %w", c.ref, err)
		}
		c.respondToSizeRequest()
	}

	if c.afterFirstRender {
		return nil
	}
	c.afterFirstRender = true

	if c.observer != nil {
		stop, err := c.observer.Observe(ctx, c.mask, c.resized)
		if err != nil {
			return fmt.Errorf("observe %s: %w", c.mask, err)
		}
		c.stopListen = stop
	}
	return c.Recalculate(ctx)
}

func (c *Container) resized() {
	recalculate := func() {
		if err := c.Recalculate(context.Background()); err != nil {
			c.logger.Warn("size recalculation failed", "element", c.mask, "error", err)
		}
	}
	if c.dispatcher != nil {
		c.dispatcher.Dispatch(recalculate)
		return
	}
	recalculate()
}

// Recalculate measures the mask and updates the target size.
func (c *Container) Recalculate(ctx context.Context) error {
	if c.disposed {
		return nil
	}
	if c.meter == nil {
		return fmt.Errorf("measure %s: no size meter configured", c.mask)
	}
	size, err := c.meter.MeasureElementScroll(ctx, c.mask)
	if err != nil {
		return fmt.Errorf("measure %s: %w", c.mask, err)
	}
	c.updateContentSize(size)
	return nil
}

func (c *Container) updateContentSize(size domain.ScrollRect) {
	if c.contentHeight == size.Height && c.contentWidth == size.Width {
		return
	}
	c.contentHeight = size.Height
	c.contentWidth = size.Width
	c.updateTargetSize()
}

func (c *Container) updateTargetSize() {
	updated := false
	if !c.params.FillHeight {
		switch {
		case c.collapseVertically:
			if c.targetHeight != 0 {
				c.targetHeight = 0
				updated = true
			}
		case c.contentHeight != c.targetHeight:
			c.targetHeight = c.contentHeight
			updated = true
		}
	}
	if !c.params.FillWidth {
		switch {
		case c.collapseHorizontally:
			if c.targetWidth != 0 {
				c.targetWidth = 0
				updated = true
			}
		case c.contentWidth != c.targetWidth:
			c.targetWidth = c.contentWidth
			updated = true
		}
	}
	if !updated {
		return
	}

	c.animating = true
	c.logger.Debug("container resizing", "element", c.ref, "height", c.targetHeight, "width", c.targetWidth)
	previous := c.timer
	c.timer = c.timers.StartNew(c.spec.TotalDuration(), c.resizeFinished, c.ref, previous)
	if c.onRender != nil {
		c.onRender()
	}
}

func (c *Container) resizeFinished() {
	if c.disposed {
		return
	}
	c.timer = nil
	c.animating = false
	if c.params.OnResized != nil {
		c.params.OnResized()
	}
}

// Render returns the container class and style.
func (c *Container) Render() Output {
	return Output{Class: c.class(), Style: c.style()}
}

func (c *Container) class() string {
	classes := []string{ContainerClass}
	if c.params.FillHeight {
		classes = append(classes, FillHeightClass)
	}
	if c.params.FillWidth {
		classes = append(classes, FillWidthClass)
	}
	if c.params.Class != "" {
		classes = append(classes, c.params.Class)
	}
	return strings.Join(classes, " ")
}

func (c *Container) style() string {
	styles := []string{c.spec.Style("all")}

	animate := true
	if c.params.ShouldAnimate != nil {
		animate = c.params.ShouldAnimate(c.Target())
	}
	adjust := c.afterFirstRender && !c.stopAnimating && animate

	if !c.params.FillHeight && (c.params.CollapseVertically || adjust) {
		styles = append(styles, "height: "+domain.FormatNumber(c.targetHeight)+"px;")
	}
	if !c.params.FillWidth && (c.params.CollapseHorizontally || adjust) {
		styles = append(styles, "width: "+domain.FormatNumber(c.targetWidth)+"px;")
	}
	if c.params.Style != "" {
		styles = append(styles, c.params.Style)
	}
	return strings.Join(styles, " ")
}

// Dispose aborts the pending timer and stops observing the mask.
func (c *Container) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	if c.timer != nil {
		c.timer.Abort()
		c.timer = nil
	}
	if c.stopListen != nil {
		c.stopListen()
		c.stopListen = nil
	}
}
