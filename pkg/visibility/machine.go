package visibility

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/motion/internal/logging"
	"github.com/aretw0/motion/pkg/adapters/flush"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/ports"
	"github.com/aretw0/motion/pkg/spec"
	"github.com/aretw0/motion/pkg/transition"
)

// ErrNoTimers is the panic value of New when no timer service was given.
var ErrNoTimers = errors.New("visibility: a timer service is required")

const (
	// ContainerClass marks every element driven by a Machine.
	ContainerClass = "animated-visibility"
	// DisappearedClass marks a hidden element kept in the DOM.
	DisappearedClass = "disappeared"
)

// DefaultEnter is the enter transition used when none is configured.
func DefaultEnter() transition.Enter { return transition.FadeIn(spec.Linear()) }

// DefaultExit is the exit transition used when none is configured.
func DefaultExit() transition.Exit { return transition.FadeOut(spec.Linear()) }

// Config holds the settings fixed for the lifetime of a Machine.
type Config struct {
	// StartWithTransition animates the first appearance (or disappearance).
	StartWithTransition bool

	// RemoveFromDOMWhenHidden stops rendering the element once hidden.
	// It takes precedence over DisappearWhenHidden.
	RemoveFromDOMWhenHidden bool

	// DisappearWhenHidden keeps a hidden element rendered with the
	// "disappeared" class.
	DisappearWhenHidden bool

	// DefaultEnter and DefaultExit are used until a parameter pass supplies
	// a transition. Zero values mean DefaultEnter() and DefaultExit().
	DefaultEnter transition.Enter
	DefaultExit  transition.Exit
}

// Params are the inputs of one parameter pass.
type Params struct {
	Visible bool

	// Enter and Exit replace the current transitions when assigned.
	// A replacement affects the next state change only.
	Enter transition.Enter
	Exit  transition.Exit

	// Class and Style are appended to the rendered output.
	Class string
	Style string
}

// Callbacks are notified synchronously on every state change.
type Callbacks struct {
	OnShown        func()
	OnHidden       func()
	OnStateChanged func(domain.VisibilityState)
}

// Machine is the visibility state machine of one element.
// It is not safe for concurrent use.
type Machine struct {
	cfg       Config
	timers    ports.TimerService
	flusher   ports.StyleFlusher
	logger    *slog.Logger
	hooks     domain.Hooks
	callbacks Callbacks
	onRender  func()
	owner     string
	ref       ports.ElementRef

	params Params
	enter  transition.Enter
	exit   transition.Exit
	state  domain.VisibilityState

	initialized       bool
	afterFirstRender  bool
	addingToDOM       bool
	recovering        bool
	shouldNotRender   bool
	disappeared       bool
	disposed          bool
	timer             ports.Registration
	timerGeneration   uint64
	lastTimerDuration time.Duration
}

// Option configures a Machine.
type Option func(*Machine)

// WithTimers sets the timer service. Required: its callbacks must run on the
// goroutine that owns the Machine, as timer.New(timer.WithDispatcher(loop)) does.
func WithTimers(t ports.TimerService) Option {
	return func(m *Machine) { m.timers = t }
}

// WithFlusher sets the style flusher. Defaults to flush.Immediate.
func WithFlusher(f ports.StyleFlusher) Option {
	return func(m *Machine) { m.flusher = f }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithHooks sets observability hooks.
func WithHooks(h domain.Hooks) Option {
	return func(m *Machine) { m.hooks = h }
}

// WithCallbacks sets the state-change callbacks.
func WithCallbacks(c Callbacks) Option {
	return func(m *Machine) { m.callbacks = c }
}

// WithRenderRequest sets the function called when the machine needs to be
// rendered again outside of a parameter pass (after a timer or a style flush).
func WithRenderRequest(fn func()) Option {
	return func(m *Machine) { m.onRender = fn }
}

// WithOwner names the machine in logs, hooks and timer registrations.
func WithOwner(owner string) Option {
	return func(m *Machine) { m.owner = owner }
}

// WithElementRef sets the element reference handed to the style flusher.
// Defaults to the owner name.
func WithElementRef(ref ports.ElementRef) Option {
	return func(m *Machine) { m.ref = ref }
}

// New creates a machine. The initial state is computed on the first call to
// SetParameters. It panics with ErrNoTimers when WithTimers is missing.
func New(cfg Config, opts ...Option) *Machine {
	m := &Machine{
		cfg:    cfg,
		logger: logging.NewNop(),
		owner:  "visibility",
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.timers == nil {
		panic(ErrNoTimers)
	}
	if m.flusher == nil {
		m.flusher = flush.Immediate{}
	}
	if m.ref == "" {
		m.ref = ports.ElementRef(m.owner)
	}
	return m
}

// State returns the current state. It is Hidden before the first parameter pass.
func (m *Machine) State() domain.VisibilityState { return m.state }

// Visible returns the latest Visible input.
func (m *Machine) Visible() bool { return m.params.Visible }

// Enter returns the enter transition currently in use.
func (m *Machine) Enter() transition.Enter { return m.enter }

// Exit returns the exit transition currently in use.
func (m *Machine) Exit() transition.Exit { return m.exit }

// Owner returns the name given with WithOwner.
func (m *Machine) Owner() string { return m.owner }

// IsRendered reports whether the element is present in the output.
func (m *Machine) IsRendered() bool { return !m.shouldNotRender }

// IsDisappeared reports whether the element is rendered with the disappeared marker.
func (m *Machine) IsDisappeared() bool { return m.disappeared }

// HasPendingTimer reports whether a completion timer is running.
func (m *Machine) HasPendingTimer() bool { return m.timer != nil }

// LastTimerDuration returns the duration of the last timer started.
func (m *Machine) LastTimerDuration() time.Duration { return m.lastTimerDuration }

func (m *Machine) initialize(p Params) {
	m.enter = p.Enter.Or(m.cfg.DefaultEnter.Or(DefaultEnter()))
	m.exit = p.Exit.Or(m.cfg.DefaultExit.Or(DefaultExit()))

	switch {
	case p.Visible && !m.cfg.StartWithTransition:
		m.state = domain.Shown
	case p.Visible && m.cfg.StartWithTransition:
		m.state = domain.Hidden
	case !p.Visible && !m.cfg.StartWithTransition:
		m.state = domain.Hidden
	default:
		m.state = domain.Shown
	}

	m.addingToDOM = !m.cfg.RemoveFromDOMWhenHidden || p.Visible || m.cfg.StartWithTransition
	m.shouldNotRender = !m.addingToDOM
	m.disappeared = m.disappearsWhenHidden() && m.state == domain.Hidden && !p.Visible
	m.initialized = true
}

func (m *Machine) disappearsWhenHidden() bool {
	return m.cfg.DisappearWhenHidden && !m.cfg.RemoveFromDOMWhenHidden
}

// SetParameters applies one parameter pass.
//
// The first pass only computes and notifies the initial state. Later passes
// start a Showing or Hiding transition when Visible changed direction. An
// element that is not rendered (or disappeared) and becomes visible is first
// rendered in its hidden style; the transition starts from AfterRender.
func (m *Machine) SetParameters(p Params) {
	if m.disposed {
		return
	}
	if !m.initialized {
		m.params = p
		m.initialize(p)
		m.logger.Debug("visibility initialized", "owner", m.owner, "state", m.state, "rendered", !m.shouldNotRender)
		m.notify()
		return
	}
	m.params = p

	if (m.shouldNotRender || m.disappeared) && p.Visible {
		m.enter = p.Enter.Or(m.enter)
		m.exit = p.Exit.Or(m.exit)
		m.shouldNotRender = false
		m.disappeared = false
		m.addingToDOM = true
		m.recovering = true
		m.logger.Debug("visibility returning to DOM", "owner", m.owner)
		return
	}

	m.enter = p.Enter.Or(m.enter)
	m.exit = p.Exit.Or(m.exit)

	m.setIntermediateState()
}

// AfterRender completes the render pass that added the element to the DOM:
// it waits for the host to apply the initial style, starts the transition
// and requests another render.
func (m *Machine) AfterRender(ctx context.Context) error {
	firstRender := !m.afterFirstRender
	if m.disposed || !m.shouldRerenderAfterAddingToDOM(firstRender) {
		m.afterFirstRender = true
		return nil
	}

	// On failure every flag stays set so the next pass retries.
	if err := m.flusher.EnsureStylesWereApplied(ctx, m.ref); err != nil {
		m.logger.Warn("style flush failed", "owner", m.owner, "error", err)
		return fmt.Errorf("flush styles of %s: %w", m.owner, err)
	}
	m.afterFirstRender = true
	m.addingToDOM = false
	m.recovering = false

	m.setIntermediateState()
	m.requestRender()
	return nil
}

func (m *Machine) shouldRerenderAfterAddingToDOM(firstRender bool) bool {
	if !m.addingToDOM {
		return false
	}
	return (firstRender && m.cfg.StartWithTransition) ||
		m.cfg.RemoveFromDOMWhenHidden ||
		m.recovering
}

func (m *Machine) setIntermediateState() {
	visible := m.params.Visible
	if (visible && (m.state == domain.Showing || m.state == domain.Shown)) ||
		(!visible && (m.state == domain.Hiding || m.state == domain.Hidden)) {
		return
	}

	next := domain.Hiding
	if visible {
		next = domain.Showing
	}
	m.transitionTo(next)
	m.notify()
	m.startTimer()
}

func (m *Machine) startTimer() {
	var longest time.Duration
	switch m.state {
	case domain.Showing:
		longest = spec.LongestTotalDuration(m.enter.Specifications())
	case domain.Hiding:
		longest = spec.LongestTotalDuration(m.exit.Specifications())
	default:
		panic(fmt.Sprintf("state %s is not intermediate", m.state))
	}

	m.timerGeneration++
	generation := m.timerGeneration
	m.lastTimerDuration = longest
	m.hooks.TimerStarted(domain.TimerEvent{
		Timestamp: time.Now(),
		Owner:     m.owner,
		State:     m.state,
		Duration:  longest,
	})
	m.logger.Debug("transition timer started", "owner", m.owner, "state", m.state, "timer", longest)

	previous := m.timer
	m.timer = nil
	registration := m.timers.StartNew(longest, func() { m.complete(generation) }, m.owner, previous)
	if generation == m.timerGeneration && m.state.IsIntermediate() {
		m.timer = registration
	}
}

// complete runs when the completion timer fires.
func (m *Machine) complete(generation uint64) {
	if m.disposed || generation != m.timerGeneration {
		m.logger.Debug("stale transition timer ignored", "owner", m.owner)
		return
	}
	m.timer = nil

	switch m.state {
	case domain.Showing:
		m.transitionTo(domain.Shown)
	case domain.Hiding:
		m.transitionTo(domain.Hidden)
	default:
		return
	}

	if m.state == domain.Hidden {
		if m.cfg.RemoveFromDOMWhenHidden {
			m.shouldNotRender = true
		} else if m.cfg.DisappearWhenHidden {
			m.disappeared = true
		}
	}

	m.notify()
	m.requestRender()
}

func (m *Machine) transitionTo(next domain.VisibilityState) {
	from := m.state
	m.state = next
	m.logger.Debug("visibility state changed", "owner", m.owner, "from", from, "to", next)
	m.hooks.StateChanged(domain.StateEvent{
		Timestamp: time.Now(),
		Owner:     m.owner,
		From:      from,
		To:        next,
	})
}

func (m *Machine) notify() {
	switch m.state {
	case domain.Hidden:
		if m.callbacks.OnHidden != nil {
			m.callbacks.OnHidden()
		}
	case domain.Shown:
		if m.callbacks.OnShown != nil {
			m.callbacks.OnShown()
		}
	}
	if m.callbacks.OnStateChanged != nil {
		m.callbacks.OnStateChanged(m.state)
	}
}

func (m *Machine) requestRender() {
	if m.onRender != nil {
		m.onRender()
	}
}

// Render returns the element output for the current state. Key and Label
// are left for the caller to fill.
func (m *Machine) Render() domain.ElementFrame {
	if !m.initialized || m.shouldNotRender {
		return domain.ElementFrame{State: m.state}
	}
	return domain.ElementFrame{
		State:       m.state,
		Rendered:    true,
		Disappeared: m.disappeared,
		Class:       m.classes(),
		Style:       m.style(),
	}
}

func (m *Machine) classes() string {
	classes := []string{ContainerClass}
	if m.disappeared {
		classes = append(classes, DisappearedClass)
	}
	if m.params.Class != "" {
		classes = append(classes, m.params.Class)
	}
	var transitionClasses string
	switch m.state {
	case domain.Hidden:
		transitionClasses = m.enter.InitialClasses()
	case domain.Showing:
		transitionClasses = m.enter.FinishClasses()
	case domain.Shown:
		transitionClasses = m.exit.InitialClasses()
	case domain.Hiding:
		transitionClasses = m.exit.FinishClasses()
	}
	if transitionClasses != "" {
		classes = append(classes, transitionClasses)
	}
	return strings.Join(classes, " ")
}

func (m *Machine) style() string {
	var style string
	switch m.state {
	case domain.Hidden:
		style = m.enter.InitialStyle()
	case domain.Showing:
		style = m.enter.FinishStyle()
	case domain.Shown:
		style = m.exit.InitialStyle()
	case domain.Hiding:
		style = m.exit.FinishStyle()
	default:
		panic(fmt.Sprintf("state %s is not valid", m.state))
	}
	if m.params.Style != "" {
		style += " " + m.params.Style
	}
	return style
}

// Dispose aborts the pending timer without notifying anyone.
func (m *Machine) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	m.timerGeneration++
	if m.timer != nil {
		m.timer.Abort()
		m.timer = nil
	}
	m.logger.Debug("visibility disposed", "owner", m.owner)
}
