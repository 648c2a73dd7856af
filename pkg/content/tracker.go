package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/motion/internal/logging"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/ports"
	"github.com/aretw0/motion/pkg/transition"
	"github.com/aretw0/motion/pkg/visibility"
)

type slot[S comparable] struct {
	key          int
	order        int
	state        S
	machine      *visibility.Machine
	enter        Cached[transition.Enter]
	exit         Cached[transition.Exit]
	isBeingMoved bool
}

// Item is one rendered slot.
type Item[S comparable] struct {
	Key     int
	State   S
	Content string
	ZIndex  int
	Element domain.ElementFrame
}

// View is the rendered output of a tracker, items in DOM order.
type View[S comparable] struct {
	Class string
	Style string
	Items []Item[S]
}

// SlotInfo exposes the bookkeeping of one slot.
type SlotInfo[S comparable] struct {
	Key           int
	State         S
	ZIndex        int
	IsTarget      bool
	Visibility    domain.VisibilityState
	Enter         transition.Enter
	EnterResolved bool
	Exit          transition.Exit
	ExitResolved  bool
}

// Tracker keeps one target slot and the past slots still animating out
// (or kept hidden). Every slot is driven by its own visibility machine.
// It is not safe for concurrent use.
type Tracker[S comparable] struct {
	cfg      Config
	timers   ports.TimerService
	flusher  ports.StyleFlusher
	logger   *slog.Logger
	hooks    domain.Hooks
	onRender func()
	owner    string

	params    Params[S]
	target    *slot[S]
	past      []*slot[S] // oldest first
	nextKey   int
	nextOrder int

	initialTargetShown bool
	updating           bool
	removals           []*slot[S]
	disposed           bool
}

// Option configures a Tracker.
type Option func(*options)

type options struct {
	timers   ports.TimerService
	flusher  ports.StyleFlusher
	logger   *slog.Logger
	hooks    domain.Hooks
	onRender func()
	owner    string
}

// WithTimers sets the timer service shared by every slot. Required.
func WithTimers(t ports.TimerService) Option {
	return func(o *options) { o.timers = t }
}

// WithFlusher sets the style flusher shared by every slot.
func WithFlusher(f ports.StyleFlusher) Option {
	return func(o *options) { o.flusher = f }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHooks sets observability hooks, passed down to the slot machines.
func WithHooks(h domain.Hooks) Option {
	return func(o *options) { o.hooks = h }
}

// WithRenderRequest sets the function called when the tracker needs to be
// rendered again outside of an update.
func WithRenderRequest(fn func()) Option {
	return func(o *options) { o.onRender = fn }
}

// WithOwner names the tracker in logs and hooks. Slots are named "{owner}/{key}".
func WithOwner(owner string) Option {
	return func(o *options) { o.owner = owner }
}

// New creates a tracker with no target. The first Update sets one.
// It panics with visibility.ErrNoTimers when WithTimers is missing.
func New[S comparable](cfg Config, opts ...Option) *Tracker[S] {
	o := options{
		logger: logging.NewNop(),
		owner:  "content",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timers == nil {
		panic(visibility.ErrNoTimers)
	}
	return &Tracker[S]{
		cfg:      cfg,
		timers:   o.timers,
		flusher:  o.flusher,
		logger:   o.logger,
		hooks:    o.hooks,
		onRender: o.onRender,
		owner:    o.owner,
	}
}

// Target returns the current target state.
func (t *Tracker[S]) Target() (S, bool) {
	if t.target == nil {
		var zero S
		return zero, false
	}
	return t.target.state, true
}

// PastStates returns the states of the past slots, oldest first.
func (t *Tracker[S]) PastStates() []S {
	out := make([]S, len(t.past))
	for i, s := range t.past {
		out[i] = s.state
	}
	return out
}

// Slots returns the target slot followed by the past slots, newest first.
func (t *Tracker[S]) Slots() []SlotInfo[S] {
	out := make([]SlotInfo[S], 0, len(t.past)+1)
	for _, s := range t.newestFirst() {
		enter, enterResolved := s.enter.Get()
		exit, exitResolved := s.exit.Get()
		out = append(out, SlotInfo[S]{
			Key:           s.key,
			State:         s.state,
			ZIndex:        s.order,
			IsTarget:      s == t.target,
			Visibility:    s.machine.State(),
			Enter:         enter,
			EnterResolved: enterResolved,
			Exit:          exit,
			ExitResolved:  exitResolved,
		})
	}
	return out
}

// Update applies one set of parameters. A target different from the
// current one becomes the new target and the previous one starts leaving.
// It fails with domain.ErrNoContentSource before touching any slot when
// neither Switch nor ChildContent is set.
func (t *Tracker[S]) Update(p Params[S]) error {
	if !p.hasContentSource() {
		return fmt.Errorf("update %s: %w", t.owner, domain.ErrNoContentSource)
	}
	if t.disposed {
		return nil
	}

	t.updating = true
	defer func() {
		t.updating = false
		t.flushRemovals()
	}()

	t.params = p
	if t.target == nil || t.target.state != p.Target {
		t.changeTarget(p.Target)
	}
	t.resolveTransitions()
	t.applyParameters()
	return nil
}

func (t *Tracker[S]) changeTarget(state S) {
	if t.target != nil {
		t.past = append(t.past, t.target)
	}

	if t.cfg.PreserveHiddenElements {
		if i := slices.IndexFunc(t.past, func(s *slot[S]) bool { return s.state == state }); i >= 0 {
			reused := t.past[i]
			t.past = slices.Delete(t.past, i, i+1)
			reused.enter.Clear()
			reused.exit.Clear()
			reused.isBeingMoved = true
			reused.order = t.nextOrder
			t.nextOrder++
			t.target = reused
			t.logger.Debug("content slot reused", "owner", t.owner, "slot", reused.key, "state", state)
			t.hooks.Slot(domain.SlotEvent{Timestamp: time.Now(), Owner: t.owner, Key: reused.key, Action: domain.SlotReused})
			return
		}
	}

	s := &slot[S]{key: t.nextKey, order: t.nextOrder, state: state}
	t.nextKey++
	t.nextOrder++
	s.machine = t.newMachine(s)
	t.target = s
	t.logger.Debug("content slot created", "owner", t.owner, "slot", s.key, "state", state)
	t.hooks.Slot(domain.SlotEvent{Timestamp: time.Now(), Owner: t.owner, Key: s.key, Action: domain.SlotCreated})
}

func (t *Tracker[S]) newMachine(s *slot[S]) *visibility.Machine {
	cfg := visibility.Config{
		StartWithTransition: t.cfg.StartWithTransition || t.initialTargetShown,
		DisappearWhenHidden: t.cfg.PreserveHiddenElements,
		DefaultEnter:        t.cfg.DefaultEnter,
		DefaultExit:         t.cfg.DefaultExit,
	}
	opts := []visibility.Option{
		visibility.WithLogger(t.logger),
		visibility.WithHooks(t.hooks),
		visibility.WithOwner(fmt.Sprintf("%s/%d", t.owner, s.key)),
		visibility.WithRenderRequest(t.requestRender),
		visibility.WithCallbacks(visibility.Callbacks{
			OnStateChanged: func(state domain.VisibilityState) { t.slotStateChanged(s, state) },
		}),
		visibility.WithTimers(t.timers),
	}
	if t.flusher != nil {
		opts = append(opts, visibility.WithFlusher(t.flusher))
	}
	return visibility.New(cfg, opts...)
}

// newestFirst lists the target followed by the past slots, newest first.
func (t *Tracker[S]) newestFirst() []*slot[S] {
	out := make([]*slot[S], 0, len(t.past)+1)
	if t.target != nil {
		out = append(out, t.target)
	}
	for i := len(t.past) - 1; i >= 0; i-- {
		out = append(out, t.past[i])
	}
	return out
}

// resolveTransitions resolves the enter of every slot and the exit of its
// older neighbour, nearest to the target first.
func (t *Tracker[S]) resolveTransitions() {
	lock := !t.cfg.ReassignTransitionsOnEachUpdate
	slots := t.newestFirst()
	for i, s := range slots {
		var older *slot[S]
		change := StateChange[S]{Target: s.state}
		if i+1 < len(slots) {
			older = slots[i+1]
			change.Source = older.state
			change.IsSourcePresent = true
		}

		var interstate *InterstateTransitions
		provided := func() InterstateTransitions {
			if interstate == nil {
				v := InterstateTransitions{}
				if t.params.TransitionsProvider != nil {
					v = t.params.TransitionsProvider(change)
				}
				interstate = &v
			}
			return *interstate
		}

		s.enter.Resolve(func() transition.Enter {
			return provided().TargetEnter.
				Or(t.params.caseOf(s.state).Enter).
				Or(t.params.SharedEnter)
		}, lock)

		if older != nil {
			older.exit.Resolve(func() transition.Exit {
				return provided().SourceExit.
					Or(t.params.caseOf(older.state).Exit).
					Or(t.params.SharedExit)
			}, lock)
		}
	}
}

func (t *Tracker[S]) applyParameters() {
	for _, s := range t.newestFirst() {
		enter, _ := s.enter.Get()
		exit, _ := s.exit.Get()
		p := visibility.Params{
			Enter: enter,
			Exit:  exit,
			Class: ItemClass,
			Style: t.itemStyle(s),
		}

		if s != t.target {
			s.machine.SetParameters(p)
			continue
		}
		if s.isBeingMoved {
			p.Visible = false
			s.machine.SetParameters(p)
			s.isBeingMoved = false
		}
		p.Visible = true
		s.machine.SetParameters(p)
	}
}

func (t *Tracker[S]) itemStyle(s *slot[S]) string {
	var parts []string
	if t.params.KeepContentInBounds {
		parts = append(parts, "min-height: 0;")
	}
	if t.cfg.PreserveHiddenElements {
		parts = append(parts, fmt.Sprintf("z-index: %d;", s.order))
	}
	return strings.Join(parts, " ")
}

func (t *Tracker[S]) slotStateChanged(s *slot[S], state domain.VisibilityState) {
	if s == t.target {
		switch state {
		case domain.Showing:
			if t.params.OnTargetStateAppearing != nil {
				t.params.OnTargetStateAppearing(s.state)
			}
		case domain.Shown:
			if t.params.OnTargetStateAppeared != nil {
				t.params.OnTargetStateAppeared(s.state)
			}
		}
		return
	}
	if state != domain.Hidden || t.cfg.PreserveHiddenElements {
		return
	}
	if t.updating {
		t.removals = append(t.removals, s)
		return
	}
	t.remove(s)
	t.requestRender()
}

func (t *Tracker[S]) flushRemovals() {
	if len(t.removals) == 0 {
		return
	}
	for _, s := range t.removals {
		if s != t.target {
			t.remove(s)
		}
	}
	t.removals = nil
	t.requestRender()
}

func (t *Tracker[S]) remove(s *slot[S]) {
	i := slices.Index(t.past, s)
	if i < 0 {
		return
	}
	t.past = slices.Delete(t.past, i, i+1)
	s.machine.Dispose()
	t.logger.Debug("content slot removed", "owner", t.owner, "slot", s.key, "state", s.state)
	t.hooks.Slot(domain.SlotEvent{Timestamp: time.Now(), Owner: t.owner, Key: s.key, Action: domain.SlotRemoved})
}

func (t *Tracker[S]) requestRender() {
	if t.onRender != nil {
		t.onRender()
	}
}

// AfterRender forwards the end of a render pass to every slot machine.
// Errors of individual slots are joined.
func (t *Tracker[S]) AfterRender(ctx context.Context) error {
	var errs []error
	for _, s := range t.newestFirst() {
		if err := s.machine.AfterRender(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if t.target != nil {
		t.initialTargetShown = true
	}
	return errors.Join(errs...)
}

// Render returns the container and its items in DOM order: by key when
// hidden elements are preserved, target last with NewStateOnTop, target
// first otherwise.
func (t *Tracker[S]) Render() View[S] {
	view := View[S]{
		Class: strings.TrimSpace(ContainerClass + " " + t.params.Class),
		Style: t.params.Style,
	}
	for _, s := range t.domOrder() {
		element := s.machine.Render()
		element.Key = s.key
		element.Label = fmt.Sprint(s.state)
		view.Items = append(view.Items, Item[S]{
			Key:     s.key,
			State:   s.state,
			Content: t.params.caseOf(s.state).Content,
			ZIndex:  s.order,
			Element: element,
		})
	}
	return view
}

func (t *Tracker[S]) domOrder() []*slot[S] {
	if t.target == nil {
		return nil
	}
	switch {
	case t.cfg.PreserveHiddenElements:
		out := append(slices.Clone(t.past), t.target)
		slices.SortFunc(out, func(a, b *slot[S]) int { return a.key - b.key })
		return out
	case t.cfg.NewStateOnTop:
		return append(slices.Clone(t.past), t.target)
	default:
		return t.newestFirst()
	}
}

// Dispose silently stops every slot machine.
func (t *Tracker[S]) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	for _, s := range t.newestFirst() {
		s.machine.Dispose()
	}
}
