package motion

import (
	"context"
	"fmt"

	"github.com/aretw0/motion/pkg/content"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/ports"
	"github.com/aretw0/motion/pkg/transition"
	"github.com/aretw0/motion/pkg/visibility"
)

// driver is the component a live session renders.
type driver interface {
	render() (class, style string, elements []domain.ElementFrame, markup string)
	afterRender(ctx context.Context) error
	dispose()
}

// maxPasses bounds the render/after-render cycles of one pass.
const maxPasses = 8

// liveSession is owned by the engine loop.
type liveSession struct {
	id       string
	kind     domain.SessionKind
	driver   driver
	revision int64
	last     *domain.Frame
	dirty    bool
	queued   bool
	inPass   bool
	closed   bool
}

// visibilityDriver drives one visibility machine.
type visibilityDriver struct {
	machine *visibility.Machine
	params  visibility.Params
}

func (d *visibilityDriver) apply(visible bool, enter transition.Enter, exit transition.Exit) {
	d.params.Visible = visible
	if !enter.IsZero() {
		d.params.Enter = enter
	}
	if !exit.IsZero() {
		d.params.Exit = exit
	}
	d.machine.SetParameters(d.params)
}

func (d *visibilityDriver) render() (string, string, []domain.ElementFrame, string) {
	el := d.machine.Render()
	return "", "", []domain.ElementFrame{el}, elementMarkup(el, "")
}

func (d *visibilityDriver) afterRender(ctx context.Context) error {
	return d.machine.AfterRender(ctx)
}

func (d *visibilityDriver) dispose() { d.machine.Dispose() }

// contentDriver drives a tracker over string states. Transitions passed with
// a target become the case transitions of that state.
type contentDriver struct {
	tracker *content.Tracker[string]
	params  content.Params[string]
	cases   map[string]content.Case
}

func newContentDriver(tracker *content.Tracker[string], params content.Params[string]) *contentDriver {
	d := &contentDriver{
		tracker: tracker,
		params:  params,
		cases:   make(map[string]content.Case),
	}
	d.params.Switch = d.caseOf
	return d
}

func (d *contentDriver) caseOf(state string) content.Case {
	c := d.cases[state]
	c.Content = state
	return c
}

func (d *contentDriver) apply(target string, enter transition.Enter, exit transition.Exit) error {
	c := d.cases[target]
	if !enter.IsZero() {
		c.Enter = enter
	}
	if !exit.IsZero() {
		c.Exit = exit
	}
	d.cases[target] = c
	d.params.Target = target
	return d.tracker.Update(d.params)
}

func (d *contentDriver) render() (string, string, []domain.ElementFrame, string) {
	view := d.tracker.Render()
	elements := make([]domain.ElementFrame, 0, len(view.Items))
	var inner string
	for _, item := range view.Items {
		elements = append(elements, item.Element)
		inner += elementMarkup(item.Element, item.Content)
	}
	return view.Class, view.Style, elements, containerMarkup(view.Class, view.Style, inner)
}

func (d *contentDriver) afterRender(ctx context.Context) error {
	return d.tracker.AfterRender(ctx)
}

func (d *contentDriver) dispose() { d.tracker.Dispose() }

// openVisibility builds the driver of a visibility session. Runs on the loop.
func (e *Engine) openVisibility(s *liveSession, req ports.VisibilityRequest, enter transition.Enter, exit transition.Exit) {
	machine := visibility.New(visibility.Config{
		StartWithTransition:     req.StartWithTransition,
		RemoveFromDOMWhenHidden: req.RemoveFromDOMWhenHidden,
		DisappearWhenHidden:     req.DisappearWhenHidden,
	},
		visibility.WithTimers(e.timers),
		visibility.WithFlusher(e.flusher),
		visibility.WithLogger(e.logger.With("session_id", s.id)),
		visibility.WithHooks(e.hooks),
		visibility.WithRenderRequest(e.requestRender(s)),
		visibility.WithOwner(s.id),
	)
	d := &visibilityDriver{
		machine: machine,
		params:  visibility.Params{Class: req.Class, Style: req.Style},
	}
	s.driver = d
	d.apply(req.Visible, enter, exit)
}

// openContent builds the driver of a content session. Runs on the loop.
func (e *Engine) openContent(s *liveSession, req ports.ContentRequest, sharedEnter transition.Enter, sharedExit transition.Exit) error {
	tracker := content.New[string](content.Config{
		NewStateOnTop:                   req.NewStateOnTop,
		StartWithTransition:             req.StartWithTransition,
		PreserveHiddenElements:          req.PreserveHiddenElements,
		ReassignTransitionsOnEachUpdate: req.ReassignTransitionsOnEachUpdate,
	},
		content.WithTimers(e.timers),
		content.WithFlusher(e.flusher),
		content.WithLogger(e.logger.With("session_id", s.id)),
		content.WithHooks(e.hooks),
		content.WithRenderRequest(e.requestRender(s)),
		content.WithOwner(s.id),
	)
	d := newContentDriver(tracker, content.Params[string]{
		SharedEnter:         sharedEnter,
		SharedExit:          sharedExit,
		Class:               req.Class,
		Style:               req.Style,
		KeepContentInBounds: req.KeepContentInBounds,
		OnTargetStateAppeared: func(state string) {
			e.logger.Debug("target appeared", "session_id", s.id, "target", state)
		},
	})
	s.driver = d
	return d.apply(req.Target, transition.Enter{}, transition.Exit{})
}

func (e *Engine) visibilityOf(s *liveSession) (*visibilityDriver, error) {
	d, ok := s.driver.(*visibilityDriver)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %s session", domain.ErrSessionKind, s.id, s.kind)
	}
	return d, nil
}

func (e *Engine) contentOf(s *liveSession) (*contentDriver, error) {
	d, ok := s.driver.(*contentDriver)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %s session", domain.ErrSessionKind, s.id, s.kind)
	}
	return d, nil
}
