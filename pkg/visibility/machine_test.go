package visibility_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/motion/internal/testutils"
	"github.com/aretw0/motion/pkg/adapters/loop"
	"github.com/aretw0/motion/pkg/adapters/timer"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/spec"
	"github.com/aretw0/motion/pkg/transition"
	"github.com/aretw0/motion/pkg/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testEnter = transition.FadeIn(spec.Linear100ms)
	testExit  = transition.FadeOut(spec.EaseIn200ms)
)

// host drives a machine the way a rendering framework would and records
// every committed frame.
type host struct {
	t       *testing.T
	m       *visibility.Machine
	timers  *testutils.FakeTimers
	flusher *testutils.FakeFlusher
	dirty   bool
	frames  []domain.ElementFrame
	states  []domain.VisibilityState
	shown   int
	hidden  int
}

func newHost(t *testing.T, cfg visibility.Config) *host {
	h := &host{
		t:       t,
		timers:  testutils.NewFakeTimers(),
		flusher: &testutils.FakeFlusher{},
	}
	h.m = visibility.New(cfg,
		visibility.WithTimers(h.timers),
		visibility.WithFlusher(h.flusher),
		visibility.WithOwner("element"),
		visibility.WithRenderRequest(func() { h.dirty = true }),
		visibility.WithCallbacks(visibility.Callbacks{
			OnShown:        func() { h.shown++ },
			OnHidden:       func() { h.hidden++ },
			OnStateChanged: func(s domain.VisibilityState) { h.states = append(h.states, s) },
		}),
	)
	return h
}

func (h *host) render() {
	h.frames = append(h.frames, h.m.Render())
	h.dirty = false
	require.NoError(h.t, h.m.AfterRender(context.Background()))
	for h.dirty {
		h.dirty = false
		h.frames = append(h.frames, h.m.Render())
		require.NoError(h.t, h.m.AfterRender(context.Background()))
	}
}

func (h *host) set(p visibility.Params) {
	h.m.SetParameters(p)
	h.render()
}

func (h *host) fireAll() {
	h.timers.FireAll()
	if h.dirty {
		h.render()
	}
}

func (h *host) last() domain.ElementFrame {
	require.NotEmpty(h.t, h.frames)
	return h.frames[len(h.frames)-1]
}

func params(visible bool) visibility.Params {
	return visibility.Params{Visible: visible, Enter: testEnter, Exit: testExit}
}

func hiddenFrame(enter transition.Enter) domain.ElementFrame {
	return domain.ElementFrame{
		State:    domain.Hidden,
		Rendered: true,
		Class:    "animated-visibility " + enter.InitialClasses(),
		Style:    enter.InitialStyle(),
	}
}

func showingFrame(enter transition.Enter) domain.ElementFrame {
	return domain.ElementFrame{
		State:    domain.Showing,
		Rendered: true,
		Class:    "animated-visibility " + enter.FinishClasses(),
		Style:    enter.FinishStyle(),
	}
}

func shownFrame(exit transition.Exit) domain.ElementFrame {
	return domain.ElementFrame{
		State:    domain.Shown,
		Rendered: true,
		Class:    "animated-visibility " + exit.InitialClasses(),
		Style:    exit.InitialStyle(),
	}
}

func hidingFrame(exit transition.Exit) domain.ElementFrame {
	return domain.ElementFrame{
		State:    domain.Hiding,
		Rendered: true,
		Class:    "animated-visibility " + exit.FinishClasses(),
		Style:    exit.FinishStyle(),
	}
}

func TestInitialState(t *testing.T) {
	tests := []struct {
		name    string
		visible bool
		start   bool
		want    domain.VisibilityState
	}{
		{"visible without transition", true, false, domain.Shown},
		{"visible with transition", true, true, domain.Hidden},
		{"hidden without transition", false, false, domain.Hidden},
		{"hidden with transition", false, true, domain.Shown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := visibility.New(visibility.Config{StartWithTransition: tt.start}, visibility.WithTimers(testutils.NewFakeTimers()))
			m.SetParameters(params(tt.visible))
			assert.Equal(t, tt.want, m.State())
		})
	}
}

func TestHiddenInitialRender(t *testing.T) {
	h := newHost(t, visibility.Config{})
	h.set(params(false))

	assert.Equal(t, []domain.ElementFrame{hiddenFrame(testEnter)}, h.frames)
	assert.Empty(t, h.timers.Timers())
	assert.Equal(t, []domain.VisibilityState{domain.Hidden}, h.states)
	assert.Equal(t, 1, h.hidden)
}

func TestShowThenTimer(t *testing.T) {
	h := newHost(t, visibility.Config{})
	h.set(params(false))

	h.set(params(true))
	assert.Equal(t, domain.Showing, h.m.State())
	assert.Equal(t, showingFrame(testEnter), h.last())

	timers := h.timers.Pending()
	require.Len(t, timers, 1)
	assert.Equal(t, 100*time.Millisecond, timers[0].Duration)
	assert.Equal(t, "element", timers[0].Owner)

	h.fireAll()
	assert.Equal(t, domain.Shown, h.m.State())
	assert.Equal(t, shownFrame(testExit), h.last())
	assert.Equal(t, 1, h.shown)
	assert.Equal(t, []domain.VisibilityState{domain.Hidden, domain.Showing, domain.Shown}, h.states)
}

func TestStartWithTransition(t *testing.T) {
	h := newHost(t, visibility.Config{StartWithTransition: true})
	h.set(params(true))

	assert.Equal(t, []domain.ElementFrame{
		hiddenFrame(testEnter),
		showingFrame(testEnter),
	}, h.frames)
	assert.Len(t, h.flusher.Calls(), 1)

	h.fireAll()
	assert.Equal(t, shownFrame(testExit), h.last())
}

func TestRemoveFromDOMWhenHidden(t *testing.T) {
	h := newHost(t, visibility.Config{RemoveFromDOMWhenHidden: true})

	h.set(params(false))
	assert.False(t, h.last().Rendered)

	h.set(params(true))
	require.Len(t, h.frames, 3)
	assert.Equal(t, hiddenFrame(testEnter), h.frames[1])
	assert.Equal(t, showingFrame(testEnter), h.frames[2])

	h.fireAll()
	assert.Equal(t, shownFrame(testExit), h.last())

	h.set(params(false))
	assert.Equal(t, hidingFrame(testExit), h.last())
	assert.Equal(t, 200*time.Millisecond, h.timers.Last().Duration)

	h.fireAll()
	assert.False(t, h.last().Rendered)
	assert.Equal(t, domain.Hidden, h.last().State)
	assert.False(t, h.m.IsRendered())
}

func TestDisappearWhenHidden(t *testing.T) {
	h := newHost(t, visibility.Config{DisappearWhenHidden: true})

	disappeared := hiddenFrame(testEnter)
	disappeared.Disappeared = true
	disappeared.Class = "animated-visibility disappeared " + testEnter.InitialClasses()

	h.set(params(false))
	assert.Equal(t, disappeared, h.last())

	h.set(params(true))
	require.Len(t, h.frames, 3)
	assert.Equal(t, hiddenFrame(testEnter), h.frames[1])
	assert.Equal(t, showingFrame(testEnter), h.frames[2])

	h.fireAll()
	assert.Equal(t, shownFrame(testExit), h.last())

	h.set(params(false))
	assert.Equal(t, hidingFrame(testExit), h.last())

	h.fireAll()
	assert.Equal(t, disappeared, h.last())
}

func TestChangingEnterWhileDisappeared(t *testing.T) {
	h := newHost(t, visibility.Config{DisappearWhenHidden: true})
	h.set(params(false))

	second := transition.SlideIn(spec.Specification{}, domain.LengthPercentage{}, domain.LengthPercentage{})
	h.set(visibility.Params{Visible: true, Enter: second})

	require.Len(t, h.frames, 3)
	assert.Equal(t, hiddenFrame(second), h.frames[1])
	assert.Equal(t, showingFrame(second), h.frames[2])
}

func TestRemoveFromDOMTakesPrecedence(t *testing.T) {
	h := newHost(t, visibility.Config{RemoveFromDOMWhenHidden: true, DisappearWhenHidden: true})
	h.set(params(false))
	assert.False(t, h.last().Rendered)
	assert.False(t, h.last().Disappeared)
}

func TestRedundantInputIsNoop(t *testing.T) {
	h := newHost(t, visibility.Config{})
	h.set(params(true))
	require.Equal(t, domain.Shown, h.m.State())

	h.set(params(true))
	assert.Equal(t, domain.Shown, h.m.State())
	assert.Empty(t, h.timers.Timers())
	assert.Equal(t, []domain.VisibilityState{domain.Shown}, h.states)
}

func TestAbortBeforeRestart(t *testing.T) {
	h := newHost(t, visibility.Config{})
	h.set(params(false))
	h.set(params(true))
	showingTimer := h.timers.Last()
	require.NotNil(t, showingTimer)

	h.set(params(false))
	assert.Equal(t, domain.Hiding, h.m.State())
	assert.True(t, showingTimer.Aborted())
	assert.Equal(t, []string{"start:0", "abort:0", "start:1"}, h.timers.Events())

	// A stale callback that was already queued must not move the machine.
	h.timers.ForceFire(showingTimer)
	assert.Equal(t, domain.Hiding, h.m.State())

	h.fireAll()
	assert.Equal(t, domain.Hidden, h.m.State())
	assert.Equal(t, 0, h.shown)
}

func TestLongestDurationOfCombined(t *testing.T) {
	ms := func(n int) spec.Option { return spec.WithDuration(time.Duration(n) * time.Millisecond) }
	enter := transition.CombineEnter(
		transition.FadeIn(spec.Linear(ms(100))),
		transition.ExpandVertically(spec.Linear(ms(300))),
		transition.SlideInVertically(spec.Linear(ms(150)), domain.LengthPercentage{}),
	)

	h := newHost(t, visibility.Config{})
	h.set(visibility.Params{Visible: false, Enter: enter})
	h.set(visibility.Params{Visible: true})

	require.NotNil(t, h.timers.Last())
	assert.Equal(t, 300*time.Millisecond, h.timers.Last().Duration)
	assert.Equal(t, 300*time.Millisecond, h.m.LastTimerDuration())
}

func TestZeroDurationCompletesInline(t *testing.T) {
	instant := spec.Linear(spec.WithDuration(0))
	h := newHost(t, visibility.Config{})
	h.set(visibility.Params{Visible: false, Enter: transition.FadeIn(instant)})

	h.m.SetParameters(visibility.Params{Visible: true})
	assert.Equal(t, domain.Shown, h.m.State())
	assert.False(t, h.m.HasPendingTimer())
	assert.Equal(t, []domain.VisibilityState{domain.Hidden, domain.Showing, domain.Shown}, h.states)
	assert.Equal(t, []string{"inline"}, h.timers.Events())
}

func TestReplacingEnterDoesNotRestartTimer(t *testing.T) {
	h := newHost(t, visibility.Config{})
	h.set(params(false))
	h.set(params(true))
	require.Len(t, h.timers.Timers(), 1)

	h.set(visibility.Params{Visible: true, Enter: transition.FadeIn(spec.Ease500ms)})
	assert.Len(t, h.timers.Timers(), 1)
	assert.Equal(t, domain.Showing, h.m.State())
}

func TestDisposeIsSilent(t *testing.T) {
	h := newHost(t, visibility.Config{})
	h.set(params(false))
	h.set(params(true))
	pending := h.timers.Last()

	h.m.Dispose()
	assert.True(t, pending.Aborted())

	h.timers.ForceFire(pending)
	assert.Equal(t, domain.Showing, h.m.State())
	assert.Equal(t, 0, h.shown)
}

func TestUserClassAndStyle(t *testing.T) {
	h := newHost(t, visibility.Config{})
	h.set(visibility.Params{Visible: true, Exit: testExit, Class: "card", Style: "color: red;"})

	assert.Equal(t, "animated-visibility card "+testExit.InitialClasses(), h.last().Class)
	assert.Equal(t, testExit.InitialStyle()+" color: red;", h.last().Style)
}

func TestDefaultTransitions(t *testing.T) {
	m := visibility.New(visibility.Config{}, visibility.WithTimers(testutils.NewFakeTimers()))
	m.SetParameters(visibility.Params{Visible: true})
	assert.Equal(t, visibility.DefaultExit().InitialStyle(), m.Render().Style)
	assert.Equal(t, visibility.DefaultEnter(), m.Enter())
}

func TestFlushErrorIsReturned(t *testing.T) {
	flushErr := errors.New("element detached")
	m := visibility.New(visibility.Config{StartWithTransition: true},
		visibility.WithTimers(testutils.NewFakeTimers()),
		visibility.WithFlusher(&testutils.FakeFlusher{Err: flushErr}))
	m.SetParameters(params(true))
	_ = m.Render()

	err := m.AfterRender(context.Background())
	assert.ErrorIs(t, err, flushErr)
	assert.Equal(t, domain.Hidden, m.State())
}

func TestFlushIsRetriedAfterError(t *testing.T) {
	timers := testutils.NewFakeTimers()
	flusher := &testutils.FakeFlusher{Err: errors.New("element detached")}
	m := visibility.New(visibility.Config{StartWithTransition: true},
		visibility.WithTimers(timers),
		visibility.WithFlusher(flusher))
	m.SetParameters(params(true))
	_ = m.Render()
	require.Error(t, m.AfterRender(context.Background()))
	require.Equal(t, domain.Hidden, m.State())

	flusher.Err = nil
	_ = m.Render()
	require.NoError(t, m.AfterRender(context.Background()))

	assert.Equal(t, domain.Showing, m.State())
	assert.Len(t, flusher.Calls(), 2)
	require.NotNil(t, timers.Last())
	assert.False(t, timers.Last().Aborted())
}

func TestNewRequiresTimers(t *testing.T) {
	assert.PanicsWithValue(t, visibility.ErrNoTimers, func() {
		visibility.New(visibility.Config{})
	})
}

// Run with -race: every access to the machine, timer callbacks included,
// happens on the loop goroutine.
func TestRealTimersDispatchedOnLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lp := loop.New()
	go func() { _ = lp.Run(ctx) }()

	var m *visibility.Machine
	require.NoError(t, lp.Do(ctx, func() error {
		m = visibility.New(visibility.Config{},
			visibility.WithTimers(timer.New(timer.WithDispatcher(lp))),
			visibility.WithOwner("element"))
		m.SetParameters(visibility.Params{
			Enter: transition.FadeIn(spec.Linear(spec.WithDuration(5 * time.Millisecond))),
			Exit:  transition.FadeOut(spec.Linear(spec.WithDuration(5 * time.Millisecond))),
		})
		_ = m.Render()
		if err := m.AfterRender(ctx); err != nil {
			return err
		}
		m.SetParameters(visibility.Params{Visible: true})
		return nil
	}))

	require.Eventually(t, func() bool {
		var state domain.VisibilityState
		_ = lp.Do(ctx, func() error {
			_ = m.Render()
			state = m.State()
			return nil
		})
		return state == domain.Shown
	}, 2*time.Second, time.Millisecond)
}
