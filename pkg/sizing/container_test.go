package sizing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/motion/internal/testutils"
	"github.com/aretw0/motion/pkg/ports"
	"github.com/aretw0/motion/pkg/sizing"
	"github.com/aretw0/motion/pkg/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	containerRef ports.ElementRef = "box"
	maskRef      ports.ElementRef = "box-mask"
)

type fixture struct {
	container *sizing.Container
	meter     *testutils.FakeSizeMeter
	observer  *testutils.FakeSizeObserver
	timers    *testutils.FakeTimers
	flusher   *testutils.FakeFlusher
	renders   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		meter:    testutils.NewFakeSizeMeter(),
		observer: testutils.NewFakeSizeObserver(),
		timers:   testutils.NewFakeTimers(),
		flusher:  &testutils.FakeFlusher{},
	}
	f.container = sizing.New(
		sizing.WithMeter(f.meter),
		sizing.WithObserver(f.observer),
		sizing.WithTimers(f.timers),
		sizing.WithFlusher(f.flusher),
		sizing.WithElements(containerRef, maskRef),
		sizing.WithRenderRequest(func() { f.renders++ }),
	)
	return f
}

func TestFirstRenderMeasuresMask(t *testing.T) {
	f := newFixture(t)
	f.meter.SetScroll(maskRef, 300, 120)
	f.container.SetParameters(sizing.Params{Spec: spec.Ease100ms})

	before := f.container.Render()
	assert.Equal(t, "animated-size-container", before.Class)
	assert.Equal(t, "transition: all 0.1s 0s ease;", before.Style)

	require.NoError(t, f.container.AfterRender(context.Background()))
	assert.True(t, f.container.IsAnimating())
	assert.Equal(t, sizing.Dimensions{Height: 120, Width: 300}, f.container.Target())
	assert.Equal(t, "transition: all 0.1s 0s ease; height: 120px; width: 300px;", f.container.Render().Style)
	assert.Equal(t, 1, f.renders)

	timer := f.timers.Last()
	require.NotNil(t, timer)
	assert.Equal(t, 100*time.Millisecond, timer.Duration)
}

func TestResizeNotification(t *testing.T) {
	f := newFixture(t)
	resized := 0
	f.meter.SetScroll(maskRef, 100, 50)
	f.container.SetParameters(sizing.Params{OnResized: func() { resized++ }})
	require.NoError(t, f.container.AfterRender(context.Background()))
	f.timers.FireAll()
	assert.False(t, f.container.IsAnimating())
	assert.Equal(t, 1, resized)

	f.meter.SetScroll(maskRef, 100, 80.5)
	require.True(t, f.observer.Resize(maskRef))
	assert.True(t, f.container.IsAnimating())
	assert.Contains(t, f.container.Render().Style, "height: 80.5px;")

	f.timers.FireAll()
	assert.Equal(t, 2, resized)
}

func TestUnchangedSizeDoesNotAnimate(t *testing.T) {
	f := newFixture(t)
	f.meter.SetScroll(maskRef, 10, 10)
	f.container.SetParameters(sizing.Params{})
	require.NoError(t, f.container.AfterRender(context.Background()))
	f.timers.FireAll()

	require.True(t, f.observer.Resize(maskRef))
	assert.False(t, f.container.IsAnimating())
	assert.Len(t, f.timers.Timers(), 1)
}

func TestFillAxes(t *testing.T) {
	f := newFixture(t)
	f.meter.SetScroll(maskRef, 200, 100)
	f.container.SetParameters(sizing.Params{FillWidth: true, Class: "panel"})
	require.NoError(t, f.container.AfterRender(context.Background()))

	out := f.container.Render()
	assert.Equal(t, "animated-size-container fill-width panel", out.Class)
	assert.Equal(t, "transition: all 0.2s 0s linear; height: 100px;", out.Style)
}

func TestCollapse(t *testing.T) {
	f := newFixture(t)
	f.meter.SetScroll(maskRef, 200, 100)
	f.container.SetParameters(sizing.Params{})
	require.NoError(t, f.container.AfterRender(context.Background()))
	f.timers.FireAll()

	f.container.SetParameters(sizing.Params{CollapseVertically: true})
	assert.True(t, f.container.IsAnimating())
	assert.Equal(t, sizing.Dimensions{Height: 0, Width: 200}, f.container.Target())
	assert.Contains(t, f.container.Render().Style, "height: 0px;")

	f.container.SetParameters(sizing.Params{})
	assert.Equal(t, sizing.Dimensions{Height: 100, Width: 200}, f.container.Target())
}

func TestStopAnimating(t *testing.T) {
	f := newFixture(t)
	f.meter.SetScroll(maskRef, 200, 100)
	f.container.SetParameters(sizing.Params{StopAnimating: true})
	require.NoError(t, f.container.AfterRender(context.Background()))
	assert.Equal(t, "transition: all 0.2s 0s linear;", f.container.Render().Style)

	f.container.SetParameters(sizing.Params{CollapseHorizontally: true})
	assert.Equal(t, sizing.Dimensions{Height: 100, Width: 200}, f.container.Target(), "collapse waits for the style flush")

	require.NoError(t, f.container.AfterRender(context.Background()))
	assert.Equal(t, []ports.ElementRef{containerRef}, f.flusher.Calls())
	assert.Equal(t, sizing.Dimensions{Height: 100, Width: 0}, f.container.Target())
}

func TestShouldAnimatePredicate(t *testing.T) {
	f := newFixture(t)
	f.meter.SetScroll(maskRef, 200, 1000)
	f.container.SetParameters(sizing.Params{
		ShouldAnimate: func(d sizing.Dimensions) bool { return d.Height < 500 },
	})
	require.NoError(t, f.container.AfterRender(context.Background()))
	assert.Equal(t, "transition: all 0.2s 0s linear;", f.container.Render().Style)
}

func TestFlushError(t *testing.T) {
	f := newFixture(t)
	f.flusher.Err = errors.New("detached")
	f.container.SetParameters(sizing.Params{StopAnimating: true})
	f.container.SetParameters(sizing.Params{})

	err := f.container.AfterRender(context.Background())
	assert.ErrorIs(t, err, f.flusher.Err)
}

func TestDispose(t *testing.T) {
	f := newFixture(t)
	f.meter.SetScroll(maskRef, 1, 1)
	f.container.SetParameters(sizing.Params{})
	require.NoError(t, f.container.AfterRender(context.Background()))
	pending := f.timers.Last()

	f.container.Dispose()
	assert.True(t, pending.Aborted())
	assert.False(t, f.observer.Resize(maskRef))
}

func TestNewRequiresTimers(t *testing.T) {
	assert.PanicsWithValue(t, sizing.ErrNoTimers, func() {
		sizing.New(sizing.WithMeter(testutils.NewFakeSizeMeter()))
	})
}
