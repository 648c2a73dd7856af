package transition_test

import (
	"testing"
	"time"

	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/spec"
	"github.com/aretw0/motion/pkg/transition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFadeIn_Styles(t *testing.T) {
	fade := transition.FadeIn(spec.Specification{})

	assert.Equal(t, transition.KindFade, fade.Kind())
	assert.Equal(t,
		"--start-fade-in-opacity: 0;--finish-fade-in-opacity: 1;transition: opacity 0.2s 0s linear;",
		fade.InitialStyle())
	assert.Equal(t,
		"--start-fade-in-opacity: 0;--finish-fade-in-opacity: 1;transition: opacity 0.2s 0s linear;",
		fade.FinishStyle())
	assert.Equal(t,
		"--start-fade-in-opacity: 0;--finish-fade-in-opacity: 1;",
		fade.FinishedStyle())
	assert.Equal(t, "fade-in-animation-start", fade.InitialClasses())
	assert.Equal(t, "fade-in-animation-finish", fade.FinishClasses())
}

func TestStylesCarryOnlyVariables(t *testing.T) {
	enter := transition.CombineEnter(
		transition.FadeIn(spec.Linear100ms),
		transition.SlideInHorizontally(spec.Ease100ms, domain.MustLengthPercentage("10px")),
	)

	var variables string
	for _, p := range enter.Parts() {
		variables += p.Variables()
	}
	assert.Equal(t, variables, enter.FinishedStyle())
	assert.Equal(t, enter.InitialStyle(), enter.FinishStyle())
	assert.Equal(t, variables+"transition: opacity 0.1s 0s linear, translate 0.1s 0s ease;", enter.InitialStyle())
	assert.NotEqual(t, enter.InitialClasses(), enter.FinishClasses())
}

func TestFadeOutFrom(t *testing.T) {
	fade := transition.FadeOutFrom(spec.Ease100ms, 0.75, 0.25)
	assert.Equal(t,
		"--start-fade-out-opacity: 0.75;--finish-fade-out-opacity: 0.25;transition: opacity 0.1s 0s ease;",
		fade.InitialStyle())
}

func TestSlideDefaults(t *testing.T) {
	var unset domain.LengthPercentage

	in := transition.SlideIn(spec.Linear(), unset, unset)
	assert.Contains(t, in.InitialStyle(), "--start-slide-in-offset-x: -100%;--start-slide-in-offset-y: 0;")
	assert.Contains(t, in.InitialStyle(), "transition: translate 0.2s 0s linear;")

	vertical := transition.SlideInVertically(spec.Linear(), unset)
	assert.Contains(t, vertical.InitialStyle(), "--start-slide-in-offset-x: 0;--start-slide-in-offset-y: 100%;")

	out := transition.SlideOutHorizontally(spec.Linear(), domain.MustLengthPercentage("20px"))
	assert.Contains(t, out.FinishStyle(), "--finish-slide-out-offset-x: 20px;--finish-slide-out-offset-y: 0;")
	assert.Equal(t, "slide-out-animation-finish", out.FinishClasses())
}

func TestExpand(t *testing.T) {
	v := transition.ExpandVertically(spec.Specification{})
	assert.Equal(t, transition.KindExpand, v.Kind())
	assert.Equal(t,
		"--start-expand-scale-x: 1;--start-expand-scale-y: 0;--finish-expand-scale-x: 1;--finish-expand-scale-y: 1;",
		v.FinishedStyle())

	h := transition.ExpandHorizontally(spec.Specification{})
	assert.Contains(t, h.FinishedStyle(), "--start-expand-scale-x: 0;--start-expand-scale-y: 1;")
	assert.Equal(t, "expand-animation-start", h.InitialClasses())
}

func TestCombine_Associative(t *testing.T) {
	a := transition.FadeIn(spec.Linear100ms)
	b := transition.SlideInVertically(spec.Ease200ms, domain.LengthPercentage{})
	c := transition.ExpandHorizontally(spec.EaseOut500ms)

	left := a.CombineWith(b).CombineWith(c)
	right := a.CombineWith(b.CombineWith(c))
	flat := transition.CombineEnter(a, b, c)

	assert.Equal(t, left.Parts(), right.Parts())
	assert.Equal(t, left.Parts(), flat.Parts())
	require.Len(t, left.Parts(), 3)
	assert.Equal(t, transition.KindCombined, left.Kind())
	assert.Equal(t, []string{"opacity", "translate", "scale"},
		[]string{left.Parts()[0].Property(), left.Parts()[1].Property(), left.Parts()[2].Property()})
	assert.Equal(t, left.InitialStyle(), right.InitialStyle())
}

func TestCombine_Rendering(t *testing.T) {
	combined := transition.FadeOut(spec.Linear()).
		CombineWith(transition.SlideOut(spec.EaseIn500ms, domain.LengthPercentage{}, domain.LengthPercentage{}))

	assert.Equal(t,
		"--start-fade-out-opacity: 1;--finish-fade-out-opacity: 0;"+
			"--finish-slide-out-offset-x: -100%;--finish-slide-out-offset-y: 0;"+
			"transition: opacity 0.2s 0s linear, translate 0.5s 0s ease-in;",
		combined.FinishStyle())
	assert.Equal(t, "fade-out-animation-start slide-out-animation-start", combined.InitialClasses())
	assert.NotContains(t, combined.FinishedStyle(), "transition:")
}

func TestCombine_LongestDuration(t *testing.T) {
	combined := transition.CombineEnter(
		transition.FadeIn(spec.Linear(spec.WithDuration(100*time.Millisecond))),
		transition.SlideIn(spec.Linear(spec.WithDuration(300*time.Millisecond)), domain.LengthPercentage{}, domain.LengthPercentage{}),
		transition.ExpandVertically(spec.Linear(spec.WithDuration(100*time.Millisecond), spec.WithDelay(50*time.Millisecond))),
	)
	assert.Equal(t, 300*time.Millisecond, spec.LongestTotalDuration(combined.Specifications()))
}

func TestCloneWith(t *testing.T) {
	original := transition.CombineExit(
		transition.FadeOut(spec.EaseInOut200ms),
		transition.SlideOutVertically(spec.Linear100ms, domain.LengthPercentage{}),
	)
	slower := original.CloneWith(func(s spec.Specification) spec.Specification {
		return s.CloneWith(spec.WithDuration(time.Second))
	})

	for i, p := range slower.Parts() {
		assert.Equal(t, time.Second, p.Spec().Duration())
		assert.Equal(t, original.Parts()[i].Spec().TimingFunction(), p.Spec().TimingFunction())
		assert.Equal(t, original.Parts()[i].Variables(), p.Variables())
		assert.Equal(t, original.Parts()[i].Property(), p.Property())
	}
	assert.Equal(t, 200*time.Millisecond, original.Parts()[0].Spec().Duration())
}

func TestZeroValue(t *testing.T) {
	var enter transition.Enter
	assert.True(t, enter.IsZero())
	assert.Equal(t, transition.KindNone, enter.Kind())

	fallback := transition.FadeIn(spec.Linear())
	assert.Equal(t, fallback, enter.Or(fallback))

	assert.PanicsWithError(t, "missing value: transition must be set before it is used", func() {
		_ = enter.InitialStyle()
	})
}
