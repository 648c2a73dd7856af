package spec_test

import (
	"testing"
	"time"

	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := spec.Linear()
	assert.Equal(t, 200*time.Millisecond, s.Duration())
	assert.Equal(t, time.Duration(0), s.Delay())
	assert.Equal(t, "linear", s.TimingFunction())
}

func TestStyle(t *testing.T) {
	assert.Equal(t, "transition: opacity 0.2s 0s linear;", spec.Linear().Style("opacity"))
	assert.Equal(t, "transition: translate 0.5s 0.1s ease-in-out;",
		spec.EaseInOut500ms.CloneWith(spec.WithDelay(100*time.Millisecond)).Style("translate"))
}

func TestAnimationValue(t *testing.T) {
	s := spec.Ease(spec.WithDuration(1500*time.Millisecond), spec.WithDelay(250*time.Millisecond))
	assert.Equal(t, "1.5s ease 0.25s", s.AnimationValue())
}

func TestSeconds(t *testing.T) {
	cases := map[time.Duration]string{
		0:                       "0s",
		200 * time.Millisecond:  "0.2s",
		1 * time.Second:         "1s",
		1234 * time.Millisecond: "1.23s",
		10 * time.Millisecond:   "0.01s",
	}
	for d, want := range cases {
		assert.Equal(t, want, spec.Seconds(d), d.String())
	}
}

func TestCubicBezier(t *testing.T) {
	s := spec.CubicBezier(0.25, 0.1, 0.25, 1)
	assert.Equal(t, "cubic-bezier(0.25, 0.1, 0.25, 1)", s.TimingFunction())
	assert.Equal(t, "transition: scale 0.2s 0s cubic-bezier(0.25, 0.1, 0.25, 1);", s.Style("scale"))
}

func TestCloneWith(t *testing.T) {
	base := spec.EaseOut(spec.WithDuration(300*time.Millisecond), spec.WithDelay(50*time.Millisecond))

	t.Run("keeps omitted values", func(t *testing.T) {
		c := base.CloneWith(spec.WithDelay(0))
		assert.Equal(t, 300*time.Millisecond, c.Duration())
		assert.Equal(t, time.Duration(0), c.Delay())
		assert.Equal(t, "ease-out", c.TimingFunction())
	})

	t.Run("does not mutate the original", func(t *testing.T) {
		_ = base.CloneWith(spec.WithDuration(time.Second))
		assert.Equal(t, 300*time.Millisecond, base.Duration())
	})
}

func TestPresets(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, spec.Linear100ms.Duration())
	assert.Equal(t, 500*time.Millisecond, spec.EaseIn500ms.Duration())
	assert.Equal(t, "ease-in-out", spec.EaseInOut200ms.TimingFunction())
	assert.Equal(t, time.Duration(0), spec.Ease100ms.Delay())
}

func TestZeroValuePanics(t *testing.T) {
	var s spec.Specification
	assert.True(t, s.IsZero())

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, domain.ErrMissingValue)
	}()
	_ = s.Duration()
}

func TestOr(t *testing.T) {
	var unset spec.Specification
	assert.Equal(t, spec.Ease200ms, unset.Or(spec.Ease200ms))
	assert.Equal(t, spec.Linear100ms, spec.Linear100ms.Or(spec.Ease200ms))
}

func TestLongestTotalDuration(t *testing.T) {
	specs := []spec.Specification{
		spec.Linear(spec.WithDuration(200 * time.Millisecond)),
		spec.Ease(spec.WithDuration(100*time.Millisecond), spec.WithDelay(200*time.Millisecond)),
	}
	assert.Equal(t, 300*time.Millisecond, spec.LongestTotalDuration(specs))
	assert.Equal(t, time.Duration(0), spec.LongestTotalDuration(nil))
}
