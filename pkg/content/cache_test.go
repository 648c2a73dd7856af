package content_test

import (
	"testing"

	"github.com/aretw0/motion/pkg/content"
	"github.com/stretchr/testify/assert"
)

func TestCachedLocksFirstValue(t *testing.T) {
	var c content.Cached[string]
	calls := 0
	compute := func(v string) func() string {
		return func() string {
			calls++
			return v
		}
	}

	assert.Equal(t, "a", c.Resolve(compute("a"), true))
	assert.Equal(t, "a", c.Resolve(compute("b"), true))
	assert.Equal(t, 1, calls)

	v, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestCachedZeroValueIsLocked(t *testing.T) {
	var c content.Cached[string]
	assert.Equal(t, "", c.Resolve(func() string { return "" }, true))
	assert.True(t, c.IsResolved())
	assert.Equal(t, "", c.Resolve(func() string { return "later" }, true))
}

func TestCachedWithoutLock(t *testing.T) {
	var c content.Cached[int]
	assert.Equal(t, 1, c.Resolve(func() int { return 1 }, false))
	assert.Equal(t, 2, c.Resolve(func() int { return 2 }, false))
	assert.False(t, c.IsResolved())

	v, _ := c.Get()
	assert.Equal(t, 2, v)
}

func TestCachedClear(t *testing.T) {
	var c content.Cached[int]
	c.Resolve(func() int { return 1 }, true)
	c.Clear()
	assert.False(t, c.IsResolved())
	assert.Equal(t, 5, c.Resolve(func() int { return 5 }, true))
}

func TestStateChange(t *testing.T) {
	change := content.StateChange[string]{Source: "a", IsSourcePresent: true, Target: "b"}
	assert.True(t, change.SourceEquals("a"))
	assert.False(t, change.SourceEquals("b"))
	assert.Equal(t, "a", change.SourceOrDefault("none"))

	first := content.StateChange[string]{Target: "a"}
	assert.False(t, first.SourceEquals(""))
	assert.Equal(t, "none", first.SourceOrDefault("none"))
}
