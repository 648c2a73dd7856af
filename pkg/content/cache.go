package content

// Cached holds a value that is either Unresolved or Resolved. A resolved
// value is returned as is until Clear is called.
type Cached[T any] struct {
	value    T
	resolved bool
}

// Resolve returns the cached value when resolved. Otherwise it computes a
// value and, when lock is true, stores it as resolved. Zero values are
// cached like any other.
func (c *Cached[T]) Resolve(compute func() T, lock bool) T {
	if c.resolved {
		return c.value
	}
	v := compute()
	c.value = v
	c.resolved = lock
	return v
}

// Get returns the last value and whether it is resolved.
func (c *Cached[T]) Get() (T, bool) { return c.value, c.resolved }

// IsResolved reports whether a value is locked in.
func (c *Cached[T]) IsResolved() bool { return c.resolved }

// Clear returns the cache to the Unresolved state.
func (c *Cached[T]) Clear() {
	var zero T
	c.value = zero
	c.resolved = false
}
