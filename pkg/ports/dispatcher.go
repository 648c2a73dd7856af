package ports

// Dispatcher runs callbacks on the goroutine that owns the state machines.
// Timer callbacks arrive from other goroutines and must go through it.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

// Dispatch calls f(fn).
func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }
