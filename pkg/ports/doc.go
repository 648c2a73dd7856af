/*
Package ports defines the driven ports (interfaces) for the motion runtime.

These interfaces decouple the animation core from the host environment: the
clock that mirrors CSS durations, the browser that applies styles and
measures elements, and the storage that keeps rendered frames.

# Key Interfaces

  - TimerService: Starts the completion timer of a transition.
  - StyleFlusher: Confirms that the host applied a style before the next one is rendered.
  - SizeMeter and SizeObserver: Measure and watch element sizes.
  - Dispatcher: Hands callbacks back to the goroutine that owns the machines.
  - FrameStore: Persists rendered frames per session.
  - DistributedLocker: Serializes session mutations across replicas.
*/
package ports
