package ports

import "time"

// Registration is a pending timer.
type Registration interface {
	// Abort cancels the timer. The callback will not run after Abort returns.
	// Calling Abort more than once is a no-op.
	Abort()
}

// TimerService starts the timers that mirror CSS transition durations.
type TimerService interface {
	// StartNew schedules fn after d. When previous is not nil it is aborted
	// before the new timer is created. A non-positive d runs fn synchronously
	// and returns a nil Registration.
	//
	// The owner identifies the caller for diagnostics only.
	StartNew(d time.Duration, fn func(), owner any, previous Registration) Registration
}
