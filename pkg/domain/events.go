package domain

import (
	"time"
)

// StateEvent describes one state transition of a visibility machine.
type StateEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Owner     string          `json:"owner"`
	From      VisibilityState `json:"from"`
	To        VisibilityState `json:"to"`
}

// TimerEvent describes a completion timer being scheduled.
type TimerEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Owner     string          `json:"owner"`
	State     VisibilityState `json:"state"`
	Duration  time.Duration   `json:"duration"`
}

// SlotEvent describes a content slot being created, reused or removed.
type SlotEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Owner     string    `json:"owner"`
	Key       int       `json:"key"`
	Action    string    `json:"action"`
}

const (
	SlotCreated = "created"
	SlotReused  = "reused"
	SlotRemoved = "removed"
)

// Hooks defines callbacks for engine observability.
// Every field is optional.
type Hooks struct {
	OnStateChange  func(StateEvent)
	OnTimerStarted func(TimerEvent)
	OnSlot         func(SlotEvent)
}

// StateChanged invokes OnStateChange if set.
func (h Hooks) StateChanged(e StateEvent) {
	if h.OnStateChange != nil {
		h.OnStateChange(e)
	}
}

// TimerStarted invokes OnTimerStarted if set.
func (h Hooks) TimerStarted(e TimerEvent) {
	if h.OnTimerStarted != nil {
		h.OnTimerStarted(e)
	}
}

// Slot invokes OnSlot if set.
func (h Hooks) Slot(e SlotEvent) {
	if h.OnSlot != nil {
		h.OnSlot(e)
	}
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnStateChange: func(e StateEvent) {
			h.StateChanged(e)
			other.StateChanged(e)
		},
		OnTimerStarted: func(e TimerEvent) {
			h.TimerStarted(e)
			other.TimerStarted(e)
		},
		OnSlot: func(e SlotEvent) {
			h.Slot(e)
			other.Slot(e)
		},
	}
}
