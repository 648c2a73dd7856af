package observability

import (
	"log/slog"

	"github.com/aretw0/motion/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by engine hooks.
type Metrics struct {
	Transitions *prometheus.CounterVec
	Timers      *prometheus.HistogramVec
	Slots       *prometheus.CounterVec
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "motion_state_transitions_total",
				Help: "Total number of visibility state transitions",
			},
			[]string{"from", "to"},
		),
		Timers: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "motion_transition_timer_seconds",
				Help:    "Duration of scheduled completion timers",
				Buckets: []float64{0, .05, .1, .2, .3, .5, 1, 2, 5},
			},
			[]string{"state"},
		),
		Slots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "motion_content_slots_total",
				Help: "Content slots created, reused and removed",
			},
			[]string{"action"},
		),
	}
}

// Register registers every collector with r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Transitions, m.Timers, m.Slots} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Hooks returns hooks recording into the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnStateChange: func(e domain.StateEvent) {
			m.Transitions.WithLabelValues(e.From.String(), e.To.String()).Inc()
		},
		OnTimerStarted: func(e domain.TimerEvent) {
			m.Timers.WithLabelValues(e.State.String()).Observe(e.Duration.Seconds())
		},
		OnSlot: func(e domain.SlotEvent) {
			m.Slots.WithLabelValues(e.Action).Inc()
		},
	}
}

// LogHooks returns hooks writing every event to logger at Debug level.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnStateChange: func(e domain.StateEvent) {
			logger.Debug("state_change", "owner", e.Owner, "from", e.From, "to", e.To)
		},
		OnTimerStarted: func(e domain.TimerEvent) {
			logger.Debug("timer_started", "owner", e.Owner, "state", e.State, "timer", e.Duration)
		},
		OnSlot: func(e domain.SlotEvent) {
			logger.Debug("slot", "owner", e.Owner, "key", e.Key, "action", e.Action)
		},
	}
}
