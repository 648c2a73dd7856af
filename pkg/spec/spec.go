// Package spec describes the timing of a single CSS transition: its
// duration, its delay and its timing function.
//
// A Specification renders itself into "transition" declarations and into
// "animation" shorthand values. Numbers are always written with a dot
// separator and at most two decimals, whatever the host locale is.
package spec

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/motion/pkg/domain"
)

const (
	// DefaultDuration is used when a preset is built without a duration.
	DefaultDuration = 200 * time.Millisecond
	// DefaultDelay is used when a preset is built without a delay.
	DefaultDelay = time.Duration(0)
)

// Specification is an immutable duration, delay and timing-function triple.
//
// The zero value is unassigned: it stands for "use the default" wherever a
// Specification is optional, and reading its fields panics with an error
// wrapping domain.ErrMissingValue.
type Specification struct {
	duration    time.Duration
	delay       time.Duration
	timing      string
	hasDuration bool
	hasDelay    bool
}

// Option adjusts the duration or the delay of a specification.
type Option func(*Specification)

// WithDuration sets the duration.
func WithDuration(d time.Duration) Option {
	return func(s *Specification) {
		s.duration = d
		s.hasDuration = true
	}
}

// WithDelay sets the delay.
func WithDelay(d time.Duration) Option {
	return func(s *Specification) {
		s.delay = d
		s.hasDelay = true
	}
}

// WithDurationMs sets the duration in milliseconds.
func WithDurationMs(ms float64) Option {
	return WithDuration(time.Duration(ms * float64(time.Millisecond)))
}

// WithDelayMs sets the delay in milliseconds.
func WithDelayMs(ms float64) Option {
	return WithDelay(time.Duration(ms * float64(time.Millisecond)))
}

// New builds a specification for any CSS timing function token.
// Duration and delay default to 200ms and 0.
func New(timingFunction string, opts ...Option) Specification {
	s := Specification{
		duration:    DefaultDuration,
		delay:       DefaultDelay,
		timing:      timingFunction,
		hasDuration: true,
		hasDelay:    true,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// IsZero reports whether the specification is unassigned.
func (s Specification) IsZero() bool {
	return !s.hasDuration && !s.hasDelay && s.timing == ""
}

// Or returns s, or fallback when s is unassigned.
func (s Specification) Or(fallback Specification) Specification {
	if s.IsZero() {
		return fallback
	}
	return s
}

// Duration returns the transition duration.
func (s Specification) Duration() time.Duration {
	if !s.hasDuration {
		panic(domain.MissingValue("transition's duration must be set before transition is used"))
	}
	return s.duration
}

// Delay returns the transition delay.
func (s Specification) Delay() time.Duration {
	if !s.hasDelay {
		panic(domain.MissingValue("transition's delay must be set before transition is used"))
	}
	return s.delay
}

// TimingFunction returns the CSS timing function token.
func (s Specification) TimingFunction() string {
	if s.timing == "" {
		panic(domain.MissingValue("transition's timing function must be set before transition is used"))
	}
	return s.timing
}

// TotalDuration is the time until the transition completes: duration + delay.
func (s Specification) TotalDuration() time.Duration {
	return s.Duration() + s.Delay()
}

// TransitionValue returns "{property} {duration} {delay} {timing}", the form
// used when several properties share one transition declaration.
func (s Specification) TransitionValue(property string) string {
	return fmt.Sprintf("%s %s %s %s", property, Seconds(s.Duration()), Seconds(s.Delay()), s.TimingFunction())
}

// Style returns the whole "transition: ...;" declaration for one property.
func (s Specification) Style(property string) string {
	return "transition: " + s.TransitionValue(property) + ";"
}

// AnimationValue returns "{duration} {timing} {delay}" for the animation
// shorthand, whose grammar orders the fields differently.
func (s Specification) AnimationValue() string {
	return fmt.Sprintf("%s %s %s", Seconds(s.Duration()), s.TimingFunction(), Seconds(s.Delay()))
}

// CloneWith returns a copy with the same timing function. Options that are
// not passed keep the original values.
func (s Specification) CloneWith(opts ...Option) Specification {
	clone := Specification{
		duration:    s.Duration(),
		delay:       s.Delay(),
		timing:      s.TimingFunction(),
		hasDuration: true,
		hasDelay:    true,
	}
	for _, opt := range opts {
		opt(&clone)
	}
	return clone
}

// String implements fmt.Stringer. Unassigned specifications print as "<unset>".
func (s Specification) String() string {
	if s.IsZero() {
		return "<unset>"
	}
	return s.AnimationValue()
}

// Seconds renders d as CSS time in seconds: 200ms → "0.2s", 0 → "0s".
func Seconds(d time.Duration) string {
	return domain.FormatNumber(d.Seconds()) + "s"
}

// LongestTotalDuration returns the largest TotalDuration among specs, or 0
// for an empty list. A combined transition completes with its slowest member.
func LongestTotalDuration(specs []Specification) time.Duration {
	var longest time.Duration
	for _, s := range specs {
		if total := s.TotalDuration(); total > longest {
			longest = total
		}
	}
	return longest
}

// CubicBezierToken renders the timing-function token for four control points.
func CubicBezierToken(p1, p2, p3, p4 float64) string {
	parts := []string{
		domain.FormatNumber(p1),
		domain.FormatNumber(p2),
		domain.FormatNumber(p3),
		domain.FormatNumber(p4),
	}
	return "cubic-bezier(" + strings.Join(parts, ", ") + ")"
}
