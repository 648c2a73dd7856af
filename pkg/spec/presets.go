package spec

import "time"

// Timing function tokens.
const (
	TimingLinear    = "linear"
	TimingEase      = "ease"
	TimingEaseIn    = "ease-in"
	TimingEaseOut   = "ease-out"
	TimingEaseInOut = "ease-in-out"
)

// Linear moves at constant speed.
func Linear(opts ...Option) Specification { return New(TimingLinear, opts...) }

// Ease starts slowly, speeds up and slows down at the end.
func Ease(opts ...Option) Specification { return New(TimingEase, opts...) }

// EaseIn starts slowly.
func EaseIn(opts ...Option) Specification { return New(TimingEaseIn, opts...) }

// EaseOut ends slowly.
func EaseOut(opts ...Option) Specification { return New(TimingEaseOut, opts...) }

// EaseInOut starts and ends slowly.
func EaseInOut(opts ...Option) Specification { return New(TimingEaseInOut, opts...) }

// CubicBezier uses a custom curve defined by two control points (p1,p2) and (p3,p4).
func CubicBezier(p1, p2, p3, p4 float64, opts ...Option) Specification {
	return New(CubicBezierToken(p1, p2, p3, p4), opts...)
}

// Common presets.
var (
	Linear100ms = Linear(WithDuration(100 * time.Millisecond))
	Linear200ms = Linear(WithDuration(200 * time.Millisecond))
	Linear500ms = Linear(WithDuration(500 * time.Millisecond))

	Ease100ms = Ease(WithDuration(100 * time.Millisecond))
	Ease200ms = Ease(WithDuration(200 * time.Millisecond))
	Ease500ms = Ease(WithDuration(500 * time.Millisecond))

	EaseIn100ms = EaseIn(WithDuration(100 * time.Millisecond))
	EaseIn200ms = EaseIn(WithDuration(200 * time.Millisecond))
	EaseIn500ms = EaseIn(WithDuration(500 * time.Millisecond))

	EaseOut100ms = EaseOut(WithDuration(100 * time.Millisecond))
	EaseOut200ms = EaseOut(WithDuration(200 * time.Millisecond))
	EaseOut500ms = EaseOut(WithDuration(500 * time.Millisecond))

	EaseInOut100ms = EaseInOut(WithDuration(100 * time.Millisecond))
	EaseInOut200ms = EaseInOut(WithDuration(200 * time.Millisecond))
	EaseInOut500ms = EaseInOut(WithDuration(500 * time.Millisecond))
)

// ByName resolves a timing token name to its preset constructor.
// Unknown names are treated as raw CSS timing-function tokens.
func ByName(name string, opts ...Option) Specification {
	switch name {
	case "", TimingLinear:
		return Linear(opts...)
	default:
		return New(name, opts...)
	}
}
