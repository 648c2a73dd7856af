package transition

import (
	"fmt"

	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/spec"
)

// Exit animates an element out of view. The zero value is unassigned.
type Exit struct {
	parts parts
}

// FadeOut animates opacity from 1 to 0. A zero spec means spec.Linear().
func FadeOut(s spec.Specification) Exit {
	return FadeOutFrom(s, 1, 0)
}

// FadeOutFrom animates opacity between the given values.
func FadeOutFrom(s spec.Specification, initialOpacity, finishOpacity float64) Exit {
	return Exit{parts: parts{{
		kind:     KindFade,
		property: PropertyOpacity,
		spec:     orLinear(s),
		allTimeStyle: fmt.Sprintf("--start-fade-out-opacity: %s;--finish-fade-out-opacity: %s;",
			domain.FormatNumber(initialOpacity), domain.FormatNumber(finishOpacity)),
		initialClass: "fade-out-animation-start",
		finishClass:  "fade-out-animation-finish",
	}}}
}

// SlideOut translates the element from its place to the given offset.
// Unassigned offsets default to x=-100% and y=0.
func SlideOut(s spec.Specification, x, y domain.LengthPercentage) Exit {
	return Exit{parts: parts{{
		kind:     KindSlide,
		property: PropertyTranslate,
		spec:     orLinear(s),
		allTimeStyle: fmt.Sprintf("--finish-slide-out-offset-x: %s;--finish-slide-out-offset-y: %s;",
			offsetOr(x, "-100%"), offsetOr(y, "0")),
		initialClass: "slide-out-animation-start",
		finishClass:  "slide-out-animation-finish",
	}}}
}

// SlideOutVertically slides along the y axis. An unassigned offset means 100%.
func SlideOutVertically(s spec.Specification, y domain.LengthPercentage) Exit {
	return SlideOut(s, domain.MustLengthPercentage("0"), fallbackOffset(y, "100%"))
}

// SlideOutHorizontally slides along the x axis. An unassigned offset means -100%.
func SlideOutHorizontally(s spec.Specification, x domain.LengthPercentage) Exit {
	return SlideOut(s, fallbackOffset(x, "-100%"), domain.MustLengthPercentage("0"))
}

// CombineExit combines transitions into one that runs them in parallel.
func CombineExit(transitions ...Exit) Exit {
	var out Exit
	for _, t := range transitions {
		out = out.CombineWith(t)
	}
	return out
}

// IsZero reports whether the transition is unassigned.
func (e Exit) IsZero() bool { return len(e.parts) == 0 }

// Or returns e, or fallback when e is unassigned.
func (e Exit) Or(fallback Exit) Exit {
	if e.IsZero() {
		return fallback
	}
	return e
}

// Kind returns the variant of the transition.
func (e Exit) Kind() Kind { return e.parts.kind() }

// Parts returns a copy of the flattened list of specific transitions.
func (e Exit) Parts() []Part { return append([]Part(nil), e.parts...) }

// CombineWith returns a transition running e and other in parallel.
func (e Exit) CombineWith(other Exit) Exit { return Exit{parts: e.parts.concat(other.parts)} }

// CloneWith returns a copy whose specifications went through transform.
func (e Exit) CloneWith(transform func(spec.Specification) spec.Specification) Exit {
	return Exit{parts: e.parts.cloneWith(transform)}
}

// InitialStyle is the resting visible style, with the transition declaration.
func (e Exit) InitialStyle() string { return e.parts.initialStyle() }

// FinishStyle is the style the element transitions to while leaving.
func (e Exit) FinishStyle() string { return e.parts.finishStyle() }

// FinishedStyle is FinishStyle without the transition declaration.
func (e Exit) FinishedStyle() string { return e.parts.finishedStyle() }

// InitialClasses are the classes applied while the element is visible.
func (e Exit) InitialClasses() string { return e.parts.initialClasses() }

// FinishClasses are the classes applied while and after the element leaves.
func (e Exit) FinishClasses() string { return e.parts.finishClasses() }

// Specifications lists the specification of every part, in order.
func (e Exit) Specifications() []spec.Specification { return e.parts.specifications() }

func (e Exit) String() string { return "exit[" + e.parts.String() + "]" }
