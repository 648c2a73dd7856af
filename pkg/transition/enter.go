package transition

import (
	"fmt"

	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/spec"
)

// Enter animates an element into view. The zero value is unassigned.
type Enter struct {
	parts parts
}

// FadeIn animates opacity from 0 to 1. A zero spec means spec.Linear().
func FadeIn(s spec.Specification) Enter {
	return FadeInFrom(s, 0, 1)
}

// FadeInFrom animates opacity between the given values.
func FadeInFrom(s spec.Specification, initialOpacity, finishOpacity float64) Enter {
	return Enter{parts: parts{{
		kind:     KindFade,
		property: PropertyOpacity,
		spec:     orLinear(s),
		allTimeStyle: fmt.Sprintf("--start-fade-in-opacity: %s;--finish-fade-in-opacity: %s;",
			domain.FormatNumber(initialOpacity), domain.FormatNumber(finishOpacity)),
		initialClass: "fade-in-animation-start",
		finishClass:  "fade-in-animation-finish",
	}}}
}

// SlideIn translates the element from the given offset to its place.
// Unassigned offsets default to x=-100% and y=0.
func SlideIn(s spec.Specification, x, y domain.LengthPercentage) Enter {
	return Enter{parts: parts{{
		kind:     KindSlide,
		property: PropertyTranslate,
		spec:     orLinear(s),
		allTimeStyle: fmt.Sprintf("--start-slide-in-offset-x: %s;--start-slide-in-offset-y: %s;",
			offsetOr(x, "-100%"), offsetOr(y, "0")),
		initialClass: "slide-in-animation-start",
		finishClass:  "slide-in-animation-finish",
	}}}
}

// SlideInVertically slides along the y axis. An unassigned offset means 100%.
func SlideInVertically(s spec.Specification, y domain.LengthPercentage) Enter {
	return SlideIn(s, domain.MustLengthPercentage("0"), fallbackOffset(y, "100%"))
}

// SlideInHorizontally slides along the x axis. An unassigned offset means -100%.
func SlideInHorizontally(s spec.Specification, x domain.LengthPercentage) Enter {
	return SlideIn(s, fallbackOffset(x, "-100%"), domain.MustLengthPercentage("0"))
}

// ExpandVertically scales the element from a zero height.
func ExpandVertically(s spec.Specification) Enter {
	return expand(s, 1, 0, 1, 1)
}

// ExpandHorizontally scales the element from a zero width.
func ExpandHorizontally(s spec.Specification) Enter {
	return expand(s, 0, 1, 1, 1)
}

func expand(s spec.Specification, startX, startY, finishX, finishY float64) Enter {
	return Enter{parts: parts{{
		kind:     KindExpand,
		property: PropertyScale,
		spec:     orLinear(s),
		allTimeStyle: fmt.Sprintf("--start-expand-scale-x: %s;--start-expand-scale-y: %s;--finish-expand-scale-x: %s;--finish-expand-scale-y: %s;",
			domain.FormatNumber(startX), domain.FormatNumber(startY),
			domain.FormatNumber(finishX), domain.FormatNumber(finishY)),
		initialClass: "expand-animation-start",
		finishClass:  "expand-animation-finish",
	}}}
}

// CombineEnter combines transitions into one that runs them in parallel.
func CombineEnter(transitions ...Enter) Enter {
	var out Enter
	for _, t := range transitions {
		out = out.CombineWith(t)
	}
	return out
}

// IsZero reports whether the transition is unassigned.
func (e Enter) IsZero() bool { return len(e.parts) == 0 }

// Or returns e, or fallback when e is unassigned.
func (e Enter) Or(fallback Enter) Enter {
	if e.IsZero() {
		return fallback
	}
	return e
}

// Kind returns the variant of the transition.
func (e Enter) Kind() Kind { return e.parts.kind() }

// Parts returns a copy of the flattened list of specific transitions.
func (e Enter) Parts() []Part { return append([]Part(nil), e.parts...) }

// CombineWith returns a transition running e and other in parallel.
func (e Enter) CombineWith(other Enter) Enter { return Enter{parts: e.parts.concat(other.parts)} }

// CloneWith returns a copy whose specifications went through transform.
func (e Enter) CloneWith(transform func(spec.Specification) spec.Specification) Enter {
	return Enter{parts: e.parts.cloneWith(transform)}
}

// InitialStyle is the style before the element enters, with the transition declaration.
func (e Enter) InitialStyle() string { return e.parts.initialStyle() }

// FinishStyle is the style the element transitions to.
func (e Enter) FinishStyle() string { return e.parts.finishStyle() }

// FinishedStyle is FinishStyle without the transition declaration.
func (e Enter) FinishedStyle() string { return e.parts.finishedStyle() }

// InitialClasses are the classes applied before the element enters.
func (e Enter) InitialClasses() string { return e.parts.initialClasses() }

// FinishClasses are the classes applied while and after the element enters.
func (e Enter) FinishClasses() string { return e.parts.finishClasses() }

// Specifications lists the specification of every part, in order.
func (e Enter) Specifications() []spec.Specification { return e.parts.specifications() }

func (e Enter) String() string { return "enter[" + e.parts.String() + "]" }

func offsetOr(v domain.LengthPercentage, fallback string) string {
	if !v.IsAssigned() {
		return fallback
	}
	return v.String()
}

func fallbackOffset(v domain.LengthPercentage, fallback string) domain.LengthPercentage {
	if !v.IsAssigned() {
		return domain.MustLengthPercentage(fallback)
	}
	return v
}
