// Package transition models the CSS enter and exit transitions applied to an
// element when it appears or disappears.
//
// A transition is an ordered, flat list of parts. Each part animates exactly
// one CSS property (opacity, translate or scale) with its own
// spec.Specification and a set of CSS custom properties read by the companion
// stylesheet. Combining transitions concatenates their parts, so combination
// is associative.
package transition

import (
	"strings"

	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/spec"
)

// Kind tags the variant of a transition.
type Kind int

const (
	// KindNone is the kind of an unassigned transition.
	KindNone Kind = iota
	KindFade
	KindSlide
	KindExpand
	KindCombined
)

func (k Kind) String() string {
	switch k {
	case KindFade:
		return "fade"
	case KindSlide:
		return "slide"
	case KindExpand:
		return "expand"
	case KindCombined:
		return "combined"
	default:
		return "none"
	}
}

// Transitioned CSS properties.
const (
	PropertyOpacity   = "opacity"
	PropertyTranslate = "translate"
	PropertyScale     = "scale"
)

// Part is one specific transition: a single CSS property animated with a
// single specification.
type Part struct {
	kind         Kind
	property     string
	spec         spec.Specification
	allTimeStyle string
	initialClass string
	finishClass  string
}

// Kind returns the variant of the part. It is never KindCombined.
func (p Part) Kind() Kind { return p.kind }

// Property returns the transitioned CSS property.
func (p Part) Property() string {
	if p.property == "" {
		panic(domain.MissingValue("transitioned property must be set before transition is used"))
	}
	return p.property
}

// Spec returns the timing of the part.
func (p Part) Spec() spec.Specification {
	if p.spec.IsZero() {
		panic(domain.MissingValue("animation specification must be set before transition is used"))
	}
	return p.spec
}

// Variables returns the CSS custom properties declared for the whole lifetime
// of the transition.
func (p Part) Variables() string { return p.allTimeStyle }

// InitialClass returns the class marking the start of the part.
func (p Part) InitialClass() string { return p.initialClass }

// FinishClass returns the class marking the end of the part.
func (p Part) FinishClass() string { return p.finishClass }

func (p Part) transitionValue() string { return p.Spec().TransitionValue(p.Property()) }

func (p Part) withSpec(s spec.Specification) Part {
	p.spec = s
	return p
}

// parts is the shared implementation behind Enter and Exit.
type parts []Part

func (ps parts) kind() Kind {
	switch len(ps) {
	case 0:
		return KindNone
	case 1:
		return ps[0].kind
	default:
		return KindCombined
	}
}

func (ps parts) concat(other parts) parts {
	out := make(parts, 0, len(ps)+len(other))
	out = append(out, ps...)
	return append(out, other...)
}

func (ps parts) cloneWith(transform func(spec.Specification) spec.Specification) parts {
	out := make(parts, len(ps))
	for i, p := range ps {
		out[i] = p.withSpec(transform(p.Spec()))
	}
	return out
}

func (ps parts) must() parts {
	if len(ps) == 0 {
		panic(domain.MissingValue("transition must be set before it is used"))
	}
	return ps
}

func (ps parts) transitionDeclaration() string {
	values := make([]string, len(ps))
	for i, p := range ps {
		values[i] = p.transitionValue()
	}
	return "transition: " + strings.Join(values, ", ") + ";"
}

func (ps parts) initialStyle() string {
	var b strings.Builder
	for _, p := range ps.must() {
		b.WriteString(p.allTimeStyle)
	}
	b.WriteString(ps.transitionDeclaration())
	return b.String()
}

func (ps parts) finishStyle() string {
	var b strings.Builder
	for _, p := range ps.must() {
		b.WriteString(p.allTimeStyle)
	}
	b.WriteString(ps.transitionDeclaration())
	return b.String()
}

func (ps parts) finishedStyle() string {
	var b strings.Builder
	for _, p := range ps.must() {
		b.WriteString(p.allTimeStyle)
	}
	return b.String()
}

func (ps parts) initialClasses() string {
	classes := make([]string, len(ps.must()))
	for i, p := range ps {
		classes[i] = p.initialClass
	}
	return strings.Join(classes, " ")
}

func (ps parts) finishClasses() string {
	classes := make([]string, len(ps.must()))
	for i, p := range ps {
		classes[i] = p.finishClass
	}
	return strings.Join(classes, " ")
}

func (ps parts) specifications() []spec.Specification {
	out := make([]spec.Specification, len(ps))
	for i, p := range ps {
		out[i] = p.Spec()
	}
	return out
}

func (ps parts) String() string {
	if len(ps) == 0 {
		return "<unset>"
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.kind.String() + "(" + p.property + " " + p.spec.String() + ")"
	}
	return strings.Join(names, " + ")
}

func orLinear(s spec.Specification) spec.Specification {
	return s.Or(spec.Linear())
}
