package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/motion/pkg/domain"
)

// Overlay marks the states currently held by the elements of a frame.
type Overlay struct {
	// Elements maps a state to the labels of the elements in it.
	Elements map[domain.VisibilityState][]string
}

// OverlayOf builds the overlay of a rendered frame. Elements without a label
// are named by key.
func OverlayOf(frame *domain.Frame) *Overlay {
	o := &Overlay{Elements: map[domain.VisibilityState][]string{}}
	if frame == nil {
		return o
	}
	for _, el := range frame.Elements {
		label := el.Label
		if label == "" {
			label = fmt.Sprintf("#%d", el.Key)
		}
		o.Elements[el.State] = append(o.Elements[el.State], label)
	}
	return o
}

type edge struct {
	from, to  domain.VisibilityState
	label     string
	interrupt bool
}

var states = []domain.VisibilityState{domain.Hidden, domain.Showing, domain.Shown, domain.Hiding}

var edges = []edge{
	{from: domain.Hidden, to: domain.Showing, label: "visible"},
	{from: domain.Showing, to: domain.Shown, label: "timer"},
	{from: domain.Shown, to: domain.Hiding, label: "hidden"},
	{from: domain.Hiding, to: domain.Hidden, label: "timer"},
	{from: domain.Showing, to: domain.Hiding, label: "hidden", interrupt: true},
	{from: domain.Hiding, to: domain.Showing, label: "visible", interrupt: true},
}

// GenerateMermaid produces a Mermaid flowchart of the visibility cycle.
// Settled states are drawn as circles, animated ones as rectangles, and
// interruptions as dotted arrows. States held by an element of the overlay
// are highlighted and annotated with the element labels.
func GenerateMermaid(overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, s := range states {
		opener, closer := "[", "]"
		if s.IsTerminal() {
			opener, closer = "((", "))"
		}
		label := s.String()
		if overlay != nil {
			if names := overlay.Elements[s]; len(names) > 0 {
				sorted := append([]string(nil), names...)
				sort.Strings(sorted)
				label = fmt.Sprintf("%s <br/> %s", label, strings.ReplaceAll(strings.Join(sorted, ", "), "\"", "'"))
			}
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", s.String(), opener, label, closer))
	}

	for _, e := range edges {
		arrow := fmt.Sprintf("-- \"%s\" -->", e.label)
		if e.interrupt {
			arrow = fmt.Sprintf("-. \"%s\" .->", e.label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", e.from.String(), arrow, e.to.String()))
	}

	if overlay != nil && len(overlay.Elements) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, s := range states {
			if len(overlay.Elements[s]) > 0 {
				sb.WriteString(fmt.Sprintf("    class %s current;\n", s.String()))
			}
		}
	}

	return sb.String()
}
