package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/motion/pkg/config"
	"github.com/aretw0/motion/pkg/spec"
	"github.com/aretw0/motion/pkg/transition"
	"github.com/xlab/treeprint"
)

// Report is the resolved view of a transition library.
type Report struct {
	Specs  []SpecEntry       `yaml:"specs" json:"specs"`
	Enters []TransitionEntry `yaml:"enters" json:"enters"`
	Exits  []TransitionEntry `yaml:"exits" json:"exits"`
}

// SpecEntry is one named specification.
type SpecEntry struct {
	Name   string `yaml:"name" json:"name"`
	Timing string `yaml:"timing" json:"timing"`
	// Duration and Delay use CSS seconds, e.g. "0.2s".
	Duration string `yaml:"duration" json:"duration"`
	Delay    string `yaml:"delay" json:"delay"`
}

// TransitionEntry is one named enter or exit transition with its resolved CSS.
type TransitionEntry struct {
	Name           string      `yaml:"name" json:"name"`
	Kind           string      `yaml:"kind" json:"kind"`
	Total          string      `yaml:"total" json:"total"`
	InitialStyle   string      `yaml:"initial_style" json:"initial_style"`
	FinishStyle    string      `yaml:"finish_style" json:"finish_style"`
	FinishedStyle  string      `yaml:"finished_style,omitempty" json:"finished_style,omitempty"`
	InitialClasses string      `yaml:"initial_classes,omitempty" json:"initial_classes,omitempty"`
	FinishClasses  string      `yaml:"finish_classes,omitempty" json:"finish_classes,omitempty"`
	Parts          []PartEntry `yaml:"parts" json:"parts"`
}

// PartEntry is one animated property of a transition.
type PartEntry struct {
	Kind     string `yaml:"kind" json:"kind"`
	Property string `yaml:"property" json:"property"`
	Spec     string `yaml:"spec" json:"spec"`
}

// transitionView is the surface shared by transition.Enter and transition.Exit.
type transitionView interface {
	Kind() transition.Kind
	Parts() []transition.Part
	Specifications() []spec.Specification
	InitialStyle() string
	FinishStyle() string
	FinishedStyle() string
	InitialClasses() string
	FinishClasses() string
}

// Describe resolves every entry of lib.
func Describe(lib *config.Library) (*Report, error) {
	r := &Report{}
	for _, name := range lib.SpecNames() {
		s, err := lib.Spec(name)
		if err != nil {
			return nil, err
		}
		r.Specs = append(r.Specs, SpecEntry{
			Name:     name,
			Timing:   s.TimingFunction(),
			Duration: spec.Seconds(s.Duration()),
			Delay:    spec.Seconds(s.Delay()),
		})
	}
	for _, name := range lib.EnterNames() {
		e, err := lib.Enter(name)
		if err != nil {
			return nil, err
		}
		r.Enters = append(r.Enters, describeTransition(name, e))
	}
	for _, name := range lib.ExitNames() {
		e, err := lib.Exit(name)
		if err != nil {
			return nil, err
		}
		r.Exits = append(r.Exits, describeTransition(name, e))
	}
	return r, nil
}

func describeTransition(name string, t transitionView) TransitionEntry {
	entry := TransitionEntry{
		Name:           name,
		Kind:           t.Kind().String(),
		Total:          spec.Seconds(spec.LongestTotalDuration(t.Specifications())),
		InitialStyle:   t.InitialStyle(),
		FinishStyle:    t.FinishStyle(),
		FinishedStyle:  t.FinishedStyle(),
		InitialClasses: t.InitialClasses(),
		FinishClasses:  t.FinishClasses(),
	}
	for _, p := range t.Parts() {
		entry.Parts = append(entry.Parts, PartEntry{
			Kind:     p.Kind().String(),
			Property: p.Property(),
			Spec:     p.Spec().String(),
		})
	}
	return entry
}

// Tree renders the report as an indented tree.
func (r *Report) Tree() string {
	root := treeprint.NewWithRoot("library")

	specs := root.AddBranch(fmt.Sprintf("specs (%d)", len(r.Specs)))
	for _, s := range r.Specs {
		specs.AddNode(fmt.Sprintf("%s  %s %s %s", s.Name, s.Duration, s.Timing, s.Delay))
	}
	addTransitions(root.AddBranch(fmt.Sprintf("enters (%d)", len(r.Enters))), r.Enters)
	addTransitions(root.AddBranch(fmt.Sprintf("exits (%d)", len(r.Exits))), r.Exits)
	return root.String()
}

func addTransitions(branch treeprint.Tree, entries []TransitionEntry) {
	for _, e := range entries {
		node := branch.AddMetaBranch(e.Kind, fmt.Sprintf("%s  %s", e.Name, e.Total))
		for _, p := range e.Parts {
			node.AddMetaNode(p.Kind, fmt.Sprintf("%s  %s", p.Property, p.Spec))
		}
	}
}

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Transition library\n\n")

	b.WriteString("## Specifications\n\n")
	b.WriteString("| Name | Timing | Duration | Delay |\n|---|---|---|---|\n")
	for _, s := range r.Specs {
		fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n", s.Name, s.Timing, s.Duration, s.Delay)
	}

	writeTransitions(&b, "Enter transitions", r.Enters)
	writeTransitions(&b, "Exit transitions", r.Exits)
	return b.String()
}

func writeTransitions(b *strings.Builder, title string, entries []TransitionEntry) {
	fmt.Fprintf(b, "\n## %s\n", title)
	for _, e := range entries {
		fmt.Fprintf(b, "\n### %s\n\n", e.Name)
		fmt.Fprintf(b, "*%s*, completes after %s.\n\n", e.Kind, e.Total)
		fmt.Fprintf(b, "- initial: `%s`\n", e.InitialStyle)
		fmt.Fprintf(b, "- finish: `%s`\n", e.FinishStyle)
		if e.FinishedStyle != "" {
			fmt.Fprintf(b, "- finished: `%s`\n", e.FinishedStyle)
		}
		if e.InitialClasses != "" || e.FinishClasses != "" {
			fmt.Fprintf(b, "- classes: `%s` → `%s`\n", e.InitialClasses, e.FinishClasses)
		}
	}
}
