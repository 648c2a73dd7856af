package config

import (
	"fmt"
	"sort"

	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/spec"
	"github.com/aretw0/motion/pkg/transition"
)

// Library holds named specifications and transitions.
type Library struct {
	specs  map[string]spec.Specification
	enters map[string]transition.Enter
	exits  map[string]transition.Exit
}

// Default returns a library with the built-in presets only.
func Default() *Library {
	l := &Library{
		specs:  map[string]spec.Specification{},
		enters: map[string]transition.Enter{},
		exits:  map[string]transition.Exit{},
	}
	presets := map[string]func(...spec.Option) spec.Specification{
		spec.TimingLinear:    spec.Linear,
		spec.TimingEase:      spec.Ease,
		spec.TimingEaseIn:    spec.EaseIn,
		spec.TimingEaseOut:   spec.EaseOut,
		spec.TimingEaseInOut: spec.EaseInOut,
	}
	for name, build := range presets {
		l.specs[name] = build()
		for _, ms := range []int{100, 200, 500} {
			l.specs[fmt.Sprintf("%s-%dms", name, ms)] = build(spec.WithDurationMs(float64(ms)))
		}
	}

	var unset domain.LengthPercentage
	l.enters["fade-in"] = transition.FadeIn(spec.Specification{})
	l.enters["slide-in"] = transition.SlideIn(spec.Specification{}, unset, unset)
	l.enters["slide-in-vertically"] = transition.SlideInVertically(spec.Specification{}, unset)
	l.enters["slide-in-horizontally"] = transition.SlideInHorizontally(spec.Specification{}, unset)
	l.enters["expand-vertically"] = transition.ExpandVertically(spec.Specification{})
	l.enters["expand-horizontally"] = transition.ExpandHorizontally(spec.Specification{})

	l.exits["fade-out"] = transition.FadeOut(spec.Specification{})
	l.exits["slide-out"] = transition.SlideOut(spec.Specification{}, unset, unset)
	l.exits["slide-out-vertically"] = transition.SlideOutVertically(spec.Specification{}, unset)
	l.exits["slide-out-horizontally"] = transition.SlideOutHorizontally(spec.Specification{}, unset)
	return l
}

// Load reads a library file and merges it over the built-in presets.
func Load(path string) (*Library, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	lib, err := Build(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Build resolves a decoded file over the built-in presets.
func Build(f *File) (*Library, error) {
	l := Default()

	for _, name := range sortedKeys(f.Specs) {
		s, err := l.buildSpec(f.Specs[name], spec.Specification{})
		if err != nil {
			return nil, fmt.Errorf("spec %q: %w", name, err)
		}
		l.specs[name] = s
	}

	b := builder{lib: l, file: f, enterState: map[string]int{}, exitState: map[string]int{}}
	for _, name := range sortedKeys(f.Enters) {
		if _, err := b.enter(name); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(f.Exits) {
		if _, err := b.exit(name); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Spec returns a named specification.
func (l *Library) Spec(name string) (spec.Specification, error) {
	s, ok := l.specs[name]
	if !ok {
		return spec.Specification{}, fmt.Errorf("%w: %q", domain.ErrUnknownSpec, name)
	}
	return s, nil
}

// Enter returns a named enter transition. An empty name is the zero value.
func (l *Library) Enter(name string) (transition.Enter, error) {
	if name == "" {
		return transition.Enter{}, nil
	}
	e, ok := l.enters[name]
	if !ok {
		return transition.Enter{}, fmt.Errorf("%w: enter %q", domain.ErrUnknownTransition, name)
	}
	return e, nil
}

// Exit returns a named exit transition. An empty name is the zero value.
func (l *Library) Exit(name string) (transition.Exit, error) {
	if name == "" {
		return transition.Exit{}, nil
	}
	e, ok := l.exits[name]
	if !ok {
		return transition.Exit{}, fmt.Errorf("%w: exit %q", domain.ErrUnknownTransition, name)
	}
	return e, nil
}

// SpecNames lists the specification names, sorted.
func (l *Library) SpecNames() []string { return sortedKeys(l.specs) }

// EnterNames lists the enter transition names, sorted.
func (l *Library) EnterNames() []string { return sortedKeys(l.enters) }

// ExitNames lists the exit transition names, sorted.
func (l *Library) ExitNames() []string { return sortedKeys(l.exits) }

func (l *Library) buildSpec(c SpecConfig, base spec.Specification) (spec.Specification, error) {
	var opts []spec.Option
	if c.Duration != nil {
		if *c.Duration < 0 {
			return spec.Specification{}, fmt.Errorf("negative duration %s", *c.Duration)
		}
		opts = append(opts, spec.WithDuration(*c.Duration))
	}
	if c.Delay != nil {
		opts = append(opts, spec.WithDelay(*c.Delay))
	}
	switch {
	case c.Timing != "":
		s := spec.ByName(c.Timing)
		if !base.IsZero() {
			s = spec.New(c.Timing, spec.WithDuration(base.Duration()), spec.WithDelay(base.Delay()))
		}
		return s.CloneWith(opts...), nil
	case !base.IsZero():
		return base.CloneWith(opts...), nil
	default:
		return spec.Linear(opts...), nil
	}
}

const (
	unvisited = iota
	visiting
	done
)

type builder struct {
	lib        *Library
	file       *File
	enterState map[string]int
	exitState  map[string]int
}

func (b *builder) specOf(c TransitionConfig) (spec.Specification, error) {
	var base spec.Specification
	if c.Spec != "" {
		s, err := b.lib.Spec(c.Spec)
		if err != nil {
			return spec.Specification{}, err
		}
		base = s
	}
	return b.lib.buildSpec(c.SpecConfig, base)
}

func offsets(c TransitionConfig) (x, y domain.LengthPercentage, err error) {
	if c.X != "" {
		if x, err = domain.ParseLengthPercentage(c.X); err != nil {
			return x, y, err
		}
	}
	if c.Y != "" {
		if y, err = domain.ParseLengthPercentage(c.Y); err != nil {
			return x, y, err
		}
	}
	return x, y, nil
}

func opacities(c TransitionConfig, from, to float64) (float64, float64) {
	if c.From != nil {
		from = *c.From
	}
	if c.To != nil {
		to = *c.To
	}
	return from, to
}

func (b *builder) enter(name string) (transition.Enter, error) {
	c, inFile := b.file.Enters[name]
	if !inFile {
		return b.lib.Enter(name)
	}
	switch b.enterState[name] {
	case done:
		return b.lib.enters[name], nil
	case visiting:
		return transition.Enter{}, fmt.Errorf("enter %q: combination cycle", name)
	}
	b.enterState[name] = visiting

	e, err := b.buildEnter(c)
	if err != nil {
		return transition.Enter{}, fmt.Errorf("enter %q: %w", name, err)
	}
	b.lib.enters[name] = e
	b.enterState[name] = done
	return e, nil
}

func (b *builder) buildEnter(c TransitionConfig) (transition.Enter, error) {
	if len(c.Combine) > 0 {
		members := make([]transition.Enter, 0, len(c.Combine))
		for _, member := range c.Combine {
			e, err := b.enter(member)
			if err != nil {
				return transition.Enter{}, err
			}
			members = append(members, e)
		}
		return transition.CombineEnter(members...), nil
	}

	s, err := b.specOf(c)
	if err != nil {
		return transition.Enter{}, err
	}
	x, y, err := offsets(c)
	if err != nil {
		return transition.Enter{}, err
	}
	switch c.Kind {
	case "fade":
		from, to := opacities(c, 0, 1)
		return transition.FadeInFrom(s, from, to), nil
	case "slide":
		return transition.SlideIn(s, x, y), nil
	case "slide-vertically":
		return transition.SlideInVertically(s, y), nil
	case "slide-horizontally":
		return transition.SlideInHorizontally(s, x), nil
	case "expand-vertically":
		return transition.ExpandVertically(s), nil
	case "expand-horizontally":
		return transition.ExpandHorizontally(s), nil
	default:
		return transition.Enter{}, fmt.Errorf("%w: kind %q", domain.ErrUnknownTransition, c.Kind)
	}
}

func (b *builder) exit(name string) (transition.Exit, error) {
	c, inFile := b.file.Exits[name]
	if !inFile {
		return b.lib.Exit(name)
	}
	switch b.exitState[name] {
	case done:
		return b.lib.exits[name], nil
	case visiting:
		return transition.Exit{}, fmt.Errorf("exit %q: combination cycle", name)
	}
	b.exitState[name] = visiting

	e, err := b.buildExit(c)
	if err != nil {
		return transition.Exit{}, fmt.Errorf("exit %q: %w", name, err)
	}
	b.lib.exits[name] = e
	b.exitState[name] = done
	return e, nil
}

func (b *builder) buildExit(c TransitionConfig) (transition.Exit, error) {
	if len(c.Combine) > 0 {
		members := make([]transition.Exit, 0, len(c.Combine))
		for _, member := range c.Combine {
			e, err := b.exit(member)
			if err != nil {
				return transition.Exit{}, err
			}
			members = append(members, e)
		}
		return transition.CombineExit(members...), nil
	}

	s, err := b.specOf(c)
	if err != nil {
		return transition.Exit{}, err
	}
	x, y, err := offsets(c)
	if err != nil {
		return transition.Exit{}, err
	}
	switch c.Kind {
	case "fade":
		from, to := opacities(c, 1, 0)
		return transition.FadeOutFrom(s, from, to), nil
	case "slide":
		return transition.SlideOut(s, x, y), nil
	case "slide-vertically":
		return transition.SlideOutVertically(s, y), nil
	case "slide-horizontally":
		return transition.SlideOutHorizontally(s, x), nil
	default:
		return transition.Exit{}, fmt.Errorf("%w: exit kind %q", domain.ErrUnknownTransition, c.Kind)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
