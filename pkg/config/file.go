// Package config loads named specifications and transitions from YAML or
// JSON files into a Library.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// SpecConfig describes a specification. Durations are strings such as
// "150ms" or numbers of milliseconds.
type SpecConfig struct {
	Timing   string         `mapstructure:"timing" json:"timing,omitempty" yaml:"timing,omitempty"`
	Duration *time.Duration `mapstructure:"duration" json:"duration,omitempty" yaml:"duration,omitempty"`
	Delay    *time.Duration `mapstructure:"delay" json:"delay,omitempty" yaml:"delay,omitempty"`
}

// TransitionConfig describes an enter or an exit transition: either one
// kind of part, or a combination of other named transitions.
type TransitionConfig struct {
	// Kind is one of fade, slide, slide-vertically, slide-horizontally,
	// expand-vertically (enter only) or expand-horizontally (enter only).
	Kind string `mapstructure:"kind" json:"kind,omitempty" yaml:"kind,omitempty"`

	// Spec names an entry of specs or a built-in preset. Inline fields
	// override it.
	Spec string `mapstructure:"spec" json:"spec,omitempty" yaml:"spec,omitempty"`
	SpecConfig `mapstructure:",squash" yaml:",inline"`

	From *float64 `mapstructure:"from" json:"from,omitempty" yaml:"from,omitempty"`
	To   *float64 `mapstructure:"to" json:"to,omitempty" yaml:"to,omitempty"`
	X    string   `mapstructure:"x" json:"x,omitempty" yaml:"x,omitempty"`
	Y    string   `mapstructure:"y" json:"y,omitempty" yaml:"y,omitempty"`

	Combine []string `mapstructure:"combine" json:"combine,omitempty" yaml:"combine,omitempty"`
}

// File is the decoded content of a library file.
type File struct {
	Specs  map[string]SpecConfig       `mapstructure:"specs" json:"specs,omitempty" yaml:"specs,omitempty"`
	Enters map[string]TransitionConfig `mapstructure:"enters" json:"enters,omitempty" yaml:"enters,omitempty"`
	Exits  map[string]TransitionConfig `mapstructure:"exits" json:"exits,omitempty" yaml:"exits,omitempty"`
}

// ReadFile parses a library file. JSON is chosen by the ".json" extension,
// anything else is read as YAML.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read library file: %w", err)
	}
	return Parse(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// Parse decodes library bytes, as JSON when isJSON is set and as YAML otherwise.
func Parse(data []byte, isJSON bool) (*File, error) {
	raw := map[string]any{}
	if isJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse library json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse library yaml: %w", err)
		}
	}
	return Decode(raw)
}

// Decode maps generic data onto a File. Unknown keys are rejected.
func Decode(raw map[string]any) (*File, error) {
	var f File
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			millisecondsHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
		ErrorUnused: true,
		Result:      &f,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode library: %w", err)
	}
	return &f, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// millisecondsHook reads bare numbers as milliseconds.
func millisecondsHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if t != durationType || f == durationType {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v * float64(time.Millisecond)), nil
	}
	return data, nil
}
