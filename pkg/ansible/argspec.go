package ansible

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

type (
	// Option declares one module parameter.
	Option struct {
		Type        string   `yaml:"type,omitempty"`
		Elements    string   `yaml:"elements,omitempty"`
		Required    bool     `yaml:"required,omitempty"`
		Default     any      `yaml:"default,omitempty"`
		Choices     []string `yaml:"choices,omitempty"`
		Aliases     []string `yaml:"aliases,omitempty"`
		NoLog       bool     `yaml:"no_log,omitempty"`
		Description string   `yaml:"description,omitempty"`

		// Min and Max bound an int option when non-zero.
		Min int `yaml:"min,omitempty"`
		Max int `yaml:"max,omitempty"`
	}

	// RequiredIf makes Requires mandatory when Key equals Value. With Any set,
	// one of Requires is enough.
	RequiredIf struct {
		Key      string
		Value    any
		Requires []string
		Any      bool
	}

	// ArgumentSpec is the full parameter contract of a module.
	ArgumentSpec struct {
		Options           map[string]Option
		MutuallyExclusive [][]string
		RequiredTogether  [][]string
		RequiredOneOf     [][]string
		RequiredIf        []RequiredIf
	}
)

// Merge returns a new spec holding the options and rules of s and every other.
// Later specs win on option name clashes.
func (s ArgumentSpec) Merge(others ...ArgumentSpec) ArgumentSpec {
	out := ArgumentSpec{Options: make(map[string]Option, len(s.Options))}
	for _, spec := range append([]ArgumentSpec{s}, others...) {
		for name, opt := range spec.Options {
			out.Options[name] = opt
		}
		out.MutuallyExclusive = append(out.MutuallyExclusive, spec.MutuallyExclusive...)
		out.RequiredTogether = append(out.RequiredTogether, spec.RequiredTogether...)
		out.RequiredOneOf = append(out.RequiredOneOf, spec.RequiredOneOf...)
		out.RequiredIf = append(out.RequiredIf, spec.RequiredIf...)
	}
	return out
}

// NoLogNames lists the options whose values must never be echoed back.
func (s ArgumentSpec) NoLogNames() []string {
	var names []string
	for _, name := range common.SortedKeys(s.Options) {
		if s.Options[name].NoLog {
			names = append(names, name)
		}
	}
	return names
}

// Validate checks raw against the spec and returns typed parameters with
// defaults applied. Every option of the spec is present in the result; unset
// options without a default hold nil.
func (s ArgumentSpec) Validate(module string, raw map[string]any) (Params, error) {
	provided, err := s.resolveAliases(module, raw)
	if err != nil {
		return nil, err
	}

	for _, group := range s.MutuallyExclusive {
		if set := presentIn(provided, group); len(set) > 1 {
			return nil, fmt.Errorf("%w: %s", common.ErrMutuallyExclusive, strings.Join(set, "|"))
		}
	}

	params := make(Params, len(s.Options))
	var missing []string
	for _, name := range common.SortedKeys(s.Options) {
		opt := s.Options[name]
		value, ok := provided[name]
		if !ok || value == nil {
			if opt.Required {
				missing = append(missing, name)
			}
			value = opt.Default
		}
		if value == nil {
			params[name] = nil
			continue
		}

		converted, err := coerce(opt.Type, opt.Elements, value)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %s is of type %T and we were unable to convert to %s: %v",
				common.ErrInvalidParameter, name, value, typeName(opt.Type), err)
		}
		if err := checkChoices(name, opt, converted); err != nil {
			return nil, err
		}
		if err := checkRange(name, opt, converted); err != nil {
			return nil, err
		}
		params[name] = converted
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingRequired, strings.Join(missing, ", "))
	}

	for _, group := range s.RequiredTogether {
		if set := presentIn(provided, group); len(set) > 0 && len(set) != len(group) {
			return nil, fmt.Errorf("%w: parameters are required together: %s", common.ErrMissingRequired, strings.Join(group, ", "))
		}
	}
	for _, group := range s.RequiredOneOf {
		if len(presentIn(provided, group)) == 0 {
			return nil, fmt.Errorf("%w: one of the following is required: %s", common.ErrMissingRequired, strings.Join(group, ", "))
		}
	}
	for _, rule := range s.RequiredIf {
		if err := rule.check(params); err != nil {
			return nil, err
		}
	}

	return params, nil
}

// resolveAliases maps aliases to canonical names and rejects unknown keys.
func (s ArgumentSpec) resolveAliases(module string, raw map[string]any) (map[string]any, error) {
	aliases := make(map[string]string)
	for name, opt := range s.Options {
		for _, alias := range opt.Aliases {
			aliases[alias] = name
		}
	}

	provided := make(map[string]any, len(raw))
	var unsupported []string
	for _, key := range common.SortedKeys(raw) {
		name := key
		if _, ok := s.Options[key]; !ok {
			canonical, isAlias := aliases[key]
			if !isAlias {
				unsupported = append(unsupported, key)
				continue
			}
			name = canonical
		}
		if _, dup := provided[name]; dup {
			return nil, fmt.Errorf("%w: %s was given more than once (through an alias)", common.ErrInvalidParameter, name)
		}
		provided[name] = raw[key]
	}

	if len(unsupported) > 0 {
		return nil, fmt.Errorf("%w: Unsupported parameters for (%s) module: %s. Supported parameters include: %s",
			common.ErrUnsupportedParameter, module, strings.Join(unsupported, ", "), strings.Join(s.supportedNames(), ", "))
	}

	return provided, nil
}

func (s ArgumentSpec) supportedNames() []string {
	var names []string
	for _, name := range common.SortedKeys(s.Options) {
		opt := s.Options[name]
		if len(opt.Aliases) == 0 {
			names = append(names, name)
			continue
		}
		names = append(names, fmt.Sprintf("%s (%s)", name, strings.Join(opt.Aliases, ", ")))
	}
	return names
}

func (r RequiredIf) check(params Params) error {
	if !reflect.DeepEqual(params[r.Key], r.Value) {
		return nil
	}

	var missing []string
	for _, name := range r.Requires {
		if !params.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 || (r.Any && len(missing) < len(r.Requires)) {
		return nil
	}

	qualifier := "all"
	if r.Any {
		qualifier = "any"
	}
	return fmt.Errorf("%w: %s is %v but %s of the following are missing: %s",
		common.ErrMissingRequired, r.Key, r.Value, qualifier, strings.Join(missing, ", "))
}

func checkChoices(name string, opt Option, v any) error {
	if len(opt.Choices) == 0 {
		return nil
	}

	allowed := common.ToMap(opt.Choices)
	values := []any{v}
	if list, ok := v.([]any); ok {
		values = list
	}
	for _, item := range values {
		s, _ := toStr(item)
		if !allowed[s] {
			return fmt.Errorf("%w: value of %s must be one of: %s, got: %v",
				common.ErrInvalidParameter, name, strings.Join(opt.Choices, ", "), item)
		}
	}
	return nil
}

func checkRange(name string, opt Option, v any) error {
	n, ok := v.(int)
	if !ok {
		return nil
	}
	if opt.Min != 0 && n < opt.Min {
		return fmt.Errorf("%w: value of %s must be at least %d, got: %d", common.ErrInvalidParameter, name, opt.Min, n)
	}
	if opt.Max != 0 && n > opt.Max {
		return fmt.Errorf("%w: value of %s must be at most %d, got: %d", common.ErrInvalidParameter, name, opt.Max, n)
	}
	return nil
}

// presentIn returns the members of group that were supplied with a non-nil value.
func presentIn(provided map[string]any, group []string) []string {
	var set []string
	for _, name := range group {
		if v, ok := provided[name]; ok && v != nil {
			set = append(set, name)
		}
	}
	sort.Strings(set)
	return set
}

func typeName(t string) string {
	if t == "" {
		return TypeStr
	}
	return t
}
