package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
)

// promptInvocation asks for the module (unless already known), the operation
// and any parameters.
func promptInvocation(reg *engine.Registry, name string) (engine.Module, ansible.Args, error) {
	if name == "" {
		names := reg.Names()
		if len(names) == 0 {
			return engine.Module{}, ansible.Args{}, common.ErrNoModule
		}
		var err error
		if name, err = promptSelect("Module", names); err != nil {
			return engine.Module{}, ansible.Args{}, err
		}
	}

	mod, err := reg.Get(name)
	if err != nil {
		return engine.Module{}, ansible.Args{}, err
	}

	op, err := promptSelect("Operation", mod.OperationNames())
	if err != nil {
		return engine.Module{}, ansible.Args{}, err
	}

	raw, err := promptInput("Parameters (key=value, comma-separated; empty for none)")
	if err != nil {
		return engine.Module{}, ansible.Args{}, err
	}

	params, err := parseKeyValues(raw)
	if err != nil {
		return engine.Module{}, ansible.Args{}, err
	}
	params[engine.OperationParam] = op

	return mod, ansible.Args{Params: params}, nil
}

// promptSelect shows a selection list on the CLI
func promptSelect(label string, items []string) (string, error) {
	prompt := promptui.Select{Label: label, Items: items, Size: 12}
	_, value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrPromptFailed, err)
	}
	return value, nil
}

// promptInput shows an interactive prompt on the CLI
func promptInput(label string) (string, error) {
	prompt := promptui.Prompt{Label: label}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrPromptFailed, err)
	}
	return strings.TrimSpace(value), nil
}

// parseKeyValues reads "a=1, b=x" into params. Values stay strings; the
// argument spec coerces them. A value containing "|" becomes a list.
func parseKeyValues(raw string) (map[string]any, error) {
	params := map[string]any{}
	for _, pair := range common.ParseCommaList(raw) {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q is not key=value", common.ErrInvalidParameter, pair)
		}

		value = strings.TrimSpace(value)
		if strings.Contains(value, "|") {
			var list []any
			for _, item := range strings.Split(value, "|") {
				list = append(list, strings.TrimSpace(item))
			}
			params[key] = list
			continue
		}
		params[key] = value
	}
	return params, nil
}
