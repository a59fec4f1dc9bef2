package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/normalize"
)

// OperationParam is the parameter naming the operation explicitly.
const OperationParam = "operation"

type (
	// CallFunc performs the remote call of an operation. Paginated operations
	// return []any with one element per page, the others a single response.
	CallFunc func(ctx context.Context, params ansible.Params) (any, error)

	// Operation is one row of a module's dispatch table.
	Operation struct {
		Name        string
		Description string

		// Flag is the legacy boolean option selecting this operation. Empty
		// means the operation is only reachable through OperationParam (or as default).
		Flag string

		// Requires lists parameters that must be set for this operation.
		Requires []string

		// Field is the response field holding the items; "" means the whole page.
		Field string

		// Key is the result key; the module ResultKey is used when empty.
		Key string

		Paginated bool
		Call      CallFunc
	}

	// Module binds a provider service to the Ansible contract.
	Module struct {
		Name        string
		Provider    string
		Description string

		// Common holds provider-wide connection options.
		Common ansible.ArgumentSpec
		// Options holds the module's own options.
		Options ansible.ArgumentSpec

		Operations []Operation
		Default    string
		ResultKey  string

		Normalize normalize.Options
	}
)

// Operation looks an operation up by name.
func (m Module) Operation(name string) (Operation, bool) {
	for _, op := range m.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// OperationNames lists the dispatch table in declaration order.
func (m Module) OperationNames() []string {
	names := make([]string, 0, len(m.Operations))
	for _, op := range m.Operations {
		names = append(names, op.Name)
	}
	return names
}

// ArgumentSpec merges the connection options, the module options, the
// operation selector and one boolean per operation flag.
func (m Module) ArgumentSpec() ansible.ArgumentSpec {
	selector := ansible.ArgumentSpec{Options: map[string]ansible.Option{
		OperationParam: {
			Type:        ansible.TypeStr,
			Choices:     m.OperationNames(),
			Description: "Operation to run. Defaults to " + m.Default + ".",
		},
	}}
	for _, op := range m.Operations {
		if op.Flag == "" {
			continue
		}
		selector.Options[op.Flag] = ansible.Option{
			Type:        ansible.TypeBool,
			Default:     false,
			Description: op.Description,
		}
	}

	return m.Common.Merge(m.Options, selector)
}

// Select picks the one operation params ask for. The explicit operation
// parameter and the legacy flags may agree, but not disagree; at most one
// flag may be true.
func (m Module) Select(params ansible.Params) (Operation, error) {
	var flagged []Operation
	for _, op := range m.Operations {
		if op.Flag != "" && params.Bool(op.Flag) {
			flagged = append(flagged, op)
		}
	}
	if len(flagged) > 1 {
		names := make([]string, 0, len(flagged))
		for _, op := range flagged {
			names = append(names, op.Flag)
		}
		return Operation{}, fmt.Errorf("%w: only one of %s may be set", common.ErrUnsupportedOperation, strings.Join(names, ", "))
	}

	name := params.String(OperationParam)
	switch {
	case name != "" && len(flagged) == 1 && flagged[0].Name != name:
		return Operation{}, fmt.Errorf("%w: operation=%s conflicts with %s", common.ErrUnsupportedOperation, name, flagged[0].Flag)
	case name == "" && len(flagged) == 1:
		name = flagged[0].Name
	case name == "":
		name = m.Default
	}

	op, ok := m.Operation(name)
	if !ok {
		return Operation{}, fmt.Errorf("%w: %s has no operation %q", common.ErrUnsupportedOperation, m.Name, name)
	}
	return op, nil
}

// missingRequirements returns the op's required parameters that are unset.
func (op Operation) missingRequirements(params ansible.Params) []string {
	var missing []string
	for _, name := range op.Requires {
		if !params.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// resultKey returns the key the records are published under.
func (op Operation) resultKey(m Module) string {
	if op.Key != "" {
		return op.Key
	}
	return m.ResultKey
}

// Info summarizes the module for listings.
func (m Module) Info() common.ModuleInfo {
	return common.ModuleInfo{
		Name:        m.Name,
		Provider:    m.Provider,
		Description: m.Description,
		Operations:  m.OperationNames(),
		Default:     m.Default,
	}
}
