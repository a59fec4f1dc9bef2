// Package engine drives the data-driven dispatch: validate the arguments,
// select one operation, call it, normalize the response and build the result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	"github.com/odetolakehinde/cloudinfo/pkg/normalize"
)

// Detailed is implemented by errors carrying structured failure detail that
// belongs in the Ansible failure object (error codes, status codes, request ids).
type Detailed interface {
	error
	Details() map[string]any
}

// Engine runs modules.
type Engine struct {
	logger  zerolog.Logger
	missing normalize.MissingFieldPolicy
}

// New creates an Engine. missing overrides every module's missing field policy.
func New(logger zerolog.Logger, missing normalize.MissingFieldPolicy) *Engine {
	return &Engine{
		logger:  logger.With().Str(common.LogStrLayer, "engine").Logger(),
		missing: missing,
	}
}

// Run executes mod with args and always returns a result to print. Failures
// are reported as they happen; no partial records are returned.
func (e *Engine) Run(ctx context.Context, mod Module, args ansible.Args) ansible.Result {
	log := e.logger.With().Str(common.LogStrModule, mod.Name).Logger()

	spec := mod.ArgumentSpec()
	params, err := spec.Validate(mod.Name, args.Params)
	if err != nil {
		log.Debug().Err(err).Msg("argument validation failed")
		return ansible.Fail(err.Error(), nil)
	}
	invocation := params.Masked(spec.NoLogNames())

	op, err := mod.Select(params)
	if err != nil {
		return ansible.Fail(err.Error(), nil).WithInvocation(invocation)
	}
	log = log.With().Str(common.LogStrOperation, op.Name).Logger()

	if missing := op.missingRequirements(params); len(missing) > 0 {
		err := fmt.Errorf("%w: operation %s requires %s", common.ErrMissingRequired, op.Name, strings.Join(missing, ", "))
		return ansible.Fail(err.Error(), nil).WithInvocation(invocation)
	}

	records, err := e.dispatch(ctx, mod, op, params)
	if err != nil {
		log.Error().Err(err).Msg("operation failed")
		return failure(fmt.Sprintf("failed to run %s", op.Name), err).WithInvocation(invocation)
	}

	log.Debug().Int("records", len(records)).Msg("operation succeeded")
	return ansible.Exit(op.resultKey(mod), records).WithInvocation(invocation)
}

func (e *Engine) dispatch(ctx context.Context, mod Module, op Operation, params ansible.Params) ([]any, error) {
	e.logger.Debug().Str(common.LogStrMethod, "dispatch").Str(common.LogStrOperation, op.Name).
		Bool("paginated", op.Paginated).Msg("calling provider")

	response, err := op.Call(ctx, params)
	if err != nil {
		return nil, err
	}

	var pages any
	if op.Paginated {
		outputs, ok := response.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: paginated operation %s returned %T", common.ErrInvalidResponse, op.Name, response)
		}
		if pages, err = normalize.ToPages(outputs); err != nil {
			return nil, err
		}
	} else if pages, err = normalize.ToPage(response); err != nil {
		return nil, err
	}

	opts := mod.Normalize
	opts.Missing = e.missing
	return normalize.Flatten(op.Paginated, pages, op.Field, opts)
}

// failure renders err as an Ansible failure, merging structured detail.
func failure(msg string, err error) ansible.Result {
	var detailed Detailed
	if errors.As(err, &detailed) {
		return ansible.Fail(fmt.Sprintf("%s: %v", msg, err), detailed.Details())
	}
	return ansible.Fail(fmt.Sprintf("%s: %v", msg, err), nil)
}
