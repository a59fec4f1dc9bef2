package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	appconfig "github.com/odetolakehinde/cloudinfo/pkg/config"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
)

const defaultPageSize = 100

type (
	// Connector produces the API client for one invocation.
	Connector func(p ansible.Params) (*Client, error)

	// walker fetches every page of a list endpoint.
	walker func(ctx context.Context, c *Client, path string, query url.Values, limit int) ([]any, error)

	// queryFunc turns module parameters into endpoint query parameters.
	queryFunc func(p ansible.Params) url.Values
)

// connectionSpec holds the options shared by REST modules. prefix names the
// provider-specific aliases, e.g. checkly_api_key.
func connectionSpec(prefix string, withAccount bool) ansible.ArgumentSpec {
	spec := ansible.ArgumentSpec{Options: map[string]ansible.Option{
		"api_key": {
			Type:        ansible.TypeStr,
			Aliases:     []string{prefix + "_api_key", "api_token"},
			NoLog:       true,
			Description: "API key sent as a bearer token; falls back to " + prefix + ".api_key.",
		},
		"base_url": {
			Type:        ansible.TypeStr,
			Description: "API base URL; falls back to " + prefix + ".base_url.",
		},
		"page_size": {
			Type:        ansible.TypeInt,
			Min:         1,
			Description: "Items requested per page when listing.",
		},
		"headers": {
			Type:        ansible.TypeDict,
			Description: "Extra request headers.",
		},
	}}
	if withAccount {
		spec.Options["account_id"] = ansible.Option{
			Type:        ansible.TypeStr,
			Aliases:     []string{prefix + "_account_id"},
			Description: "Account id; falls back to " + prefix + ".account_id.",
		}
	}
	return spec
}

// newConnector resolves credentials from parameters over cfg. A non-empty
// accountHeader makes account_id mandatory and sends it in that header.
func newConnector(cfg appconfig.RESTConfig, accountHeader string, logger zerolog.Logger) Connector {
	return func(p ansible.Params) (*Client, error) {
		key := firstNonEmpty(p.String("api_key"), cfg.APIKey)
		if key == "" {
			return nil, fmt.Errorf("%w: api_key", common.ErrMissingRequired)
		}

		headers := common.ConvertToStringMap(p.Map("headers"))
		if accountHeader != "" {
			account := firstNonEmpty(p.String("account_id"), cfg.AccountID)
			if account == "" {
				return nil, fmt.Errorf("%w: account_id", common.ErrMissingRequired)
			}
			headers[accountHeader] = account
		}

		return NewClient(firstNonEmpty(p.String("base_url"), cfg.BaseURL), key, headers, logger), nil
	}
}

// pageSize picks the page_size parameter, then the configured size.
func pageSize(p ansible.Params, configured int) int {
	if n := p.Int("page_size"); n > 0 {
		return n
	}
	if configured > 0 {
		return configured
	}
	return defaultPageSize
}

// listOperation walks every page of path. Records sit under dataField.
func listOperation(name, key, path string, connect Connector, walk walker, configuredSize int, query queryFunc) engine.Operation {
	return engine.Operation{
		Name:      name,
		Flag:      name,
		Field:     dataField,
		Key:       key,
		Paginated: true,
		Call: func(ctx context.Context, p ansible.Params) (any, error) {
			c, err := connect(p)
			if err != nil {
				return nil, err
			}
			var q url.Values
			if query != nil {
				q = query(p)
			}
			return walk(ctx, c, path, q, pageSize(p, configuredSize))
		},
	}
}

// getOperation fetches path/<idParam>. field is where the object sits in the
// answer, "" for the whole body.
func getOperation(name, key, path, idParam, field string, connect Connector) engine.Operation {
	return engine.Operation{
		Name:     name,
		Flag:     name,
		Requires: []string{idParam},
		Field:    field,
		Key:      key,
		Call: func(ctx context.Context, p ansible.Params) (any, error) {
			c, err := connect(p)
			if err != nil {
				return nil, err
			}
			v, err := c.GetJSON(ctx, path+"/"+url.PathEscape(p.String(idParam)), nil)
			if err != nil {
				return nil, err
			}
			body, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s: expected an object, got %T", common.ErrInvalidResponse, name, v)
			}
			return body, nil
		},
	}
}

// Modules builds the REST modules from configuration.
func Modules(cfg appconfig.Config, logger zerolog.Logger) []engine.Module {
	return []engine.Module{
		ChecklyModule(NewChecklyConnector(cfg.Checkly, logger), cfg.Checkly),
		StatusCakeModule(NewStatusCakeConnector(cfg.StatusCake, logger), cfg.StatusCake),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
