package rest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	appconfig "github.com/odetolakehinde/cloudinfo/pkg/config"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
)

// ChecklyAccountHeader carries the Checkly account id.
const ChecklyAccountHeader = "X-Checkly-Account"

// NewChecklyConnector builds Checkly clients over the checkly config block.
func NewChecklyConnector(cfg appconfig.RESTConfig, logger zerolog.Logger) Connector {
	return newConnector(cfg, ChecklyAccountHeader, logger.With().Str(common.LogStrModule, "checkly_info").Logger())
}

// ChecklyModule is checkly_info. Checkly lists are bare arrays paged with
// limit and page.
func ChecklyModule(connect Connector, cfg appconfig.RESTConfig) engine.Module {
	list := func(name, key, path string) engine.Operation {
		return listOperation(name, key, path, connect, pageByLimit, cfg.PageSize, nil)
	}

	return engine.Module{
		Name:        "checkly_info",
		Provider:    common.ProviderCheckly,
		Description: "Gather facts about Checkly checks, groups, alert channels, dashboards and maintenance windows.",
		Common:      connectionSpec("checkly", true),
		Options: ansible.ArgumentSpec{Options: map[string]ansible.Option{
			"check_id": {Type: ansible.TypeStr, Aliases: []string{"id"}, Description: "Check for get_check."},
		}},
		Default:   "list_checks",
		ResultKey: "checks",
		Operations: []engine.Operation{
			list("list_checks", "checks", "/v1/checks"),
			getOperation("get_check", "check", "/v1/checks", "check_id", "", connect),
			list("list_check_groups", "check_groups", "/v1/check-groups"),
			list("list_alert_channels", "alert_channels", "/v1/alert-channels"),
			list("list_dashboards", "dashboards", "/v1/dashboards"),
			list("list_maintenance_windows", "maintenance_windows", "/v1/maintenance-windows"),
			{
				// check statuses come back in one unpaged array
				Name:  "list_check_statuses",
				Flag:  "list_check_statuses",
				Field: dataField,
				Key:   "check_statuses",
				Call: func(ctx context.Context, p ansible.Params) (any, error) {
					c, err := connect(p)
					if err != nil {
						return nil, err
					}
					v, err := c.GetJSON(ctx, "/v1/check-statuses", nil)
					if err != nil {
						return nil, err
					}
					items, ok := v.([]any)
					if !ok && v != nil {
						return nil, fmt.Errorf("%w: list_check_statuses: expected a list, got %T", common.ErrInvalidResponse, v)
					}
					return common.Page{dataField: items}, nil
				},
			},
		},
	}
}
