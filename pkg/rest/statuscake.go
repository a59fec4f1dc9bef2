package rest

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	"github.com/odetolakehinde/cloudinfo/pkg/common"
	appconfig "github.com/odetolakehinde/cloudinfo/pkg/config"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
)

// NewStatusCakeConnector builds StatusCake clients over the statuscake config block.
func NewStatusCakeConnector(cfg appconfig.RESTConfig, logger zerolog.Logger) Connector {
	return newConnector(cfg, "", logger.With().Str(common.LogStrModule, "statuscake_info").Logger())
}

// uptimeQuery maps the uptime list filters onto StatusCake query parameters.
func uptimeQuery(p ansible.Params) url.Values {
	q := url.Values{}
	if status := p.String("status"); status != "" {
		q.Set("status", status)
	}
	if tags := p.StringSlice("tags"); len(tags) > 0 {
		q.Set("tags", strings.Join(tags, ","))
	}
	return q
}

// StatusCakeModule is statuscake_info. StatusCake wraps everything in
// {"data": ...} and reports metadata.page_count on lists.
func StatusCakeModule(connect Connector, cfg appconfig.RESTConfig) engine.Module {
	list := func(name, key, path string, query queryFunc) engine.Operation {
		return listOperation(name, key, path, connect, pageByMetadata, cfg.PageSize, query)
	}

	return engine.Module{
		Name:        "statuscake_info",
		Provider:    common.ProviderStatusCake,
		Description: "Gather facts about StatusCake uptime, SSL, pagespeed and heartbeat tests, contact groups and maintenance windows.",
		Common:      connectionSpec("statuscake", false),
		Options: ansible.ArgumentSpec{Options: map[string]ansible.Option{
			"test_id": {Type: ansible.TypeStr, Aliases: []string{"id"}, Description: "Uptime test for get_uptime_test."},
			"status": {
				Type:        ansible.TypeStr,
				Choices:     []string{"up", "down"},
				Description: "Only uptime tests in this state.",
			},
			"tags": {Type: ansible.TypeList, Elements: ansible.TypeStr, Description: "Only uptime tests carrying one of these tags."},
		}},
		Default:   "list_uptime_tests",
		ResultKey: "uptime_tests",
		Operations: []engine.Operation{
			list("list_uptime_tests", "uptime_tests", "/v1/uptime", uptimeQuery),
			getOperation("get_uptime_test", "uptime_test", "/v1/uptime", "test_id", dataField, connect),
			list("list_ssl_tests", "ssl_tests", "/v1/ssl", nil),
			list("list_pagespeed_tests", "pagespeed_tests", "/v1/pagespeed", nil),
			list("list_heartbeat_tests", "heartbeat_tests", "/v1/heartbeat", nil),
			list("list_contact_groups", "contact_groups", "/v1/contact-groups", nil),
			list("list_maintenance_windows", "maintenance_windows", "/v1/maintenance-windows", nil),
		},
	}
}
