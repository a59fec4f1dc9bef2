package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odetolakehinde/cloudinfo/pkg/ansible"
	appconfig "github.com/odetolakehinde/cloudinfo/pkg/config"
	"github.com/odetolakehinde/cloudinfo/pkg/engine"
	"github.com/odetolakehinde/cloudinfo/pkg/normalize"
)

func run(t *testing.T, mod engine.Module, params map[string]any) ansible.Result {
	t.Helper()
	return engine.New(zerolog.Nop(), normalize.SkipMissing).Run(context.Background(), mod, ansible.Args{Params: params})
}

func checklyServer(t *testing.T, total int, requested *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requested = append(*requested, r.URL.RequestURI())

		switch r.URL.Path {
		case "/v1/checks":
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			limit = min(limit, 100)
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			first := (page - 1) * limit

			_, _ = fmt.Fprint(w, "[")
			for i := first; i < total && i < first+limit; i++ {
				if i > first {
					_, _ = fmt.Fprint(w, ",")
				}
				_, _ = fmt.Fprintf(w, `{"id":"c%d","checkType":"API","activated":true}`, i)
			}
			_, _ = fmt.Fprint(w, "]")
		case "/v1/checks/c7":
			_, _ = fmt.Fprint(w, `{"id":"c7","checkType":"BROWSER","alertSettings":{"escalationType":"RUN_BASED"}}`)
		case "/v1/check-statuses":
			_, _ = fmt.Fprint(w, `[{"checkId":"c1","hasFailures":false}]`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestChecklyModule_ListChecksPaginates(t *testing.T) {
	var requested []string
	srv := checklyServer(t, 5, &requested)
	defer srv.Close()

	cfg := appconfig.RESTConfig{BaseURL: srv.URL, APIKey: "key", AccountID: "acct", PageSize: 2}
	mod := ChecklyModule(NewChecklyConnector(cfg, zerolog.Nop()), cfg)

	result := run(t, mod, map[string]any{})

	require.False(t, result.Failed(), "%v", result)
	checks := result["checks"].([]any)
	require.Len(t, checks, 5)
	assert.Equal(t, "c0", checks[0].(map[string]any)["id"])
	assert.Equal(t, "API", checks[0].(map[string]any)["check_type"])
	assert.Equal(t, "c4", checks[4].(map[string]any)["id"])
	assert.Equal(t, []string{
		"/v1/checks?limit=2&page=1",
		"/v1/checks?limit=2&page=2",
		"/v1/checks?limit=2&page=3",
	}, requested)
}

func TestChecklyModule_PageSizeAboveServerCap(t *testing.T) {
	var requested []string
	srv := checklyServer(t, 250, &requested)
	defer srv.Close()

	cfg := appconfig.RESTConfig{BaseURL: srv.URL, APIKey: "key", AccountID: "acct"}
	mod := ChecklyModule(NewChecklyConnector(cfg, zerolog.Nop()), cfg)

	result := run(t, mod, map[string]any{"page_size": 200})

	require.False(t, result.Failed(), "%v", result)
	checks := result["checks"].([]any)
	require.Len(t, checks, 250)
	assert.Equal(t, "c249", checks[249].(map[string]any)["id"])
	assert.Equal(t, []string{
		"/v1/checks?limit=100&page=1",
		"/v1/checks?limit=100&page=2",
		"/v1/checks?limit=100&page=3",
	}, requested)
}

func TestChecklyModule_ExactMultipleFetchesEmptyPage(t *testing.T) {
	var requested []string
	srv := checklyServer(t, 4, &requested)
	defer srv.Close()

	cfg := appconfig.RESTConfig{BaseURL: srv.URL, APIKey: "key", AccountID: "acct"}
	mod := ChecklyModule(NewChecklyConnector(cfg, zerolog.Nop()), cfg)

	result := run(t, mod, map[string]any{"page_size": 2})

	require.False(t, result.Failed(), "%v", result)
	assert.Len(t, result["checks"], 4)
	assert.Len(t, requested, 3)
}

func TestChecklyModule_GetCheck(t *testing.T) {
	var requested []string
	srv := checklyServer(t, 0, &requested)
	defer srv.Close()

	cfg := appconfig.RESTConfig{BaseURL: srv.URL}
	mod := ChecklyModule(NewChecklyConnector(cfg, zerolog.Nop()), cfg)

	result := run(t, mod, map[string]any{
		"get_check":  true,
		"id":         "c7",
		"api_key":    "param-key",
		"account_id": "acct",
	})

	require.False(t, result.Failed(), "%v", result)
	check := result["check"].([]any)
	require.Len(t, check, 1)
	assert.Equal(t, map[string]any{"escalation_type": "RUN_BASED"}, check[0].(map[string]any)["alert_settings"])

	args := result["invocation"].(map[string]any)["module_args"].(map[string]any)
	assert.Equal(t, ansible.NoLogPlaceholder, args["api_key"])
}

func TestChecklyModule_CheckStatuses(t *testing.T) {
	var requested []string
	srv := checklyServer(t, 0, &requested)
	defer srv.Close()

	cfg := appconfig.RESTConfig{BaseURL: srv.URL, APIKey: "key", AccountID: "acct"}
	result := run(t, ChecklyModule(NewChecklyConnector(cfg, zerolog.Nop()), cfg), map[string]any{"operation": "list_check_statuses"})

	require.False(t, result.Failed(), "%v", result)
	assert.Equal(t, []any{map[string]any{"check_id": "c1", "has_failures": false}}, result["check_statuses"])
	assert.Equal(t, []string{"/v1/check-statuses"}, requested)
}

func TestChecklyModule_MissingCredentials(t *testing.T) {
	tests := []struct {
		name   string
		cfg    appconfig.RESTConfig
		params map[string]any
		want   string
	}{
		{name: "no api key", cfg: appconfig.RESTConfig{AccountID: "acct"}, params: map[string]any{}, want: "api_key"},
		{name: "no account", cfg: appconfig.RESTConfig{}, params: map[string]any{"api_key": "k"}, want: "account_id"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := run(t, ChecklyModule(NewChecklyConnector(tc.cfg, zerolog.Nop()), tc.cfg), tc.params)

			require.True(t, result.Failed())
			assert.Contains(t, result["msg"], tc.want)
		})
	}
}

func TestChecklyModule_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = fmt.Fprint(w, `{"error":"Forbidden"}`)
	}))
	defer srv.Close()

	cfg := appconfig.RESTConfig{BaseURL: srv.URL, APIKey: "key", AccountID: "acct"}
	result := run(t, ChecklyModule(NewChecklyConnector(cfg, zerolog.Nop()), cfg), map[string]any{"list_dashboards": true})

	require.True(t, result.Failed())
	assert.Equal(t, http.StatusForbidden, result["status_code"])
	assert.Equal(t, `{"error":"Forbidden"}`, result["body"])
	assert.NotContains(t, result, "dashboards")
}
