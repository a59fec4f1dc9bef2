package rest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/odetolakehinde/cloudinfo/pkg/config"
)

func TestStatusCakeModule_ListUptimeTests(t *testing.T) {
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.RequestURI())
		assert.Equal(t, "Bearer sc-key", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get(ChecklyAccountHeader))

		page := r.URL.Query().Get("page")
		_, _ = fmt.Fprintf(w, `{"data":[{"id":"%s","name":"site %s","check_rate":300}],"metadata":{"page":%s,"per_page":1,"page_count":2,"total_count":2}}`, page, page, page)
	}))
	defer srv.Close()

	cfg := appconfig.RESTConfig{BaseURL: srv.URL, APIKey: "sc-key", PageSize: 1}
	result := run(t, StatusCakeModule(NewStatusCakeConnector(cfg, zerolog.Nop()), cfg), map[string]any{
		"status": "down",
		"tags":   []any{"prod", "edge"},
	})

	require.False(t, result.Failed(), "%v", result)
	tests := result["uptime_tests"].([]any)
	require.Len(t, tests, 2)
	assert.Equal(t, "site 1", tests[0].(map[string]any)["name"])
	assert.Equal(t, "2", tests[1].(map[string]any)["id"])
	assert.Equal(t, []string{
		"/v1/uptime?limit=1&page=1&status=down&tags=prod%2Cedge",
		"/v1/uptime?limit=1&page=2&status=down&tags=prod%2Cedge",
	}, requested)
}

func TestStatusCakeModule_GetUptimeTest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/uptime/42", r.URL.Path)
		assert.Equal(t, "t1", r.Header.Get("X-Trace"))
		_, _ = fmt.Fprint(w, `{"data":{"id":"42","website_url":"https://example.com","uptime":99.9}}`)
	}))
	defer srv.Close()

	cfg := appconfig.RESTConfig{BaseURL: srv.URL, APIKey: "k"}
	result := run(t, StatusCakeModule(NewStatusCakeConnector(cfg, zerolog.Nop()), cfg), map[string]any{
		"get_uptime_test": true,
		"test_id":         "42",
		"headers":         map[string]any{"X-Trace": "t1"},
	})

	require.False(t, result.Failed(), "%v", result)
	test := result["uptime_test"].([]any)
	require.Len(t, test, 1)
	assert.Equal(t, "https://example.com", test[0].(map[string]any)["website_url"])
}

func TestStatusCakeModule_EmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"data":[],"metadata":{"page":1,"per_page":25,"page_count":0,"total_count":0}}`)
	}))
	defer srv.Close()

	cfg := appconfig.RESTConfig{BaseURL: srv.URL, APIKey: "k"}
	result := run(t, StatusCakeModule(NewStatusCakeConnector(cfg, zerolog.Nop()), cfg), map[string]any{"list_contact_groups": true})

	require.False(t, result.Failed(), "%v", result)
	assert.Equal(t, []any{}, result["contact_groups"])
}

func TestStatusCakeModule_RejectsUnknownStatus(t *testing.T) {
	cfg := appconfig.RESTConfig{APIKey: "k"}
	result := run(t, StatusCakeModule(NewStatusCakeConnector(cfg, zerolog.Nop()), cfg), map[string]any{"status": "sideways"})

	require.True(t, result.Failed())
	assert.Contains(t, result["msg"], "status")
}
