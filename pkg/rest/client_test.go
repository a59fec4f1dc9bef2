package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "acct-1", r.Header.Get("X-Checkly-Account"))
		assert.Equal(t, "/v1/checks", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"id": "c1", "frequency": 10}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", map[string]string{"X-Checkly-Account": "acct-1"}, zerolog.Nop())
	v, err := c.GetJSON(context.Background(), "/v1/checks", url.Values{"limit": {"5"}})

	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"id": "c1", "frequency": json.Number("10")}}, v)
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bad", nil, zerolog.Nop()).GetJSON(context.Background(), "/v1/checks", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrHTTPStatus)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, map[string]any{
		"status_code": http.StatusUnauthorized,
		"body":        `{"message":"Unauthorized"}`,
	}, httpErr.Details())
	assert.Contains(t, err.Error(), "HTTP 401")
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", nil, zerolog.Nop()).GetJSON(context.Background(), "/x", nil)
	assert.ErrorIs(t, err, common.ErrInvalidResponse)
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{name: "json number", body: map[string]any{"metadata": map[string]any{"page_count": json.Number("3")}}, want: 3},
		{name: "no metadata", body: map[string]any{}, want: 1},
		{name: "zero pages", body: map[string]any{"metadata": map[string]any{"page_count": json.Number("0")}}, want: 1},
		{name: "garbage", body: map[string]any{"metadata": map[string]any{"page_count": "many"}}, want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pageCount(tc.body))
		})
	}
}
