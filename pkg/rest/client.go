// Package rest binds API-key REST services (Checkly, StatusCake) to the module
// engine.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

const defaultTimeout = 30 * time.Second

// HTTPError is a non-2xx answer. Body is kept verbatim.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Unwrap lets callers match common.ErrHTTPStatus.
func (e *HTTPError) Unwrap() error {
	return common.ErrHTTPStatus
}

// Details returns the status code and body for the failure object.
func (e *HTTPError) Details() map[string]any {
	return map[string]any{
		"status_code": e.StatusCode,
		"body":        e.Body,
	}
}

// Client is a bearer-token JSON client for one API.
type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a Client sending apiKey as a bearer token plus any extra
// headers on every request.
func NewClient(baseURL, apiKey string, headers map[string]string, logger zerolog.Logger) *Client {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Authorization", "Bearer "+apiKey)
	for k, v := range headers {
		if v != "" {
			h.Set(k, v)
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		headers:    h,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.With().Str(common.LogStrLayer, "rest").Logger(),
	}
}

// Get performs a GET and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.headers.Clone()

	c.logger.Debug().Str(common.LogStrMethod, "Get").Str("path", path).Str("query", query.Encode()).Msg("request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			Method:     http.MethodGet,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return body, nil
}

// GetJSON performs a GET and decodes the body, keeping numbers as json.Number.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values) (any, error) {
	body, err := c.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", common.ErrInvalidResponse, path, err)
	}
	return v, nil
}
