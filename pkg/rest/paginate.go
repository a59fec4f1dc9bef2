package rest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

const (
	// dataField wraps every REST page so records always live under one field.
	dataField = "data"
	// maxLimit is the largest page Checkly serves; larger limits are cut to it.
	maxLimit = 100
)

// pageByLimit walks an endpoint answering with a bare JSON array, requesting
// page 1, 2, ... until a page comes back shorter than limit. limit is capped
// at maxLimit so a server-side cap never reads as the last page.
func pageByLimit(ctx context.Context, c *Client, path string, query url.Values, limit int) ([]any, error) {
	limit = min(limit, maxLimit)

	pages := make([]any, 0)
	for page := 1; ; page++ {
		q := cloneQuery(query)
		q.Set("limit", strconv.Itoa(limit))
		q.Set("page", strconv.Itoa(page))

		v, err := c.GetJSON(ctx, path, q)
		if err != nil {
			return nil, err
		}
		items, ok := v.([]any)
		if !ok && v != nil {
			return nil, fmt.Errorf("%w: GET %s page %d: expected a list, got %T", common.ErrInvalidResponse, path, page, v)
		}

		pages = append(pages, common.Page{dataField: items})
		if len(items) < limit {
			return pages, nil
		}
	}
}

// pageByMetadata walks an endpoint answering with {"data": [...],
// "metadata": {"page_count": n}}, stopping at the last page it reports.
func pageByMetadata(ctx context.Context, c *Client, path string, query url.Values, limit int) ([]any, error) {
	pages := make([]any, 0)
	for page := 1; ; page++ {
		q := cloneQuery(query)
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(limit))

		v, err := c.GetJSON(ctx, path, q)
		if err != nil {
			return nil, err
		}
		body, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: GET %s page %d: expected an object, got %T", common.ErrInvalidResponse, path, page, v)
		}

		pages = append(pages, body)
		if page >= pageCount(body) {
			return pages, nil
		}
	}
}

// pageCount reads metadata.page_count; anything unreadable counts as one page.
func pageCount(body map[string]any) int {
	meta, ok := body["metadata"].(map[string]any)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(fmt.Sprint(meta["page_count"]))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func cloneQuery(q url.Values) url.Values {
	out := url.Values{}
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
