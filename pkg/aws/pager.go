package aws

import "context"

// pager is the shape shared by every SDK v2 paginator: T is the page output,
// O the service's Options type.
type pager[T any, O any] interface {
	HasMorePages() bool
	NextPage(ctx context.Context, optFns ...func(*O)) (T, error)
}

// allPages drains p in order. A failing page fails the whole call; no partial
// result is returned.
func allPages[T any, O any](ctx context.Context, p pager[T, O]) ([]any, error) {
	pages := make([]any, 0)
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		pages = append(pages, out)
	}
	return pages, nil
}
