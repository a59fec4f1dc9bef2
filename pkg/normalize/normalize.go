// Package normalize turns raw API response envelopes into flat, ordered lists of
// snake_case records.
package normalize

import (
	"fmt"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

// MissingFieldPolicy decides what happens when a page lacks the item field.
type MissingFieldPolicy int

const (
	// SkipMissing lets a page without the field contribute no records.
	SkipMissing MissingFieldPolicy = iota
	// FailMissing turns a page without the field into ErrMissingField.
	FailMissing
)

// String returns the configuration spelling of the policy.
func (p MissingFieldPolicy) String() string {
	if p == FailMissing {
		return "error"
	}
	return "skip"
}

// ParseMissingFieldPolicy reads "skip" or "error" (and a few synonyms).
func ParseMissingFieldPolicy(s string) (MissingFieldPolicy, error) {
	switch s {
	case "", "skip", "ignore":
		return SkipMissing, nil
	case "error", "fail", "strict":
		return FailMissing, nil
	}
	return SkipMissing, fmt.Errorf("%w: missing field policy %q (want skip or error)", common.ErrInvalidParameter, s)
}

// Options tunes key renaming and flattening.
type Options struct {
	Missing MissingFieldPolicy

	// IgnoreKeys are original (camel case) keys whose values are kept verbatim.
	// The key itself is still renamed.
	IgnoreKeys []string

	// ConvertTags turns [{Key, Value}] tag lists into a {key: value} mapping.
	ConvertTags bool
}

// Keys renames every mapping key in v to snake case, recursing through
// nested mappings and lists. Leaf values are returned as-is.
func Keys(v any, opts Options) any {
	return rename(v, common.ToMap(opts.IgnoreKeys), opts.ConvertTags)
}

func rename(v any, ignore map[string]bool, convertTags bool) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		// keys that collide after renaming resolve by source key order
		for _, k := range common.SortedKeys(val) {
			item := val[k]
			switch {
			case convertTags && tagFields[k]:
				if tags, ok := tagListToMap(item); ok {
					out[Snake(k)] = tags
					continue
				}
				out[Snake(k)] = rename(item, ignore, convertTags)
			case ignore[k]:
				out[Snake(k)] = item
			default:
				out[Snake(k)] = rename(item, ignore, convertTags)
			}
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = rename(item, ignore, convertTags)
		}
		return out
	default:
		return v
	}
}

// Flatten produces the ordered records held under field.
//
// When paginated is true, response must be a sequence of pages ([]common.Page
// or []any of mappings); otherwise it is a single page. Records keep page order
// and the order within each page. The result is never nil.
func Flatten(paginated bool, response any, field string, opts Options) ([]any, error) {
	pages, err := asPages(paginated, response)
	if err != nil {
		return nil, err
	}

	records := make([]any, 0)
	for i, page := range pages {
		items, err := pageItems(page, field, opts.Missing)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		for _, item := range items {
			records = append(records, Keys(item, opts))
		}
	}

	return records, nil
}

func asPages(paginated bool, response any) ([]common.Page, error) {
	if !paginated {
		if response == nil {
			return nil, nil
		}
		page, ok := response.(common.Page)
		if !ok {
			return nil, fmt.Errorf("%w: expected a single page, got %T", common.ErrInvalidResponse, response)
		}
		return []common.Page{page}, nil
	}

	switch val := response.(type) {
	case nil:
		return nil, nil
	case []common.Page:
		return val, nil
	case []any:
		pages := make([]common.Page, 0, len(val))
		for i, item := range val {
			page, ok := item.(common.Page)
			if !ok {
				return nil, fmt.Errorf("%w: page %d is %T", common.ErrInvalidResponse, i, item)
			}
			pages = append(pages, page)
		}
		return pages, nil
	}

	return nil, fmt.Errorf("%w: expected a sequence of pages, got %T", common.ErrInvalidResponse, response)
}

// pageItems extracts the raw items of one page. An empty field name means the
// page itself is the only item.
func pageItems(page common.Page, field string, missing MissingFieldPolicy) ([]any, error) {
	if field == "" {
		return []any{page}, nil
	}

	value, ok := page[field]
	if !ok {
		if missing == FailMissing {
			return nil, fmt.Errorf("%w: %q", common.ErrMissingField, field)
		}
		return nil, nil
	}

	switch val := value.(type) {
	case nil:
		return nil, nil
	case []any:
		return val, nil
	default:
		return []any{val}, nil
	}
}
