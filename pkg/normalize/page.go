package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

// resultMetadataKey is the SDK middleware metadata attached to every output.
const resultMetadataKey = "ResultMetadata"

// ToPage converts an SDK output struct (or anything JSON encodable) into a
// generic page. Numbers are kept as json.Number so leaf values survive exactly.
func ToPage(v any) (common.Page, error) {
	if page, ok := v.(common.Page); ok {
		return page, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %T: %v", common.ErrInvalidResponse, v, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var page common.Page
	if err := dec.Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decoding %T: %v", common.ErrInvalidResponse, v, err)
	}
	if page == nil {
		page = common.Page{}
	}
	delete(page, resultMetadataKey)

	return page, nil
}

// ToPages converts every element of a paginated SDK response with ToPage.
func ToPages(outputs []any) ([]common.Page, error) {
	pages := make([]common.Page, 0, len(outputs))
	for i, out := range outputs {
		page, err := ToPage(out)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, page)
	}

	return pages, nil
}
