package normalize

var tagFields = map[string]bool{
	"Tags":    true,
	"TagSet":  true,
	"TagList": true,
}

// tagListToMap converts [{"Key": k, "Value": v}] into {k: v}. Anything that is
// not a list of Key/Value mappings is rejected.
func tagListToMap(v any) (map[string]any, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}

	tags := make(map[string]any, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		key, ok := m["Key"].(string)
		if !ok {
			return nil, false
		}
		tags[key] = m["Value"]
	}

	return tags, true
}
