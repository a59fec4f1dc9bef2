package ansible

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

// Option types understood by the argument spec.
const (
	TypeStr  = "str"
	TypeBool = "bool"
	TypeInt  = "int"
	TypeList = "list"
	TypeDict = "dict"
	TypeRaw  = "raw"
)

var (
	trueStrings  = common.ToMap([]string{"y", "yes", "on", "1", "true", "t"})
	falseStrings = common.ToMap([]string{"n", "no", "off", "0", "false", "f"})
)

func toBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		if trueStrings[s] {
			return true, nil
		}
		if falseStrings[s] {
			return false, nil
		}
	case json.Number:
		return toBool(val.String())
	case int:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	case float64:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	}
	return false, fmt.Errorf("%v (%T) is not a valid boolean", v, v)
}

func toInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	case json.Number:
		n, err := strconv.Atoi(val.String())
		if err == nil {
			return n, nil
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%v (%T) cannot be converted to an int", v, v)
}

func toStr(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("%v (%T) cannot be converted to a string", v, v)
}

// toList accepts a JSON list, a comma separated string or a single scalar.
func toList(v any) ([]any, error) {
	switch val := v.(type) {
	case []any:
		return val, nil
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, nil
	case string:
		parts := common.ParseCommaList(val)
		out := make([]any, len(parts))
		for i, s := range parts {
			out[i] = s
		}
		return out, nil
	case json.Number, int, float64, bool:
		return []any{val}, nil
	}
	return nil, fmt.Errorf("%v (%T) cannot be converted to a list", v, v)
}

// toDict accepts a JSON object or a JSON object encoded as a string.
func toDict(v any) (map[string]any, error) {
	switch val := v.(type) {
	case map[string]any:
		return val, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return map[string]any{}, nil
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(val), &out); err == nil {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%v (%T) cannot be converted to a dict", v, v)
}

// coerce converts v to the declared option type. elements applies to lists.
func coerce(typ, elements string, v any) (any, error) {
	switch typ {
	case "", TypeStr:
		return toStr(v)
	case TypeBool:
		return toBool(v)
	case TypeInt:
		return toInt(v)
	case TypeDict:
		return toDict(v)
	case TypeRaw:
		return v, nil
	case TypeList:
		list, err := toList(v)
		if err != nil {
			return nil, err
		}
		if elements == "" || elements == TypeRaw {
			return list, nil
		}
		out := make([]any, len(list))
		for i, item := range list {
			c, err := coerce(elements, "", item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown option type %q", typ)
}
