package ansible

import (
	"math"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

// Params are validated module parameters keyed by canonical option name.
type Params map[string]any

// Has reports whether name carries a usable value: not nil, not an empty
// string, list or dict.
func (p Params) Has(name string) bool {
	switch v := p[name].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	return true
}

// String returns a str parameter, or "" when unset.
func (p Params) String(name string) string {
	if p[name] == nil {
		return ""
	}
	s, _ := toStr(p[name])
	return s
}

// StringPointer returns nil for an unset or empty parameter, which keeps
// optional SDK input fields unset.
func (p Params) StringPointer(name string) *string {
	return common.StringPointerOrNil(p.String(name))
}

// Bool returns a bool parameter, false when unset.
func (p Params) Bool(name string) bool {
	b, _ := toBool(p[name])
	return b
}

// BoolPointer returns nil for an unset parameter.
func (p Params) BoolPointer(name string) *bool {
	if p[name] == nil {
		return nil
	}
	b := p.Bool(name)
	return &b
}

// Int returns an int parameter, 0 when unset.
func (p Params) Int(name string) int {
	n, _ := toInt(p[name])
	return n
}

// Int32Pointer returns nil for an unset parameter. Values outside the int32
// range are clamped to it.
func (p Params) Int32Pointer(name string) *int32 {
	if p[name] == nil {
		return nil
	}
	n := int32(max(min(p.Int(name), math.MaxInt32), math.MinInt32))
	return &n
}

// StringSlice returns a list parameter as strings, nil when unset.
func (p Params) StringSlice(name string) []string {
	list, err := toList(p[name])
	if err != nil || p[name] == nil {
		return nil
	}
	return common.ConvertToStringSlice(list)
}

// Map returns a dict parameter, nil when unset.
func (p Params) Map(name string) map[string]any {
	m, _ := p[name].(map[string]any)
	return m
}

// Masked returns a copy of p with the values of noLog options replaced by the
// Ansible placeholder.
func (p Params) Masked(noLog []string) map[string]any {
	hidden := common.ToMap(noLog)
	out := make(map[string]any, len(p))
	for k, v := range p {
		if hidden[k] && v != nil {
			out[k] = NoLogPlaceholder
			continue
		}
		out[k] = v
	}
	return out
}
