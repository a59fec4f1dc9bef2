// Package common for all common types and helper functions
package common

import (
	"fmt"
	"sort"
	"strings"
)

// GetString helper function to safely dereference string pointers.
func GetString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// GetStringPointer returns a string pointer
func GetStringPointer(val string) *string {
	return &val
}

// StringPointerOrNil returns nil for an empty string so optional SDK input fields stay unset.
func StringPointerOrNil(val string) *string {
	if val == "" {
		return nil
	}
	return &val
}

// ConvertToStringMap Helper to convert interface{} to map[string]string
func ConvertToStringMap(value interface{}) map[string]string {
	result := make(map[string]string)
	if rawMap, ok := value.(map[string]interface{}); ok {
		for k, v := range rawMap {
			result[k] = fmt.Sprintf("%v", v)
		}
	}
	return result
}

// ConvertToStringSlice Helper to convert interface{} to []string
func ConvertToStringSlice(value interface{}) []string {
	var result []string
	switch arr := value.(type) {
	case []interface{}:
		for _, v := range arr {
			result = append(result, fmt.Sprintf("%v", v))
		}
	case []string:
		result = append(result, arr...)
	}
	return result
}

// ToString attempts to convert an interface{} to a string.
// If the value is not a string, it returns an empty string.
func ToString(value interface{}) string {
	if str, ok := value.(string); ok {
		return str
	}
	return ""
}

// ParseCommaList turns a comma-separated string into a []string
func ParseCommaList(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	var result []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// ToMap converts a string slice to a lookup map
func ToMap(list []string) map[string]bool {
	m := make(map[string]bool)
	for _, item := range list {
		m[item] = true
	}

	return m
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
