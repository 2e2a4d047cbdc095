package contract

import (
	"encoding/json"
	"math"
	"strconv"
)

// AsObject reports whether v is a decoded JSON/YAML object.
func AsObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

// AsArray reports whether v is a decoded array.
func AsArray(v any) ([]any, bool) {
	switch a := v.(type) {
	case []any:
		return a, true
	case []string:
		out := make([]any, len(a))
		for i, s := range a {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// AsStringSlice returns v as a string slice when it is an array whose every
// element is a string.
func AsStringSlice(v any) ([]string, bool) {
	items, ok := AsArray(v)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// AsNumber converts the numeric types produced by encoding/json and yaml.v3.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// IsPositiveInteger reports whether v is a number > 0 with no fractional part.
func IsPositiveInteger(v any) bool {
	f, ok := AsNumber(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return f > 0 && f == math.Trunc(f)
}

// Truthy follows loose document truthiness: false, 0, "", null and missing
// values are false; everything else is true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	if f, ok := AsNumber(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// FirstString returns the first non-empty string value among keys, tried in
// order. It is used for alias lookups such as source/from.
func FirstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// FirstArray returns the first array value among keys, tried in order.
func FirstArray(m map[string]any, keys ...string) ([]any, bool) {
	for _, k := range keys {
		if a, ok := AsArray(m[k]); ok {
			return a, true
		}
	}
	return nil, false
}

func itoa(i int) string { return strconv.Itoa(i) }
