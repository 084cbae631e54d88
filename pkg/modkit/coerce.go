package modkit

import (
	"encoding/json"
	"math"
	"strconv"
)

// The coercion helpers read raw[key] and convert it to the target type.
// A missing key, or a value that does not convert, yields def.

// Float reads a float64.
func Float(raw map[string]any, key string, def float64) float64 {
	v, ok := raw[key]
	if !ok {
		return def
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

// Int reads an int. Fractional numbers do not convert.
func Int(raw map[string]any, key string, def int) int {
	v, ok := raw[key]
	if !ok {
		return def
	}
	if n, ok := toInt(v); ok {
		return n
	}
	return def
}

// Bool reads a bool. The strings accepted by strconv.ParseBool convert.
func Bool(raw map[string]any, key string, def bool) bool {
	v, ok := raw[key]
	if !ok {
		return def
	}
	if b, ok := toBool(v); ok {
		return b
	}
	return def
}

// String reads a string.
func String(raw map[string]any, key string, def string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return def
}

// Floats reads a []float64. Every element must convert.
func Floats(raw map[string]any, key string, def []float64) []float64 {
	return sliceOf(raw, key, def, toFloat)
}

// Ints reads a []int. Every element must convert.
func Ints(raw map[string]any, key string, def []int) []int {
	return sliceOf(raw, key, def, toInt)
}

// Bools reads a []bool. Every element must convert.
func Bools(raw map[string]any, key string, def []bool) []bool {
	return sliceOf(raw, key, def, toBool)
}

// Strings reads a []string. Every element must be a string.
func Strings(raw map[string]any, key string, def []string) []string {
	return sliceOf(raw, key, def, func(v any) (string, bool) {
		s, ok := v.(string)
		return s, ok
	})
}

// Any reads a value of any type, including a slice of mixed elements.
func Any(raw map[string]any, key string, def any) any {
	if v, ok := raw[key]; ok {
		return v
	}
	return def
}

// List reads a []any of arbitrary elements.
func List(raw map[string]any, key string, def []any) []any {
	if items, ok := raw[key].([]any); ok {
		return items
	}
	return def
}

// Object reads a nested mapping.
func Object(raw map[string]any, key string, def map[string]any) map[string]any {
	if m, ok := raw[key].(map[string]any); ok {
		return m
	}
	return def
}

// IntsToFloats widens an int slice for the elementwise range checks.
func IntsToFloats(vs []int) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = float64(v)
	}
	return out
}

func sliceOf[T any](raw map[string]any, key string, def []T, conv func(any) (T, bool)) []T {
	v, ok := raw[key]
	if !ok {
		return def
	}
	switch items := v.(type) {
	case []T:
		return append([]T{}, items...)
	case []any:
		out := make([]T, 0, len(items))
		for _, item := range items {
			c, ok := conv(item)
			if !ok {
				return def
			}
			out = append(out, c)
		}
		return out
	default:
		return def
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		return parsed, err == nil
	default:
		return false, false
	}
}
