package modules

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// dataOf returns v's data, or an empty Data for nil.
func dataOf(v *vdom.VNode) *vdom.Data {
	if v == nil || v.Data == nil {
		return &vdom.Data{}
	}
	return v.Data
}

// sortedKeys returns map keys in order so host mutations are deterministic.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// valuesEqual compares two data values for equality.
func valuesEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
		return false
	case int:
		if bv, ok := b.(int); ok {
			return av == bv
		}
		return false
	case int64:
		if bv, ok := b.(int64); ok {
			return av == bv
		}
		return false
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv
		}
		return false
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
		return false
	case nil:
		return b == nil
	}
	// Fallback to reflect for complex types
	return reflect.DeepEqual(a, b)
}

// valueString converts an attribute value to its host string form.
func valueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return ""
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
