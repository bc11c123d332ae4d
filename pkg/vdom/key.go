package vdom

import "strconv"

// Key is a stable per-sibling identity token. It holds either a string or
// an integer; the zero Key means "no key". Keys are comparable with ==.
type Key struct {
	str   string
	num   int64
	isNum bool
	set   bool
}

// StringKey returns a string key.
func StringKey(s string) Key {
	return Key{str: s, set: true}
}

// IntKey returns a numeric key.
func IntKey(n int64) Key {
	return Key{num: n, isNum: true, set: true}
}

// KeyOf converts a string or integer value into a Key. Other types yield
// the zero Key and false.
func KeyOf(v any) (Key, bool) {
	switch k := v.(type) {
	case Key:
		return k, k.set
	case string:
		return StringKey(k), true
	case int:
		return IntKey(int64(k)), true
	case int32:
		return IntKey(int64(k)), true
	case int64:
		return IntKey(k), true
	case uint:
		return IntKey(int64(k)), true
	case uint32:
		return IntKey(int64(k)), true
	case float64:
		// JSON and YAML decoders produce float64 for numbers.
		if k == float64(int64(k)) {
			return IntKey(int64(k)), true
		}
		return Key{}, false
	default:
		return Key{}, false
	}
}

// IsZero reports whether the key is absent.
func (k Key) IsZero() bool {
	return !k.set
}

// IsNumeric reports whether the key holds an integer.
func (k Key) IsNumeric() bool {
	return k.isNum
}

// String returns the key text. Numeric keys are formatted in base 10.
func (k Key) String() string {
	if !k.set {
		return ""
	}
	if k.isNum {
		return strconv.FormatInt(k.num, 10)
	}
	return k.str
}

// Value returns the key as a string or int64, or nil when absent.
func (k Key) Value() any {
	if !k.set {
		return nil
	}
	if k.isNum {
		return k.num
	}
	return k.str
}
