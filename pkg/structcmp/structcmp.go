// Package structcmp compares parsed configuration values structurally,
// ignoring map key order, numeric representation, and insignificant
// whitespace. It backs idempotence checks: a file is only rewritten when
// its parsed content would actually change.
package structcmp

import (
	"encoding/json"
	"strings"
)

// Equal reports whether two decoded values are structurally equal.
// Maps are compared by key set regardless of order, slices element-wise
// in order, and numbers by value regardless of Go representation. Values
// are expected to come from a JSON, YAML, or TOML decoder.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bval, present := bv[k]
			if !present || !Equal(v, bval) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case []string:
		// yaml and toml decoders sometimes produce typed slices
		bv, ok := b.([]string)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	default:
		an, aok := toFloat(a)
		bn, bok := toFloat(b)
		return aok && bok && an == bn
	}
}

// toFloat coerces the numeric types the supported decoders produce.
// encoding/json yields float64, yaml.v3 yields int or float64, and
// go-toml yields int64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// EqualJSON reports whether two JSON documents are structurally equal.
// Either side failing to parse returns the parse error.
func EqualJSON(a, b []byte) (bool, error) {
	var av, bv any
	if err := json.Unmarshal(a, &av); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false, err
	}
	return Equal(av, bv), nil
}

// EqualText reports whether two text documents are equal after normalizing
// line endings to LF and trimming surrounding whitespace. Interior
// whitespace is significant.
func EqualText(a, b string) bool {
	return normalizeText(a) == normalizeText(b)
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(s)
}
