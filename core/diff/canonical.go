// Package diff - Canonical property equality
package diff

// PropertiesEqual compares two property trees under canonical form:
// mapping key order is irrelevant, list order is significant (policy
// statements, CIDR lists), and numbers compare by value regardless of
// the decoder that produced them.
func PropertiesEqual(a, b map[string]interface{}) bool {
	return valueEqual(a, b)
}

func valueEqual(a, b interface{}) bool {
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		return bok && af == bf
	}

	switch av := a.(type) {
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for key, item := range av {
			other, exists := bv[key]
			if !exists || !valueEqual(item, other) {
				return false
			}
		}
		return true

	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i, item := range av {
			if !valueEqual(item, bv[i]) {
				return false
			}
		}
		return true

	case nil:
		return b == nil

	default:
		return a == b
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
