// Package template - Typed property access
package template

import "strconv"

// Prop walks nested property mappings by key path. Intrinsic subtrees
// come back as their raw maps.
func (r ResourceWithID) Prop(keys ...string) (interface{}, bool) {
	var current interface{} = r.Properties
	for _, key := range keys {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// StringProp returns a string property, or "" when absent or not a
// string.
func (r ResourceWithID) StringProp(keys ...string) string {
	v, ok := r.Prop(keys...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// FloatProp returns a numeric property, or def when absent or not a
// number. CloudFormation encodes some numeric fields as strings
// (Auto Scaling sizes, EBS Size through !Ref defaults), so numeric
// strings parse too.
func (r ResourceWithID) FloatProp(def float64, keys ...string) float64 {
	v, ok := r.Prop(keys...)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
		return def
	default:
		return def
	}
}

// BoolProp returns a boolean property, or def when absent or not a bool.
func (r ResourceWithID) BoolProp(def bool, keys ...string) bool {
	v, ok := r.Prop(keys...)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// ListProp returns a list property, or nil when absent or not a list.
func (r ResourceWithID) ListProp(keys ...string) []interface{} {
	v, ok := r.Prop(keys...)
	if !ok {
		return nil
	}
	l, _ := v.([]interface{})
	return l
}

// RefTarget extracts the logical id referenced by a {"Ref": "..."}
// intrinsic at the given path, or "" when the property is not a Ref.
func (r ResourceWithID) RefTarget(keys ...string) string {
	v, ok := r.Prop(keys...)
	if !ok {
		return ""
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	target, _ := m["Ref"].(string)
	return target
}
