// Package value holds helpers over decoded document values (nil, bool,
// numbers, string, []any, map[string]any) shared by the schema compiler, the
// validator and the linter.
package value

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// Kind names as used by JSON Schema "type".
const (
	KindNull    = "null"
	KindBoolean = "boolean"
	KindInteger = "integer"
	KindNumber  = "number"
	KindString  = "string"
	KindArray   = "array"
	KindObject  = "object"
)

// KnownKind reports whether name is a JSON Schema type name.
func KnownKind(name string) bool {
	switch name {
	case KindNull, KindBoolean, KindInteger, KindNumber, KindString, KindArray, KindObject:
		return true
	}
	return false
}

// Kind returns the JSON kind of v. Integral numbers report "integer".
// Values of unsupported Go types report "".
func Kind(v any) string {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBoolean
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	}
	if f, ok := Float(v); ok {
		if IsIntegral(f) {
			return KindInteger
		}
		return KindNumber
	}
	// Tolerate typed slices/maps from callers that build documents by hand.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindObject
		}
	}
	return ""
}

// MatchesKind reports whether v is of the named JSON Schema type. "number"
// accepts integers.
func MatchesKind(v any, name string) bool {
	k := Kind(v)
	if k == name {
		return true
	}
	return name == KindNumber && k == KindInteger
}

// IsIntegral reports whether f has no fractional part.
func IsIntegral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

// Float converts any numeric representation to float64.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case interface{ String() string }:
		// goccy/go-json Number and similar named string types
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
			f, err := strconv.ParseFloat(t.String(), 64)
			if err != nil {
				return 0, false
			}
			return f, true
		}
	}
	return 0, false
}

// Object returns v as a map when it is a JSON object.
func Object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Array returns v as a slice when it is a JSON array.
func Array(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// Equal compares two document values structurally. Numbers compare by value
// regardless of their Go representation, so 1 equals 1.0.
func Equal(a, b any) bool {
	if fa, ok := Float(a); ok {
		fb, ok := Float(b)
		return ok && fa == fb
	}
	switch ta := a.(type) {
	case nil:
		return b == nil
	case bool:
		tb, ok := b.(bool)
		return ok && ta == tb
	case string:
		tb, ok := b.(string)
		return ok && ta == tb
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !Equal(ta[i], tb[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		tb, ok := b.(map[string]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for k, va := range ta {
			vb, ok := tb[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}
