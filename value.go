package adaptiveexpr

import (
	"math"
	"reflect"
)

// equalityTolerance is the absolute tolerance used when comparing two
// numeric values for equality, per the numeric-domain equality rule.
const equalityTolerance = 1e-8

// Equals implements the value-space equality used by the equals builtin and
// the == operator. Two nulls are equal; a null and a non-null are never
// equal; two empty lists or two empty maps are equal regardless of element
// type; two numerics compare within equalityTolerance; everything else falls
// back to structural equality.
func Equals(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return math.Abs(af-bf) < equalityTolerance
		}
		return false
	}

	if al, aok := a.([]any); aok {
		if bl, bok := b.([]any); bok {
			if len(al) == 0 && len(bl) == 0 {
				return true
			}
			return deepEqualValue(al, bl)
		}
		return false
	}
	if am, aok := a.(map[string]any); aok {
		if bm, bok := b.(map[string]any); bok {
			if len(am) == 0 && len(bm) == 0 {
				return true
			}
			return deepEqualValue(am, bm)
		}
		return false
	}

	return deepEqualValue(a, b)
}

func deepEqualValue(a, b any) bool {
	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equals(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bval, ok := bv[k]
			if !ok || !Equals(v, bval) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// IsLogicTrue implements the truthiness rule used by and/or/if/where:
// false and null are false, everything else — including 0, "", and empty
// collections — is true. This diverges from most languages and is load
// bearing for callers migrating expressions from the source engine.
func IsLogicTrue(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// IsInteger reports whether v is a whole-valued number: an integer type, or
// a float whose fractional part is zero.
func IsInteger(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return float64(n) == math.Trunc(float64(n))
	case float64:
		return n == math.Trunc(n)
	}
	return false
}

// IsNumber reports whether v belongs to the numeric domain. Go's bool is a
// distinct kind and is never a number here, even though some hosts treat
// bool as a numeric subtype; verifiers rely on this to reject booleans
// passed to arithmetic and numeric comparison builtins.
func IsNumber(v any) bool {
	if _, ok := v.(bool); ok {
		return false
	}
	_, ok := asFloat(v)
	return ok
}

// asFloat coerces any supported numeric type to float64. Booleans are
// explicitly excluded.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// asInt64 coerces a whole-valued numeric to int64. Returns false for
// fractional floats, non-numeric values, or bool.
func asInt64(v any) (int64, bool) {
	if !IsInteger(v) {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}
