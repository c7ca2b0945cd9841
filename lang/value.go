package lang

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// numKind orders the numeric representations by promotion rank.
type numKind int

const (
	notNumber numKind = iota
	kindInt
	kindFloat32
	kindFloat64
)

// number normalizes the Go numeric types to int64, float32 or float64.
// Values of any other type report notNumber.
func number(v any) (any, numKind) {
	switch n := v.(type) {
	case int64:
		return n, kindInt
	case int:
		return int64(n), kindInt
	case int8:
		return int64(n), kindInt
	case int16:
		return int64(n), kindInt
	case int32:
		return int64(n), kindInt
	case uint:
		return int64(n), kindInt //nolint:gosec
	case uint8:
		return int64(n), kindInt
	case uint16:
		return int64(n), kindInt
	case uint32:
		return int64(n), kindInt
	case uint64:
		return int64(n), kindInt //nolint:gosec
	case float32:
		return n, kindFloat32
	case float64:
		return n, kindFloat64
	}

	// Named numeric types (e.g. type Amount float64).
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), kindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), kindInt //nolint:gosec
	case reflect.Float32:
		return float32(rv.Float()), kindFloat32
	case reflect.Float64:
		return rv.Float(), kindFloat64
	default:
		return nil, notNumber
	}
}

// IsNumber reports whether v is one of the Go numeric types.
func IsNumber(v any) bool {
	_, k := number(v)

	return k != notNumber
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float32:
		return int64(n)
	case float64:
		return int64(n)
	}

	return 0
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}

	return 0
}

// ToInt converts a numeric value to int. It reports false for non-numbers.
func ToInt(v any) (int, bool) {
	n, k := number(v)
	if k == notNumber {
		return 0, false
	}

	return int(asInt(n)), true
}

// ToFloat converts a numeric value to float64. It reports false for
// non-numbers.
func ToFloat(v any) (float64, bool) {
	n, k := number(v)
	if k == notNumber {
		return 0, false
	}

	return asFloat(n), true
}

// Text returns the textual form of v used for concatenation, containment
// tests, and cell text. Nil yields the empty string.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case time.Time:
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	case error:
		return t.Error()
	}

	if n, k := number(v); k == kindInt {
		return strconv.FormatInt(asInt(n), 10)
	}

	return fmt.Sprint(v)
}

// Truthy reports whether v counts as true in a condition. Only nil and
// false are false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	}

	return true
}

// Equal reports whether a and b are equal. Numbers compare by value across
// representations, so int64(2) equals float64(2).
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	na, ka := number(a)
	nb, kb := number(b)

	switch {
	case ka == kindInt && kb == kindInt:
		return asInt(na) == asInt(nb)
	case ka != notNumber && kb != notNumber:
		return asFloat(na) == asFloat(nb)
	case ka != notNumber || kb != notNumber:
		return false
	}

	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)

		return ok && ta.Equal(tb)
	}

	return reflect.DeepEqual(a, b)
}

// Compare returns -1, 0 or +1 ordering a before, equal to, or after b.
// Numbers, strings and times are ordered; other types report false.
func Compare(a, b any) (int, bool) {
	na, ka := number(a)
	nb, kb := number(b)

	if ka != notNumber && kb != notNumber {
		if ka == kindInt && kb == kindInt {
			return cmp3(asInt(na), asInt(nb)), true
		}

		return cmp3(asFloat(na), asFloat(nb)), true
	}

	switch ta := a.(type) {
	case string:
		if tb, ok := b.(string); ok {
			return cmp3(ta, tb), true
		}
	case time.Time:
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb), true
		}
	}

	return 0, false
}

func cmp3[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// typeName returns the runtime type name of v for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	return reflect.TypeOf(v).String()
}
