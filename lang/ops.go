package lang

import (
	"log/slog"
	"math"
	"reflect"
	"strings"
)

func (e *Evaluator) ternary(c *call, cond, then, other string) (any, error) {
	v, err := e.eval(c, cond)
	if err != nil {
		return nil, err
	}

	if Truthy(v) {
		return e.eval(c, then)
	}

	if strings.TrimSpace(other) == "" {
		return nil, nil
	}

	return e.eval(c, other)
}

func (e *Evaluator) unary(c *call, op byte, s string) (any, error) {
	v, err := e.eval(c, s)
	if err != nil {
		return nil, err
	}

	switch op {
	case '!':
		return !Truthy(v), nil

	case '+':
		if _, k := number(v); k == notNumber {
			return nil, ErrOperandType.With(slog.String("op", "+"), slog.String("type", typeName(v)))
		}

		return v, nil

	default:
		n, k := number(v)
		switch k {
		case kindInt:
			return -asInt(n), nil
		case kindFloat32:
			return -n.(float32), nil //nolint:forcetypeassert
		case kindFloat64:
			return -n.(float64), nil //nolint:forcetypeassert
		default:
			return nil, ErrOperandType.With(slog.String("op", "-"), slog.String("type", typeName(v)))
		}
	}
}

func (e *Evaluator) binary(c *call, op, left, right string) (any, error) {
	if strings.TrimSpace(left) == "" {
		return nil, newParseError(c.src, -1, "missing left operand of "+op)
	}

	l, err := e.eval(c, left)
	if err != nil {
		return nil, err
	}

	// Short-circuit the logical operators.
	switch op {
	case "&&":
		if !Truthy(l) {
			return false, nil
		}
	case "||":
		if Truthy(l) {
			return true, nil
		}
	}

	r, err := e.eval(c, right)
	if err != nil {
		return nil, err
	}

	return apply(op, l, r)
}

// apply combines two evaluated operands.
func apply(op string, l, r any) (any, error) {
	switch op {
	case "&&", "||":
		return Truthy(r), nil

	case "&", "|":
		return bitwise(op, l, r), nil

	case "~":
		return contains(l, r), nil

	case "=", "==":
		return Equal(l, r), nil

	case "!=":
		return !Equal(l, r), nil

	case "<", "<=", ">", ">=":
		n, ok := Compare(l, r)
		if !ok {
			return nil, operandError(op, l, r)
		}

		switch op {
		case "<":
			return n < 0, nil
		case "<=":
			return n <= 0, nil
		case ">":
			return n > 0, nil
		default:
			return n >= 0, nil
		}

	case "+":
		_, lk := l.(string)
		_, rk := r.(string)

		if lk || rk {
			return Text(l) + Text(r), nil
		}
	}

	return arithmetic(op, l, r)
}

// arithmetic applies + - * / % with numeric promotion: float64 wins over
// float32, which wins over int64.
func arithmetic(op string, l, r any) (any, error) {
	ln, lk := number(l)
	rn, rk := number(r)

	if lk == notNumber || rk == notNumber {
		return nil, operandError(op, l, r)
	}

	switch max(lk, rk) {
	case kindInt:
		a, b := asInt(ln), asInt(rn)

		switch op {
		case "+":
			return a + b, nil
		case "-":
			return a - b, nil
		case "*":
			return a * b, nil
		case "/":
			if b == 0 {
				return nil, ErrDivideByZero
			}

			return a / b, nil
		default:
			if b == 0 {
				return nil, ErrDivideByZero
			}

			return a % b, nil
		}

	case kindFloat32:
		f, err := floatOp(op, asFloat(ln), asFloat(rn))

		return float32(f), err

	default:
		return floatOp(op, asFloat(ln), asFloat(rn))
	}
}

func floatOp(op string, a, b float64) (float64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, ErrDivideByZero
		}

		return a / b, nil
	default:
		if b == 0 {
			return 0, ErrDivideByZero
		}

		return math.Mod(a, b), nil
	}
}

// bitwise applies & or | to two integers, or the non-short-circuit logical
// operator to anything else.
func bitwise(op string, l, r any) any {
	ln, lk := number(l)
	rn, rk := number(r)

	if lk == kindInt && rk == kindInt {
		if op == "&" {
			return asInt(ln) & asInt(rn)
		}

		return asInt(ln) | asInt(rn)
	}

	if op == "&" {
		return Truthy(l) && Truthy(r)
	}

	return Truthy(l) || Truthy(r)
}

// contains reports whether r occurs in l: an element of a slice or array, a
// key of a map, or a substring of the textual form of l.
func contains(l, r any) bool {
	if l == nil {
		return false
	}

	rv := reflect.ValueOf(l)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if Equal(rv.Index(i).Interface(), r) {
				return true
			}
		}

		return false

	case reflect.Map:
		for _, k := range rv.MapKeys() {
			if Equal(k.Interface(), r) || Text(k.Interface()) == Text(r) {
				return true
			}
		}

		return false

	default:
		return strings.Contains(Text(l), Text(r))
	}
}

func operandError(op string, l, r any) error {
	return ErrOperandType.With(
		slog.String("op", op),
		slog.String("left", typeName(l)),
		slog.String("right", typeName(r)),
	)
}
