package lang

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestEvaluator(vars map[string]any) *Evaluator {
	return NewEvaluator(NewScope(vars))
}

func TestEvaluate_Arithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want any
	}{
		{"1+2", int64(3)},
		{"7-2-1", int64(4)},
		{"1+2*3", int64(9)},
		{"1+(2*3)", int64(7)},
		{"7/2", int64(3)},
		{"7%4", int64(3)},
		{"1.5d", 1.5},
		{"2f", float32(2)},
		{"3L", int64(3)},
		{"1.5", 1.5},
		{"1+1.5", 2.5},
		{"2f*2", float32(4)},
		{"2f*1.5d", 3.0},
		{"7/2d", 3.5},
		{"-3", int64(-3)},
		{"4*-2", int64(-8)},
		{"6&3", int64(2)},
		{"6|3", int64(7)},
		{"  10 - 4 ", int64(6)},
	}

	e := newTestEvaluator(nil)

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
			}
		})
	}
}

func TestEvaluate_Strings(t *testing.T) {
	tests := []struct {
		expr  string
		bound any
		want  any
	}{
		{"'a'+'b'", nil, "ab"},
		{"'x'+$$", "y", "xy"},
		{"'n='+1", nil, "n=1"},
		{"1+'px'", nil, "1px"},
		{"'it\\'s'", nil, "it's"},
		{"'a+b'", nil, "a+b"},
	}

	e := newTestEvaluator(nil)

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr, tt.bound)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %v", tt.want, got)
			}
		})
	}
}

func TestEvaluate_LiteralsHideOperators(t *testing.T) {
	e := newTestEvaluator(nil)

	got, err := e.Evaluate("'(a)' + ')'", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "(a))" {
		t.Errorf("expected %q, got %v", "(a))", got)
	}
}

func TestEvaluate_Comparison(t *testing.T) {
	e := newTestEvaluator(map[string]any{"n": 5, "s": "abc"})

	tests := []struct {
		expr string
		want bool
	}{
		{"n > 3", true},
		{"n >= 5", true},
		{"n < 5", false},
		{"n <= 4", false},
		{"n = 5", true},
		{"n == 5.0", true},
		{"n != 5", false},
		{"s = 'abc'", true},
		{"s ~ 'bc'", true},
		{"s ~ 'x'", false},
		{"!true", false},
		{"!(n > 3)", false},
		{"(n > 3) && (s = 'abc')", true},
		{"(n > 9) || (s = 'abc')", true},
		{"null = null", true},
		{"missing = null", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEvaluate_ShortCircuit(t *testing.T) {
	e := newTestEvaluator(nil)

	// The right operand would fail with a divide by zero.
	got, err := e.Evaluate("false && (1/0)", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != false {
		t.Errorf("expected false, got %v", got)
	}
}

func TestEvaluate_Ternary(t *testing.T) {
	e := newTestEvaluator(map[string]any{"n": 2})

	tests := []struct {
		expr string
		want any
	}{
		{"n > 1 ? 'big' : 'small'", "big"},
		{"n > 5 ? 'big' : 'small'", "small"},
		{"n > 1 ? n+1 : n-1", int64(3)},
		{"n > 5 ? 1 : n > 1 ? 2 : 3", int64(2)},
		{"n > 5 ? 1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEvaluate_PropertyPath(t *testing.T) {
	e := newTestEvaluator(nil)
	bound := map[string]any{"a": map[string]any{"b": map[string]any{"c": 42}}}

	got, err := e.Evaluate("a.b.c", bound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != 42 {
		t.Errorf("expected 42, got %v", got)
	}

	got, err = e.Evaluate("$$.a.b.c + 1", bound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != int64(43) {
		t.Errorf("expected 43, got %v", got)
	}
}

type employee struct {
	Name    string
	Salary  float64
	Reports []string
}

func (e employee) Initials() string { return e.Name[:1] }

func (e *employee) Raise(pct float64) float64 { return e.Salary * (1 + pct/100) }

func TestEvaluate_Reflection(t *testing.T) {
	emp := employee{Name: "Ada", Salary: 100, Reports: []string{"x", "y"}}
	e := newTestEvaluator(map[string]any{"emp": emp, "list": []any{1, 2, 3}})

	tests := []struct {
		expr string
		want any
	}{
		{"emp.name", "Ada"},
		{"emp.Name", "Ada"},
		{"emp.initials", "A"},
		{"emp.initials()", "A"},
		{"emp.raise(10)", 110.00000000000001},
		{"emp.reports.size()", int64(2)},
		{"emp.reports[1]", "y"},
		{"emp.reports.get(0)", "x"},
		{"list.get(2)", 3},
		{"list[0] + list[1]", int64(3)},
		{"list.isEmpty()", false},
		{"list.contains(2)", true},
		{"emp.name.length()", int64(3)},
		{"emp.name.upper()", "ADA"},
		{"'abc'.substring(1)", "bc"},
		{"[1, 2, 3][1]", int64(2)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
			}
		})
	}
}

func TestEvaluate_BoundRootBeforeScope(t *testing.T) {
	e := newTestEvaluator(map[string]any{"name": "scope", "other": "scope"})
	bound := map[string]any{"name": "item"}

	got, err := e.Evaluate("name + '/' + other", bound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "item/scope" {
		t.Errorf("expected item/scope, got %v", got)
	}
}

func TestEvaluate_NilSafeNavigation(t *testing.T) {
	e := newTestEvaluator(map[string]any{"m": map[string]any{}})

	for _, expr := range []string{"missing.field", "m.absent", "m.absent.deeper"} {
		got, err := e.Evaluate(expr, nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", expr, err)
		}

		if got != nil {
			t.Errorf("%s: expected nil, got %v", expr, got)
		}
	}
}

func TestEvaluate_Static(t *testing.T) {
	e := newTestEvaluator(map[string]any{"xs": []any{3, 9, 4}})

	tests := []struct {
		expr string
		want any
	}{
		{"Math.max(1, 5)", int64(5)},
		{"Math.max(xs)", 9},
		{"Math.min(2.5d, 1)", int64(1)},
		{"Math.abs(-4)", int64(4)},
		{"Math.round(2.567d, 2)", 2.57},
		{"Math.sum(xs)", int64(16)},
		{"Math.PI > 3", true},
		{"Strings.upper('ab')", "AB"},
		{"Strings.padLeft('7', 3, '0')", "007"},
		{"Strings.join(xs, '-')", "3-9-4"},
		{"Strings.upper('ab').length()", int64(2)},
		{"Lists.size(xs)", int64(3)},
		{"Lists.range(3).size()", int64(3)},
		{"Lists.sort(xs)[0]", 3},
		{"Expr.eval('1 + 2 * 3')", 7},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
			}
		})
	}
}

func TestEvaluate_StaticBoundObject(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Bind("Payroll", &employee{Name: "Bob", Salary: 50}); err != nil {
		t.Fatal(err)
	}

	e := NewEvaluator(NewScope(nil), WithRegistry(reg))

	got, err := e.Evaluate("Payroll.raise(100)", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != 100.0 {
		t.Errorf("expected 100, got %v", got)
	}

	got, err = e.Evaluate("Payroll.name", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "Bob" {
		t.Errorf("expected Bob, got %v", got)
	}
}

func TestEvaluate_UppercaseVariable(t *testing.T) {
	e := newTestEvaluator(map[string]any{"Total": map[string]any{"Sum": 10}})

	got, err := e.Evaluate("Total.Sum", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != 10 {
		t.Errorf("expected 10, got %v", got)
	}
}

func TestEvaluate_FunctionInScope(t *testing.T) {
	e := newTestEvaluator(map[string]any{
		"double": func(n int) int { return n * 2 },
	})

	got, err := e.Evaluate("double(21)", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != 42 {
		t.Errorf("expected 42, got %v", got)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	e := newTestEvaluator(map[string]any{"emp": employee{Name: "Ada"}})

	t.Run("divide by zero", func(t *testing.T) {
		for _, expr := range []string{"1/0", "5%0", "1.5d/0"} {
			_, err := e.Evaluate(expr, nil)
			if !errors.Is(err, ErrDivideByZero) {
				t.Errorf("%s: expected ErrDivideByZero, got %v", expr, err)
			}
		}
	})

	t.Run("unterminated literal", func(t *testing.T) {
		_, err := e.Evaluate("'abc", nil)

		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected ParseError, got %v", err)
		}

		if pe.Offset != 0 || !strings.Contains(pe.Error(), "'abc") {
			t.Errorf("expected offset 0 and expression text, got %v", pe)
		}
	})

	t.Run("unbalanced paren", func(t *testing.T) {
		var pe *ParseError
		for _, expr := range []string{"(1+2", "1+2)", "a[0)"} {
			if _, err := e.Evaluate(expr, nil); !errors.As(err, &pe) {
				t.Errorf("%s: expected ParseError, got %v", expr, err)
			}
		}
	})

	t.Run("unknown static", func(t *testing.T) {
		_, err := e.Evaluate("Mth.max(1, 2)", nil)

		var re *ResolutionError
		if !errors.As(err, &re) {
			t.Fatalf("expected ResolutionError, got %v", err)
		}

		if re.Name != "Mth" || len(re.Suggestions) == 0 || re.Suggestions[0] != "Math" {
			t.Errorf("expected suggestion Math for Mth, got %+v", re)
		}
	})

	t.Run("unknown static method", func(t *testing.T) {
		_, err := e.Evaluate("Math.mx(1, 2)", nil)

		var re *ResolutionError
		if !errors.As(err, &re) {
			t.Fatalf("expected ResolutionError, got %v", err)
		}

		if re.Name != "Math.mx" {
			t.Errorf("expected name Math.mx, got %q", re.Name)
		}
	})

	t.Run("unknown property", func(t *testing.T) {
		_, err := e.Evaluate("emp.salary.bogus", nil)

		var re *ResolutionError
		if !errors.As(err, &re) {
			t.Fatalf("expected ResolutionError, got %v", err)
		}

		if re.Type != "float64" || re.Name != "bogus" {
			t.Errorf("expected bogus on float64, got %+v", re)
		}

		if !strings.Contains(err.Error(), "emp.salary.bogus") {
			t.Errorf("expected expression in message, got %v", err)
		}
	})

	t.Run("operand type", func(t *testing.T) {
		_, err := e.Evaluate("true - 1", nil)
		if !errors.Is(err, ErrOperandType) {
			t.Errorf("expected ErrOperandType, got %v", err)
		}
	})

	t.Run("unknown slot", func(t *testing.T) {
		var pe *ParseError
		if _, err := e.Evaluate("$$7", nil); !errors.As(err, &pe) {
			t.Errorf("expected ParseError, got %v", err)
		}
	})
}

func TestEvaluate_Blank(t *testing.T) {
	got, err := newTestEvaluator(nil).Evaluate("   ", "ignored")
	if err != nil || got != nil {
		t.Errorf("expected nil, nil; got %v, %v", got, err)
	}
}

func TestEvaluate_Reentrant(t *testing.T) {
	e := newTestEvaluator(nil)
	bound := map[string]any{"when": time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)}

	got, err := e.Evaluate("Dates.format(when, 'dd/MM/yyyy') + ' ' + Strings.upper('ok')", bound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "06/05/2024 OK" {
		t.Errorf("expected %q, got %v", "06/05/2024 OK", got)
	}
}
