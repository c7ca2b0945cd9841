package lang

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestRegistry_Register(t *testing.T) {
	var r Registry

	err := r.Register(Func{
		Name:    "Fmt.money",
		MinArgs: 1,
		MaxArgs: 1,
		Call: func(args ...any) (any, error) {
			return "$" + Text(args[0]), nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !r.HasClass("Fmt") {
		t.Error("expected class Fmt to be registered")
	}

	f, ok := r.Func("Fmt.money")
	if !ok {
		t.Fatal("expected Fmt.money")
	}

	if v, err := f.Invoke(5); err != nil || v != "$5" {
		t.Errorf("expected $5, got %v, %v", v, err)
	}

	if _, err := f.Invoke(); !errors.Is(err, ErrArgCount) {
		t.Errorf("expected ErrArgCount, got %v", err)
	}

	if err := r.Register(Func{Name: "Fmt.money"}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestRegistry_DefineAndNames(t *testing.T) {
	var r Registry

	if err := r.Define("Limits.max", 10); err != nil {
		t.Fatal(err)
	}

	if err := r.Bind("Svc", struct{}{}); err != nil {
		t.Fatal(err)
	}

	if v, ok := r.Field("Limits.max"); !ok || v != 10 {
		t.Errorf("expected 10, got %v", v)
	}

	want := []string{"Limits.max", "Svc"}
	if got := r.Names(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRegistry_Suggest(t *testing.T) {
	r := NewRegistry()

	got := r.Suggest("Strings.uper")
	if len(got) == 0 || got[0] != "Strings.upper" {
		t.Errorf("expected Strings.upper first, got %v", got)
	}

	if len(got) > maxSuggestions {
		t.Errorf("expected at most %d suggestions, got %d", maxSuggestions, len(got))
	}
}

func TestPathsPrefix(t *testing.T) {
	e := newTestEvaluator(nil)

	got, err := e.Evaluate("Paths.prefix(Paths.join('a', 'b'), 'c')", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, _ := got.(string)
	if !strings.HasPrefix(s, "c") || !strings.Contains(s, "a/b") {
		t.Errorf("expected c prepended to a/b, got %v", got)
	}
}
