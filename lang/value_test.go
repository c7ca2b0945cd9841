package lang

import (
	"testing"
	"time"
)

type amount float64

func TestText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{true, "true"},
		{int64(-3), "-3"},
		{uint8(7), "7"},
		{2.50, "2.5"},
		{float32(0.25), "0.25"},
		{amount(1.5), "1.5"},
		{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05Z"},
		{[]int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%#v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b any
		want bool
	}{
		{nil, nil, true},
		{nil, 0, false},
		{2, int64(2), true},
		{2, 2.0, true},
		{float32(0.5), 0.5, true},
		{"2", 2, false},
		{"a", "a", true},
		{[]any{1, "x"}, []any{1, "x"}, true},
		{map[string]any{"k": 1}, map[string]any{"k": 2}, false},
	}

	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%#v, %#v): expected %v, got %v", tt.a, tt.b, tt.want, got)
		}
	}
}

func TestCompare(t *testing.T) {
	if n, ok := Compare(1, 2.5); !ok || n != -1 {
		t.Errorf("expected -1, got %d %v", n, ok)
	}

	if n, ok := Compare("b", "a"); !ok || n != 1 {
		t.Errorf("expected 1, got %d %v", n, ok)
	}

	if _, ok := Compare("1", 1); ok {
		t.Error("expected string and number to be unordered")
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{true, 0, "", "x", []any{}} {
		if !Truthy(v) {
			t.Errorf("expected %#v to be truthy", v)
		}
	}

	for _, v := range []any{nil, false} {
		if Truthy(v) {
			t.Errorf("expected %#v to be falsy", v)
		}
	}
}

func TestItems(t *testing.T) {
	if items, ok := Items([]string{"a", "b"}); !ok || len(items) != 2 || items[1] != "b" {
		t.Errorf("expected [a b], got %v %v", items, ok)
	}

	for _, v := range []any{nil, "abc", 3, map[string]any{}} {
		if _, ok := Items(v); ok {
			t.Errorf("expected %#v not to be a collection", v)
		}
	}
}
