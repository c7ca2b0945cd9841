package lang

import (
	"slices"
	"testing"
)

func TestScope_Shadowing(t *testing.T) {
	s := NewScope(nil)

	s.Push(nil)
	s.Put("v", 1)
	s.Push(nil)
	s.Put("v", 2)

	if got := s.Get("v"); got != 2 {
		t.Errorf("expected inner value 2, got %v", got)
	}

	s.Pop()

	if got := s.Get("v"); got != 1 {
		t.Errorf("expected outer value 1 after pop, got %v", got)
	}

	s.Pop()

	if got := s.Get("v"); got != nil {
		t.Errorf("expected nil after popping every frame, got %v", got)
	}
}

func TestScope_LookupDistinguishesNil(t *testing.T) {
	s := NewScope(map[string]any{"present": nil})

	if _, ok := s.Lookup("present"); !ok {
		t.Error("expected a nil binding to be found")
	}

	if _, ok := s.Lookup("absent"); ok {
		t.Error("expected an unbound name to be missing")
	}
}

func TestScope_PushCopiesFrame(t *testing.T) {
	vars := map[string]any{"a": 1}
	s := NewScope(vars)
	s.Put("a", 2)

	if vars["a"] != 1 {
		t.Errorf("expected caller map unchanged, got %v", vars["a"])
	}
}

func TestScope_PutOnEmptyScope(t *testing.T) {
	var s Scope

	s.Put("x", "y")

	if s.Depth() != 1 {
		t.Fatalf("expected Put to create a frame, got depth %d", s.Depth())
	}

	if s.Get("x") != "y" {
		t.Errorf("expected y, got %v", s.Get("x"))
	}

	s.Pop()
	s.Pop() // popping an empty scope is a no-op

	if s.Depth() != 0 {
		t.Errorf("expected depth 0, got %d", s.Depth())
	}
}

func TestScope_RemoveFromEveryFrame(t *testing.T) {
	s := NewScope(map[string]any{"mark": 1, "keep": true})
	s.Push(map[string]any{"mark": 2})

	s.Remove("mark")

	if _, ok := s.Lookup("mark"); ok {
		t.Error("expected mark removed from all frames")
	}

	s.Pop()

	if _, ok := s.Lookup("mark"); ok {
		t.Error("expected mark removed from the outer frame")
	}

	if s.Get("keep") != true {
		t.Error("expected unrelated binding to survive")
	}
}

func TestScope_Names(t *testing.T) {
	s := NewScope(map[string]any{"b": 1, "a": 2})
	s.Push(map[string]any{"c": 3, "a": 4})

	want := []string{"a", "b", "c"}
	if got := s.Names(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
