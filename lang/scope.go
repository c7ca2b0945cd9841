package lang

import (
	"maps"
	"slices"
)

// Scope is a stack of variable frames. Lookups walk the frames from the
// innermost (most recently pushed) to the outermost; writes always target
// the innermost frame.
//
// A Scope backs exactly one evaluation at a time and is not safe for
// concurrent use.
type Scope struct {
	frames []map[string]any
}

// NewScope returns a Scope whose outermost frame holds a copy of vars.
// A nil vars yields an empty Scope with no frames.
func NewScope(vars map[string]any) *Scope {
	s := &Scope{}
	if vars != nil {
		s.Push(vars)
	}

	return s
}

// Push adds a new innermost frame holding a copy of vars.
func (s *Scope) Push(vars map[string]any) {
	frame := make(map[string]any, len(vars))
	maps.Copy(frame, vars)

	s.frames = append(s.frames, frame)
}

// Pop removes the innermost frame. Popping an empty Scope has no effect.
func (s *Scope) Pop() {
	if n := len(s.frames); n > 0 {
		s.frames[n-1] = nil
		s.frames = s.frames[:n-1]
	}
}

// Depth returns the number of frames.
func (s *Scope) Depth() int { return len(s.frames) }

// Get returns the value bound to name in the innermost frame that defines
// it, or nil if no frame does.
func (s *Scope) Get(name string) any {
	v, _ := s.Lookup(name)

	return v
}

// Lookup is like Get but also reports whether name is bound at all.
func (s *Scope) Lookup(name string) (any, bool) {
	for _, frame := range slices.Backward(s.frames) {
		if v, ok := frame[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Put binds name to value in the innermost frame, creating a frame if the
// Scope is empty.
func (s *Scope) Put(name string, value any) {
	if len(s.frames) == 0 {
		s.Push(nil)
	}

	s.frames[len(s.frames)-1][name] = value
}

// Remove deletes name from every frame.
func (s *Scope) Remove(name string) {
	for _, frame := range s.frames {
		delete(frame, name)
	}
}

// Names returns the sorted set of names visible in any frame.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})
	for _, frame := range s.frames {
		for name := range frame {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
