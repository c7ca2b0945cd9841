package lang

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the "did you mean" list of a ResolutionError.
const maxSuggestions = 3

// Func is a function callable from expressions as Class.name(args) or, when
// Name has no class qualifier, as name(args).
type Func struct {
	Name    string
	MinArgs int
	MaxArgs int // negative for no upper bound
	Call    func(args ...any) (any, error)
}

// Invoke checks the argument count and calls f.
func (f Func) Invoke(args ...any) (any, error) {
	if len(args) < f.MinArgs || (f.MaxArgs >= 0 && len(args) > f.MaxArgs) {
		return nil, ErrArgCount.With(
			slog.String("func", f.Name),
			slog.Int("min", f.MinArgs),
			slog.Int("max", f.MaxArgs),
			slog.Int("got", len(args)),
		)
	}

	return f.Call(args...)
}

// Registry is the table of static functions, constants and bound objects
// consulted for expressions that begin with an upper-case letter.
//
// The zero value is an empty registry. A Registry is safe for concurrent
// use, so one instance may be shared by the builders of several sheets.
type Registry struct {
	mu      sync.RWMutex
	funcs   map[string]Func
	fields  map[string]any
	objects map[string]any
	classes map[string]struct{}
}

// NewRegistry returns a Registry preloaded with the builtin classes Math,
// Strings, Lists, Dates, Paths and Expr.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, class := range builtinClasses() {
		for _, f := range class.funcs {
			r.put(f)
		}

		for name, v := range class.fields {
			r.fieldLocked(class.name+"."+name, v)
		}
	}

	return r
}

func (r *Registry) init() {
	if r.funcs == nil {
		r.funcs = make(map[string]Func)
		r.fields = make(map[string]any)
		r.objects = make(map[string]any)
		r.classes = make(map[string]struct{})
	}
}

func (r *Registry) put(f Func) {
	r.init()
	r.funcs[f.Name] = f

	if class, _, ok := strings.Cut(f.Name, "."); ok {
		r.classes[class] = struct{}{}
	}
}

func (r *Registry) fieldLocked(name string, v any) {
	r.init()
	r.fields[name] = v

	if class, _, ok := strings.Cut(name, "."); ok {
		r.classes[class] = struct{}{}
	}
}

func (r *Registry) taken(name string) bool {
	_, f := r.funcs[name]
	_, v := r.fields[name]

	return f || v
}

// Register adds functions. Registering a name twice fails with
// [ErrDuplicateName].
func (r *Registry) Register(fns ...Func) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range fns {
		if r.taken(f.Name) {
			return ErrDuplicateName.With(slog.String("name", f.Name))
		}

		r.put(f)
	}

	return nil
}

// Define adds a constant reachable as Class.name.
func (r *Registry) Define(name string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.taken(name) {
		return ErrDuplicateName.With(slog.String("name", name))
	}

	r.fieldLocked(name, v)

	return nil
}

// Bind makes the methods and properties of obj reachable as Class.member
// through the evaluator's [Resolver]. Registered functions and constants of
// the same class take precedence.
func (r *Registry) Bind(class string, obj any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.init()

	if _, ok := r.objects[class]; ok {
		return ErrDuplicateName.With(slog.String("name", class))
	}

	r.objects[class] = obj
	r.classes[class] = struct{}{}

	return nil
}

// Func returns the function registered under the qualified name.
func (r *Registry) Func(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.funcs[name]

	return f, ok
}

// Field returns the constant registered under the qualified name.
func (r *Registry) Field(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.fields[name]

	return v, ok
}

// Object returns the object bound to class.
func (r *Registry) Object(class string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.objects[class]

	return v, ok
}

// HasClass reports whether any function, constant or object is registered
// under class.
func (r *Registry) HasClass(class string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.classes[class]

	return ok
}

// Names returns every registered qualified name and bound class, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := slices.Collect(maps.Keys(r.funcs))
	names = slices.AppendSeq(names, maps.Keys(r.fields))
	names = slices.AppendSeq(names, maps.Keys(r.objects))

	slices.Sort(names)

	return slices.Compact(names)
}

// Suggest returns up to three registered names resembling name, best match
// first. Names without a class qualifier are matched against class names.
func (r *Registry) Suggest(name string) []string {
	var pool []string

	if strings.Contains(name, ".") {
		pool = r.Names()
	} else {
		r.mu.RLock()
		pool = slices.Sorted(maps.Keys(r.classes))
		r.mu.RUnlock()
	}

	matches := fuzzy.Find(name, pool)
	out := make([]string, 0, min(len(matches), maxSuggestions))

	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}
