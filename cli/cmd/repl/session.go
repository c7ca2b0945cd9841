package repl

import (
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/areport/lang"
	"github.com/ardnew/areport/log"
)

// session is the evaluation state shared by the REPL model and its editor.
type session struct {
	data     map[string]any
	registry *lang.Registry
	eval     *lang.Evaluator
	logger   log.Logger
}

func newSession(data map[string]any, logger log.Logger) *session {
	s := &session{registry: lang.NewRegistry(), logger: logger}
	s.reset(data)

	return s
}

// reset replaces the data and rebuilds the evaluator scope.
func (s *session) reset(data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}

	s.data = data
	s.eval = lang.NewEvaluator(
		lang.NewScope(maps.Clone(data)),
		lang.WithRegistry(s.registry),
		lang.WithLogger(s.logger),
	)
}

// evaluate evaluates one expression in the template expression language.
func (s *session) evaluate(src string) (any, error) {
	return s.eval.Evaluate(src, nil)
}

// bind evaluates src and stores the result as variable name.
func (s *session) bind(name, src string) (any, error) {
	v, err := s.evaluate(src)
	if err != nil {
		return nil, err
	}

	s.data[name] = v
	s.eval.Scope().Put(name, v)

	return v, nil
}

// variables returns the names of all variables in scope, sorted.
func (s *session) variables() []string {
	return s.eval.Scope().Names()
}

// classes returns the registered static class names and unqualified
// function names, sorted.
func (s *session) classes() []string {
	var names []string

	for _, name := range s.registry.Names() {
		class, _, _ := strings.Cut(name, ".")
		names = append(names, class)
	}

	return slices.Compact(names)
}

// members returns the unqualified member names registered under class.
func (s *session) members(class string) []string {
	var names []string

	for _, name := range s.registry.Names() {
		if member, ok := strings.CutPrefix(name, class+"."); ok {
			names = append(names, member)
		}
	}

	return names
}

// isFunction reports whether the qualified name is a registered function.
func (s *session) isFunction(name string) bool {
	_, ok := s.registry.Func(name)

	return ok
}

// properties returns the keys of a map value or the exported fields of a
// struct value, for completion after a dot.
func (s *session) properties(v any) []string {
	if keys := lang.Keys(v); keys != nil {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = lang.Text(k)
		}

		return names
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil
	}

	var names []string

	for _, f := range reflect.VisibleFields(rv.Type()) {
		if f.IsExported() && !f.Anonymous {
			names = append(names, f.Name)
		}
	}

	return names
}

// FormatResult renders an evaluation result for display. Slices and maps are
// rendered as flow-style YAML; everything else uses its cell text.
func FormatResult(v any) (string, error) {
	if _, ok := lang.Items(v); !ok && lang.Keys(v) == nil {
		return lang.Text(v), nil
	}

	b, err := yaml.MarshalWithOptions(v, yaml.Flow(true))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}
