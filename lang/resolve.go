package lang

import (
	"cmp"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Resolver resolves properties, methods and indices on runtime values.
type Resolver interface {
	// Property returns the named property of obj. It reports false when obj
	// has no such property; err is reserved for failures while reading one.
	Property(obj any, name string) (v any, ok bool, err error)
	// Invoke calls the named method of obj.
	Invoke(obj any, method string, args []any) (any, error)
	// Index returns obj[index] for slices, arrays, strings and maps.
	Index(obj any, index any) (any, error)
}

// Reflect is the default [Resolver]. It reads map keys, exported struct
// fields and zero-argument methods, and understands a small set of
// collection and string methods on every value:
//
//	get(i|key) size() length() len() isEmpty() keys() values() contains(x)
//	toString() upper() lower() trim() startsWith(s) endsWith(s)
//	substring(i[, j]) indexOf(s) replace(old, new) split(sep)
//
// Names are matched as written and then with the first letter upper-cased,
// so "name" finds a field or method called Name.
type Reflect struct{}

var _ Resolver = Reflect{}

// Property implements [Resolver].
func (r Reflect) Property(obj any, name string) (any, bool, error) {
	if m, ok := obj.(map[string]any); ok {
		v, ok := m[name]

		return v, ok, nil
	}

	rv, ok := indirect(reflect.ValueOf(obj))
	if !ok {
		return nil, false, nil
	}

	switch rv.Kind() {
	case reflect.Map:
		key, ok := mapKey(rv.Type().Key(), name)
		if !ok {
			return nil, false, nil
		}

		v := rv.MapIndex(key)
		if !v.IsValid() {
			return nil, false, nil
		}

		return v.Interface(), true, nil

	case reflect.Struct:
		for _, n := range candidates(name) {
			sf, ok := rv.Type().FieldByName(n)
			if ok && sf.IsExported() {
				return rv.FieldByIndex(sf.Index).Interface(), true, nil
			}
		}
	}

	if m, ok := method(reflect.ValueOf(obj), name); ok && m.Type().NumIn() == 0 {
		v, err := callFunc(m, nil)

		return v, true, err
	}

	if v, ok, err := r.builtin(obj, name, nil); ok {
		return v, true, err
	}

	return nil, false, nil
}

// Invoke implements [Resolver].
func (r Reflect) Invoke(obj any, name string, args []any) (any, error) {
	if m, ok := method(reflect.ValueOf(obj), name); ok {
		return callFunc(m, args)
	}

	if v, ok, err := r.builtin(obj, name, args); ok {
		return v, err
	}

	// A function stored under a map key or struct field.
	if fn, ok, _ := r.Property(obj, name); ok && fn != nil {
		if fv := reflect.ValueOf(fn); fv.Kind() == reflect.Func {
			return callFunc(fv, args)
		}
	}

	if obj == nil {
		return nil, nil
	}

	return nil, ErrUnknownMember
}

// Index implements [Resolver].
func (r Reflect) Index(obj any, index any) (any, error) {
	rv, ok := indirect(reflect.ValueOf(obj))
	if !ok {
		return nil, nil
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		i, ok := ToInt(index)
		if !ok {
			return nil, ErrOperandType.With(slog.String("index", typeName(index)))
		}

		if i < 0 || i >= rv.Len() {
			return nil, ErrIndexRange.With(slog.Int("index", i), slog.Int("len", rv.Len()))
		}

		return rv.Index(i).Interface(), nil

	case reflect.String:
		i, ok := ToInt(index)
		if !ok {
			return nil, ErrOperandType.With(slog.String("index", typeName(index)))
		}

		runes := []rune(rv.String())
		if i < 0 || i >= len(runes) {
			return nil, ErrIndexRange.With(slog.Int("index", i), slog.Int("len", len(runes)))
		}

		return string(runes[i]), nil

	case reflect.Map:
		key, ok := mapKeyOf(rv.Type().Key(), index)
		if !ok {
			return nil, nil
		}

		if v := rv.MapIndex(key); v.IsValid() {
			return v.Interface(), nil
		}

		return nil, nil

	default:
		return nil, ErrOperandType.With(slog.String("receiver", typeName(obj)))
	}
}

// builtin implements the methods every value understands. ok is false if
// name is not one of them.
func (r Reflect) builtin(obj any, name string, args []any) (v any, ok bool, err error) {
	arity := func(n int) error {
		if len(args) != n {
			return ErrArgCount.With(
				slog.String("method", name),
				slog.Int("expected", n),
				slog.Int("got", len(args)),
			)
		}

		return nil
	}

	switch name {
	case "get":
		if err := arity(1); err != nil {
			return nil, true, err
		}

		v, err := r.Index(obj, args[0])

		return v, true, err

	case "size", "length", "len":
		n, err := Length(obj)

		return int64(n), true, err

	case "isEmpty":
		n, err := Length(obj)

		return n == 0, true, err

	case "keys":
		return Keys(obj), true, nil

	case "values":
		return Values(obj), true, nil

	case "contains":
		if err := arity(1); err != nil {
			return nil, true, err
		}

		return contains(obj, args[0]), true, nil

	case "toString":
		return Text(obj), true, nil
	}

	s, isString := obj.(string)
	if !isString {
		return nil, false, nil
	}

	str := func(i int) string { return Text(args[i]) }

	switch name {
	case "upper", "toUpperCase":
		return strings.ToUpper(s), true, nil

	case "lower", "toLowerCase":
		return strings.ToLower(s), true, nil

	case "trim":
		return strings.TrimSpace(s), true, nil

	case "startsWith":
		if err := arity(1); err != nil {
			return nil, true, err
		}

		return strings.HasPrefix(s, str(0)), true, nil

	case "endsWith":
		if err := arity(1); err != nil {
			return nil, true, err
		}

		return strings.HasSuffix(s, str(0)), true, nil

	case "indexOf":
		if err := arity(1); err != nil {
			return nil, true, err
		}

		i := strings.Index(s, str(0))
		if i > 0 {
			i = utf8.RuneCountInString(s[:i])
		}

		return int64(i), true, nil

	case "replace":
		if err := arity(2); err != nil {
			return nil, true, err
		}

		return strings.ReplaceAll(s, str(0), str(1)), true, nil

	case "split":
		if err := arity(1); err != nil {
			return nil, true, err
		}

		parts := strings.Split(s, str(0))
		out := make([]any, len(parts))

		for i, p := range parts {
			out[i] = p
		}

		return out, true, nil

	case "substring":
		return substring(s, args), true, nil
	}

	return nil, false, nil
}

func substring(s string, args []any) any {
	runes := []rune(s)
	from, to := 0, len(runes)

	if len(args) > 0 {
		from, _ = ToInt(args[0])
	}

	if len(args) > 1 {
		to, _ = ToInt(args[1])
	}

	from = min(max(from, 0), len(runes))
	to = min(max(to, from), len(runes))

	return string(runes[from:to])
}

// Length returns the number of elements of a collection or runes of a
// string. Nil has length zero.
func Length(obj any) (int, error) {
	if s, ok := obj.(string); ok {
		return utf8.RuneCountInString(s), nil
	}

	rv, ok := indirect(reflect.ValueOf(obj))
	if !ok {
		return 0, nil
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan, reflect.String:
		return rv.Len(), nil
	default:
		return 0, ErrOperandType.With(slog.String("receiver", typeName(obj)))
	}
}

// Items returns the elements of a slice or array. It reports false for any
// other value, including nil.
func Items(obj any) ([]any, bool) {
	if s, ok := obj.([]any); ok {
		return s, true
	}

	rv, ok := indirect(reflect.ValueOf(obj))
	if !ok {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}

		return out, true
	default:
		return nil, false
	}
}

// Keys returns the keys of a map in sorted order, or nil.
func Keys(obj any) []any {
	rv, ok := indirect(reflect.ValueOf(obj))
	if !ok || rv.Kind() != reflect.Map {
		return nil
	}

	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		if n, ok := Compare(a.Interface(), b.Interface()); ok {
			return n
		}

		return cmp.Compare(Text(a.Interface()), Text(b.Interface()))
	})

	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k.Interface()
	}

	return out
}

// Values returns the values of a map ordered by key, or nil.
func Values(obj any) []any {
	rv, ok := indirect(reflect.ValueOf(obj))
	if !ok || rv.Kind() != reflect.Map {
		return nil
	}

	keys := Keys(obj)
	out := make([]any, len(keys))

	for i, k := range keys {
		out[i] = rv.MapIndex(reflect.ValueOf(k)).Interface()
	}

	return out
}

// indirect dereferences pointers and interfaces. It reports false for an
// invalid or nil value.
func indirect(rv reflect.Value) (reflect.Value, bool) {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return rv, false
		}

		rv = rv.Elem()
	}

	return rv, rv.IsValid()
}

// candidates returns the spellings tried when matching name against Go
// identifiers.
func candidates(name string) []string {
	r, n := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return []string{name}
	}

	return []string{name, string(unicode.ToUpper(r)) + name[n:]}
}

// method finds an exported method of rv by name. Methods with pointer
// receivers are found on addressable copies of non-pointer values.
func method(rv reflect.Value, name string) (reflect.Value, bool) {
	if !rv.IsValid() {
		return reflect.Value{}, false
	}

	for _, n := range candidates(name) {
		if m := rv.MethodByName(n); m.IsValid() {
			return m, true
		}
	}

	if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)

		for _, n := range candidates(name) {
			if m := ptr.MethodByName(n); m.IsValid() {
				return m, true
			}
		}
	}

	return reflect.Value{}, false
}

func mapKey(t reflect.Type, name string) (reflect.Value, bool) {
	if t.Kind() == reflect.String {
		return reflect.ValueOf(name).Convert(t), true
	}

	if t.Kind() == reflect.Interface {
		return reflect.ValueOf(name), true
	}

	return reflect.Value{}, false
}

func mapKeyOf(t reflect.Type, key any) (reflect.Value, bool) {
	if key == nil {
		return reflect.Value{}, false
	}

	if t.Kind() == reflect.String {
		return reflect.ValueOf(Text(key)).Convert(t), true
	}

	v, err := convertArg(key, t)

	return v, err == nil
}

var errorType = reflect.TypeFor[error]()

// callFunc calls fn with args converted to its parameter types. A trailing
// error result is returned as the error.
func callFunc(fn reflect.Value, args []any) (any, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, ErrNotCallable
	}

	ft := fn.Type()
	fixed := ft.NumIn()

	if ft.IsVariadic() {
		fixed--
	}

	if len(args) < fixed || (!ft.IsVariadic() && len(args) > fixed) {
		return nil, ErrArgCount.With(slog.Int("expected", fixed), slog.Int("got", len(args)))
	}

	in := make([]reflect.Value, len(args))

	for i, a := range args {
		var t reflect.Type
		if i < fixed {
			t = ft.In(i)
		} else {
			t = ft.In(fixed).Elem()
		}

		v, err := convertArg(a, t)
		if err != nil {
			return nil, err
		}

		in[i] = v
	}

	out := fn.Call(in)

	switch len(out) {
	case 0:
		return nil, nil

	case 1:
		if ft.Out(0) == errorType {
			err, _ := out[0].Interface().(error)

			return nil, err
		}

		return out[0].Interface(), nil

	default:
		var err error
		if last := out[len(out)-1]; ft.Out(len(out)-1) == errorType {
			err, _ = last.Interface().(error)
		}

		return out[0].Interface(), err
	}
}

// convertArg converts an evaluated value to the parameter type t.
func convertArg(a any, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(t) {
		return v, nil
	}

	n, k := number(a)

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if k != notNumber {
			return reflect.ValueOf(asInt(n)).Convert(t), nil
		}

	case reflect.Float32, reflect.Float64:
		if k != notNumber {
			return reflect.ValueOf(asFloat(n)).Convert(t), nil
		}

	case reflect.String:
		return reflect.ValueOf(Text(a)).Convert(t), nil

	case reflect.Slice:
		if items, ok := Items(a); ok {
			s := reflect.MakeSlice(t, len(items), len(items))

			for i, item := range items {
				ev, err := convertArg(item, t.Elem())
				if err != nil {
					return reflect.Value{}, err
				}

				s.Index(i).Set(ev)
			}

			return s, nil
		}
	}

	if v.Type().ConvertibleTo(t) && v.Kind() == t.Kind() {
		return v.Convert(t), nil
	}

	return reflect.Value{}, ErrOperandType.With(
		slog.String("want", t.String()),
		slog.String("got", typeName(a)),
	)
}
