package lang

import (
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"github.com/ardnew/areport/log"
)

// Evaluator evaluates template expressions against a [Scope] and a bound
// root value.
//
// Expressions are parsed by a single right-to-left scan for the rightmost
// operator outside brackets, so there is no operator precedence: 1+2*3 is
// (1+2)*3. Callers parenthesize where grouping matters.
type Evaluator struct {
	scope    *Scope
	resolver Resolver
	registry *Registry
	logger   log.Logger
}

// call carries the state of one Evaluate invocation through the recursive
// descent. Slot 0 holds the bound root; slots 1..N hold the string literals
// extracted from the expression.
type call struct {
	src   string
	slots []any
}

// NewEvaluator returns an Evaluator over scope. A nil scope is replaced by an
// empty one.
func NewEvaluator(scope *Scope, opts ...Option) *Evaluator {
	if scope == nil {
		scope = NewScope(nil)
	}

	e := &Evaluator{scope: scope}
	for _, opt := range opts {
		opt(e)
	}

	if e.resolver == nil {
		e.resolver = Reflect{}
	}

	if e.registry == nil {
		e.registry = NewRegistry()
	}

	return e
}

// Scope returns the scope the Evaluator resolves identifiers against.
func (e *Evaluator) Scope() *Scope { return e.scope }

// Registry returns the static function registry.
func (e *Evaluator) Registry() *Registry { return e.registry }

// Resolver returns the property resolver.
func (e *Evaluator) Resolver() Resolver { return e.resolver }

// Evaluate parses and evaluates src. The bound value is reachable as $$ and
// is consulted before the scope when resolving a bare identifier.
// Blank src evaluates to nil.
func (e *Evaluator) Evaluate(src string, bound any) (any, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}

	c := &call{src: src, slots: []any{bound}}

	s, err := c.extract(src)
	if err != nil {
		return nil, err
	}

	v, err := e.eval(c, s)
	if err != nil {
		return nil, err
	}

	if e.logger.Tracing(log.DefaultContextProvider()) {
		e.logger.Trace("evaluate",
			log.Expr(src),
			slog.String("type", typeName(v)),
			slog.String("value", Text(v)),
		)
	}

	return v, nil
}

func (e *Evaluator) eval(c *call, s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, newParseError(c.src, -1, "missing operand")
	}

	if cond, then, other, ok := splitTernary(s); ok {
		return e.ternary(c, cond, then, other)
	}

	if op, at, ok := splitOperator(s); ok {
		return e.binary(c, op, s[:at], s[at+len(op):])
	}

	switch s[0] {
	case '!', '-', '+':
		return e.unary(c, s[0], s[1:])
	}

	return e.operand(c, s)
}

// operand evaluates an expression that contains no operator outside
// brackets.
func (e *Evaluator) operand(c *call, s string) (any, error) {
	if wrapped(s) {
		return e.eval(c, s[1:len(s)-1])
	}

	switch {
	case isUpper(s[0]):
		return e.static(c, s)

	case isDigit(s[0]):
		return e.number(c, s)

	case indexTop(s, '.') > 0:
		return e.path(c, s)

	case indexTop(s, '[') >= 0:
		return e.index(c, s)

	case strings.HasPrefix(s, "$$"):
		return e.slot(c, s)
	}

	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "nil":
		return nil, nil
	}

	if n := identLen(s); n > 0 && n < len(s) && s[n] == '(' {
		return e.call(c, s)
	}

	if !isIdent(s) {
		return nil, newParseError(c.src, strings.Index(c.src, s), "unexpected "+strconv.Quote(s))
	}

	return e.identifier(c, s), nil
}

// identifier resolves name against the bound root first, then the scope.
// An unbound name is nil.
func (e *Evaluator) identifier(c *call, name string) any {
	if root := c.slots[0]; root != nil {
		if v, ok, err := e.resolver.Property(root, name); err == nil && ok {
			return v
		}
	}

	return e.scope.Get(name)
}

func (e *Evaluator) slot(c *call, s string) (any, error) {
	if s == "$$" {
		return c.slots[0], nil
	}

	n, err := strconv.Atoi(s[2:])
	if err != nil || n < 0 || n >= len(c.slots) {
		return nil, newParseError(c.src, -1, "unknown slot "+strconv.Quote(s))
	}

	return c.slots[n], nil
}

// number parses a numeric literal with an optional type suffix. Text after
// the literal is applied to the number as a property chain.
func (e *Evaluator) number(c *call, s string) (any, error) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}

	float := false

	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		float = true

		for i++; i < len(s) && isDigit(s[i]); i++ { //nolint:revive
		}
	}

	text := s[:i]

	var (
		v   any
		err error
	)

	suffix := byte(0)
	if i < len(s) && strings.IndexByte("dDfFlL", s[i]) >= 0 {
		suffix = s[i]
		i++
	}

	switch suffix {
	case 'd', 'D':
		v, err = strconv.ParseFloat(text, 64)

	case 'f', 'F':
		var f float64

		f, err = strconv.ParseFloat(text, 32)
		v = float32(f)

	case 'l', 'L':
		if float {
			return nil, newParseError(c.src, -1, "malformed number "+strconv.Quote(s))
		}

		v, err = strconv.ParseInt(text, 10, 64)

	default:
		if float {
			v, err = strconv.ParseFloat(text, 64)
		} else {
			v, err = strconv.ParseInt(text, 10, 64)
		}
	}

	if err != nil {
		return nil, newParseError(c.src, -1, "malformed number "+strconv.Quote(s))
	}

	rest := s[i:]
	if rest == "" {
		return v, nil
	}

	if rest[0] != '.' {
		return nil, newParseError(c.src, -1, "malformed number "+strconv.Quote(s))
	}

	return e.chain(c, v, rest[1:])
}

// path evaluates the operand before the first dot and applies the rest as a
// property chain.
func (e *Evaluator) path(c *call, s string) (any, error) {
	d := indexTop(s, '.')

	recv, err := e.eval(c, s[:d])
	if err != nil {
		return nil, err
	}

	return e.chain(c, recv, s[d+1:])
}

// index evaluates an operand followed by one or more bracketed indices.
// A leading bracket with no operand is a list literal.
func (e *Evaluator) index(c *call, s string) (any, error) {
	b := indexTop(s, '[')

	var (
		recv any
		err  error
	)

	if b == 0 {
		end := matchClose(s, 0)

		recv, err = e.list(c, s[1:end])
		if err != nil {
			return nil, err
		}

		s = strings.TrimSpace(s[end+1:])
		if s == "" {
			return recv, nil
		}
	} else {
		recv, err = e.eval(c, s[:b])
		if err != nil {
			return nil, err
		}
	}

	return e.subscripts(c, recv, s[b:], "[]")
}

func (e *Evaluator) list(c *call, body string) ([]any, error) {
	parts := splitTop(body, ',')
	out := make([]any, 0, len(parts))

	for _, p := range parts {
		v, err := e.eval(c, p)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// subscripts applies a run of "[expr]" groups to recv.
func (e *Evaluator) subscripts(c *call, recv any, s, name string) (any, error) {
	for s != "" {
		if s[0] != '[' {
			return nil, newParseError(c.src, -1, "unexpected "+strconv.Quote(s))
		}

		end := matchClose(s, 0)

		idx, err := e.eval(c, s[1:end])
		if err != nil {
			return nil, err
		}

		v, err := e.resolver.Index(recv, idx)
		if err != nil {
			return nil, e.unresolved(c, name, recv, err)
		}

		recv, s = v, strings.TrimSpace(s[end+1:])
	}

	return recv, nil
}

// segment is one element of a property chain: a name, optionally called
// with arguments, followed by zero or more subscripts.
type segment struct {
	name  string
	args  []string
	call  bool
	index string
}

func (c *call) segments(s string) ([]segment, error) {
	parts := splitTop(s, '.')
	segs := make([]segment, 0, len(parts))

	for _, p := range parts {
		n := identLen(p)
		if n == 0 {
			return nil, newParseError(c.src, -1, "invalid property "+strconv.Quote(p))
		}

		seg := segment{name: p[:n]}
		rest := p[n:]

		if strings.HasPrefix(rest, "(") {
			end := matchClose(rest, 0)
			seg.call = true
			seg.args = splitTop(rest[1:end], ',')
			rest = strings.TrimSpace(rest[end+1:])
		}

		if rest != "" && rest[0] != '[' {
			return nil, newParseError(c.src, -1, "invalid property "+strconv.Quote(p))
		}

		seg.index = rest
		segs = append(segs, seg)
	}

	return segs, nil
}

// chain resolves a dotted property and method chain against recv.
func (e *Evaluator) chain(c *call, recv any, s string) (any, error) {
	segs, err := c.segments(s)
	if err != nil {
		return nil, err
	}

	for _, seg := range segs {
		recv, err = e.member(c, recv, seg)
		if err != nil {
			return nil, err
		}
	}

	return recv, nil
}

func (e *Evaluator) member(c *call, recv any, seg segment) (any, error) {
	var (
		v   any
		err error
	)

	if seg.call {
		args, aerr := e.args(c, seg.args)
		if aerr != nil {
			return nil, aerr
		}

		v, err = e.resolver.Invoke(recv, seg.name, args)
		if err != nil {
			return nil, e.unresolved(c, seg.name, recv, err)
		}
	} else {
		var ok bool

		v, ok, err = e.resolver.Property(recv, seg.name)
		if err != nil {
			return nil, e.unresolved(c, seg.name, recv, err)
		}

		if !ok && recv != nil && !isMap(recv) {
			return nil, e.unresolved(c, seg.name, recv, ErrUnknownMember)
		}
	}

	if seg.index == "" {
		return v, nil
	}

	return e.subscripts(c, v, seg.index, seg.name)
}

func (e *Evaluator) args(c *call, exprs []string) ([]any, error) {
	args := make([]any, len(exprs))

	for i, a := range exprs {
		v, err := e.eval(c, a)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return args, nil
}

// static resolves "Class.member" through the registry. A class that is not
// registered falls back to an ordinary identifier of the same name.
func (e *Evaluator) static(c *call, s string) (any, error) {
	d := indexTop(s, '.')
	if d < 0 {
		if n := identLen(s); n > 0 && n < len(s) && s[n] == '(' {
			return e.call(c, s)
		}

		if isIdent(s) {
			return e.identifier(c, s), nil
		}

		return e.index(c, s)
	}

	class := s[:d]
	if !e.registry.HasClass(class) {
		if !isIdent(class) {
			return e.path(c, s)
		}

		if _, ok := e.scope.Lookup(class); ok {
			return e.path(c, s)
		}

		if root := c.slots[0]; root != nil {
			if _, ok, _ := e.resolver.Property(root, class); ok {
				return e.path(c, s)
			}
		}

		return nil, &ResolutionError{
			Expr:        c.src,
			Name:        class,
			Suggestions: e.registry.Suggest(class),
			Err:         ErrUnknownMember,
		}
	}

	segs, err := c.segments(s[d+1:])
	if err != nil {
		return nil, err
	}

	first := segs[0]
	name := class + "." + first.name

	var v any

	switch {
	case first.call:
		args, err := e.args(c, first.args)
		if err != nil {
			return nil, err
		}

		v, err = e.invokeStatic(c, class, name, first.name, args)
		if err != nil {
			return nil, err
		}

	default:
		f, ok := e.registry.Field(name)
		if !ok {
			obj, bound := e.registry.Object(class)
			if !bound {
				return nil, &ResolutionError{
					Expr:        c.src,
					Name:        name,
					Suggestions: e.registry.Suggest(name),
					Err:         ErrUnknownMember,
				}
			}

			f, ok, err = e.resolver.Property(obj, first.name)
			if err != nil {
				return nil, e.unresolved(c, name, obj, err)
			}

			if !ok {
				return nil, e.unresolved(c, name, obj, ErrUnknownMember)
			}
		}

		v = f
	}

	if first.index != "" {
		if v, err = e.subscripts(c, v, first.index, name); err != nil {
			return nil, err
		}
	}

	for _, seg := range segs[1:] {
		if v, err = e.member(c, v, seg); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func (e *Evaluator) invokeStatic(
	c *call,
	class, name, method string,
	args []any,
) (any, error) {
	if f, ok := e.registry.Func(name); ok {
		v, err := f.Invoke(args...)
		if err != nil {
			return nil, &ResolutionError{Expr: c.src, Name: name, Err: err}
		}

		return v, nil
	}

	if obj, ok := e.registry.Object(class); ok {
		v, err := e.resolver.Invoke(obj, method, args)
		if err != nil {
			return nil, e.unresolved(c, name, obj, err)
		}

		return v, nil
	}

	return nil, &ResolutionError{
		Expr:        c.src,
		Name:        name,
		Suggestions: e.registry.Suggest(name),
		Err:         ErrUnknownMember,
	}
}

// call evaluates "name(args)" with no receiver: an unqualified registered
// function, or a function value bound in scope.
func (e *Evaluator) call(c *call, s string) (any, error) {
	n := identLen(s)
	end := matchClose(s, n)
	name := s[:n]

	args, err := e.args(c, splitTop(s[n+1:end], ','))
	if err != nil {
		return nil, err
	}

	var v any

	if f, ok := e.registry.Func(name); ok {
		v, err = f.Invoke(args...)
		if err != nil {
			return nil, &ResolutionError{Expr: c.src, Name: name, Err: err}
		}
	} else {
		fn := e.identifier(c, name)
		if fn == nil {
			return nil, &ResolutionError{
				Expr:        c.src,
				Name:        name,
				Suggestions: e.registry.Suggest(name),
				Err:         ErrUnknownMember,
			}
		}

		v, err = callFunc(reflect.ValueOf(fn), args)
		if err != nil {
			return nil, e.unresolved(c, name, fn, err)
		}
	}

	rest := strings.TrimSpace(s[end+1:])
	switch {
	case rest == "":
		return v, nil
	case rest[0] == '[':
		return e.subscripts(c, v, rest, name)
	default:
		return nil, newParseError(c.src, -1, "unexpected "+strconv.Quote(rest))
	}
}

func (e *Evaluator) unresolved(c *call, name string, recv any, err error) error {
	if re, ok := err.(*ResolutionError); ok { //nolint:errorlint
		return re
	}

	return &ResolutionError{
		Expr: c.src,
		Name: name,
		Type: typeName(recv),
		Err:  err,
	}
}

func isMap(v any) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}

		rv = rv.Elem()
	}

	return rv.Kind() == reflect.Map
}
