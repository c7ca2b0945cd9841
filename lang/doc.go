// Package lang implements the template expression language: a [Scope] of
// variable frames, the [Evaluator], a reflection-based [Resolver] for
// property and method access, and the [Registry] of static functions.
//
// # Syntax
//
// An expression is a single-quoted string literal, a number, an identifier,
// a property chain, an index, a static call, or operators combining them:
//
//	'text'          string literal; \' escapes a quote
//	42  1.5  2f 7L  int64, float64, float32 (f) and int64 (L); d forces float64
//	true false null
//	$$              the bound root value (the item being iterated)
//	name            bound root property, else scope variable, else nil
//	a.b.get(0).c    property and method chain
//	list[1]  m['k'] index
//	Math.max(a, b)  static function; Math.PI static constant
//	+ - * / %       arithmetic; + concatenates when either side is a string
//	&& || !         logical; & and | are bitwise on integers
//	= == != < <= > >=
//	~               containment (substring, element, or map key)
//	c ? a : b       conditional
//
// Operators have no precedence. The rightmost operator outside brackets is
// applied last, so 1+2*3 is 9 and 1+(2*3) is 7. The conditional binds
// loosest of all.
//
// # Templates
//
// [Evaluator.FormatString] expands {{expr}} placeholders inside ordinary
// text, for example a sheet name "Dept {{dept.name}}".
//
// # Builtin classes
//
// [NewRegistry] preloads Math, Strings, Lists, Dates, Paths and Expr.
// Expr.eval(src[, env]) runs an expr-lang program, for calculations that
// need real operator precedence.
package lang
