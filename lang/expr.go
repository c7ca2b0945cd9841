package lang

import (
	"log/slog"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"
)

// programCache stores compiled expr-lang programs keyed by the xxh3 hash of
// their source. Programs are compiled without a typed environment so one
// program serves any binding map.
//
//nolint:gochecknoglobals
var programCache sync.Map

// cachedProgram is a programCache entry. The source is kept so a hash
// collision compiles afresh instead of running another program.
type cachedProgram struct {
	src     string
	program *vm.Program
}

// compile returns the cached program for src, compiling it on first use.
func compile(src string) (*vm.Program, error) {
	key := xxh3.HashString(src)

	if v, ok := programCache.Load(key); ok {
		if c := v.(cachedProgram); c.src == src { //nolint:forcetypeassert
			return c.program, nil
		}
	}

	program, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).With(slog.String("source", src))
	}

	v, loaded := programCache.LoadOrStore(key, cachedProgram{src: src, program: program})
	if c := v.(cachedProgram); loaded && c.src == src { //nolint:forcetypeassert
		return c.program, nil
	}

	return program, nil
}

// RunExpr evaluates src as an expr-lang program with env as its variables.
// Unlike [Evaluator.Evaluate], operators follow expr-lang precedence.
func RunExpr(src string, env map[string]any) (any, error) {
	program, err := compile(src)
	if err != nil {
		return nil, err
	}

	if env == nil {
		env = map[string]any{}
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).With(slog.String("source", src))
	}

	return out, nil
}

func exprClass() class {
	return class{
		name: "Expr",
		funcs: []Func{
			{Name: "Expr.eval", MinArgs: 1, MaxArgs: 2, Call: func(args ...any) (any, error) {
				env := map[string]any{}

				if len(args) == 2 && args[1] != nil {
					for _, k := range Keys(args[1]) {
						v, _, _ := Reflect{}.Property(args[1], Text(k))
						env[Text(k)] = v
					}
				}

				return RunExpr(Text(args[0]), env)
			}},
		},
	}
}
