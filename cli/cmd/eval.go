package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/areport/cli/cmd/repl"
	"github.com/ardnew/areport/lang"
	"github.com/ardnew/areport/log"
)

// Eval evaluates expressions against the loaded data.
type Eval struct {
	Exprs    []string `arg:"" help:"Expressions to evaluate" name:"expr"`
	ExprLang bool     `       help:"Evaluate with expr-lang instead of the template expression language" name:"expr-lang" short:"x"`

	out io.Writer
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	data, err := Data(ctx)
	if err != nil {
		return err
	}

	out := e.out
	if out == nil {
		out = os.Stdout
	}

	eval := lang.NewEvaluator(
		lang.NewScope(data),
		lang.WithLogger(log.Default()),
	)

	for _, src := range e.Exprs {
		var result any

		if e.ExprLang {
			result, err = lang.RunExpr(src, data)
		} else {
			result, err = eval.Evaluate(src, nil)
		}

		if err != nil {
			return ErrEvaluate.Wrap(err).With(slog.String("expr", src))
		}

		text, err := repl.FormatResult(result)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, text)
	}

	return nil
}
