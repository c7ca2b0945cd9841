package cmd

import (
	"context"

	"github.com/ardnew/areport/cli/cmd/repl"
	"github.com/ardnew/areport/log"
)

// Repl starts an interactive expression evaluator over the loaded data.
type Repl struct{}

// Run executes the repl command.
func (*Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	data, err := Data(ctx)
	if err != nil {
		return err
	}

	cacheDir := ""
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, data, cacheDir, log.Default())
}
