package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/ardnew/areport/area"
	"github.com/ardnew/areport/log"
)

// Check loads and validates a template without building it.
type Check struct {
	Template string `arg:"" help:"Report template file or '-' for stdin" name:"template"`
	Tree     bool   `       help:"Print the path of every node"                            short:"t"`

	out io.Writer
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tpl, err := loadTemplate(ctx, c.Template)
	if err != nil {
		return err
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintf(out, "%s: %d styles, %d sheets\n",
		c.Template, len(tpl.Styles), len(tpl.Sheets))

	for _, s := range tpl.Sheets {
		var paths []string

		counts := make(map[string]int)

		err := area.Walk(s.Root, func(path []string, n area.Node) error {
			counts[n.Kind().String()]++
			paths = append(paths, strings.Join(path, "/"))

			return nil
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "  sheet %q%s: %s\n", s.Name, eachSuffix(s), summarize(counts))

		if c.Tree {
			for _, p := range paths {
				fmt.Fprintf(out, "    %s\n", p)
			}
		}
	}

	log.DebugContext(ctx, "template valid")

	return nil
}

func eachSuffix(s area.Sheet) string {
	if s.Each == "" {
		return ""
	}

	return fmt.Sprintf(" (each %s as %s)", s.Each, s.ItemName())
}

// summarize formats node counts sorted by kind.
func summarize(counts map[string]int) string {
	kinds := slices.Sorted(maps.Keys(counts))
	part := make([]string, len(kinds))

	for i, k := range kinds {
		part[i] = fmt.Sprintf("%s %d", k, counts[k])
	}

	return strings.Join(part, ", ")
}
