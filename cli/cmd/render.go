package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/areport/area"
	"github.com/ardnew/areport/log"
	"github.com/ardnew/areport/pkg"
	"github.com/ardnew/areport/report"
	"github.com/ardnew/areport/sheet"
	"github.com/ardnew/areport/sheet/term"
	"github.com/ardnew/areport/sheet/xlsx"
)

// Render builds a report from a template and the loaded data.
//
// With --output the report is written as an xlsx workbook ("-" writes the
// workbook to stdout). Otherwise each sheet is previewed as a table.
type Render struct {
	Template string `arg:"" help:"Report template file or '-' for stdin"                   name:"template"`
	Output   string `       help:"Write an xlsx workbook to this path"                                     short:"o" type:"path"`
	Parallel int    `       help:"Maximum sheets built at once (0 for GOMAXPROCS)" default:"0"  short:"j"`
	Width    int    `       help:"Preview width (0 to fit the terminal)"           default:"0"`
	Header   bool   `       help:"Preview the first row of each sheet as a header"`
	Plain    bool   `       help:"Preview without cell styles or borders"`

	out io.Writer
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	tpl, err := loadTemplate(ctx, r.Template)
	if err != nil {
		return err
	}

	data, err := Data(ctx)
	if err != nil {
		return err
	}

	opts := []report.Option{
		report.WithLogger(log.Default()),
		report.WithParallel(r.Parallel),
	}

	if r.Output != "" {
		return r.workbook(ctx, tpl, data, opts)
	}

	return r.preview(ctx, tpl, data, opts)
}

func (r *Render) writer() io.Writer {
	if r.out == nil {
		return os.Stdout
	}

	return r.out
}

// workbook builds every sheet into an xlsx workbook and saves it.
func (r *Render) workbook(
	ctx context.Context,
	tpl *area.Template,
	data map[string]any,
	opts []report.Option,
) error {
	book := xlsx.New()
	defer book.Close()

	results, err := report.BuildDocument(ctx, tpl, data, book, opts...)
	if err != nil {
		return ErrRender.Wrap(err)
	}

	if r.Output == stdinSource {
		if _, err := book.WriteTo(r.writer()); err != nil {
			return ErrRender.Wrap(pkg.ErrWriteOutput.Wrap(err))
		}
	} else if err := book.Save(r.Output); err != nil {
		return ErrRender.Wrap(pkg.ErrWriteOutput.Wrap(err))
	}

	log.InfoContext(ctx, "report written",
		slog.String("path", r.Output),
		slog.Int("sheets", len(results)),
	)

	return nil
}

// preview builds every sheet in memory and renders each as a table.
func (r *Render) preview(
	ctx context.Context,
	tpl *area.Template,
	data map[string]any,
	opts []report.Option,
) error {
	var book sheet.MemoryBook

	if _, err := report.BuildDocument(ctx, tpl, data, &book, opts...); err != nil {
		return ErrRender.Wrap(err)
	}

	out := r.writer()

	topts := []term.Option{term.WithTerminalWidth(out)}
	if r.Width > 0 {
		topts = append(topts, term.WithWidth(r.Width))
	}

	if r.Header {
		topts = append(topts, term.WithHeader())
	}

	if r.Plain {
		topts = append(topts, term.WithoutStyle(), term.WithBorder(lipgloss.HiddenBorder()))
	}

	titleStyle := lipgloss.NewStyle().Bold(!r.Plain)

	for i, name := range book.Names() {
		m, _ := book.Memory(name)

		if i > 0 {
			fmt.Fprintln(out)
		}

		fmt.Fprintln(out, titleStyle.Render(name))

		if err := term.Render(out, m, topts...); err != nil {
			return ErrRender.Wrap(pkg.ErrWriteOutput.Wrap(err)).With(slog.String("sheet", name))
		}
	}

	return nil
}
