package report

import (
	"context"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/areport/area"
	"github.com/ardnew/areport/lang"
	"github.com/ardnew/areport/log"
	"github.com/ardnew/areport/sheet"
)

// SheetResult is the outcome of building one sheet of a document.
type SheetResult struct {
	Name string
	Result
}

// job is one sheet instance to build.
type job struct {
	name  string
	root  area.Node
	data  map[string]any
	bound any
	sink  sheet.Sink
}

// BuildDocument builds every sheet of tpl into book. A sheet with Each set
// is built once per element of its collection. Sheets are opened in
// template order and then built concurrently, each by its own Builder, so
// book must tolerate concurrent writers to distinct sheets.
func BuildDocument(
	ctx context.Context,
	tpl *area.Template,
	data map[string]any,
	book sheet.Book,
	opts ...Option,
) ([]SheetResult, error) {
	opts = slices.Concat([]Option{WithStyles(tpl.Styles)}, opts)
	proto := NewBuilder(nil, opts...)

	jobs, err := proto.expand(ctx, tpl, data)
	if err != nil {
		return nil, err
	}

	for i := range jobs {
		if jobs[i].sink, err = book.Sheet(jobs[i].name); err != nil {
			return nil, ErrSheet.Wrap(err).With(slog.String("sheet", jobs[i].name))
		}
	}

	results := make([]SheetResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(proto.parallel())

	for i, j := range jobs {
		g.Go(func() error {
			b := NewBuilder(j.sink, opts...)
			b.logger = b.logger.With(slog.String("sheet", j.name))

			res, err := b.build(gctx, j.root, j.data, j.bound)
			if err != nil {
				return ErrSheet.Wrap(err).With(slog.String("sheet", j.name))
			}

			results[i] = SheetResult{Name: j.name, Result: res}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	proto.logger.InfoContext(ctx, "document built", slog.Int("sheets", len(results)))

	return results, nil
}

// expand lists the sheet instances of tpl in template order.
func (b *Builder) expand(ctx context.Context, tpl *area.Template, data map[string]any) ([]job, error) {
	scope := lang.NewScope(data)
	eval := lang.NewEvaluator(scope,
		lang.WithRegistry(b.registry),
		lang.WithResolver(groupResolver{b.resolver}),
		lang.WithLogger(b.logger),
	)

	var jobs []job

	seen := make(map[string]bool)

	add := func(path string, s *area.Sheet, item any, each bool) error {
		vars := maps.Clone(data)
		if vars == nil {
			vars = map[string]any{}
		}

		var bound any

		if each {
			vars[s.ItemName()] = item
			bound = item
		}

		scope.Push(vars)
		name, err := eval.FormatString(s.Name, bound)
		scope.Pop()

		if err != nil {
			return &BuildError{Path: path, Expr: s.Name, Err: err}
		}

		if name == "" || seen[name] {
			return &BuildError{Path: path, Expr: s.Name, Err: sheet.ErrSheetName.With(slog.String("sheet", name))}
		}

		seen[name] = true
		jobs = append(jobs, job{name: name, root: s.Root, data: vars, bound: bound})

		return nil
	}

	for i := range tpl.Sheets {
		s := &tpl.Sheets[i]
		path := "sheets[" + strconv.Itoa(i) + "]"

		if s.Each == "" {
			if err := add(path, s, nil, false); err != nil {
				return nil, err
			}

			continue
		}

		v, err := eval.Evaluate(s.Each, nil)
		if err != nil {
			return nil, &BuildError{Path: path, Expr: s.Each, Err: err}
		}

		items, _, ok := collection(v)
		if !ok {
			b.logger.TraceContext(ctx, "not a collection", log.Expr(s.Each), slog.String("type", typeName(v)))

			continue
		}

		for _, item := range items {
			if err := add(path, s, item, true); err != nil {
				return nil, err
			}
		}
	}

	return jobs, nil
}

func (b *Builder) parallel() int {
	if b.workers > 0 {
		return b.workers
	}

	return runtime.GOMAXPROCS(0)
}
