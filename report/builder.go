package report

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/areport/area"
	"github.com/ardnew/areport/lang"
	"github.com/ardnew/areport/log"
	"github.com/ardnew/areport/sheet"
)

// Builder lays a template tree out onto a [sheet.Sink].
type Builder struct {
	sink     sheet.Sink
	logger   log.Logger
	registry *lang.Registry
	resolver lang.Resolver
	styles   map[string]sheet.Style
	workers  int
}

// Result summarizes one build.
type Result struct {
	// Regions holds every committed region in commit order. Single cells
	// are regions of one row and column.
	Regions []sheet.Region
	// Rows and Cols are the number of rows and columns spanned from the
	// top-left cell.
	Rows int
	Cols int
}

// NewBuilder returns a Builder writing to sink.
func NewBuilder(sink sheet.Sink, opts ...Option) *Builder {
	b := &Builder{sink: sink}
	for _, opt := range opts {
		opt(b)
	}

	if b.registry == nil {
		b.registry = lang.NewRegistry()
	}

	if b.resolver == nil {
		b.resolver = lang.Reflect{}
	}

	return b
}

// run holds the state of one Build call.
type run struct {
	*Builder

	ctx     context.Context //nolint:containedctx
	scope   *lang.Scope
	eval    *lang.Evaluator
	styles  *styleCache
	regions []sheet.Region
}

// Build lays root out from the top-left cell with data bound in the
// outermost scope frame.
func (b *Builder) Build(ctx context.Context, root area.Node, data map[string]any) (Result, error) {
	return b.build(ctx, root, data, nil)
}

func (b *Builder) build(ctx context.Context, root area.Node, data map[string]any, bound any) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if data == nil {
		data = map[string]any{}
	}

	scope := lang.NewScope(data)
	r := &run{
		Builder: b,
		ctx:     ctx,
		scope:   scope,
		eval: lang.NewEvaluator(scope,
			lang.WithRegistry(b.registry),
			lang.WithResolver(groupResolver{b.resolver}),
			lang.WithLogger(b.logger),
		),
		styles: newStyleCache(b.sink, b.styles),
	}

	cur := NewCursor(1, 1, area.Down)
	if a, ok := root.(*area.Align); ok {
		cur.Direction = a.Direction
	}

	if err := r.node([]string{area.Segment(root, 0)}, root, cur, bound); err != nil {
		return Result{}, err
	}

	res := Result{Regions: r.regions, Rows: cur.MaxRow, Cols: cur.MaxCol}

	b.logger.DebugContext(ctx, "build complete",
		log.Extent(res.Rows, res.Cols),
		slog.Int("regions", len(res.Regions)),
		slog.Int("styles", r.styles.len()),
	)

	return res, nil
}

func (r *run) node(path []string, n area.Node, cur *Cursor, bound any) error {
	if r.logger.Tracing(r.ctx) {
		r.logger.TraceContext(r.ctx, "node", log.Path(path...), log.Cell(cur.Row, cur.Col))
	}

	switch n := n.(type) {
	case *area.Align:
		return r.align(path, n, cur, bound)
	case *area.Repeat:
		return r.repeat(path, n, cur, bound)
	case *area.Table:
		return r.table(path, n, cur, bound)
	case *area.Row:
		return r.row(path, n, cur, bound)
	case *area.Split:
		return r.split(path, n, cur)
	case *area.Set:
		return r.set(path, n, bound)
	default:
		return &BuildError{Path: pathString(path), Err: area.ErrNodeKind}
	}
}

func (r *run) children(path []string, nodes []area.Node, cur *Cursor, bound any) error {
	for i, c := range nodes {
		if err := r.node(slices.Concat(path, []string{area.Segment(c, i)}), c, cur, bound); err != nil {
			return err
		}
	}

	return nil
}

// within runs fn with frame pushed onto the scope.
func (r *run) within(frame map[string]any, fn func() error) error {
	r.scope.Push(frame)
	defer r.scope.Pop()

	return fn()
}

func (r *run) align(path []string, n *area.Align, cur *Cursor, bound any) error {
	child := cur.Child(n.Direction)

	err := r.within(nil, func() error {
		return r.children(path, n.Children, child, bound)
	})
	if err != nil {
		return err
	}

	cur.Fold(child)

	return nil
}

func (r *run) repeat(path []string, n *area.Repeat, cur *Cursor, bound any) error {
	v, err := r.evaluate(path, n.Data, bound)
	if err != nil {
		return err
	}

	items, keys, ok := collection(v)
	if !ok {
		r.skip(path, n.Data, v)

		return nil
	}

	for i, item := range items {
		if i > 0 && n.Split != nil {
			if err := r.split(path, n.Split, cur); err != nil {
				return err
			}
		}

		frame := make(map[string]any, 2)
		bind(frame, n.Item, item)
		bind(frame, n.Index, keys[i])

		err := r.within(frame, func() error {
			return r.children(path, n.Children, cur, item)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *run) row(path []string, n *area.Row, cur *Cursor, bound any) error {
	row, col := cur.Row, cur.Col
	height := 1

	for i := range n.Cells {
		c := &n.Cells[i]
		rows, cols := c.Rows(), c.Cols()

		keep, err := r.filter(path, c.Filter, bound)
		if err != nil {
			return err
		}

		if keep {
			if err := r.cell(path, c, row, col, bound); err != nil {
				return err
			}

			height = max(height, rows)
		}

		col += cols
	}

	if n.Height > 0 {
		if err := r.height(path, row, n.Height); err != nil {
			return err
		}
	}

	cur.Emit(height, col-cur.Col)

	return nil
}

func (r *run) cell(path []string, c *area.Cell, row, col int, bound any) error {
	var (
		value any
		err   error
	)

	switch {
	case c.Value != "":
		value, err = r.evaluate(path, c.Value, bound)
	case c.Text != "":
		value, err = r.format(path, c.Text, bound)
	}

	if err != nil {
		return err
	}

	style, err := r.style(path, c.Style, c.Format, bound)
	if err != nil {
		return err
	}

	rg := sheet.Region{
		FirstRow: row,
		LastRow:  row + c.Rows() - 1,
		FirstCol: col,
		LastCol:  col + c.Cols() - 1,
		Value:    value,
		Style:    style,
	}

	if err := r.commit(path, rg); err != nil {
		return err
	}

	if c.Width > 0 {
		for x := rg.FirstCol; x <= rg.LastCol; x++ {
			if err := r.width(path, x, c.Width); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *run) split(path []string, n *area.Split, cur *Cursor) error {
	if cur.Direction == area.Across {
		if n.Width > 0 {
			for x := cur.Col; x < cur.Col+n.Amount; x++ {
				if err := r.width(path, x, n.Width); err != nil {
					return err
				}
			}
		}

		cur.Emit(0, n.Amount)

		return nil
	}

	cur.Emit(n.Amount, 0)

	return nil
}

func (r *run) set(path []string, n *area.Set, bound any) error {
	var (
		v   any
		err error
	)

	if n.Source != "" {
		v, err = r.evaluate(path, n.Source, bound)
	} else {
		v, err = lang.RunExpr(n.Eval, r.env(bound))
		if err != nil {
			err = &BuildError{Path: pathString(path), Expr: n.Eval, Err: err}
		}
	}

	if err != nil {
		return err
	}

	r.scope.Put(n.Name, v)

	return nil
}

// env flattens the scope into an expr-lang environment. Keys of a map
// bound root shadow scope variables, as they do in template expressions.
func (r *run) env(bound any) map[string]any {
	names := r.scope.Names()
	env := make(map[string]any, len(names))

	for _, name := range names {
		env[name] = r.scope.Get(name)
	}

	if m, ok := bound.(map[string]any); ok {
		for k, v := range m {
			env[k] = v
		}
	}

	return env
}

func (r *run) evaluate(path []string, expr string, bound any) (any, error) {
	v, err := r.eval.Evaluate(expr, bound)
	if err != nil {
		return nil, &BuildError{Path: pathString(path), Expr: expr, Err: err}
	}

	return v, nil
}

func (r *run) format(path []string, tmpl string, bound any) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	s, err := r.eval.FormatString(tmpl, bound)
	if err != nil {
		return "", &BuildError{Path: pathString(path), Expr: tmpl, Err: err}
	}

	return s, nil
}

// filter reports whether a cell guarded by expr is emitted. An empty expr
// always passes.
func (r *run) filter(path []string, expr string, bound any) (bool, error) {
	if expr == "" {
		return true, nil
	}

	v, err := r.evaluate(path, expr, bound)
	if err != nil {
		return false, err
	}

	return lang.Truthy(v), nil
}

func (r *run) style(path []string, names, numFmt string, bound any) (sheet.Handle, error) {
	if names == "" && numFmt == "" {
		return sheet.Handle{}, nil
	}

	names, err := r.format(path, names, bound)
	if err != nil {
		return sheet.Handle{}, err
	}

	numFmt, err = r.format(path, numFmt, bound)
	if err != nil {
		return sheet.Handle{}, err
	}

	h, err := r.styles.resolve(names, numFmt)
	if err != nil {
		return sheet.Handle{}, &BuildError{Path: pathString(path), Expr: names, Err: err}
	}

	return h, nil
}

// commit records rg and writes it to the sink.
func (r *run) commit(path []string, rg sheet.Region) error {
	var err error

	if rg.Single() {
		err = r.sink.SetCell(rg.FirstRow, rg.FirstCol, rg.Value, rg.Style)
	} else {
		err = r.sink.MergeRegion(rg)
	}

	if err != nil {
		return &BuildError{Path: pathString(path), Err: ErrSink.Wrap(err)}
	}

	r.regions = append(r.regions, rg)

	return nil
}

func (r *run) width(path []string, col int, width float64) error {
	if err := r.sink.SetColumnWidth(col, width); err != nil {
		return &BuildError{Path: pathString(path), Err: ErrSink.Wrap(err)}
	}

	return nil
}

func (r *run) height(path []string, row int, points float64) error {
	h, err := r.sink.Row(row)
	if err == nil {
		err = h.SetHeight(points)
	}

	if err != nil {
		return &BuildError{Path: pathString(path), Err: ErrSink.Wrap(err)}
	}

	return nil
}

// skip logs a structural mismatch: expr was expected to yield a collection.
func (r *run) skip(path []string, expr string, v any) {
	if v == nil || !r.logger.Tracing(r.ctx) {
		return
	}

	r.logger.TraceContext(r.ctx, "not a collection",
		log.Path(path...),
		log.Expr(expr),
		slog.String("type", typeName(v)),
	)
}

func pathString(path []string) string { return strings.Join(path, "/") }

func typeName(v any) string { return fmt.Sprintf("%T", v) }

func bind(frame map[string]any, name string, v any) {
	if name != "" {
		frame[name] = v
	}
}

// collection returns the elements of a slice, array or map together with
// the index bound for each: its position, or its key for maps. Maps are
// iterated in key order.
func collection(v any) (items, keys []any, ok bool) {
	if items, ok = lang.Items(v); ok {
		keys = make([]any, len(items))
		for i := range keys {
			keys[i] = i
		}

		return items, keys, true
	}

	if keys = lang.Keys(v); keys != nil {
		return lang.Values(v), keys, true
	}

	return nil, nil, false
}
