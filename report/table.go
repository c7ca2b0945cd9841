package report

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/areport/area"
	"github.com/ardnew/areport/lang"
	"github.com/ardnew/areport/log"
	"github.com/ardnew/areport/sheet"
)

// column is a value field of a table placed at a fixed column.
type column struct {
	field  *area.Field
	offset int // from the table's first column
	level  int // 1-based level the value is read at
	// boundary is the level whose iteration ends an open span. Zero writes
	// each cell as soon as its row is emitted.
	boundary    int
	titles      []string
	titleStyles []string
	style       string
}

// columns places the value fields of t left to right by a depth-first
// scan, so the position of every field is fixed before any data is read.
func columns(t *area.Table) []column {
	k := len(t.Levels)

	var (
		out   []column
		visit func(fields []area.Field, level int, titles, styles []string, titleStyle string)
	)

	visit = func(fields []area.Field, level int, titles, styles []string, titleStyle string) {
		for i := range fields {
			f := &fields[i]

			lvl := cmp.Or(f.Level, level)
			ts := cmp.Or(f.TitleStyle, titleStyle)
			tt := slices.Concat(titles, f.Titles)
			ss := slices.Concat(styles, slices.Repeat([]string{ts}, len(f.Titles)))

			if f.IsGroup() {
				visit(f.Fields, lvl, tt, ss, ts)

				continue
			}

			boundary := f.MergeRow
			if boundary == 0 && lvl < k {
				boundary = lvl
			}

			out = append(out, column{
				field:       f,
				offset:      len(out),
				level:       lvl,
				boundary:    boundary,
				titles:      tt,
				titleStyles: ss,
				style:       cmp.Or(f.Style, t.Style),
			})
		}
	}

	visit(t.Fields, k, nil, nil, t.TitleStyle)

	return out
}

// slot is the current value of a column.
type slot struct {
	value any
	style sheet.Handle
	skip  bool
}

// span is an open region of equal values in one column.
type span struct {
	first int
	last  int
	value any
	style sheet.Handle
}

// tableRun holds the state of one table build.
type tableRun struct {
	*run

	path    []string
	table   *area.Table
	cols    []column
	atLevel [][]int
	current []slot
	// open holds the spans bounded by each level, keyed by column index.
	open     []map[int]*span
	occupied map[[2]int]struct{}
	col0     int
	row      int
}

func (r *run) table(path []string, t *area.Table, cur *Cursor, bound any) error {
	cols := columns(t)
	k := len(t.Levels)

	tr := &tableRun{
		run:      r,
		path:     path,
		table:    t,
		cols:     cols,
		atLevel:  make([][]int, k),
		current:  make([]slot, len(cols)),
		open:     make([]map[int]*span, k),
		occupied: make(map[[2]int]struct{}),
		col0:     cur.Col,
		row:      cur.Row,
	}

	for i := range tr.open {
		tr.open[i] = make(map[int]*span)
	}

	for i, c := range cols {
		tr.atLevel[c.level-1] = append(tr.atLevel[c.level-1], i)
	}

	if t.ShowTitle {
		if err := tr.titles(bound); err != nil {
			return err
		}
	}

	first := tr.row

	if err := r.within(nil, func() error { return tr.level(1, bound) }); err != nil {
		return err
	}

	for _, c := range cols {
		if c.field.Width > 0 {
			if err := r.width(path, tr.col0+c.offset, c.field.Width); err != nil {
				return err
			}
		}
	}

	r.logger.DebugContext(r.ctx, "table",
		log.Path(path...),
		log.Cell(cur.Row, cur.Col),
		log.Extent(tr.row-cur.Row, len(cols)),
		slog.Int("leaves", tr.row-first),
	)

	cur.Emit(tr.row-cur.Row, len(cols))

	return nil
}

// level iterates the collection of level l, reached from parent, and
// descends to level l+1 for each element. Spans bounded by level l close
// when the iteration ends.
func (tr *tableRun) level(l int, parent any) error {
	lv := &tr.table.Levels[l-1]

	items, keys, ok, err := tr.items(lv, parent)
	if err != nil || !ok {
		return err
	}

	elems := items

	if lv.GroupBy != "" {
		groups, err := GroupBy(items, func(item any) (any, error) {
			return tr.evaluate(tr.path, lv.GroupBy, item)
		})
		if err != nil {
			return err
		}

		elems = make([]any, len(groups))
		for i, g := range groups {
			elems[i] = g
		}

		keys = nil
	}

	for i, e := range elems {
		frame := make(map[string]any, 2)
		bind(frame, lv.Var, e)
		if keys != nil {
			bind(frame, lv.Index, keys[i])
		} else {
			bind(frame, lv.Index, i)
		}

		err := tr.within(frame, func() error {
			if err := tr.read(l, e); err != nil {
				return err
			}

			if l == len(tr.table.Levels) {
				return tr.leaf()
			}

			return tr.level(l+1, e)
		})
		if err != nil {
			return err
		}
	}

	return tr.close(l)
}

// items returns the collection of level lv with the index bound for each
// element, as [collection] does. Keys are nil for the members of a group. It
// reports false, without error, when the data is absent or not a collection.
func (tr *tableRun) items(lv *area.Level, parent any) (items, keys []any, ok bool, err error) {
	if lv.Data == "" {
		g, isGroup := parent.(*Group)
		if !isGroup {
			return nil, nil, false, nil
		}

		return g.Items, nil, true, nil
	}

	v, err := tr.evaluate(tr.path, lv.Data, parent)
	if err != nil {
		return nil, nil, false, err
	}

	items, keys, ok = collection(v)
	if !ok {
		tr.skip(tr.path, lv.Data, v)
	}

	return items, keys, ok, nil
}

// read evaluates the columns of level l for element e.
func (tr *tableRun) read(l int, e any) error {
	for _, i := range tr.atLevel[l-1] {
		s, err := tr.value(&tr.cols[i], e)
		if err != nil {
			return err
		}

		tr.current[i] = s
	}

	return nil
}

func (tr *tableRun) value(c *column, e any) (slot, error) {
	f := c.field

	keep, err := tr.filter(tr.path, f.Filter, e)
	if err != nil || !keep {
		return slot{skip: true}, err
	}

	var v any

	if f.Value != "" {
		v, err = tr.evaluate(tr.path, f.Value, e)
	} else {
		v, err = tr.call(f.Func, e)
	}

	if err != nil {
		return slot{}, err
	}

	style, err := tr.style(tr.path, c.style, f.Format, e)
	if err != nil {
		return slot{}, err
	}

	return slot{value: present(f, v), style: style}, nil
}

func (tr *tableRun) call(name string, e any) (any, error) {
	fn, ok := tr.registry.Func(name)
	if !ok {
		return nil, &BuildError{
			Path: tr.pathString(),
			Expr: name,
			Err:  ErrUnknownFunc.With(slog.Any("suggest", tr.registry.Suggest(name))),
		}
	}

	v, err := fn.Invoke(e)
	if err != nil {
		return nil, &BuildError{Path: tr.pathString(), Expr: name, Err: err}
	}

	return v, nil
}

// leaf emits one leaf row. Columns without a merge boundary are written
// at once; the others extend their open span while the value and style
// repeat, or close it and open another.
func (tr *tableRun) leaf() error {
	row := tr.row
	tr.row++

	for i := range tr.cols {
		c := &tr.cols[i]
		s := tr.current[i]

		if c.boundary == 0 {
			if s.skip {
				continue
			}

			if err := tr.emit(sheet.Cell(row, tr.col0+c.offset, s.value, s.style)); err != nil {
				return err
			}

			continue
		}

		open := tr.open[c.boundary-1]

		p := open[i]
		if p != nil && !s.skip && lang.Equal(p.value, s.value) && p.style.Key == s.style.Key {
			p.last = row

			continue
		}

		if p != nil {
			delete(open, i)

			if err := tr.emit(tr.region(i, p)); err != nil {
				return err
			}
		}

		if !s.skip {
			open[i] = &span{first: row, last: row, value: s.value, style: s.style}
		}
	}

	if tr.table.RowHeight > 0 {
		return tr.height(tr.path, row, tr.table.RowHeight)
	}

	return nil
}

// close commits every span bounded by level l, in column order.
func (tr *tableRun) close(l int) error {
	open := tr.open[l-1]

	for _, i := range slices.Sorted(maps.Keys(open)) {
		if err := tr.emit(tr.region(i, open[i])); err != nil {
			return err
		}
	}

	clear(open)

	return nil
}

func (tr *tableRun) region(i int, p *span) sheet.Region {
	col := tr.col0 + tr.cols[i].offset

	return sheet.Region{
		FirstRow: p.first,
		LastRow:  p.last,
		FirstCol: col,
		LastCol:  col,
		Value:    p.value,
		Style:    p.style,
	}
}

// emit commits rg after asserting that no cell of it was committed
// earlier in this table.
func (tr *tableRun) emit(rg sheet.Region) error {
	for row := rg.FirstRow; row <= rg.LastRow; row++ {
		for col := rg.FirstCol; col <= rg.LastCol; col++ {
			if _, ok := tr.occupied[[2]int{row, col}]; ok {
				return &BuildError{
					Path: tr.pathString(),
					Err:  ErrRegionOverlap.With(slog.Any("region", rg), log.Cell(row, col)),
				}
			}

			tr.occupied[[2]int{row, col}] = struct{}{}
		}
	}

	return tr.commit(tr.path, rg)
}

func (tr *tableRun) pathString() string {
	return pathString(tr.path)
}
