package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/areport/area"
	"github.com/ardnew/areport/lang"
	"github.com/ardnew/areport/sheet"
)

func lit(values ...string) *area.Row {
	cells := make([]area.Cell, len(values))
	for i, v := range values {
		cells[i] = area.Cell{Text: v}
	}

	return &area.Row{Cells: cells}
}

func TestBuildAlign(t *testing.T) {
	tests := []struct {
		name string
		root area.Node
		want []string
		rows int
		cols int
	}{
		{
			name: "nested down folds two rows",
			root: &area.Align{Direction: area.Down, Children: []area.Node{
				&area.Align{Direction: area.Down, Children: []area.Node{lit("a"), lit("b")}},
				lit("end"),
			}},
			want: []string{"R1C1=a", "R2C1=b", "R3C1=end"},
			rows: 3,
			cols: 1,
		},
		{
			name: "across places rows side by side",
			root: &area.Align{Direction: area.Across, Children: []area.Node{
				lit("a"),
				lit("b", "c"),
			}},
			want: []string{"R1C1=a", "R1C2=b", "R1C3=c"},
			rows: 1,
			cols: 3,
		},
		{
			name: "across block then down",
			root: &area.Align{Direction: area.Down, Children: []area.Node{
				&area.Align{Direction: area.Across, Children: []area.Node{
					&area.Align{Direction: area.Down, Children: []area.Node{lit("a"), lit("b")}},
					lit("c"),
				}},
				lit("d"),
			}},
			want: []string{"R1C1=a", "R2C1=b", "R1C2=c", "R3C1=d"},
			rows: 3,
			cols: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := build(t, tt.root, nil)

			assert.Equal(t, tt.want, describe(res.Regions))
			assert.Equal(t, tt.rows, res.Rows)
			assert.Equal(t, tt.cols, res.Cols)
		})
	}
}

func TestBuildRepeatEmpty(t *testing.T) {
	body := []area.Node{lit("never")}
	root := &area.Align{Direction: area.Down, Children: []area.Node{
		&area.Repeat{Data: "missing", Children: body},
		&area.Repeat{Data: "empty", Children: body},
		&area.Repeat{Data: "scalar", Children: body},
		lit("end"),
	}}

	res, m := build(t, root, map[string]any{"empty": []any{}, "scalar": 7})

	assert.Equal(t, []string{"R1C1=end"}, describe(res.Regions))
	assert.Len(t, m.Cells(), 1)
}

func TestBuildRepeat(t *testing.T) {
	row := &area.Row{Cells: []area.Cell{{Value: "i"}, {Value: "x"}}}

	t.Run("slice with split", func(t *testing.T) {
		root := &area.Repeat{
			Data:     "xs",
			Item:     "x",
			Index:    "i",
			Split:    &area.Split{Amount: 1},
			Children: []area.Node{row},
		}

		res, _ := build(t, root, map[string]any{"xs": []any{"p", "q"}})

		assert.Equal(t, []string{"R1C1=0", "R1C2=p", "R3C1=1", "R3C2=q"}, describe(res.Regions))
		assert.Equal(t, 3, res.Rows)
	})

	t.Run("map in key order", func(t *testing.T) {
		root := &area.Repeat{Data: "m", Item: "x", Index: "i", Children: []area.Node{row}}

		res, _ := build(t, root, map[string]any{"m": map[string]any{"b": 2, "a": 1}})

		assert.Equal(t, []string{"R1C1=a", "R1C2=1", "R2C1=b", "R2C2=2"}, describe(res.Regions))
	})

	t.Run("across split sets widths", func(t *testing.T) {
		root := &area.Align{Direction: area.Across, Children: []area.Node{
			&area.Repeat{
				Data:     "xs",
				Item:     "x",
				Split:    &area.Split{Amount: 2, Width: 3},
				Children: []area.Node{&area.Row{Cells: []area.Cell{{Value: "x"}}}},
			},
		}}

		res, m := build(t, root, map[string]any{"xs": []any{"p", "q"}})

		assert.Equal(t, []string{"R1C1=p", "R1C4=q"}, describe(res.Regions))
		assert.InDelta(t, 3.0, m.Width(2), 0)
		assert.InDelta(t, 3.0, m.Width(3), 0)
		assert.Equal(t, 4, res.Cols)
	})

	t.Run("bound root", func(t *testing.T) {
		root := &area.Repeat{
			Data:     "people",
			Children: []area.Node{&area.Row{Cells: []area.Cell{{Value: "name"}, {Text: "{{$$.age}}y"}}}},
		}

		data := map[string]any{"people": []any{
			map[string]any{"name": "ann", "age": 31},
			map[string]any{"name": "bob", "age": 42},
		}}

		res, _ := build(t, root, data)

		assert.Equal(t, []string{"R1C1=ann", "R1C2=31y", "R2C1=bob", "R2C2=42y"}, describe(res.Regions))
	})
}

func TestBuildRow(t *testing.T) {
	t.Run("rowspan sets row height", func(t *testing.T) {
		root := &area.Align{Direction: area.Down, Children: []area.Node{
			&area.Row{Cells: []area.Cell{{Text: "a", RowSpan: 2}, {Text: "b"}}},
			lit("c"),
		}}

		res, m := build(t, root, nil)

		assert.Equal(t, []string{"R1C1:R2C1=a", "R1C2=b", "R3C1=c"}, describe(res.Regions))

		rg, ok := m.MergeAt(2, 1)
		require.True(t, ok)
		assert.Equal(t, "a", rg.Value)
	})

	t.Run("filtered cell keeps its columns", func(t *testing.T) {
		root := &area.Row{Cells: []area.Cell{
			{Text: "a", ColSpan: 2, Filter: "show"},
			{Text: "b"},
		}}

		res, m := build(t, root, map[string]any{"show": false})

		assert.Equal(t, []string{"R1C3=b"}, describe(res.Regions))
		assert.Equal(t, 3, res.Cols)

		_, ok := m.Cell(1, 1)
		assert.False(t, ok)
	})

	t.Run("height and width", func(t *testing.T) {
		root := &area.Row{Height: 20, Cells: []area.Cell{{Text: "a", ColSpan: 2, Width: 12}}}

		_, m := build(t, root, nil)

		assert.InDelta(t, 20.0, m.Height(1), 0)
		assert.InDelta(t, 12.0, m.Width(1), 0)
		assert.InDelta(t, 12.0, m.Width(2), 0)
	})

	t.Run("value keeps its type", func(t *testing.T) {
		_, m := build(t, &area.Row{Cells: []area.Cell{{Value: "n * 2"}}}, map[string]any{"n": 21})

		assert.True(t, lang.Equal(42, m.Value(1, 1)))
	})
}

func TestBuildSet(t *testing.T) {
	root := &area.Align{Direction: area.Down, Children: []area.Node{
		&area.Set{Name: "total", Source: "2*3"},
		&area.Set{Name: "calc", Eval: "total + base * 2"},
		&area.Row{Cells: []area.Cell{{Value: "total"}, {Value: "calc"}}},
	}}

	res, _ := build(t, root, map[string]any{"base": 5})

	assert.Equal(t, []string{"R1C1=6", "R1C2=16"}, describe(res.Regions))
}

func TestBuildSetScope(t *testing.T) {
	root := &area.Align{Direction: area.Down, Children: []area.Node{
		&area.Align{Direction: area.Down, Children: []area.Node{
			&area.Set{Name: "v", Source: "'inner'"},
			&area.Row{Cells: []area.Cell{{Value: "v"}}},
		}},
		&area.Row{Cells: []area.Cell{{Value: "v"}}},
	}}

	res, _ := build(t, root, map[string]any{"v": "outer"})

	assert.Equal(t, []string{"R1C1=inner", "R2C1=outer"}, describe(res.Regions))
}

func TestBuildStyles(t *testing.T) {
	styles := map[string]sheet.Style{
		"bold": {Bold: true},
		"red":  {Color: "FF0000"},
	}

	root := &area.Row{Cells: []area.Cell{
		{Text: "a", Style: "bold"},
		{Text: "b", Style: "bold"},
		{Text: "c", Style: "bold red"},
		{Text: "d"},
		{Text: "e", Style: "{{kind}}"},
		{Value: "1.5", Format: "0.00"},
	}}

	_, m := build(t, root, map[string]any{"kind": "red"}, WithStyles(styles))

	require.Len(t, m.Styles(), 4)

	a, _ := m.Cell(1, 1)
	b, _ := m.Cell(1, 2)
	c, _ := m.Cell(1, 3)
	d, _ := m.Cell(1, 4)
	e, _ := m.Cell(1, 5)
	f, _ := m.Cell(1, 6)

	assert.Equal(t, a.Style, b.Style)
	assert.NotEqual(t, a.Style.ID, c.Style.ID)
	assert.True(t, c.Style.Style.Bold)
	assert.Equal(t, "FF0000", c.Style.Style.Color)
	assert.True(t, d.Style.IsZero())
	assert.Equal(t, "FF0000", e.Style.Style.Color)
	assert.Equal(t, "0.00", f.Style.Style.NumFmt)
}

func TestBuildErrors(t *testing.T) {
	styles := map[string]sheet.Style{"bold": {Bold: true}}

	tests := []struct {
		name string
		root area.Node
		want error
		path string
		expr string
	}{
		{
			name: "unknown style",
			root: &area.Row{ID: "head", Cells: []area.Cell{{Text: "a", Style: "bolt"}}},
			want: ErrUnknownStyle,
			path: "row#head",
			expr: "bolt",
		},
		{
			name: "divide by zero",
			root: &area.Align{Children: []area.Node{
				lit("ok"),
				&area.Row{Cells: []area.Cell{{Value: "1/0"}}},
			}},
			want: lang.ErrDivideByZero,
			path: "align[0]/row[1]",
			expr: "1/0",
		},
		{
			name: "expr-lang compile",
			root: &area.Set{Name: "x", Eval: "1 +"},
			want: lang.ErrExprCompile,
			path: "set[0]",
			expr: "1 +",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(sheet.NewMemory(), WithStyles(styles)).Build(t.Context(), tt.root, nil)
			require.ErrorIs(t, err, tt.want)

			var be *BuildError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tt.path, be.Path)
			assert.Equal(t, tt.expr, be.Expr)
		})
	}
}

func TestBuildSinkError(t *testing.T) {
	m := sheet.NewMemory()
	require.NoError(t, m.MergeRegion(sheet.Region{FirstRow: 1, LastRow: 2, FirstCol: 1, LastCol: 2}))

	root := &area.Row{Cells: []area.Cell{{Text: "a", RowSpan: 2}}}

	_, err := NewBuilder(m).Build(t.Context(), root, nil)
	require.ErrorIs(t, err, ErrSink)
	assert.ErrorIs(t, err, sheet.ErrOverlap)
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewBuilder(sheet.NewMemory()).Build(ctx, lit("a"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildDeterministic(t *testing.T) {
	root := &area.Align{Direction: area.Down, Children: []area.Node{
		&area.Repeat{Data: "xs", Item: "x", Children: []area.Node{
			&area.Row{Cells: []area.Cell{{Value: "x"}, {Text: "{{x}}!"}}},
		}},
		deptTable(),
	}}

	data := map[string]any{"xs": []any{1, 2, 3}, "rows": people()}

	first, _ := build(t, root, data)
	second, _ := build(t, root, data)

	assert.Equal(t, first, second)
}
