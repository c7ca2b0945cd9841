package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/areport/area"
	"github.com/ardnew/areport/sheet"
)

func regionsData() map[string]any {
	return map[string]any{
		"title": "Staff",
		"regions": []any{
			map[string]any{"name": "north", "rows": people()},
			map[string]any{"name": "south", "rows": people()[:1]},
		},
	}
}

func TestBuildDocument(t *testing.T) {
	tpl := &area.Template{
		Styles: map[string]sheet.Style{"head": {Bold: true}},
		Sheets: []area.Sheet{
			{Name: "Summary", Root: &area.Row{Cells: []area.Cell{{Value: "title", Style: "head"}}}},
			{Name: "Region {{name}}", Each: "regions", Item: "r", Root: &area.Align{Children: []area.Node{
				&area.Row{Cells: []area.Cell{{Text: "{{r.name}} of {{title}}"}}},
				deptTable(),
			}}},
		},
	}

	for _, workers := range []int{0, 1, 4} {
		book := &sheet.MemoryBook{}

		results, err := BuildDocument(t.Context(), tpl, regionsData(), book, WithParallel(workers))
		require.NoError(t, err)

		want := []string{"Summary", "Region north", "Region south"}
		assert.Equal(t, want, book.Names())
		require.Len(t, results, 3)

		for i, res := range results {
			assert.Equal(t, want[i], res.Name)
		}

		summary, _ := book.Memory("Summary")
		head, _ := summary.Cell(1, 1)
		assert.Equal(t, "Staff", head.Value)
		assert.True(t, head.Style.Style.Bold)

		north, _ := book.Memory("Region north")
		assert.Equal(t, "north of Staff", north.Value(1, 1))
		assert.Equal(t, "A", north.Value(2, 1))
		assert.Equal(t, 4, results[1].Rows)

		south, _ := book.Memory("Region south")
		assert.Equal(t, [][]any{{"south of Staff", nil}, {"A", "x"}}, south.Grid())
	}
}

func TestBuildDocumentNames(t *testing.T) {
	row := &area.Row{Cells: []area.Cell{{Text: "x"}}}

	tests := []struct {
		name   string
		sheets []area.Sheet
	}{
		{"duplicate", []area.Sheet{{Name: "A", Root: row}, {Name: "A", Root: row}}},
		{"duplicate expansion", []area.Sheet{{Name: "same", Each: "regions", Root: row}}},
		{"empty", []area.Sheet{{Name: "{{missing}}", Root: row}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := &sheet.MemoryBook{}

			_, err := BuildDocument(t.Context(), &area.Template{Sheets: tt.sheets}, regionsData(), book)
			require.ErrorIs(t, err, sheet.ErrSheetName)
			assert.Empty(t, book.Names(), "no sheet is opened before names are checked")
		})
	}
}

func TestBuildDocumentEachSkipsNonCollection(t *testing.T) {
	tpl := &area.Template{Sheets: []area.Sheet{
		{Name: "S{{sheet}}", Each: "title", Root: &area.Row{Cells: []area.Cell{{Text: "x"}}}},
		{Name: "Only", Root: &area.Row{Cells: []area.Cell{{Text: "y"}}}},
	}}

	book := &sheet.MemoryBook{}

	results, err := BuildDocument(t.Context(), tpl, regionsData(), book)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"Only"}, book.Names())
}

func TestBuildDocumentSheetError(t *testing.T) {
	tpl := &area.Template{Sheets: []area.Sheet{
		{Name: "ok", Root: &area.Row{Cells: []area.Cell{{Text: "x"}}}},
		{Name: "bad", Root: &area.Row{Cells: []area.Cell{{Value: "1 % 0"}}}},
	}}

	_, err := BuildDocument(t.Context(), tpl, nil, &sheet.MemoryBook{})
	require.ErrorIs(t, err, ErrSheet)

	var be *BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "row[0]", be.Path)
}
