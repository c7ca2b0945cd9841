package report

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/areport/area"
	"github.com/ardnew/areport/lang"
	"github.com/ardnew/areport/sheet"
)

// describe renders regions as "range=value" for compact comparison.
func describe(regions []sheet.Region) []string {
	out := make([]string, len(regions))
	for i, rg := range regions {
		out[i] = rg.String() + "=" + lang.Text(rg.Value)
	}

	return out
}

// inColumn keeps the regions starting in col.
func inColumn(regions []sheet.Region, col int) []sheet.Region {
	var out []sheet.Region

	for _, rg := range regions {
		if rg.FirstCol == col {
			out = append(out, rg)
		}
	}

	return out
}

// build runs a fresh Builder over a Memory sink.
func build(t *testing.T, root area.Node, data map[string]any, opts ...Option) (Result, *sheet.Memory) {
	t.Helper()

	m := sheet.NewMemory()

	res, err := NewBuilder(m, opts...).Build(t.Context(), root, data)
	require.NoError(t, err, spew.Sdump(root))

	return res, m
}

func people() []any {
	return []any{
		map[string]any{"dept": "A", "emp": "x"},
		map[string]any{"dept": "A", "emp": "y"},
		map[string]any{"dept": "B", "emp": "z"},
	}
}
