package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// renderContext returns a context with the bindings used by summaryTemplate.
func renderContext() context.Context {
	return WithBindings(context.Background(), []string{
		`title="Staff"`,
		`rows=[{"name": "ann", "n": 1}, {"name": "bob", "n": 2}]`,
	})
}

func TestRenderPreview(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "summary.yaml", summaryTemplate)

	for _, plain := range []bool{false, true} {
		var out bytes.Buffer

		r := &Render{Template: path, Width: 40, Plain: plain, out: &out}
		require.NoError(t, r.Run(renderContext()))

		got := out.String()
		assert.Contains(t, got, "Summary Staff")
		assert.Contains(t, got, "Report Staff")
		assert.Contains(t, got, "ann")
		assert.Contains(t, got, "bob")
	}
}

func TestRenderWorkbook(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "summary.yaml", summaryTemplate)
	output := filepath.Join(dir, "summary.xlsx")

	var out bytes.Buffer

	r := &Render{Template: path, Output: output, Parallel: 2, out: &out}
	require.NoError(t, r.Run(renderContext()))
	assert.Zero(t, out.Len())

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)

	defer f.Close()

	assert.Equal(t, []string{"Summary Staff"}, f.GetSheetList())

	for cell, want := range map[string]string{
		"A1": "Report Staff",
		"A2": "ann",
		"B2": "1",
		"A3": "bob",
		"B3": "2",
	} {
		got, err := f.GetCellValue("Summary Staff", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestRenderWorkbookStdout(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "summary.yaml", summaryTemplate)

	var out bytes.Buffer

	r := &Render{Template: path, Output: stdinSource, out: &out}
	require.NoError(t, r.Run(renderContext()))

	f, err := excelize.OpenReader(&out)
	require.NoError(t, err)

	defer f.Close()

	assert.Equal(t, []string{"Summary Staff"}, f.GetSheetList())
}

func TestRenderTemplateError(t *testing.T) {
	t.Parallel()

	r := &Render{Template: filepath.Join(t.TempDir(), "missing.yaml")}
	assert.ErrorIs(t, r.Run(renderContext()), ErrTemplate)
}
