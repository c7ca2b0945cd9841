package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/areport/sheet"
)

func sample(t *testing.T) *sheet.Memory {
	t.Helper()

	m := sheet.NewMemory()

	require.NoError(t, m.SetCell(1, 1, "Dept", sheet.Handle{}))
	require.NoError(t, m.SetCell(1, 2, "Employee", sheet.Handle{}))
	require.NoError(t, m.MergeRegion(sheet.Region{
		FirstRow: 2, LastRow: 3, FirstCol: 1, LastCol: 1, Value: "A",
		Style: sheet.Handle{Style: sheet.Style{Bold: true}, Key: "b=1"},
	}))
	require.NoError(t, m.SetCell(2, 2, "x", sheet.Handle{}))
	require.NoError(t, m.SetCell(3, 2, "y", sheet.Handle{}))
	require.NoError(t, m.SetCell(4, 1, "B", sheet.Handle{}))
	require.NoError(t, m.SetCell(4, 2, 3.5, sheet.Handle{}))

	return m
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, sample(t), WithHeader(), WithBorder(lipgloss.ASCIIBorder())))

	out := buf.String()
	for _, want := range []string{"Dept", "Employee", "A", "x", "y", "B", "3.5"} {
		assert.Contains(t, out, want)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// top border, header, rule, 3 body rows, bottom border
	assert.Len(t, lines, 7)
	assert.Equal(t, 1, strings.Count(out, "A"))
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, sheet.NewMemory()))
	assert.Empty(t, buf.String())
}

func TestRenderWidth(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, sample(t), WithWidth(40), WithoutStyle()))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 40, line)
	}
}
