package sheet

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := NewMemory()

	require.NoError(t, m.SetCell(1, 1, "a", Handle{}))
	require.NoError(t, m.MergeRegion(Region{
		FirstRow: 2, LastRow: 3, FirstCol: 1, LastCol: 2, Value: "span",
	}))
	require.NoError(t, m.SetColumnWidth(2, 14))

	row, err := m.Row(5)
	require.NoError(t, err)
	require.NoError(t, row.SetHeight(20))

	rows, cols := m.Extent()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 2, cols)

	assert.Equal(t, "span", m.Value(2, 1))
	assert.Nil(t, m.Value(3, 2))
	assert.InDelta(t, 14.0, m.Width(2), 0)
	assert.InDelta(t, 20.0, m.Height(5), 0)

	merged, ok := m.MergeAt(3, 2)
	require.True(t, ok)
	assert.Equal(t, "R2C1:R3C2", merged.String())

	grid := m.Grid()
	require.Len(t, grid, 5)
	assert.Equal(t, []any{"a", nil}, grid[0])
	assert.Equal(t, []any{"span", nil}, grid[1])

	cells := m.Cells()
	require.Len(t, cells, 2)
	assert.Equal(t, 1, cells[0].Row)
	assert.Equal(t, 2, cells[1].Row)
}

func TestMemoryOverlap(t *testing.T) {
	m := NewMemory()

	require.NoError(t, m.MergeRegion(Region{FirstRow: 1, LastRow: 2, FirstCol: 1, LastCol: 1}))

	err := m.MergeRegion(Region{FirstRow: 2, LastRow: 3, FirstCol: 1, LastCol: 1})
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}

	assert.Len(t, m.Merges(), 1)
}

func TestMemoryCoordinates(t *testing.T) {
	m := NewMemory()

	assert.ErrorIs(t, m.SetCell(0, 1, nil, Handle{}), ErrCoordinate)
	assert.ErrorIs(t, m.SetColumnWidth(0, 1), ErrCoordinate)
	assert.ErrorIs(t, m.MergeRegion(Region{FirstRow: 2, LastRow: 1, FirstCol: 1, LastCol: 1}), ErrCoordinate)

	_, err := m.Row(0)
	assert.ErrorIs(t, err, ErrCoordinate)
}

func TestMemoryRegisterStyle(t *testing.T) {
	m := NewMemory()

	id, err := m.RegisterStyle(Style{Bold: true})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	id, err = m.RegisterStyle(Style{Italic: true})
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	assert.Equal(t, []Style{{Bold: true}, {Italic: true}}, m.Styles())
}

func TestMemoryBook(t *testing.T) {
	var (
		book MemoryBook
		wg   sync.WaitGroup
	)

	for _, name := range []string{"one", "two", "three"} {
		wg.Go(func() {
			s, err := book.Sheet(name)
			assert.NoError(t, err)
			assert.NoError(t, s.SetCell(1, 1, name, Handle{}))
		})
	}

	wg.Wait()

	assert.ElementsMatch(t, []string{"one", "two", "three"}, book.Names())

	m, ok := book.Memory("two")
	require.True(t, ok)
	assert.Equal(t, "two", m.Value(1, 1))

	_, err := book.Sheet("")
	assert.ErrorIs(t, err, ErrSheetName)
}
