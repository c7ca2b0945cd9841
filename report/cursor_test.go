package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ardnew/areport/area"
)

func TestCursorEmit(t *testing.T) {
	c := NewCursor(3, 2, area.Down)

	c.Emit(2, 4)
	assert.Equal(t, 5, c.Row)
	assert.Equal(t, 2, c.Col)
	assert.Equal(t, 4, c.MaxRow)
	assert.Equal(t, 5, c.MaxCol)

	a := NewCursor(1, 1, area.Across)

	a.Emit(3, 2)
	a.Emit(1, 1)
	assert.Equal(t, 1, a.Row)
	assert.Equal(t, 4, a.Col)
	assert.Equal(t, 3, a.MaxRow)
	assert.Equal(t, 3, a.MaxCol)
}

func TestCursorFold(t *testing.T) {
	parent := NewCursor(4, 3, area.Down)
	child := parent.Child(area.Down)

	child.Emit(1, 2)
	child.Emit(1, 1)
	parent.Fold(child)

	assert.Equal(t, 6, parent.Row, "two rows of height 1 advance the row by 2")
	assert.Equal(t, 3, parent.Col)

	across := NewCursor(1, 1, area.Across)
	inner := across.Child(area.Down)

	inner.Emit(5, 3)
	across.Fold(inner)

	assert.Equal(t, 1, across.Row)
	assert.Equal(t, 4, across.Col)
	assert.Equal(t, 5, across.MaxRow)
}

func TestCursorFoldEmpty(t *testing.T) {
	parent := NewCursor(2, 2, area.Down)
	parent.Fold(parent.Child(area.Across))

	assert.Equal(t, 2, parent.Row)
	assert.Equal(t, 2, parent.Col)

	h, w := parent.Extent(2, 2)
	assert.Zero(t, h)
	assert.Zero(t, w)
}
