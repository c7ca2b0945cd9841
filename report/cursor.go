package report

import "github.com/ardnew/areport/area"

// Cursor tracks the next free cell while a template subtree is laid out.
// Row and Col are 1-based. MaxRow and MaxCol are the furthest row and
// column emitted so far, or one before the starting position when nothing
// has been emitted.
type Cursor struct {
	Row       int
	Col       int
	Direction area.Direction
	MaxRow    int
	MaxCol    int
}

// NewCursor returns a Cursor at row, col flowing in dir.
func NewCursor(row, col int, dir area.Direction) *Cursor {
	return &Cursor{
		Row:       row,
		Col:       col,
		Direction: dir,
		MaxRow:    row - 1,
		MaxCol:    col - 1,
	}
}

// Child returns a Cursor starting at c's position, flowing in dir.
func (c *Cursor) Child(dir area.Direction) *Cursor {
	return NewCursor(c.Row, c.Col, dir)
}

// Emit records a block of height rows and width columns placed at the
// cursor and advances past it in the cursor's direction.
func (c *Cursor) Emit(height, width int) {
	c.MaxRow = max(c.MaxRow, c.Row+height-1)
	c.MaxCol = max(c.MaxCol, c.Col+width-1)

	if c.Direction == area.Across {
		c.Col += width
	} else {
		c.Row += height
	}
}

// Fold advances c past everything child emitted. child must have started
// at c's position.
func (c *Cursor) Fold(child *Cursor) {
	c.Emit(max(child.MaxRow-c.Row+1, 0), max(child.MaxCol-c.Col+1, 0))
}

// Extent returns the number of rows and columns spanned from (row, col) to
// the furthest cell emitted.
func (c *Cursor) Extent(row, col int) (height, width int) {
	return max(c.MaxRow-row+1, 0), max(c.MaxCol-col+1, 0)
}
