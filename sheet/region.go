package sheet

import (
	"fmt"
	"log/slog"
)

// Region is a rectangle of cells sharing one value and style. A Region whose
// first and last coordinates coincide is an ordinary cell.
type Region struct {
	FirstRow int
	LastRow  int
	FirstCol int
	LastCol  int
	Value    any
	Style    Handle
}

// Cell returns the single-cell Region at row, col.
func Cell(row, col int, value any, style Handle) Region {
	return Region{
		FirstRow: row,
		LastRow:  row,
		FirstCol: col,
		LastCol:  col,
		Value:    value,
		Style:    style,
	}
}

// Height returns the number of rows spanned by r.
func (r Region) Height() int { return r.LastRow - r.FirstRow + 1 }

// Width returns the number of columns spanned by r.
func (r Region) Width() int { return r.LastCol - r.FirstCol + 1 }

// Single reports whether r covers exactly one cell.
func (r Region) Single() bool {
	return r.FirstRow == r.LastRow && r.FirstCol == r.LastCol
}

// Valid reports whether r has positive 1-based bounds in order.
func (r Region) Valid() bool {
	return r.FirstRow >= 1 && r.FirstCol >= 1 &&
		r.LastRow >= r.FirstRow && r.LastCol >= r.FirstCol
}

// Contains reports whether the cell at row, col lies inside r.
func (r Region) Contains(row, col int) bool {
	return row >= r.FirstRow && row <= r.LastRow &&
		col >= r.FirstCol && col <= r.LastCol
}

// Overlaps reports whether r and o share at least one cell.
func (r Region) Overlaps(o Region) bool {
	return r.FirstRow <= o.LastRow && o.FirstRow <= r.LastRow &&
		r.FirstCol <= o.LastCol && o.FirstCol <= r.LastCol
}

// String returns r in R1C1:R2C2 notation.
func (r Region) String() string {
	if r.Single() {
		return fmt.Sprintf("R%dC%d", r.FirstRow, r.FirstCol)
	}

	return fmt.Sprintf("R%dC%d:R%dC%d", r.FirstRow, r.FirstCol, r.LastRow, r.LastCol)
}

// LogValue implements slog.LogValuer.
func (r Region) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("range", r.String()),
		slog.Any("value", r.Value),
		slog.String("style", r.Style.Key),
	)
}
