package sheet

// RowHandle refers to one row of a sheet.
type RowHandle interface {
	Index() int
	SetHeight(points float64) error
}

// Sink receives the cells of one sheet. A build writes to a Sink from a
// single goroutine. MergeRegion is never called with a region overlapping
// one committed earlier in the same build.
type Sink interface {
	// Row returns the row at index, creating it if needed.
	Row(index int) (RowHandle, error)
	// SetCell writes an unmerged cell.
	SetCell(row, col int, value any, style Handle) error
	// MergeRegion writes r as one spanning cell.
	MergeRegion(r Region) error
	// SetColumnWidth sets the width of col in characters.
	SetColumnWidth(col int, width float64) error
}

// Book opens the Sink for a named sheet. Implementations must allow
// concurrent writers to distinct sheets.
type Book interface {
	Sheet(name string) (Sink, error)
}
