package sheet

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Entry is one cell recorded by a [Memory] sink.
type Entry struct {
	Row   int
	Col   int
	Value any
	Style Handle
}

type coord struct{ row, col int }

// Memory is a [Sink] that keeps everything it receives. It rejects merges
// that overlap an earlier merge with [ErrOverlap].
//
// A Memory is not safe for concurrent use.
type Memory struct {
	cells   map[coord]Entry
	merges  []Region
	widths  map[int]float64
	heights map[int]float64
	styles  []Style
	maxRow  int
	maxCol  int
}

// NewMemory returns an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{
		cells:   make(map[coord]Entry),
		widths:  make(map[int]float64),
		heights: make(map[int]float64),
	}
}

type memoryRow struct {
	sink  *Memory
	index int
}

func (r memoryRow) Index() int { return r.index }

func (r memoryRow) SetHeight(points float64) error {
	r.sink.heights[r.index] = points

	return nil
}

// Row implements [Sink].
func (m *Memory) Row(index int) (RowHandle, error) {
	if index < 1 {
		return nil, ErrCoordinate.With(slog.Int("row", index))
	}

	m.maxRow = max(m.maxRow, index)

	return memoryRow{sink: m, index: index}, nil
}

// SetCell implements [Sink].
func (m *Memory) SetCell(row, col int, value any, style Handle) error {
	if row < 1 || col < 1 {
		return ErrCoordinate.With(slog.Int("row", row), slog.Int("col", col))
	}

	m.cells[coord{row, col}] = Entry{Row: row, Col: col, Value: value, Style: style}
	m.maxRow = max(m.maxRow, row)
	m.maxCol = max(m.maxCol, col)

	return nil
}

// MergeRegion implements [Sink]. The value is stored in the top-left cell.
func (m *Memory) MergeRegion(r Region) error {
	if !r.Valid() {
		return ErrCoordinate.With(slog.Any("region", r))
	}

	if r.Single() {
		return m.SetCell(r.FirstRow, r.FirstCol, r.Value, r.Style)
	}

	for _, o := range m.merges {
		if o.Overlaps(r) {
			return ErrOverlap.With(slog.Any("region", r), slog.Any("committed", o))
		}
	}

	m.merges = append(m.merges, r)

	if err := m.SetCell(r.FirstRow, r.FirstCol, r.Value, r.Style); err != nil {
		return err
	}

	m.maxRow = max(m.maxRow, r.LastRow)
	m.maxCol = max(m.maxCol, r.LastCol)

	return nil
}

// SetColumnWidth implements [Sink].
func (m *Memory) SetColumnWidth(col int, width float64) error {
	if col < 1 {
		return ErrCoordinate.With(slog.Int("col", col))
	}

	m.widths[col] = width

	return nil
}

// RegisterStyle implements [Styler]. IDs start at 1.
func (m *Memory) RegisterStyle(s Style) (int, error) {
	m.styles = append(m.styles, s)

	return len(m.styles), nil
}

// Styles returns the registered styles in registration order.
func (m *Memory) Styles() []Style { return slices.Clone(m.styles) }

// Value returns the value written at row, col, or nil.
func (m *Memory) Value(row, col int) any { return m.cells[coord{row, col}].Value }

// Cell returns the entry written at row, col.
func (m *Memory) Cell(row, col int) (Entry, bool) {
	e, ok := m.cells[coord{row, col}]

	return e, ok
}

// Cells returns every written cell in row-major order.
func (m *Memory) Cells() []Entry {
	out := slices.Collect(maps.Values(m.cells))
	slices.SortFunc(out, func(a, b Entry) int {
		return cmp.Or(cmp.Compare(a.Row, b.Row), cmp.Compare(a.Col, b.Col))
	})

	return out
}

// Merges returns the merged regions in the order they were committed.
func (m *Memory) Merges() []Region { return slices.Clone(m.merges) }

// MergeAt returns the merged region covering row, col.
func (m *Memory) MergeAt(row, col int) (Region, bool) {
	for _, r := range m.merges {
		if r.Contains(row, col) {
			return r, true
		}
	}

	return Region{}, false
}

// Width returns the width set for col, or zero.
func (m *Memory) Width(col int) float64 { return m.widths[col] }

// Height returns the height set for row, or zero.
func (m *Memory) Height(row int) float64 { return m.heights[row] }

// Extent returns the last row and column touched by any write.
func (m *Memory) Extent() (rows, cols int) { return m.maxRow, m.maxCol }

// Grid returns the cell values as a rows x cols matrix, indexed from zero.
// Cells covered by a merge but not at its top-left corner are nil.
func (m *Memory) Grid() [][]any {
	grid := make([][]any, m.maxRow)
	for i := range grid {
		grid[i] = make([]any, m.maxCol)
	}

	for c, e := range m.cells {
		grid[c.row-1][c.col-1] = e.Value
	}

	return grid
}

// MemoryBook is a [Book] of [Memory] sheets.
type MemoryBook struct {
	mu     sync.Mutex
	sheets map[string]*Memory
	order  []string
}

// Sheet implements [Book]. Opening a name twice returns the same sink.
func (b *MemoryBook) Sheet(name string) (Sink, error) {
	if name == "" {
		return nil, ErrSheetName
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sheets == nil {
		b.sheets = make(map[string]*Memory)
	}

	m, ok := b.sheets[name]
	if !ok {
		m = NewMemory()
		b.sheets[name] = m
		b.order = append(b.order, name)
	}

	return m, nil
}

// Names returns the opened sheet names in the order they were opened.
func (b *MemoryBook) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.order)
}

// Memory returns the sink opened for name.
func (b *MemoryBook) Memory(name string) (*Memory, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.sheets[name]

	return m, ok
}
