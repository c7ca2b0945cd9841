package xlsx

import (
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/ardnew/areport/sheet"
)

// Sheet is the [sheet.Sink] for one worksheet of a [Workbook].
type Sheet struct {
	book *Workbook
	name string
}

// Name returns the worksheet name.
func (s *Sheet) Name() string { return s.name }

type row struct {
	sheet *Sheet
	index int
}

func (r row) Index() int { return r.index }

func (r row) SetHeight(points float64) error {
	r.sheet.book.mu.Lock()
	defer r.sheet.book.mu.Unlock()

	if err := r.sheet.book.file.SetRowHeight(r.sheet.name, r.index, points); err != nil {
		return sheet.ErrWrite.Wrap(err).With(slog.Int("row", r.index))
	}

	return nil
}

// Row implements [sheet.Sink]. Worksheet rows exist implicitly.
func (s *Sheet) Row(index int) (sheet.RowHandle, error) {
	if index < 1 {
		return nil, sheet.ErrCoordinate.With(slog.Int("row", index))
	}

	return row{sheet: s, index: index}, nil
}

// SetCell implements [sheet.Sink].
func (s *Sheet) SetCell(r, c int, value any, style sheet.Handle) error {
	s.book.mu.Lock()
	defer s.book.mu.Unlock()

	return s.setCell(r, c, value, style)
}

func (s *Sheet) setCell(r, c int, value any, style sheet.Handle) error {
	cell, err := excelize.CoordinatesToCellName(c, r)
	if err != nil {
		return sheet.ErrCoordinate.Wrap(err).With(slog.Int("row", r), slog.Int("col", c))
	}

	if err := s.book.file.SetCellValue(s.name, cell, value); err != nil {
		return sheet.ErrWrite.Wrap(err).With(slog.String("cell", cell))
	}

	if style.ID == 0 {
		return nil
	}

	if err := s.book.file.SetCellStyle(s.name, cell, cell, style.ID); err != nil {
		return sheet.ErrWrite.Wrap(err).With(slog.String("cell", cell))
	}

	return nil
}

// MergeRegion implements [sheet.Sink]. The style covers the whole region so
// borders are drawn around it.
func (s *Sheet) MergeRegion(rg sheet.Region) error {
	if !rg.Valid() {
		return sheet.ErrCoordinate.With(slog.Any("region", rg))
	}

	s.book.mu.Lock()
	defer s.book.mu.Unlock()

	if err := s.setCell(rg.FirstRow, rg.FirstCol, rg.Value, rg.Style); err != nil {
		return err
	}

	if rg.Single() {
		return nil
	}

	tl, err := excelize.CoordinatesToCellName(rg.FirstCol, rg.FirstRow)
	if err != nil {
		return sheet.ErrCoordinate.Wrap(err)
	}

	br, err := excelize.CoordinatesToCellName(rg.LastCol, rg.LastRow)
	if err != nil {
		return sheet.ErrCoordinate.Wrap(err)
	}

	if err := s.book.file.MergeCell(s.name, tl, br); err != nil {
		return sheet.ErrWrite.Wrap(err).With(slog.Any("region", rg))
	}

	if rg.Style.ID != 0 {
		if err := s.book.file.SetCellStyle(s.name, tl, br, rg.Style.ID); err != nil {
			return sheet.ErrWrite.Wrap(err).With(slog.Any("region", rg))
		}
	}

	return nil
}

// SetColumnWidth implements [sheet.Sink].
func (s *Sheet) SetColumnWidth(c int, width float64) error {
	name, err := excelize.ColumnNumberToName(c)
	if err != nil {
		return sheet.ErrCoordinate.Wrap(err).With(slog.Int("col", c))
	}

	s.book.mu.Lock()
	defer s.book.mu.Unlock()

	if err := s.book.file.SetColWidth(s.name, name, name, width); err != nil {
		return sheet.ErrWrite.Wrap(err).With(slog.Int("col", c))
	}

	return nil
}

// RegisterStyle implements [sheet.Styler]. Styles are shared by every sheet
// of the workbook.
func (s *Sheet) RegisterStyle(st sheet.Style) (int, error) {
	s.book.mu.Lock()
	defer s.book.mu.Unlock()

	return s.book.registerStyle(st)
}
