package xlsx

import (
	"io"
	"log/slog"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/ardnew/areport/sheet"
)

// defaultSheet is the sheet excelize creates with a new file. It is removed
// once the first report sheet exists.
const defaultSheet = "Sheet1"

// Workbook is a workbook under construction. Sheets may be written from
// separate goroutines; calls into excelize are serialized.
type Workbook struct {
	mu       sync.Mutex
	file     *excelize.File
	sheets   map[string]*Sheet
	styles   map[string]int
	pristine bool
}

// New returns an empty Workbook.
func New() *Workbook {
	return &Workbook{
		file:     excelize.NewFile(),
		sheets:   make(map[string]*Sheet),
		styles:   make(map[string]int),
		pristine: true,
	}
}

// Sheet implements [sheet.Book]. The sheet is created on first use.
func (w *Workbook) Sheet(name string) (sheet.Sink, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if s, ok := w.sheets[name]; ok {
		return s, nil
	}

	if _, err := w.file.NewSheet(name); err != nil {
		return nil, sheet.ErrSheetName.Wrap(err).With(slog.String("sheet", name))
	}

	if w.pristine {
		w.pristine = false

		if name != defaultSheet {
			if err := w.file.DeleteSheet(defaultSheet); err != nil {
				return nil, sheet.ErrWrite.Wrap(err)
			}
		}

		if index, err := w.file.GetSheetIndex(name); err == nil {
			w.file.SetActiveSheet(index)
		}
	}

	s := &Sheet{book: w, name: name}
	w.sheets[name] = s

	return s, nil
}

// Names returns the workbook's sheet names in tab order.
func (w *Workbook) Names() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.GetSheetList()
}

// Save writes the workbook to path.
func (w *Workbook) Save(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.file.SaveAs(path); err != nil {
		return sheet.ErrWrite.Wrap(err).With(slog.String("path", path))
	}

	return nil
}

// WriteTo implements io.WriterTo.
func (w *Workbook) WriteTo(dst io.Writer) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.WriteTo(dst)
	if err != nil {
		return n, sheet.ErrWrite.Wrap(err)
	}

	return n, nil
}

// Close releases the workbook's temporary resources.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Close()
}

// File returns the underlying excelize file. Callers must not use it while
// sheets are being written.
func (w *Workbook) File() *excelize.File { return w.file }

// registerStyle returns the excelize style ID for s, creating it once per
// distinct key. The caller holds w.mu.
func (w *Workbook) registerStyle(s sheet.Style) (int, error) {
	key := s.Key()
	if id, ok := w.styles[key]; ok {
		return id, nil
	}

	id, err := w.file.NewStyle(convertStyle(s))
	if err != nil {
		return 0, sheet.ErrStyle.Wrap(err).With(slog.String("style", key))
	}

	w.styles[key] = id

	return id, nil
}
