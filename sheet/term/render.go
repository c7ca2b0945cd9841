package term

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/areport/lang"
	"github.com/ardnew/areport/sheet"
)

// Render draws the contents of m to w.
func Render(w io.Writer, m *sheet.Memory, opts ...Option) error {
	cfg := config{border: lipgloss.RoundedBorder()}
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	rows, cols := m.Extent()
	if rows == 0 || cols == 0 {
		return nil
	}

	renderer := lipgloss.NewRenderer(w)
	base := renderer.NewStyle().Padding(0, 1)
	grid := text(m, rows, cols)
	header := 0
	if cfg.header {
		header = 1
	}

	tbl := table.New().
		Border(cfg.border).
		BorderStyle(renderer.NewStyle().Faint(true)).
		StyleFunc(func(row, col int) lipgloss.Style {
			r := row + 1 + header
			if row == table.HeaderRow {
				r = 1
			}

			if cfg.noStyle {
				return base
			}

			e, ok := m.Cell(r, col+1)
			if !ok {
				if rg, merged := m.MergeAt(r, col+1); merged {
					e.Style = rg.Style
				}
			}

			return cellStyle(base, e.Style.Style)
		})

	if cfg.width > 0 {
		tbl = tbl.Width(cfg.width)
	}

	if header > 0 {
		tbl = tbl.Headers(grid[0]...)
		grid = grid[1:]
	}

	tbl = tbl.Rows(grid...)

	_, err := io.WriteString(w, tbl.Render()+"\n")

	return err
}

// text returns the display text of every cell. Cells covered by a merge
// but not at its top-left corner are blank.
func text(m *sheet.Memory, rows, cols int) [][]string {
	out := make([][]string, rows)
	values := m.Grid()

	for r := range out {
		out[r] = make([]string, cols)
		for c := range out[r] {
			out[r][c] = lang.Text(values[r][c])
		}
	}

	return out
}

func cellStyle(base lipgloss.Style, s sheet.Style) lipgloss.Style {
	st := base.Bold(s.Bold).Italic(s.Italic).Underline(s.Underline)

	if s.Color != "" {
		st = st.Foreground(lipgloss.Color(s.Color))
	}

	if s.Fill != "" {
		st = st.Background(lipgloss.Color(s.Fill))
	}

	switch s.HAlign {
	case "center":
		st = st.Align(lipgloss.Center)
	case "right":
		st = st.Align(lipgloss.Right)
	}

	return st
}
