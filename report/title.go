package report

import (
	"github.com/ardnew/areport/sheet"
)

// title is one cell of a table header before merging.
type title struct {
	text  string
	style string
}

// titleGrid lays the column titles out as depth rows. A column with fewer
// titles than the deepest one repeats its last title, with that title's
// style, down to the last row. Columns without titles stay blank.
func titleGrid(cols []column) [][]title {
	depth := 0
	for _, c := range cols {
		depth = max(depth, len(c.titles))
	}

	grid := make([][]title, depth)
	for r := range grid {
		grid[r] = make([]title, len(cols))
	}

	for x, c := range cols {
		n := len(c.titles)
		if n == 0 {
			continue
		}

		for r := range depth {
			i := min(r, n-1)
			grid[r][x] = title{text: c.titles[i], style: c.titleStyles[i]}
		}
	}

	return grid
}

// rect is a rectangle of grid cells, with inclusive bounds.
type rect struct {
	top, bottom, left, right int
}

// mergeTitles covers the non-blank cells of grid with rectangles of equal
// titles. Scanning in row-major order, each uncovered cell extends right
// across equal neighbours first, then down while every cell of the next
// row under that run is equal and uncovered.
func mergeTitles(grid [][]title) []rect {
	if len(grid) == 0 {
		return nil
	}

	rows, cols := len(grid), len(grid[0])
	taken := make([][]bool, rows)

	for r := range taken {
		taken[r] = make([]bool, cols)
	}

	free := func(r, c int, t title) bool {
		return !taken[r][c] && grid[r][c] == t
	}

	var out []rect

	for r := range rows {
		for c := range cols {
			t := grid[r][c]
			if taken[r][c] || t.text == "" {
				continue
			}

			right := c
			for right+1 < cols && free(r, right+1, t) {
				right++
			}

			bottom := r

		down:
			for bottom+1 < rows {
				for x := c; x <= right; x++ {
					if !free(bottom+1, x, t) {
						break down
					}
				}

				bottom++
			}

			for y := r; y <= bottom; y++ {
				for x := c; x <= right; x++ {
					taken[y][x] = true
				}
			}

			out = append(out, rect{top: r, bottom: bottom, left: c, right: right})
		}
	}

	return out
}

// titles writes the merged header rows and advances tr.row past them.
func (tr *tableRun) titles(bound any) error {
	grid := titleGrid(tr.cols)

	for _, rc := range mergeTitles(grid) {
		t := grid[rc.top][rc.left]

		text, err := tr.format(tr.path, t.text, bound)
		if err != nil {
			return err
		}

		style, err := tr.style(tr.path, t.style, "", bound)
		if err != nil {
			return err
		}

		rg := sheet.Region{
			FirstRow: tr.row + rc.top,
			LastRow:  tr.row + rc.bottom,
			FirstCol: tr.col0 + rc.left,
			LastCol:  tr.col0 + rc.right,
			Value:    text,
			Style:    style,
		}

		if err := tr.emit(rg); err != nil {
			return err
		}
	}

	tr.row += len(grid)

	return nil
}
