package log

import (
	"log/slog"
	"strings"
)

// Path returns an attribute naming the template node being processed.
// Segments are joined with "/".
func Path(segments ...string) slog.Attr {
	return slog.String("path", strings.Join(segments, "/"))
}

// Cell returns a grouped attribute for a 1-based worksheet coordinate.
func Cell(row, col int) slog.Attr {
	return slog.Group("cell", slog.Int("row", row), slog.Int("col", col))
}

// Extent returns a grouped attribute describing a rectangle of height rows
// and width columns.
func Extent(height, width int) slog.Attr {
	return slog.Group("extent", slog.Int("height", height), slog.Int("width", width))
}

// Expr returns an attribute holding expression source text.
func Expr(src string) slog.Attr {
	return slog.String("expr", src)
}

// Err returns an attribute holding err, or an empty attribute if err is nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	return slog.Any("error", err)
}
