package term

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	xterm "golang.org/x/term"
)

type config struct {
	width   int
	header  bool
	border  lipgloss.Border
	noStyle bool
}

// Option configures [Render].
type Option func(config) config

// WithWidth fixes the table width in columns. Zero sizes the table to its
// content.
func WithWidth(width int) Option {
	return func(c config) config {
		c.width = width

		return c
	}
}

// WithHeader renders the first row of the grid as a header separated from
// the body by a rule.
func WithHeader() Option {
	return func(c config) config {
		c.header = true

		return c
	}
}

// WithBorder selects the border glyphs.
func WithBorder(border lipgloss.Border) Option {
	return func(c config) config {
		c.border = border

		return c
	}
}

// WithoutStyle ignores cell styles.
func WithoutStyle() Option {
	return func(c config) config {
		c.noStyle = true

		return c
	}
}

// WithTerminalWidth sizes the table to the terminal attached to w, if any.
func WithTerminalWidth(w io.Writer) Option {
	return func(c config) config {
		if f, ok := w.(*os.File); ok && xterm.IsTerminal(int(f.Fd())) {
			if width, _, err := xterm.GetSize(int(f.Fd())); err == nil {
				c.width = width
			}
		}

		return c
	}
}
