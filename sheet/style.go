package sheet

import (
	"strconv"
	"strings"
)

// Style describes the presentation of a cell. The zero Style is the sink's
// default presentation.
type Style struct {
	Font      string  `yaml:"font,omitempty"`
	Size      float64 `yaml:"size,omitempty"`
	Bold      bool    `yaml:"bold,omitempty"`
	Italic    bool    `yaml:"italic,omitempty"`
	Underline bool    `yaml:"underline,omitempty"`
	Color     string  `yaml:"color,omitempty"` // font color, #RRGGBB
	Fill      string  `yaml:"fill,omitempty"`  // solid background, #RRGGBB
	HAlign    string  `yaml:"halign,omitempty"`
	VAlign    string  `yaml:"valign,omitempty"`
	Wrap      bool    `yaml:"wrap,omitempty"`
	Border    string  `yaml:"border,omitempty"` // thin, medium, thick, dashed, dotted, double
	NumFmt    string  `yaml:"numfmt,omitempty"`
}

// IsZero reports whether s is the default presentation.
func (s Style) IsZero() bool { return s == Style{} }

// Merge returns s with every non-zero attribute of o applied over it.
func (s Style) Merge(o Style) Style {
	if o.Font != "" {
		s.Font = o.Font
	}

	if o.Size != 0 {
		s.Size = o.Size
	}

	s.Bold = s.Bold || o.Bold
	s.Italic = s.Italic || o.Italic
	s.Underline = s.Underline || o.Underline
	s.Wrap = s.Wrap || o.Wrap

	override(&s.Color, o.Color)
	override(&s.Fill, o.Fill)
	override(&s.HAlign, o.HAlign)
	override(&s.VAlign, o.VAlign)
	override(&s.Border, o.Border)
	override(&s.NumFmt, o.NumFmt)

	return s
}

func override(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// Key returns a canonical text form of s. Equal styles have equal keys, and
// the zero Style has the empty key.
func (s Style) Key() string {
	if s.IsZero() {
		return ""
	}

	var sb strings.Builder

	put := func(name, value string) {
		if value == "" {
			return
		}

		if sb.Len() > 0 {
			sb.WriteByte(';')
		}

		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(value)
	}

	flag := func(b bool) string {
		if b {
			return "1"
		}

		return ""
	}

	put("font", s.Font)

	if s.Size != 0 {
		put("size", strconv.FormatFloat(s.Size, 'f', -1, 64))
	}

	put("b", flag(s.Bold))
	put("i", flag(s.Italic))
	put("u", flag(s.Underline))
	put("color", strings.ToUpper(s.Color))
	put("fill", strings.ToUpper(s.Fill))
	put("h", s.HAlign)
	put("v", s.VAlign)
	put("wrap", flag(s.Wrap))
	put("border", s.Border)
	put("fmt", s.NumFmt)

	return sb.String()
}

// Handle is a style resolved for one build. ID is the sink's identifier for
// the style when the sink implements [Styler], and zero otherwise.
type Handle struct {
	Style Style
	Key   string
	ID    int
}

// IsZero reports whether h refers to the default presentation.
func (h Handle) IsZero() bool { return h.Key == "" && h.ID == 0 }

// Styler is implemented by sinks that need styles registered before use.
// RegisterStyle is called once per distinct style key in a build.
type Styler interface {
	RegisterStyle(s Style) (int, error)
}
