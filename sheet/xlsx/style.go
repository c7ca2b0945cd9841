package xlsx

import (
	"github.com/xuri/excelize/v2"

	"github.com/ardnew/areport/sheet"
)

//nolint:gochecknoglobals
var borderStyle = map[string]int{
	"thin":   1,
	"medium": 2,
	"dashed": 3,
	"dotted": 4,
	"thick":  5,
	"double": 6,
}

//nolint:gochecknoglobals
var borderSides = []string{"left", "top", "right", "bottom"}

// convertStyle maps a sheet style to its excelize form.
func convertStyle(s sheet.Style) *excelize.Style {
	out := &excelize.Style{}

	if s.Font != "" || s.Size != 0 || s.Bold || s.Italic || s.Underline || s.Color != "" {
		out.Font = &excelize.Font{
			Bold:   s.Bold,
			Italic: s.Italic,
			Family: s.Font,
			Size:   s.Size,
			Color:  s.Color,
		}

		if s.Underline {
			out.Font.Underline = "single"
		}
	}

	if s.Fill != "" {
		out.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.Fill}}
	}

	if s.HAlign != "" || s.VAlign != "" || s.Wrap {
		out.Alignment = &excelize.Alignment{
			Horizontal: s.HAlign,
			Vertical:   s.VAlign,
			WrapText:   s.Wrap,
		}
	}

	if id, ok := borderStyle[s.Border]; ok {
		for _, side := range borderSides {
			out.Border = append(out.Border, excelize.Border{Type: side, Color: "#000000", Style: id})
		}
	}

	if s.NumFmt != "" {
		out.CustomNumFmt = &s.NumFmt
	}

	return out
}
