package area

import "github.com/ardnew/areport/sheet"

// Template is a complete report definition.
type Template struct {
	// Styles maps style names used by nodes to their presentation.
	Styles map[string]sheet.Style
	Sheets []Sheet
}

// Sheet is one worksheet definition.
type Sheet struct {
	// Name is a {{}} template expanded to the worksheet name.
	Name string
	// Each, when set, is evaluated to a collection and the sheet is built
	// once per element, with the element as the bound root and bound to
	// Item in scope.
	Each string
	Item string
	Root Node
}

// DefaultItem is the variable bound to the current element of Sheet.Each
// when Item is empty.
const DefaultItem = "sheet"

// ItemName returns the variable bound to the current element of Each.
func (s *Sheet) ItemName() string {
	if s.Item == "" {
		return DefaultItem
	}

	return s.Item
}
