package area

import (
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant of a [Node].
type Kind int

// Node kinds.
const (
	KindAlign Kind = iota
	KindRepeat
	KindTable
	KindRow
	KindSplit
	KindSet
)

//nolint:gochecknoglobals
var kindName = [...]string{
	KindAlign:  "align",
	KindRepeat: "repeat",
	KindTable:  "table",
	KindRow:    "row",
	KindSplit:  "split",
	KindSet:    "set",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is one area of a template tree. The concrete types are [*Align],
// [*Repeat], [*Table], [*Row], [*Split] and [*Set].
type Node interface {
	Kind() Kind
	// NodeID returns the author-assigned identifier, or "".
	NodeID() string
}

// Direction is the flow of a layout cursor.
type Direction int

// Directions.
const (
	Down Direction = iota
	Across
)

func (d Direction) String() string {
	if d == Across {
		return "across"
	}

	return "down"
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "down", "vertical", "v":
		*d = Down
	case "across", "right", "horizontal", "h":
		*d = Across
	default:
		return ErrDirection.With(attrValue(string(text)))
	}

	return nil
}

// Align lays its children out one after another in Direction.
type Align struct {
	ID        string
	Direction Direction
	Children  []Node
}

// Repeat builds Children once per element of the collection Data evaluates
// to. Item and Index name the variables bound for each element. Split, when
// set, separates consecutive elements.
type Repeat struct {
	ID       string
	Data     string
	Item     string
	Index    string
	Split    *Split
	Children []Node
}

// Table renders grouped tabular data. Levels[0] is the outermost
// collection; the last level produces one leaf row per element.
type Table struct {
	ID         string  `yaml:"id"`
	Levels     []Level `yaml:"levels"`
	Fields     []Field `yaml:"fields"`
	ShowTitle  bool    `yaml:"show-title"`
	TitleStyle string  `yaml:"title-style"`
	Style      string  `yaml:"style"`
	RowHeight  float64 `yaml:"row-height"`
}

// Level describes one grouping level of a [Table].
//
// Data is evaluated with the parent level's element as the bound root; for
// the first level the bound root is the one in effect where the table
// appears. An empty Data below a grouped level iterates the group's items.
// GroupBy, when set, partitions the collection by the key it evaluates to
// for each element, and the level iterates the groups instead.
type Level struct {
	Data    string `yaml:"data"`
	GroupBy string `yaml:"group-by"`
	Var     string `yaml:"var"`
	Index   string `yaml:"index"`
}

// Field is one column of a [Table], or a group of columns when Fields is
// non-empty.
type Field struct {
	// Level is the 1-based grouping level the value is evaluated at. Zero
	// inherits the enclosing group field's level, or the leaf level.
	Level int `yaml:"level"`
	// Value is an expression evaluated against the level element.
	Value string `yaml:"value"`
	// Func names a registered static function called with the level
	// element, used when Value is empty.
	Func string `yaml:"func"`
	// Titles holds one title per header row.
	Titles Titles `yaml:"title"`
	// Format is a number format applied to the cell style.
	Format string `yaml:"format"`
	// Enum maps the textual value to display text.
	Enum map[string]string `yaml:"enum"`
	// DatePattern formats time values, in yyyy-MM-dd notation.
	DatePattern string `yaml:"date-pattern"`
	// MergeRow is the level whose iteration bounds vertical merges of
	// equal values. Zero uses Level, and leaf fields do not merge.
	MergeRow int `yaml:"merge-row"`
	// Filter skips the cell when it evaluates to false or nil. The column
	// stays reserved.
	Filter     string  `yaml:"filter"`
	Style      string  `yaml:"style"`
	TitleStyle string  `yaml:"title-style"`
	Width      float64 `yaml:"width"`
	Fields     []Field `yaml:"fields"`
}

// IsGroup reports whether f groups nested fields rather than holding a
// value.
func (f *Field) IsGroup() bool { return len(f.Fields) > 0 }

// Row emits literal cells left to right from the cursor.
type Row struct {
	ID     string  `yaml:"id"`
	Cells  []Cell  `yaml:"cells"`
	Height float64 `yaml:"height"`
}

// Cell is one cell of a [Row]. Value is an expression; when it is empty
// Text is expanded as a {{}} template.
type Cell struct {
	Value   string  `yaml:"value"`
	Text    string  `yaml:"text"`
	RowSpan int     `yaml:"rowspan"`
	ColSpan int     `yaml:"colspan"`
	Filter  string  `yaml:"filter"`
	Style   string  `yaml:"style"`
	Format  string  `yaml:"format"`
	Width   float64 `yaml:"width"`
}

// Rows returns the number of rows c spans.
func (c *Cell) Rows() int { return max(c.RowSpan, 1) }

// Cols returns the number of columns c spans.
func (c *Cell) Cols() int { return max(c.ColSpan, 1) }

// Split advances the cursor by Amount rows or columns without emitting
// cells. Width, when set, is applied to the skipped columns.
type Split struct {
	ID     string  `yaml:"id"`
	Amount int     `yaml:"amount"`
	Width  float64 `yaml:"width"`
}

// Set binds Name in the current scope frame. Source is an expression in
// the template language; Eval is an expr-lang expression evaluated over the
// variables in scope.
type Set struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Eval   string `yaml:"eval"`
}

func (*Align) Kind() Kind  { return KindAlign }
func (*Repeat) Kind() Kind { return KindRepeat }
func (*Table) Kind() Kind  { return KindTable }
func (*Row) Kind() Kind    { return KindRow }
func (*Split) Kind() Kind  { return KindSplit }
func (*Set) Kind() Kind    { return KindSet }

func (n *Align) NodeID() string  { return n.ID }
func (n *Repeat) NodeID() string { return n.ID }
func (n *Table) NodeID() string  { return n.ID }
func (n *Row) NodeID() string    { return n.ID }
func (n *Split) NodeID() string  { return n.ID }
func (n *Set) NodeID() string    { return n.ID }

// Children returns the child nodes of n.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Align:
		return n.Children
	case *Repeat:
		return n.Children
	default:
		return nil
	}
}

// Segment returns the path segment naming n as the index-th child of its
// parent: kind#id when n has an identifier, kind[index] otherwise.
func Segment(n Node, index int) string {
	if id := n.NodeID(); id != "" {
		return n.Kind().String() + "#" + id
	}

	return n.Kind().String() + "[" + strconv.Itoa(index) + "]"
}

// Walk calls fn for n and each of its descendants in depth-first order.
// The path holds the segments from the root to the visited node. Walk stops
// at the first error fn returns.
func Walk(n Node, fn func(path []string, n Node) error) error {
	return walk(nil, 0, n, fn)
}

func walk(path []string, index int, n Node, fn func([]string, Node) error) error {
	path = append(slices.Clip(path), Segment(n, index))

	if err := fn(path, n); err != nil {
		return err
	}

	for i, c := range Children(n) {
		if err := walk(path, i, c, fn); err != nil {
			return err
		}
	}

	return nil
}
