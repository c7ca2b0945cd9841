package area

import (
	"context"
	"io"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/areport/sheet"
)

// yamlNode is the YAML form of a Node: a mapping with exactly one kind key.
type yamlNode struct {
	Align  *yamlAlign  `yaml:"align"`
	Repeat *yamlRepeat `yaml:"repeat"`
	Table  *Table      `yaml:"table"`
	Row    *Row        `yaml:"row"`
	Split  *Split      `yaml:"split"`
	Set    *Set        `yaml:"set"`
}

type yamlAlign struct {
	ID        string     `yaml:"id"`
	Direction Direction  `yaml:"direction"`
	Children  []yamlNode `yaml:"children"`
}

type yamlRepeat struct {
	ID       string     `yaml:"id"`
	Data     string     `yaml:"data"`
	Item     string     `yaml:"item"`
	Index    string     `yaml:"index"`
	Split    *Split     `yaml:"split"`
	Children []yamlNode `yaml:"children"`
}

type yamlSheet struct {
	Name string   `yaml:"name"`
	Each string   `yaml:"each"`
	Item string   `yaml:"item"`
	Root yamlNode `yaml:"root"`
}

type yamlTemplate struct {
	Styles map[string]sheet.Style `yaml:"styles"`
	Sheets []yamlSheet            `yaml:"sheets"`
}

// Load decodes and validates a YAML template.
func Load(ctx context.Context, r io.Reader) (*Template, error) {
	var ts yamlTemplate

	dec := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := dec.DecodeContext(ctx, &ts); err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	tpl := &Template{Styles: ts.Styles, Sheets: make([]Sheet, 0, len(ts.Sheets))}

	for i, ss := range ts.Sheets {
		root, err := ss.Root.node([]string{"sheets[" + strconv.Itoa(i) + "]"})
		if err != nil {
			return nil, err
		}

		name := ss.Name
		if name == "" {
			name = "Sheet" + strconv.Itoa(i+1)
		}

		tpl.Sheets = append(tpl.Sheets, Sheet{
			Name: name,
			Each: ss.Each,
			Item: ss.Item,
			Root: root,
		})
	}

	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	return tpl, nil
}

// LoadNode decodes a single YAML node tree without a template envelope.
func LoadNode(ctx context.Context, r io.Reader) (Node, error) {
	var s yamlNode

	dec := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := dec.DecodeContext(ctx, &s); err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	n, err := s.node(nil)
	if err != nil {
		return nil, err
	}

	if err := Validate(n); err != nil {
		return nil, err
	}

	return n, nil
}

func (s *yamlNode) node(path []string) (Node, error) {
	var (
		out   Node
		count int
	)

	if s.Align != nil {
		count++

		children, err := nodes(path, s.Align.Children)
		if err != nil {
			return nil, err
		}

		out = &Align{ID: s.Align.ID, Direction: s.Align.Direction, Children: children}
	}

	if s.Repeat != nil {
		count++

		children, err := nodes(path, s.Repeat.Children)
		if err != nil {
			return nil, err
		}

		out = &Repeat{
			ID:       s.Repeat.ID,
			Data:     s.Repeat.Data,
			Item:     s.Repeat.Item,
			Index:    s.Repeat.Index,
			Split:    s.Repeat.Split,
			Children: children,
		}
	}

	for _, n := range []Node{s.Table, s.Row, s.Split, s.Set} {
		if !isNil(n) {
			count++
			out = n
		}
	}

	if count != 1 {
		return nil, ErrNodeKind.With(attrPath(path))
	}

	return out, nil
}

func nodes(path []string, children []yamlNode) ([]Node, error) {
	out := make([]Node, 0, len(children))

	for i := range children {
		n, err := children[i].node(slices.Concat(path, []string{"children[" + strconv.Itoa(i) + "]"}))
		if err != nil {
			return nil, err
		}

		out = append(out, n)
	}

	return out, nil
}

// isNil reports whether n holds a typed nil pointer.
func isNil(n Node) bool {
	switch n := n.(type) {
	case *Table:
		return n == nil
	case *Row:
		return n == nil
	case *Split:
		return n == nil
	case *Set:
		return n == nil
	default:
		return n == nil
	}
}
