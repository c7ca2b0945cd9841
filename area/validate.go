package area

import (
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/areport/sheet"
)

// Validate checks that n and its descendants carry the attributes a build
// requires.
func Validate(n Node) error {
	return validate(nil, n, nil)
}

// Validate checks every sheet, and that literal style names refer to the
// style sheet.
func (t *Template) Validate() error {
	if len(t.Sheets) == 0 {
		return ErrInvalid.With(attrReason("no sheets"))
	}

	styles := t.Styles
	if styles == nil {
		styles = map[string]sheet.Style{}
	}

	for i := range t.Sheets {
		s := &t.Sheets[i]
		path := []string{"sheets[" + strconv.Itoa(i) + "]"}

		if s.Root == nil {
			return ErrInvalid.With(attrPath(path), attrReason("missing root"))
		}

		if err := validate(path, s.Root, styles); err != nil {
			return err
		}
	}

	return nil
}

func validate(prefix []string, root Node, styles map[string]sheet.Style) error {
	return Walk(root, func(path []string, n Node) error {
		path = slices.Concat(prefix, path)

		if err := check(path, n); err != nil {
			return err
		}

		if styles == nil {
			return nil
		}

		for _, name := range styleNames(n) {
			if _, ok := styles[name]; !ok {
				return ErrInvalid.With(attrPath(path), attrReason("unknown style "+strconv.Quote(name)))
			}
		}

		return nil
	})
}

func check(path []string, n Node) error {
	invalid := func(reason string) error {
		return ErrInvalid.With(attrPath(path), attrReason(reason))
	}

	switch n := n.(type) {
	case *Repeat:
		if strings.TrimSpace(n.Data) == "" {
			return invalid("repeat requires data")
		}

		if n.Split != nil && n.Split.Amount < 0 {
			return invalid("negative split amount")
		}

	case *Table:
		return checkTable(n, invalid)

	case *Row:
		for i, c := range n.Cells {
			if c.RowSpan < 0 || c.ColSpan < 0 {
				return invalid("cell " + strconv.Itoa(i) + " has a negative span")
			}
		}

	case *Split:
		if n.Amount < 0 {
			return invalid("negative split amount")
		}

	case *Set:
		if n.Name == "" {
			return invalid("set requires name")
		}

		if (n.Source == "") == (n.Eval == "") {
			return invalid("set requires exactly one of source or eval")
		}

	case nil:
		return invalid("nil node")
	}

	return nil
}

func checkTable(t *Table, invalid func(string) error) error {
	k := len(t.Levels)
	if k == 0 {
		return invalid("table requires at least one level")
	}

	for i, l := range t.Levels {
		if strings.TrimSpace(l.Data) != "" {
			continue
		}

		if i == 0 || t.Levels[i-1].GroupBy == "" {
			return invalid("level " + strconv.Itoa(i+1) + " requires data")
		}
	}

	leaves := 0

	var visit func(fields []Field) error

	visit = func(fields []Field) error {
		for i := range fields {
			f := &fields[i]

			if f.Level < 0 || f.Level > k {
				return invalid("field level " + strconv.Itoa(f.Level) + " out of range")
			}

			if f.MergeRow < 0 || f.MergeRow > k {
				return invalid("merge-row " + strconv.Itoa(f.MergeRow) + " out of range")
			}

			if f.IsGroup() {
				if err := visit(f.Fields); err != nil {
					return err
				}

				continue
			}

			if f.Value == "" && f.Func == "" {
				return invalid("field requires value or func")
			}

			leaves++
		}

		return nil
	}

	if err := visit(t.Fields); err != nil {
		return err
	}

	if leaves == 0 {
		return invalid("table requires at least one field")
	}

	return nil
}

// styleNames returns the literal style names n refers to. Names containing
// a {{}} template are resolved at build time and are not listed.
func styleNames(n Node) []string {
	var refs []string

	add := func(s string) {
		if !strings.Contains(s, "{{") {
			refs = append(refs, strings.Fields(s)...)
		}
	}

	switch n := n.(type) {
	case *Table:
		add(n.Style)
		add(n.TitleStyle)

		var visit func([]Field)

		visit = func(fields []Field) {
			for i := range fields {
				add(fields[i].Style)
				add(fields[i].TitleStyle)
				visit(fields[i].Fields)
			}
		}

		visit(n.Fields)

	case *Row:
		for _, c := range n.Cells {
			add(c.Style)
		}
	}

	return refs
}
