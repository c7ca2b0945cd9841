package area

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestWalk(t *testing.T) {
	root := &Align{
		ID: "root",
		Children: []Node{
			&Row{},
			&Repeat{Data: "xs", Children: []Node{&Split{Amount: 1}, &Set{ID: "v", Name: "v", Source: "1"}}},
		},
	}

	var got []string

	err := Walk(root, func(path []string, _ Node) error {
		got = append(got, strings.Join(path, "/"))

		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"align#root",
		"align#root/row[0]",
		"align#root/repeat[1]",
		"align#root/repeat[1]/split[0]",
		"align#root/repeat[1]/set#v",
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestWalkStops(t *testing.T) {
	stop := errors.New("stop")
	root := &Align{Children: []Node{&Row{}, &Row{}}}
	visited := 0

	err := Walk(root, func(_ []string, n Node) error {
		visited++
		if n.Kind() == KindRow {
			return stop
		}

		return nil
	})
	if !errors.Is(err, stop) || visited != 2 {
		t.Errorf("expected stop after 2 visits, got %v after %d", err, visited)
	}
}

func TestDirection(t *testing.T) {
	var d Direction

	for _, s := range []string{"across", "Horizontal", " h "} {
		if err := d.UnmarshalText([]byte(s)); err != nil || d != Across {
			t.Errorf("%q: expected across, got %v (%v)", s, d, err)
		}
	}

	if err := d.UnmarshalText([]byte("")); err != nil || d != Down {
		t.Errorf("expected down, got %v (%v)", d, err)
	}

	if err := d.UnmarshalText([]byte("up")); !errors.Is(err, ErrDirection) {
		t.Errorf("expected ErrDirection, got %v", err)
	}
}

func TestValidateTable(t *testing.T) {
	valid := func() *Table {
		return &Table{
			Levels: []Level{{Data: "rows", GroupBy: "dept"}, {}},
			Fields: []Field{{Level: 1, Value: "dept"}, {Value: "emp"}},
		}
	}

	if err := Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Table)
	}{
		{"no levels", func(t *Table) { t.Levels = nil }},
		{"no leaf data", func(t *Table) { t.Levels[0].GroupBy = "" }},
		{"no fields", func(t *Table) { t.Fields = nil }},
		{"level range", func(t *Table) { t.Fields[0].Level = 3 }},
		{"merge-row range", func(t *Table) { t.Fields[1].MergeRow = -1 }},
		{"no value", func(t *Table) { t.Fields[1].Value = "" }},
		{"empty group", func(t *Table) { t.Fields = []Field{{Titles: Titles{"x"}}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := valid()
			tt.mutate(tbl)

			if err := Validate(tbl); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}
