package report

import (
	"github.com/ardnew/areport/lang"
)

// Group is a set of collection elements sharing a grouping key. Groups
// keep the order in which their keys first appear, and Items keep their
// collection order.
type Group struct {
	Key   any
	Items []any
}

// First returns the group's representative element.
func (g *Group) First() any {
	if len(g.Items) == 0 {
		return nil
	}

	return g.Items[0]
}

// String returns the textual form of the key.
func (g *Group) String() string { return lang.Text(g.Key) }

// GroupBy partitions items by the key fn returns for each. Keys compare
// with [lang.Equal], so int64(1) and float64(1) share a group.
func GroupBy(items []any, fn func(item any) (any, error)) ([]*Group, error) {
	var (
		groups []*Group
		index  = make(map[any]*Group)
	)

	for _, item := range items {
		key, err := fn(item)
		if err != nil {
			return nil, err
		}

		g := lookup(groups, index, key)
		if g == nil {
			g = &Group{Key: key}
			groups = append(groups, g)

			if hashable(key) {
				index[normalize(key)] = g
			}
		}

		g.Items = append(g.Items, item)
	}

	return groups, nil
}

func lookup(groups []*Group, index map[any]*Group, key any) *Group {
	if hashable(key) {
		return index[normalize(key)]
	}

	for _, g := range groups {
		if lang.Equal(g.Key, key) {
			return g
		}
	}

	return nil
}

// normalize maps numbers to a common representation so equal numbers hash
// to the same map key.
func normalize(key any) any {
	if f, ok := lang.ToFloat(key); ok {
		return f
	}

	return key
}

func hashable(key any) bool {
	switch key.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}
