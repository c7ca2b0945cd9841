package report

import "github.com/ardnew/areport/lang"

// groupResolver exposes a [Group] to expressions. The names key, items,
// size and first read the group itself; anything else reads the group's
// first element, so a field of a grouped level can name the properties
// its members share.
type groupResolver struct {
	lang.Resolver
}

func (r groupResolver) Property(obj any, name string) (any, bool, error) {
	g, ok := obj.(*Group)
	if !ok {
		return r.Resolver.Property(obj, name)
	}

	switch name {
	case "key":
		return g.Key, true, nil
	case "items":
		return g.Items, true, nil
	case "size", "count":
		return len(g.Items), true, nil
	case "first":
		return g.First(), true, nil
	}

	return r.Resolver.Property(g.First(), name)
}

func (r groupResolver) Invoke(obj any, method string, args []any) (any, error) {
	g, ok := obj.(*Group)
	if !ok {
		return r.Resolver.Invoke(obj, method, args)
	}

	switch method {
	case "size", "count", "length", "len", "isEmpty", "get", "contains":
		return r.Resolver.Invoke(g.Items, method, args)
	}

	return r.Resolver.Invoke(g.First(), method, args)
}

func (r groupResolver) Index(obj any, index any) (any, error) {
	if g, ok := obj.(*Group); ok {
		return r.Resolver.Index(g.Items, index)
	}

	return r.Resolver.Index(obj, index)
}
