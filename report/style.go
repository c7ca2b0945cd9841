package report

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/areport/sheet"
)

// styleCache memoizes resolved styles for one build. Entries are keyed by
// the hash of the style's canonical key, and a sink implementing
// [sheet.Styler] sees each distinct style once.
type styleCache struct {
	sink    sheet.Sink
	named   map[string]sheet.Style
	handles map[uint64]sheet.Handle
}

func newStyleCache(sink sheet.Sink, named map[string]sheet.Style) *styleCache {
	return &styleCache{
		sink:    sink,
		named:   named,
		handles: make(map[uint64]sheet.Handle),
	}
}

func (c *styleCache) len() int { return len(c.handles) }

// resolve merges the space-separated named styles in order, applies numFmt,
// and returns the handle for the result.
func (c *styleCache) resolve(names, numFmt string) (sheet.Handle, error) {
	var st sheet.Style

	for _, name := range strings.Fields(names) {
		s, ok := c.named[name]
		if !ok {
			return sheet.Handle{}, ErrUnknownStyle.With(
				slog.String("style", name),
				slog.Any("suggest", suggest(name, c.named)),
			)
		}

		st = st.Merge(s)
	}

	if numFmt != "" {
		st.NumFmt = numFmt
	}

	return c.handle(st)
}

func (c *styleCache) handle(st sheet.Style) (sheet.Handle, error) {
	key := st.Key()
	if key == "" {
		return sheet.Handle{}, nil
	}

	sum := xxh3.HashString(key)
	if h, ok := c.handles[sum]; ok && h.Key == key {
		return h, nil
	}

	h := sheet.Handle{Style: st, Key: key}

	if styler, ok := c.sink.(sheet.Styler); ok {
		id, err := styler.RegisterStyle(st)
		if err != nil {
			return sheet.Handle{}, sheet.ErrStyle.Wrap(err).With(slog.String("style", key))
		}

		h.ID = id
	}

	c.handles[sum] = h

	return h, nil
}

// suggest returns up to three style names resembling name.
func suggest(name string, named map[string]sheet.Style) []string {
	matches := fuzzy.Find(name, slices.Sorted(maps.Keys(named)))

	out := make([]string, 0, 3)
	for _, m := range matches[:min(len(matches), 3)] {
		out = append(out, m.Str)
	}

	return out
}
