package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/areport/lang"
	"github.com/ardnew/areport/log"
	"github.com/ardnew/areport/pkg"
)

// bindingName matches the left-hand side of a name=expr binding.
var bindingName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Data returns the binding map for a report build.
//
// Every data file stored in ctx is decoded as a stream of YAML documents
// (JSON is accepted as YAML). Each document must be a mapping, and later
// keys replace earlier ones. The name=expr bindings are then applied in
// order, each expression evaluated by expr-lang with the bindings so far as
// its environment.
func Data(ctx context.Context) (map[string]any, error) {
	data := make(map[string]any)

	if files := dataFilesFrom(ctx); files != nil {
		defer files.Close()

		for name, r := range files.All() {
			if err := decodeData(ctx, r, data); err != nil {
				return nil, ErrData.Wrap(err).With(slog.String("file", name))
			}

			log.TraceContext(ctx, "data file decoded",
				slog.String("file", name),
				slog.Int("keys", len(data)),
			)
		}
	}

	for _, b := range bindingsFrom(ctx) {
		if err := bind(data, b); err != nil {
			return nil, err
		}
	}

	return data, nil
}

// decodeData merges each YAML document of r into data.
func decodeData(ctx context.Context, r io.Reader, data map[string]any) error {
	ra := readahead.NewReader(r)
	defer ra.Close()

	dec := yaml.NewDecoder(ra)

	for {
		var doc map[string]any

		err := dec.DecodeContext(ctx, &doc)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return pkg.ErrDecodeData.Wrap(err)
		}

		maps.Copy(data, doc)
	}
}

// bind applies one name=expr binding to data.
func bind(data map[string]any, binding string) error {
	name, src, ok := strings.Cut(binding, "=")
	name = strings.TrimSpace(name)

	if !ok || !bindingName.MatchString(name) || strings.TrimSpace(src) == "" {
		return pkg.ErrBinding.Wrapf("%q: want name=expr", binding)
	}

	v, err := lang.RunExpr(src, data)
	if err != nil {
		return pkg.ErrBinding.Wrap(fmt.Errorf("%s: %w", name, err))
	}

	data[name] = v

	return nil
}
