package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/readahead"

	"github.com/ardnew/areport/area"
	"github.com/ardnew/areport/pkg"
)

// loadTemplate reads and validates the template at path, or stdin if path
// is "-".
func loadTemplate(ctx context.Context, path string) (*area.Template, error) {
	var r io.Reader = os.Stdin

	if path != stdinSource {
		f, err := os.Open(path)
		if err != nil {
			return nil, ErrTemplate.
				Wrap(pkg.ErrReadInput.Wrap(err)).
				With(slog.String("file", path))
		}
		defer f.Close()

		r = f
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	tpl, err := area.Load(ctx, ra)
	if err != nil {
		return nil, ErrTemplate.Wrap(err).With(slog.String("file", path))
	}

	return tpl, nil
}
