package report

import (
	"maps"

	"github.com/ardnew/areport/lang"
	"github.com/ardnew/areport/log"
	"github.com/ardnew/areport/sheet"
)

// Option configures a [Builder].
type Option func(*Builder)

// WithLogger sets the logger for build progress and traces.
func WithLogger(l log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithRegistry sets the static function registry used by expressions.
func WithRegistry(r *lang.Registry) Option {
	return func(b *Builder) {
		if r != nil {
			b.registry = r
		}
	}
}

// WithResolver sets the property resolver used by expressions.
func WithResolver(r lang.Resolver) Option {
	return func(b *Builder) {
		if r != nil {
			b.resolver = r
		}
	}
}

// WithStyles adds named styles. Node style attributes name one or more of
// them, separated by spaces, and later names override earlier ones.
func WithStyles(styles map[string]sheet.Style) Option {
	return func(b *Builder) {
		if b.styles == nil {
			b.styles = make(map[string]sheet.Style, len(styles))
		}

		maps.Copy(b.styles, styles)
	}
}

// WithParallel limits how many sheets [BuildDocument] builds at once. The
// default is GOMAXPROCS.
func WithParallel(n int) Option {
	return func(b *Builder) { b.workers = n }
}
