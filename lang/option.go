package lang

import "github.com/ardnew/areport/log"

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithResolver sets the property resolver. The default is [Reflect].
func WithResolver(r Resolver) Option {
	return func(e *Evaluator) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithRegistry sets the static function registry. The default is
// [NewRegistry].
func WithRegistry(r *Registry) Option {
	return func(e *Evaluator) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithLogger sets the logger used to trace evaluations.
func WithLogger(l log.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}
