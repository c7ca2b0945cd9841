// Package cmd implements the areport subcommands: render, check, eval, repl
// and init.
//
// Subcommands receive a [context.Context] carrying the parsed
// [kong.Context], the data files named with --data and the --set bindings.
// [Data] reads those into the binding map handed to a report build.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
