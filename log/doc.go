// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("template loaded", slog.String("path", name))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Report Attributes
//
// The layout engine attaches its position to log records using [Path],
// [Cell], [Extent] and [Expr], so that trace output from a build can be
// correlated with the template node and worksheet coordinates that
// produced it.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. The layout engine logs every emitted
// region at trace level.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and
// [FormatText]. The pretty variant of the text format styles keys and
// levels with lipgloss and is intended for terminals.
package log
