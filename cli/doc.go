// Package cli contains the command line interface for areport.
//
// # Usage
//
// A report is built from a YAML template and one or more data files:
//
//	areport -d staff.yaml render report.yaml -o report.xlsx
//
// Without --output the sheets are previewed as tables in the terminal.
// Render is the default command, so the command name may be omitted.
//
// # Data
//
// Data files are decoded as streams of YAML documents (JSON is accepted as
// YAML) and merged in the order given, with stdin ("-") read last. Each
// --set name=expr binding is then evaluated with expr-lang against the data
// loaded so far:
//
//	areport -d staff.yaml -s 'year=2024' -s 'title="Payroll " + string(year)' render report.yaml
//
// # Commands
//
//   - init: write the current flag values to the configuration file
//   - check: load and validate a template, printing a node summary
//   - eval: evaluate expressions against the data
//   - repl: evaluate expressions interactively
//   - render: build a report
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (see [pkg.ConfigDir]). Keys are flag names, either flat
// ("log-level: debug") or nested by group ("log: {level: debug}"). Flags on
// the command line take precedence.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o areport .
//
// The profiling flags are then:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/areport/pprof)
package cli
