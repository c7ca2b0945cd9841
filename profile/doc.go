// Package profile provides optional runtime profiling for areport.
//
// Profiling is built on [github.com/pkg/profile] and is compiled in only
// when the "pprof" build tag is set:
//
//	go build -tags pprof -o areport .
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op
// [Stopper], so callers never need their own build constraints.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution tracing
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// Rendering a large workbook under the CPU profiler from the command line:
//
//	areport --pprof-mode=cpu render -d data.yaml report.yaml -o out.xlsx
//	go tool pprof -http=: ~/.cache/areport/pprof/cpu/cpu.pprof
//
// Each mode writes into its own subdirectory of the output directory, which
// defaults to the pprof subdirectory of the user cache directory (for
// example $XDG_CACHE_HOME/areport/pprof on Linux).
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
