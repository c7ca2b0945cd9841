//go:build pprof

package profile

import (
	"maps"
	"path/filepath"
	"slices"

	"github.com/pkg/profile"
)

// modes maps each profiling mode to the option enabling it.
//
//nolint:gochecknoglobals
var modes = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Modes returns the supported profiling modes, sorted.
func Modes() []string { return slices.Sorted(maps.Keys(modes)) }

// start runs a profiling session for p. Each mode writes beneath its own
// subdirectory of p.Path so sessions of different modes keep their output.
// The caller owns signal handling, so the profiler installs no shutdown hook.
func start(p Profiler) Stopper {
	enable, ok := modes[p.Mode]
	if !ok {
		return ignore{}
	}

	opts := []func(*profile.Profile){enable, profile.NoShutdownHook}

	if p.Path != "" {
		opts = append(opts, profile.ProfilePath(filepath.Join(p.Path, p.Mode)))
	}

	if p.Quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
