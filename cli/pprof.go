//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/areport/log"
	"github.com/ardnew/areport/pkg"
	"github.com/ardnew/areport/profile"
)

type pprofConfig struct {
	Mode  string `default:""            enum:",${pprofModeEnum}" help:"Profile the command in this mode" placeholder:"${enum}" short:"p"`
	Dir   string `default:"${pprofDir}"                          help:"Profile output directory"                              type:"path"`
	Quiet bool   `default:"true"                                 help:"Suppress profiler status output"   negatable:""`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start begins profiling when a mode was selected. The returned function
// stops the profiler and reports where its output was written.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	attrs := []slog.Attr{
		slog.String("mode", f.Mode),
		slog.String("dir", filepath.Join(f.Dir, f.Mode)),
	}

	log.DebugContext(ctx, "profiling started", attrs...)

	began := time.Now()
	session := profile.Profiler{Mode: f.Mode, Path: f.Dir, Quiet: f.Quiet}.Start()

	return func() {
		session.Stop()
		log.InfoContext(ctx, "profile written",
			append(attrs, slog.Duration("elapsed", time.Since(began)))...)
	}
}
