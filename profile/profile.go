package profile

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a single profiling session.
//
// Mode selects one of [Modes]. Path is the directory receiving the profile
// output; the current directory is used when empty. Quiet suppresses the
// start and stop messages printed by the profiler.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Start begins profiling and returns a Stopper that ends it.
//
// If the binary was built without the pprof tag, or Mode is empty or
// unknown, Start returns a no-op Stopper. Both Start and Stop are always
// safely callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether profiling support was compiled in.
func Enabled() bool { return len(Modes()) > 0 }

type ignore struct{}

func (ignore) Stop() {}
