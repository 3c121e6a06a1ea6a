package profile

// Config yields the three profiling parameters: the mode name, the
// output directory, and whether to suppress the profiler's own logging.
// It is a function so options can derive new configurations without a
// struct literal at every call site.
type Config func() (mode, path string, quiet bool)

// Start launches the profiler described by c and returns its stop
// handle. With an empty mode, or in a build without the pprof tag, the
// returned handle is a no-op. Start and Stop are always safe to call.
func (c Config) Start() interface{ Stop() } {
	mode, path, quiet := c()

	if mode == "" {
		return ignore{}
	}

	return start(mode, path, quiet)
}

// WithMode derives a configuration with the given mode name.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		_, path, quiet := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// WithPath derives a configuration with the given output directory.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		mode, _, quiet := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// WithQuiet derives a configuration with the given quiet flag.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		mode, path, _ := c()

		return func() (string, string, bool) {
			return mode, path, quiet
		}
	}
}

// ignore is the stop handle of a profiler that never ran.
type ignore struct{}

func (ignore) Stop() {}
