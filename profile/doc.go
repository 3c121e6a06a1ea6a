// Package profile wires optional runtime profiling, via
// [github.com/pkg/profile], behind the "pprof" build tag.
//
// Without the tag every operation is a no-op with no runtime cost, so
// callers configure and start profiling unconditionally:
//
//	var cfg profile.Config = func() (string, string, bool) {
//		return "", "", false
//	}
//	cfg = profile.WithMode("cpu")(cfg)
//	cfg = profile.WithPath("/tmp/profiles")(cfg)
//	defer cfg.Start().Stop()
//
// When built with the tag, the supported modes are cpu, heap, mem,
// allocs, block, mutex, goroutine, thread, clock, and trace; [Modes]
// lists them programmatically, and the conifer command exposes them as
// the --pprof-mode flag. Profiles land in the configured directory
// under names like cpu.pprof, by default inside the user cache
// directory for conifer.
//
// Analyze output with the usual tooling:
//
//	go tool pprof ./conifer cpu.pprof
//	go tool pprof -http=: heap.pprof
//
// The tagged build also imports [net/http/pprof] so an embedding
// process that serves HTTP gets the /debug/pprof/ handlers for free.
package profile

// Tag is the build tag required to enable profiling, and the name of
// the default profile output subdirectory.
const Tag = `pprof`
