// Package cli contains the command line interface for conifer.
//
// # Usage
//
// Configuration sources are given with --source and may name files,
// carry inline INI text, or read standard input:
//
//	conifer -s config.ini get Sampler/parameter1/max
//	conifer -s config.ini dump yaml
//	cat config.ini | conifer -s - tree
//
// Bare file names are resolved against the --include directories, the
// $CONIFER_PATH environment variable, and the user configuration
// directory, in that order.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
//
// # Flag Defaults
//
// Defaults for any flag can be stored in the CLI's own configuration
// file, generated with "conifer init" and read on every run. Values are
// conifer expressions, so strings are quoted:
//
//	[config]
//	log_level = 'debug'
//	log_pretty = True
package cli
