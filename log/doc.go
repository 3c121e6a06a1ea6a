// Package log is a thin, concurrency-safe layer over [log/slog] with a
// trace level, named time layouts, and optional colorized output.
//
// A logger is built once with functional options and is immutable
// afterward; derived loggers come from [Logger.Wrap] (reconfigure) and
// [Logger.With] (attach attributes):
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("RFC3339Nano"),
//	)
//	logger = logger.With(slog.String("source", "main.ini"))
//	logger.Debug("constants registered", slog.Int("count", 7))
//
// Five levels are defined, lowest first: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Trace sits below slog's
// debug and renders as "TRACE" rather than slog's "DEBUG-4". Records
// below the configured level are discarded.
//
// Every level has a context-aware variant ([Logger.InfoContext] and so
// on); the plain variants obtain their context from
// [DefaultContextProvider], which defaults to [context.TODO].
//
// The package also keeps one process-wide default logger behind the
// package-level functions ([Info], [Error], ...). [Config] reconfigures
// it in place, layering options over the current state:
//
//	log.Config(log.WithLevel(log.LevelTrace), log.WithPretty(false))
//	log.Trace("expansion", slog.String("key", "/det1/head"))
//
// Timestamps accept either a named layout from the [time] package
// (matched loosely: "RFC3339", "rfc-3339", and "kitchen" all resolve) or
// a literal layout string; "none" or an empty layout removes timestamps.
//
// Output is JSON by default, or logfmt-style text with [FormatText];
// [WithPretty] switches either format to a colorized, human-oriented
// rendering.
package log
