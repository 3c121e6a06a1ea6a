package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/conifer/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout)
	logger.Info("configuration loaded", slog.Int("sections", 4))
}

func Example_configuration() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("Kitchen"),
		log.WithCaller(true),
	)

	logger.Trace("evaluating", slog.String("key", "sample_rate"))
}

func Example_levels() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelWarn))

	logger.Debug("suppressed")
	logger.Warn("key shadowed", slog.String("key", "rate"))
	logger.Error("load failed", slog.String("source", "main.ini"))
}

func Example_withAttributes() {
	// Attach the source name to every record from this load.
	logger := log.Make(os.Stdout).With(slog.String("source", "main.ini"))

	logger.Info("constants registered")
	logger.Info("sections built")
}

func Example_defaultLogger() {
	// The package-level functions share one reconfigurable logger.
	log.Config(log.WithLevel(log.LevelDebug), log.WithPretty(false))
	log.Debug("search path resolved", slog.Int("dirs", 3))
}

func Example_withContext() {
	ctx := context.Background()

	logger := log.Make(os.Stdout)
	logger.InfoContext(ctx, "resolving", slog.String("path", "det1/head"))
}
