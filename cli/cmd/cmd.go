package cmd

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/conifer/config"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Settings carries the shared loader flags from the CLI layer to the
// subcommands.
type Settings struct {
	// Sources are the configuration inputs in command-line order, already
	// resolved against the include search path. The entry "-" names
	// standard input.
	Sources []string

	// Name is the root section name.
	Name string

	// Separator is the tree-wide path separator.
	Separator string

	// Constants names the constants section; empty disables constant
	// registration.
	Constants string

	// CacheDir holds transient files such as REPL history.
	CacheDir string
}

type settingsKey struct{}

// WithSettings returns a new context.Context carrying the loader settings.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFrom(ctx context.Context) Settings {
	s, _ := ctx.Value(settingsKey{}).(Settings)

	return s
}

// load builds a configuration reader from the settings. At least one
// source is required.
func (s Settings) load() (*config.Reader, error) {
	if len(s.Sources) == 0 {
		return nil, ErrNoSource
	}

	sources := make([]any, len(s.Sources))

	for i, src := range s.Sources {
		if src == "-" {
			sources[i] = os.Stdin
		} else {
			sources[i] = src
		}
	}

	opts := []config.Option{
		config.WithName(s.Name),
		config.WithSeparator(s.Separator),
	}

	if s.Constants == "" {
		opts = append(opts, config.WithoutConstants())
	} else {
		opts = append(opts, config.WithConstants(s.Constants))
	}

	return config.Load(sources, opts...)
}
