// Package config loads INI-style configuration files into a [section]
// tree, evaluating every value with the sandboxed expression language
// of package [expr].
//
// Section names in the files are root-anchored paths ("Sampler",
// "Sampler/parameter1"); missing ancestors are created in file order. A
// designated constants section (default "Constants") is evaluated before
// everything else, and its entries become named constants visible to
// every other value in the same load.
package config

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/ini.v1"

	"github.com/ardnew/conifer/expr"
	"github.com/ardnew/conifer/section"
)

// Defaults for the root section name and the constants section name.
const (
	DefaultName      = "toplevel"
	DefaultConstants = "Constants"
)

// Reader is a loaded configuration: the root section of the tree plus
// the evaluator that produced its values. Lookup methods come from the
// embedded [section.Section].
type Reader struct {
	*section.Section

	eval *expr.Evaluator
}

// Evaluator returns the evaluator used during the load, including any
// constants registered from the constants section.
func (r *Reader) Evaluator() *expr.Evaluator { return r.eval }

type settings struct {
	name      string
	sep       string
	constants string
	eval      *expr.Evaluator
}

// Option adjusts how a configuration is loaded.
type Option func(*settings)

// WithName names the root section.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithSeparator sets the path separator of the tree and of the section
// names in the sources.
func WithSeparator(sep string) Option {
	return func(s *settings) {
		if sep != "" {
			s.sep = sep
		}
	}
}

// WithConstants designates the section whose entries become named
// constants for the rest of the load.
func WithConstants(name string) Option {
	return func(s *settings) { s.constants = name }
}

// WithoutConstants disables constant registration entirely. The section
// named "Constants", if present, loads like any other.
func WithoutConstants() Option {
	return func(s *settings) { s.constants = "" }
}

// WithEvaluator substitutes a caller-prepared evaluator, typically to
// provide extra functions or constants beyond the defaults.
func WithEvaluator(ev *expr.Evaluator) Option {
	return func(s *settings) {
		if ev != nil {
			s.eval = ev
		}
	}
}

// Load reads and evaluates configuration sources in order.
//
// Each source may be a string, naming a file if one exists at that path
// and holding inline INI text otherwise, or an [io.Reader]. Later
// sources override earlier ones key by key, like repeated assignment.
// Any parse or evaluation failure aborts the load.
func Load(sources []any, opts ...Option) (*Reader, error) {
	cfg := settings{
		name:      DefaultName,
		sep:       section.DefaultSeparator,
		constants: DefaultConstants,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if len(sources) == 0 {
		return nil, ErrNoSource
	}

	resolved := make([]any, len(sources))

	for i, src := range sources {
		conv, err := convertSource(src)
		if err != nil {
			return nil, err
		}

		resolved[i] = conv
	}

	// Quotes are part of the expression syntax, so the INI reader must
	// hand values through verbatim.
	file, err := ini.LoadSources(
		ini.LoadOptions{PreserveSurroundedQuote: true},
		resolved[0], resolved[1:]...,
	)
	if err != nil {
		return nil, ErrParse.Wrap(err)
	}

	if cfg.eval == nil {
		cfg.eval = expr.New()
	}

	root := section.NewRoot(cfg.name, section.WithSeparator(cfg.sep))
	r := &Reader{Section: root, eval: cfg.eval}

	if cfg.constants != "" {
		if sec, err := file.GetSection(cfg.constants); err == nil {
			for _, key := range sec.Keys() {
				v, err := r.eval.Evaluate(key.Value())
				if err != nil {
					return nil, ErrEval.Wrap(err).With(
						slog.String("section", cfg.constants),
						slog.String("key", key.Name()),
					)
				}

				r.eval.RegisterConstant(key.Name(), v)
			}
		}
	}

	// Each header is ensured relative to the section the previous header
	// produced, so a run of leading separators in a header climbs that
	// section's own path. "[/det1]" after "[detectors]" nests det1 under
	// detectors; a single leading separator still anchors at the root.
	cursor := root

	for _, sec := range file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}

		node, err := cursor.Ensure(cfg.sep + sec.Name())
		if err != nil {
			return nil, err
		}

		cursor = node

		for _, key := range sec.Keys() {
			v, err := r.eval.Evaluate(key.Value())
			if err != nil {
				return nil, ErrEval.Wrap(err).With(
					slog.String("section", sec.Name()),
					slog.String("key", key.Name()),
				)
			}

			if err := node.Set(key.Name(), v); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

// convertSource maps a caller-facing source onto what the INI reader
// accepts: a filename, raw bytes, or an io.ReadCloser.
func convertSource(src any) (any, error) {
	switch s := src.(type) {
	case string:
		if _, err := os.Stat(s); err == nil {
			return s, nil
		}

		return []byte(s), nil

	case []byte:
		return s, nil

	case io.ReadCloser:
		return s, nil

	case io.Reader:
		return io.NopCloser(s), nil
	}

	return nil, ErrBadSource.With(slog.Any("source", src))
}
