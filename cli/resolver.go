package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/conifer/config"
	"github.com/ardnew/conifer/value"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag defaults
// from a conifer configuration file.
//
// Flag values live in the section named by name; flag names with hyphens
// (e.g. "log-level") may use underscores in the file (e.g. "log_level").
// Values are evaluated like any other configuration entry, so strings
// must be quoted:
//
//	[config]
//	log_level = 'debug'
//	log_pretty = True
//
// Command-line flags override file values.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		reader, err := config.Load([]any{r}, config.WithoutConstants())
		if err != nil {
			// Unreadable config file - fall back to flag defaults.
			return flagValues{}, nil
		}

		sec, ok := reader.Child(name)
		if !ok {
			return flagValues{}, nil
		}

		vals := make(flagValues, len(sec.Keys()))

		for _, key := range sec.Keys() {
			v, _ := sec.Value(key)
			vals[key] = flagString(v)
		}

		return vals, nil
	}
}

// flagValues implements [kong.Resolver] over a flat section of evaluated
// configuration entries.
type flagValues map[string]any

// Validate implements [kong.Resolver].
func (r flagValues) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r flagValues) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if v, ok := r[flag.Name]; ok {
		return v, nil
	}

	if v, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	// Let kong fall back to the flag's default.
	return nil, nil
}

// flagString renders an evaluated value the way kong expects flag input:
// numbers and booleans as their literal spelling, strings bare.
func flagString(v value.Value) any {
	switch v.Kind {
	case value.KindString:
		return v.Text()

	case value.KindBool:
		return strconv.FormatBool(v.IsTrue())

	default:
		return v.String()
	}
}
