package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/ardnew/conifer/log"
	"github.com/ardnew/conifer/pkg"
	"github.com/ardnew/conifer/profile"
)

var (
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
)

// Init generates the CLI's own configuration file with current flag
// values, in the format read back by the flag resolver on later runs.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrFileExists)
	}

	file := ini.Empty()

	sec, err := file.NewSection(ConfigIdentifier)
	if err != nil {
		return ErrWriteConfig.Wrap(err)
	}

	prefixIgnore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		lit := flagLiteral(ktx.FlagValue(flag))
		if lit == "" {
			continue
		}

		name := strings.ReplaceAll(flag.Name, "-", "_")
		if _, err := sec.NewKey(name, lit); err != nil {
			return ErrWriteConfig.Wrap(err)
		}
	}

	if err := file.SaveTo(confPath); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// flagLiteral renders a flag value as an expression that evaluates back
// to the same value, or "" for unset and unsupported flags.
func flagLiteral(val any) string {
	switch v := val.(type) {
	case bool:
		if v {
			return "True"
		}

		return "False"

	case string:
		if v == "" {
			return ""
		}

		return strconv.Quote(v)

	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprint(v)

	case []string:
		if len(v) == 0 {
			return ""
		}

		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = strconv.Quote(s)
		}

		return "[" + strings.Join(quoted, ", ") + "]"

	default:
		return ""
	}
}
