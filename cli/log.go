package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/conifer/log"
)

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler, early enough to affect messages emitted while
// kong is still parsing.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing via
// encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"trace,debug,info,warn,error" help:"Set log level."`
	Format     logFormat `default:"json"    enum:"json,text"                   help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                    help:"Set timestamp format."`
	Caller     bool      `default:"false"                                      help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                       help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan performs an early pass over command-line arguments to apply logger
// configuration before kong begins parsing. The TextUnmarshaler types
// above cover --log-level and --log-format during normal parsing; this
// pre-scan also catches the boolean flags, which don't go through that
// interface, and makes flag position irrelevant.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, val, assigned := strings.Cut(args[i], "=")

		// Non-boolean flags may carry their value in the next argument.
		takesValue := name == "--log-level" || name == "--log-format"
		if takesValue && !assigned && i+1 < len(args) &&
			!strings.HasPrefix(args[i+1], "-") {
			val = args[i+1]
			i++
		}

		boolVal := func(negated bool) bool {
			set := true
			if assigned {
				if v, err := strconv.ParseBool(val); err == nil {
					set = v
				}
			}

			return set != negated
		}

		switch name {
		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(val))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(val))

		case "--log-pretty", "--no-log-pretty":
			f.Pretty = boolVal(name == "--no-log-pretty")
			log.Config(log.WithPretty(f.Pretty))

		case "--log-caller", "--no-log-caller":
			f.Caller = boolVal(name == "--no-log-caller")
			log.Config(log.WithCaller(f.Caller))
		}
	}
}
