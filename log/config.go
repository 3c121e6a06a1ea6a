package log

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

import (
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message. It extends [slog.Level] with a
// trace level below debug.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug) - 4 // trace
	LevelDebug Level = Level(slog.LevelDebug)     // debug
	LevelInfo  Level = Level(slog.LevelInfo)      // info
	LevelWarn  Level = Level(slog.LevelWarn)      // warn
	LevelError Level = Level(slog.LevelError)     // error
)

// DefaultLevel is the level used when none is configured.
const DefaultLevel = LevelInfo

// Levels iterates over the names of all defined levels, lowest first.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range []Level{
			LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError,
		} {
			if !yield(l.String()) {
				return
			}
		}
	}
}

// ParseLevel reads a level name, case-insensitively. Names other than
// "trace" follow [slog.Level.UnmarshalText], including the optional
// signed offset suffix. Unrecognized input yields [DefaultLevel].
func ParseLevel(s string) Level {
	// slog has no spelling for trace.
	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format selects the encoding of log records.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the format used when none is configured.
const DefaultFormat = FormatJSON

// Formats iterates over the names of all defined formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatJSON, FormatText} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat reads a format name ("json" or "text"), case-insensitively.
// Unrecognized input yields [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	}

	return DefaultFormat
}

// FormatTime renders a record timestamp. An empty result drops the
// timestamp from the record.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the timestamp layout used when none is configured.
const DefaultTimeLayout = time.RFC3339

// Defaults for the remaining toggles.
const (
	DefaultCaller = false
	DefaultPretty = true
)

// config is the complete state of a [Logger] aside from its handler.
// The mutex guards concurrent reconfiguration through [Logger.Wrap] and
// the package-level [Config].
type config struct {
	mutex      *sync.RWMutex
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	c := config{mutex: &sync.RWMutex{}}

	return apply(apply(c, WithDefaults(w)), opts...)
}

// clone copies the config under a fresh mutex, then applies opts. The
// copy is unshared while opts run, so no further locking is needed.
func (c config) clone(opts ...Option) config {
	c.mutex = &sync.RWMutex{}

	return apply(c, opts...)
}

// handler builds the [slog.Handler] described by the config, with opts
// overriding individual fields first.
func (c config) handler(opts ...Option) slog.Handler {
	cfg := apply(c, opts...)

	hopts := &slog.HandlerOptions{
		AddSource:   cfg.caller,
		Level:       slog.Level(cfg.level),
		ReplaceAttr: cfg.replaceAttr,
	}

	switch {
	case cfg.pretty && cfg.format == FormatJSON:
		return newPrettyJSON(cfg.output, hopts)
	case cfg.pretty && cfg.format == FormatText:
		return newPrettyText(cfg.output, hopts)
	case cfg.format == FormatJSON:
		return slog.NewJSONHandler(cfg.output, hopts)
	case cfg.format == FormatText:
		return slog.NewTextHandler(cfg.output, hopts)
	}

	return slog.DiscardHandler
}

// replaceAttr rewrites the built-in time and level attributes: the time
// through the configured [FormatTime] (dropped when it yields ""), and
// the level through [Level.String] so trace renders as "TRACE" rather
// than slog's "DEBUG-4".
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			s := c.formatTime(t)
			if s == "" {
				return slog.Attr{}
			}

			a.Value = slog.StringValue(s)
		}

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

// WithDefaults resets every field to its default and directs output to
// w, or [io.Discard] when w is nil.
func WithDefaults(w io.Writer) Option {
	if w == nil {
		w = io.Discard
	}

	return setting(func(c *config) {
		c.output = w
		c.formatTime = timeFormatter(DefaultTimeLayout)
		c.level = DefaultLevel
		c.format = DefaultFormat
		c.caller = DefaultCaller
		c.pretty = DefaultPretty
	})
}

// WithOutput directs log output to w, or [io.Discard] when w is nil.
func WithOutput(w io.Writer) Option {
	if w == nil {
		w = io.Discard
	}

	return setting(func(c *config) { c.output = w })
}

// WithLevel sets the minimum level; records below it are discarded.
func WithLevel(level Level) Option {
	return setting(func(c *config) { c.level = level })
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return setting(func(c *config) { c.format = format })
}

// WithTimeLayout sets the timestamp layout. The layout may be the name
// of one of the [time] package constants ("RFC3339", "Kitchen", and so
// on, matched without regard to case or punctuation) or a literal layout
// string passed to [time.Time.Format]. An empty or all-whitespace layout
// removes timestamps entirely.
func WithTimeLayout(layout string) Option {
	format := timeFormatter(layout)

	return setting(func(c *config) { c.formatTime = format })
}

// WithCaller controls whether records carry the calling source location.
func WithCaller(enable bool) Option {
	return setting(func(c *config) { c.caller = enable })
}

// WithPretty controls colorized, human-oriented rendering. Text format
// drops quoting and colors keys and values; JSON format is indented
// across multiple lines.
func WithPretty(enable bool) Option {
	return setting(func(c *config) { c.pretty = enable })
}

// namedLayout resolves spellings of the [time] package layout constants,
// plus a few shorthands, after lowercasing and stripping punctuation.
var namedLayout = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"none":        "",

	"stampmilli": time.StampMilli,
	"milli":      time.StampMilli,
	"millis":     time.StampMilli,
	"ms":         time.StampMilli,

	"stampmicro": time.StampMicro,
	"micro":      time.StampMicro,
	"micros":     time.StampMicro,
	"us":         time.StampMicro,

	"stampnano": time.StampNano,
	"nano":      time.StampNano,
	"nanos":     time.StampNano,
	"ns":        time.StampNano,
}

func timeFormatter(layout string) FormatTime {
	key := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}

		return -1
	}, strings.ToLower(layout))

	if key == "" {
		return func(time.Time) string { return "" }
	}

	if std, ok := namedLayout[key]; ok {
		layout = std
	}

	return func(t time.Time) string { return t.Format(layout) }
}
