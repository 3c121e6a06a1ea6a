package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// ANSI escapes used by the pretty handlers.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// paint writes s wrapped in the given color escape.
func paint(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(colorReset)
}

// levelColor grades severity: error red, warn yellow, info green, and
// anything below blue.
func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return colorRed
	case l >= slog.LevelWarn:
		return colorYellow
	case l >= slog.LevelInfo:
		return colorGreen
	}

	return colorBlue
}

// sourceLine renders the record's origin as file:line, or "" when the
// record has none.
func sourceLine(r slog.Record) string {
	src := r.Source()
	if src == nil {
		return ""
	}

	return fmt.Sprintf("%s:%d", src.File, src.Line)
}

// prettyText renders records as a single colorized line of key=value
// pairs with unquoted values.
type prettyText struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	groups []string
}

func newPrettyText(w io.Writer, opts *slog.HandlerOptions) *prettyText {
	return &prettyText{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyText) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyText) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeAttr(buf, slog.Time(slog.TimeKey, r.Time))
	}

	h.writeAttr(buf, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := sourceLine(r); src != "" {
			h.writeAttr(buf, slog.String(slog.SourceKey, src))
		}
	}

	h.writeAttr(buf, slog.String(slog.MessageKey, r.Message))

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyText) WithAttrs([]slog.Attr) slog.Handler {
	return &prettyText{opts: h.opts, mu: h.mu, w: h.w, groups: h.groups}
}

func (h *prettyText) WithGroup(name string) slog.Handler {
	groups := append(h.groups[:len(h.groups):len(h.groups)], name)

	return &prettyText{opts: h.opts, mu: h.mu, w: h.w, groups: groups}
}

func (h *prettyText) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	paint(buf, colorGray, a.Key)
	buf.WriteByte('=')
	h.writeValue(buf, a.Value)
}

func (h *prettyText) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		paint(buf, colorCyan, v.String())

	case slog.KindInt64:
		paint(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		paint(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		paint(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			paint(buf, colorGreen, "true")
		} else {
			paint(buf, colorRed, "false")
		}

	case slog.KindDuration:
		paint(buf, colorMagenta, v.Duration().String())

	case slog.KindTime:
		paint(buf, colorBlue, v.Time().String())

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			paint(buf, levelColor(level), level.String())

			return
		}

		paint(buf, colorCyan, v.String())

	default:
		paint(buf, colorCyan, v.String())
	}
}

// prettyJSON renders each record as an indented, colorized JSON-shaped
// object spanning several lines.
type prettyJSON struct {
	opts slog.HandlerOptions
	mu   *sync.Mutex
	w    io.Writer
}

func newPrettyJSON(w io.Writer, opts *slog.HandlerOptions) *prettyJSON {
	return &prettyJSON{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyJSON) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSON) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{\n")

	first := true

	if !r.Time.IsZero() {
		h.writeField(buf, slog.TimeKey, r.Time.Format(time.RFC3339), &first)
	}

	h.writeField(buf, slog.LevelKey, r.Level.String(), &first)

	if h.opts.AddSource {
		if src := sourceLine(r); src != "" {
			h.writeField(buf, slog.SourceKey, src, &first)
		}
	}

	h.writeField(buf, slog.MessageKey, r.Message, &first)

	r.Attrs(func(a slog.Attr) bool {
		h.writeField(buf, a.Key, a.Value.Any(), &first)

		return true
	})

	buf.WriteString("\n}\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyJSON) WithAttrs([]slog.Attr) slog.Handler {
	return &prettyJSON{opts: h.opts, mu: h.mu, w: h.w}
}

func (h *prettyJSON) WithGroup(string) slog.Handler {
	return &prettyJSON{opts: h.opts, mu: h.mu, w: h.w}
}

func (h *prettyJSON) writeField(
	buf *bytes.Buffer,
	key string,
	value any,
	first *bool,
) {
	if !*first {
		buf.WriteString(",\n")
	}

	*first = false

	buf.WriteString("  ")
	paint(buf, colorGray, key)
	buf.WriteString(": ")
	h.writeValue(buf, value)
}

func (h *prettyJSON) writeValue(buf *bytes.Buffer, v any) {
	switch val := v.(type) {
	case string:
		paint(buf, colorCyan, val)

	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		paint(buf, colorYellow, fmt.Sprint(val))

	case bool:
		if val {
			paint(buf, colorGreen, "true")
		} else {
			paint(buf, colorRed, "false")
		}

	case nil:
		paint(buf, colorGray, "null")

	default:
		paint(buf, colorCyan, fmt.Sprint(val))
	}
}
