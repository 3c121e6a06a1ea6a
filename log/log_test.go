package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// capture builds a logger writing plain JSON records into a buffer so
// tests can decode what was emitted.
func capture(opts ...Option) (*bytes.Buffer, Logger) {
	buf := new(bytes.Buffer)
	base := []Option{WithFormat(FormatJSON), WithPretty(false)}

	return buf, Make(buf, append(base, opts...)...)
}

func record(t *testing.T, line string) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("record %q is not JSON: %v", line, err)
	}

	return m
}

func TestMakeDefaults(t *testing.T) {
	l := Make(nil)

	if l.Level() != DefaultLevel {
		t.Errorf("Level = %v, want %v", l.Level(), DefaultLevel)
	}

	if l.Format() != DefaultFormat {
		t.Errorf("Format = %v, want %v", l.Format(), DefaultFormat)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf, l := capture(WithLevel(LevelWarn))

	l.Trace("dropped")
	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept")
	l.Error("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("emitted %d records, want 2:\n%s", len(lines), buf.String())
	}

	if m := record(t, lines[0]); m["level"] != "WARN" {
		t.Errorf("first record level = %v, want WARN", m["level"])
	}
}

func TestTraceLevelName(t *testing.T) {
	buf, l := capture(WithLevel(LevelTrace))

	l.Trace("lowest")

	m := record(t, strings.TrimSpace(buf.String()))
	if m["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", m["level"])
	}
}

func TestAttributesEmitted(t *testing.T) {
	buf, l := capture()

	l.Info("loaded",
		slog.String("section", "Sampler"),
		slog.Int("keys", 3),
	)

	m := record(t, strings.TrimSpace(buf.String()))
	if m["msg"] != "loaded" || m["section"] != "Sampler" {
		t.Errorf("record = %v", m)
	}

	if n, ok := m["keys"].(float64); !ok || n != 3 {
		t.Errorf("keys = %v, want 3", m["keys"])
	}
}

func TestTimeLayoutNoneOmitsTime(t *testing.T) {
	buf, l := capture(WithTimeLayout("none"))

	l.Info("stamped")

	m := record(t, strings.TrimSpace(buf.String()))
	if _, ok := m["time"]; ok {
		t.Errorf("record carries a time field: %v", m)
	}
}

func TestCallerAddsSource(t *testing.T) {
	buf, l := capture(WithCaller(true))

	l.Info("located")

	m := record(t, strings.TrimSpace(buf.String()))

	src, ok := m["source"].(map[string]any)
	if !ok {
		t.Fatalf("record has no source group: %v", m)
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %v, want this test file", src["file"])
	}
}

func TestTextFormat(t *testing.T) {
	buf := new(bytes.Buffer)
	l := Make(buf, WithFormat(FormatText), WithPretty(false))

	l.Info("plain", slog.String("k", "v"))

	out := buf.String()
	if !strings.Contains(out, "msg=plain") || !strings.Contains(out, "k=v") {
		t.Errorf("text output = %q", out)
	}
}

func TestPrettyTextUnquoted(t *testing.T) {
	buf := new(bytes.Buffer)
	l := Make(buf, WithFormat(FormatText), WithPretty(true))

	l.Info("colorized", slog.String("k", "v"))

	out := buf.String()
	if !strings.Contains(out, "colorized") || !strings.Contains(out, "\033[") {
		t.Errorf("pretty output = %q", out)
	}
}

func TestWrapOverrides(t *testing.T) {
	_, l := capture(WithLevel(LevelError))

	derived := l.Wrap(WithLevel(LevelTrace))

	if derived.Level() != LevelTrace {
		t.Errorf("derived level = %v, want trace", derived.Level())
	}

	if l.Level() != LevelError {
		t.Errorf("original level changed to %v", l.Level())
	}
}

func TestWithAddsPersistentAttrs(t *testing.T) {
	buf, l := capture()

	l = l.With(slog.String("load", "main.ini"))
	l.Info("first")
	l.Info("second")

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if m := record(t, line); m["load"] != "main.ini" {
			t.Errorf("record lost persistent attr: %v", m)
		}
	}
}

func TestZeroValueLoggerIsSilent(t *testing.T) {
	var l Logger

	l.Trace("nope")
	l.Debug("nope")
	l.Info("nope")
	l.Warn("nope")
	l.Error("nope")

	if derived := l.With(slog.String("k", "v")); derived.Logger != nil {
		t.Error("With on zero value produced a live logger")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero value getters diverge from defaults")
	}
}

func TestConcurrentLogging(t *testing.T) {
	buf, l := capture(WithLevel(LevelDebug))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 25 {
				l.Debug("concurrent", slog.Int("worker", i))
			}
		}()
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 200 {
		t.Errorf("emitted %d records, want 200", len(lines))
	}
}

func TestContextMethods(t *testing.T) {
	buf, l := capture(WithLevel(LevelTrace))

	ctx := DefaultContextProvider()

	l.TraceContext(ctx, "t")
	l.DebugContext(ctx, "d")
	l.InfoContext(ctx, "i")
	l.WarnContext(ctx, "w")
	l.ErrorContext(ctx, "e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("emitted %d records, want 5", len(lines))
	}
}

func BenchmarkInfo(b *testing.B) {
	buf := new(bytes.Buffer)
	l := Make(buf, WithFormat(FormatJSON), WithPretty(false))

	b.ResetTimer()

	for range b.N {
		l.Info("benchmark", slog.Int("i", 1))
	}
}

func BenchmarkInfoWithCaller(b *testing.B) {
	buf := new(bytes.Buffer)
	l := Make(buf,
		WithFormat(FormatJSON), WithPretty(false), WithCaller(true))

	b.ResetTimer()

	for range b.N {
		l.Info("benchmark")
	}
}
