package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/conifer/expr"
	"github.com/ardnew/conifer/section"
	"github.com/ardnew/conifer/value"
)

const sample = `
[Constants]
c = 3 * 10 ** 8

[detectors/det1]
height = 1.5

[detectors/det2]
height = 2

[detectors]
width = 2

[Sampler]
sampler_name = custom

[Sampler/parameter1]
min = 0
max = cos(pi / 4)

[Sampler/parameter2]
min = -1
max = c / 2
`

func load(t *testing.T, opts ...Option) *Reader {
	t.Helper()

	r, err := Load([]any{sample}, opts...)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	return r
}

func TestLoadValues(t *testing.T) {
	r := load(t)

	for _, tt := range []struct {
		key  string
		want value.Value
	}{
		{"sampler_name", value.Str("custom")},
		{"Sampler/sampler_name", value.Str("custom")},
		{"detectors/det1/height", value.Float(1.5)},
		{"Sampler/parameter1/min", value.Int(0)},
		{"Sampler/parameter1/max", value.Float(math.Cos(math.Pi / 4))},
		{"Constants/c", value.Int(300000000)},
		{"width", value.Int(2)},
	} {
		got, err := r.GetValue(tt.key)
		if err != nil {
			t.Errorf("GetValue(%q): %v", tt.key, err)

			continue
		}

		if !value.Equal(got, tt.want) {
			t.Errorf("GetValue(%q) = %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestLoadQuotedStrings(t *testing.T) {
	src := "[names]\n" +
		"dot = '.'\n" +
		"phrase = 'a b'\n" +
		"level = 'debug'\n" +
		"path = \"x/y\"\n"

	r, err := Load([]any{src})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, tt := range []struct {
		key  string
		want value.Value
	}{
		{"names/dot", value.Str(".")},
		{"names/phrase", value.Str("a b")},
		{"names/level", value.Str("debug")},
		{"names/path", value.Str("x/y")},
	} {
		got, err := r.GetValue(tt.key)
		if err != nil {
			t.Errorf("GetValue(%q): %v", tt.key, err)

			continue
		}

		if !value.Equal(got, tt.want) {
			t.Errorf("GetValue(%q) = %s, want %s", tt.key, got, tt.want)
		}
	}
}

// Leading separators in a header resolve against the previously loaded
// section, so "[/det1]" after "[detectors]" nests det1 inside detectors.
const nested = `
[Constants]
c = 3 * 10 ** 8

[detectors]
width = 2

[/det1]
height = 1.5

[/det2]
height = 2

[Sampler]
sampler_name = custom

[/parameter1]
min = 0
max = sin(pi / 2)

[/parameter2]
min = -1
max = c / 2
`

func TestLoadRelativeHeaders(t *testing.T) {
	r, err := Load([]any{nested})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, tt := range []struct {
		key  string
		want value.Value
	}{
		{"Constants/c", value.Int(300000000)},
		{"detectors/width", value.Int(2)},
		{"detectors/det1/height", value.Float(1.5)},
		{"detectors/det2/height", value.Int(2)},
		{"Sampler/sampler_name", value.Str("custom")},
		{"Sampler/parameter1/min", value.Int(0)},
		{"Sampler/parameter1/max", value.Float(math.Sin(math.Pi / 2))},
		{"Sampler/parameter2/min", value.Int(-1)},
		{"Sampler/parameter2/max", value.Float(1.5e8)},
	} {
		got, err := r.GetValue(tt.key)
		if err != nil {
			t.Errorf("GetValue(%q): %v", tt.key, err)

			continue
		}

		if !value.Equal(got, tt.want) {
			t.Errorf("GetValue(%q) = %s, want %s", tt.key, got, tt.want)
		}
	}

	// det1 lives under detectors, not at the root.
	det1, err := r.GetSection("det1")
	if err != nil {
		t.Fatalf("GetSection(det1): %v", err)
	}

	if want := r.Name() + "/detectors/det1"; det1.Path() != want {
		t.Errorf("det1 path = %q, want %q", det1.Path(), want)
	}
}

func TestConstantsFeedLaterSections(t *testing.T) {
	r := load(t)

	got, err := r.GetValue("Sampler/parameter2/max")
	if err != nil {
		t.Fatalf("GetValue(Sampler/parameter2/max): %v", err)
	}

	if f := got.Real(); f != 1.5e8 {
		t.Errorf("Sampler/parameter2/max = %s, want 1.5e+08", got)
	}
}

func TestWithoutConstants(t *testing.T) {
	src := "[Constants]\nc = 2\n[a]\nx = 1\n"

	r, err := Load([]any{src}, WithoutConstants())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, name := range r.Evaluator().Constants() {
		if name == "c" {
			t.Error("constant c registered despite WithoutConstants")
		}
	}

	// The section itself still loads like any other.
	if _, err := r.GetValue("Constants/c"); err != nil {
		t.Errorf("GetValue(Constants/c): %v", err)
	}
}

func TestWithoutConstantsEvalFailure(t *testing.T) {
	src := "[Constants]\nc = 2\n[a]\nx = c / 2\n"

	if _, err := Load([]any{src}, WithoutConstants()); !errors.Is(err, ErrEval) {
		t.Errorf("Load without constants: err = %v, want ErrEval", err)
	}
}

func TestAmbiguousLookup(t *testing.T) {
	r := load(t)

	_, err := r.GetValue("height")
	if !errors.Is(err, section.ErrAmbiguousKey) {
		t.Fatalf("GetValue(height): err = %v, want ErrAmbiguousKey", err)
	}

	got, err := r.GetValue("detectors/det1/height")
	if err != nil {
		t.Fatalf("GetValue(detectors/det1/height): %v", err)
	}

	if f := got.Real(); f != 1.5 {
		t.Errorf("detectors/det1/height = %s, want 1.5", got)
	}

	// A unique section name also disambiguates.
	det2, err := r.GetSection("det2")
	if err != nil {
		t.Fatalf("GetSection(det2): %v", err)
	}

	got, err = det2.GetValue("height")
	if err != nil {
		t.Fatalf("det2.GetValue(height): %v", err)
	}

	if n := got.Num(); n != 2 {
		t.Errorf("det2 height = %s, want 2", got)
	}
}

func TestLaterSourceOverrides(t *testing.T) {
	first := "[a]\nx = 1\n"
	second := "[a]\nx = 2\n"

	r, err := Load([]any{first, second})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := r.GetValue("x")
	if err != nil {
		t.Fatal(err)
	}

	if n := got.Num(); n != 2 {
		t.Errorf("x = %s, want 2 from the later source", got)
	}
}

func TestLoadFromFileAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.ini")
	if err := os.WriteFile(path, []byte("[a]\nx = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load([]any{path, strings.NewReader("[b]\ny = 2\n")})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := r.GetValue("x"); err != nil {
		t.Errorf("file source not loaded: %v", err)
	}

	if _, err := r.GetValue("y"); err != nil {
		t.Errorf("reader source not loaded: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(nil); !errors.Is(err, ErrNoSource) {
		t.Errorf("Load(nil): err = %v, want ErrNoSource", err)
	}

	if _, err := Load([]any{42}); !errors.Is(err, ErrBadSource) {
		t.Errorf("Load(42): err = %v, want ErrBadSource", err)
	}

	if _, err := Load([]any{"[a]\nx = (1\n"}); !errors.Is(err, ErrEval) {
		t.Errorf("Load with bad expression: err = %v, want ErrEval", err)
	}
}

func TestWithNameAndSeparator(t *testing.T) {
	r, err := Load(
		[]any{"[a.b]\nk = 1\n"},
		WithName("Config"),
		WithSeparator("."),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if r.Name() != "Config" {
		t.Errorf("root name = %q, want Config", r.Name())
	}

	got, err := r.Resolve("Config.a.b.k")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if v, ok := got.(value.Value); !ok || v.Kind != value.KindInt {
		t.Errorf("Resolve = %#v, want int value", got)
	}
}

func TestWithEvaluator(t *testing.T) {
	ev := expr.New()
	ev.RegisterFunction("double", func(args []value.Value, _ map[string]value.Value) (value.Value, error) {
		return value.Int(args[0].Num() * 2), nil
	})

	r, err := Load([]any{"[a]\nx = double(21)\n"}, WithEvaluator(ev))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := r.GetValue("x")
	if err != nil {
		t.Fatal(err)
	}

	if n := got.Num(); n != 42 {
		t.Errorf("x = %s, want 42", got)
	}
}

func TestTreeRendering(t *testing.T) {
	r, err := Load([]any{"[Constants]\nc = 3 * 10 ** 8\n"}, WithName("Config"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := "Config/\n └─Constants/\n    └─c = 300000000"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
