package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

const resolverConfig = `
[config]
log_level = 'debug'
log_pretty = True
separator = '.'
retries = 2 + 1
`

func loadResolver(t *testing.T) kong.Resolver {
	t.Helper()

	r, err := resolve(baseConfig)(strings.NewReader(resolverConfig))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	return r
}

func TestResolverFlagLookup(t *testing.T) {
	r := loadResolver(t)

	for _, tt := range []struct {
		flag string
		want any
	}{
		{"log-level", "debug"}, // underscore variant in file
		{"log-pretty", "true"},
		{"separator", "."},
		{"retries", "3"}, // values are evaluated expressions
		{"unset", nil},
	} {
		got, err := r.Resolve(nil, nil, &kong.Flag{
			Value: &kong.Value{Name: tt.flag},
		})
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tt.flag, err)
		}

		if got != tt.want {
			t.Errorf("Resolve(%s) = %#v, want %#v", tt.flag, got, tt.want)
		}
	}
}

func TestResolverBadConfig(t *testing.T) {
	r, err := resolve(baseConfig)(strings.NewReader("not an ini ["))
	if err != nil {
		t.Fatalf("resolve with bad config: %v", err)
	}

	got, err := r.Resolve(nil, nil, &kong.Flag{
		Value: &kong.Value{Name: "log-level"},
	})
	if err != nil || got != nil {
		t.Errorf("bad config should resolve nothing, got %#v, %v", got, err)
	}
}

func TestFindSourceInline(t *testing.T) {
	// A nonexistent name without a match anywhere passes through so the
	// loader can treat it as inline text.
	src := "[a]\nx = 1\n"
	if got := findSource(src, nil); got != src {
		t.Errorf("findSource(inline) = %q, want unchanged", got)
	}

	if got := findSource(stdinSource, nil); got != stdinSource {
		t.Errorf("findSource(-) = %q, want -", got)
	}
}
