package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/conifer/config"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "cos(p", 5, "p", 4, 5},
		{"after_comma", "sum(a, fo", 9, "fo", 7, 9},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		// The separator is part of the word so paths complete whole.
		{"path", "Sampler/parameter1", 18, "Sampler/parameter1", 0, 18},
		{"path_partial", "det1/he", 7, "det1/he", 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor, "/")
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	reader, err := config.Load([]any{
		"[Constants]\nc = 3\n[Sampler]\nsampler_name = 'custom'\n",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	vocab := candidates(reader)

	for _, want := range []string{
		"sin",          // registered function
		"pi",           // registered constant
		"c",            // file constant
		"sampler_name", // bare key
		"Sampler",      // section name
		"Sampler/sampler_name", // full path, root elided
	} {
		if !slices.Contains(vocab, want) {
			t.Errorf("candidates missing %q", want)
		}
	}
}

func TestMatch(t *testing.T) {
	vocab := []string{"sampler_name", "Sampler", "sum"}

	if got := match("", vocab); got != nil {
		t.Errorf("empty word matched %d candidates, want none", len(got))
	}

	got := match("samp", vocab)
	if len(got) < 2 {
		t.Fatalf("match(samp) found %d, want at least sampler_name and Sampler", len(got))
	}
}
