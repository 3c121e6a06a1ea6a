package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/conifer/config"
	"github.com/ardnew/conifer/section"
)

// ctrlCommands are the available colon-prefixed commands.
var ctrlCommands = []string{
	"clear", "constants", "functions", "help", "list", "quit", "tree",
}

// isWordBoundary reports whether r delimits completion words. The path
// separator is excluded so section paths complete as a unit.
func isWordBoundary(r rune, sep string) bool {
	if strings.ContainsRune(sep, r) {
		return false
	}

	switch r {
	case ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '~', ':', ';':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor and its byte boundaries
// within input. An empty word means the cursor sits on a boundary.
func wordBounds(input string, cursor int, sep string) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r, sep) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r, sep) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates builds the completion vocabulary of a loaded configuration:
// registered functions and constants, bare keys, section names, and every
// full path below the root.
func candidates(reader *config.Reader) []string {
	seen := make(map[string]struct{})

	var out []string

	add := func(names ...string) {
		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}

			out = append(out, name)
		}
	}

	add(reader.Evaluator().Functions()...)
	add(reader.Evaluator().Constants()...)

	var walk func(s *section.Section)

	walk = func(s *section.Section) {
		for _, key := range s.Keys() {
			add(key, strings.TrimPrefix(
				s.Path()+s.Separator()+key,
				reader.Name()+reader.Separator(),
			))
		}

		for _, name := range s.Sections() {
			child, _ := s.Child(name)
			add(name, strings.TrimPrefix(
				child.Path(),
				reader.Name()+reader.Separator(),
			))
			walk(child)
		}
	}

	walk(reader.Section)

	return out
}

// match runs fuzzy completion of word against the vocabulary. An empty
// word matches nothing rather than everything.
func match(word string, vocab []string) fuzzy.Matches {
	if word == "" {
		return nil
	}

	return fuzzy.Find(word, vocab)
}

// renderCandidateBar renders a horizontal bar of completion candidates,
// truncated to the terminal width, with the selected candidate styled.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	active bool,
	width int,
) string {
	var b strings.Builder

	used := 0

	for i, m := range matches {
		cell := m.Str
		if used+len(cell)+2 > width {
			b.WriteString(hintStyle.Render("…"))

			break
		}

		if i > 0 {
			b.WriteString("  ")

			used += 2
		}

		if active && i == selected {
			b.WriteString(selectedStyle.Render(cell))
		} else {
			b.WriteString(suggestionStyle.Render(cell))
		}

		used += len(cell)
	}

	return b.String()
}
