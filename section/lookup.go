package section

import (
	"log/slog"
	"strings"

	"github.com/ardnew/conifer/value"
)

// ValueMatch is one content entry found by a subtree search.
type ValueMatch struct {
	// Owner is the section whose content holds the entry.
	Owner *Section
	// Key is the entry's key within Owner.
	Key string
	// Val is the stored value.
	Val value.Value
}

// Path returns the full path of the matched entry.
func (m ValueMatch) Path() string {
	return m.Owner.Path() + m.Owner.sep + m.Key
}

// FindValues returns every content entry in the subtree rooted at s
// (including s itself) whose key equals name, in traversal order.
func (s *Section) FindValues(name string) []ValueMatch {
	var out []ValueMatch

	if v, ok := s.content[name]; ok {
		out = append(out, ValueMatch{Owner: s, Key: name, Val: v})
	}

	for _, child := range s.ordered() {
		out = append(out, child.FindValues(name)...)
	}

	return out
}

// FindSections returns every descendant section of s (s itself excluded)
// whose own name equals name, in traversal order.
func (s *Section) FindSections(name string) []*Section {
	var out []*Section

	for _, child := range s.ordered() {
		if child.name == name {
			out = append(out, child)
		}

		out = append(out, child.FindSections(name)...)
	}

	return out
}

// ordered returns the direct children in insertion order.
func (s *Section) ordered() []*Section {
	out := make([]*Section, len(s.order))
	for i, name := range s.order {
		out[i] = s.children[name]
	}

	return out
}

// Resolve looks up a full path from the root of the tree.
//
// The path must start with the root's own name, or [ErrInvalidPath] is
// returned. Each intermediate segment must name an existing child. The
// terminal segment resolves to a content entry if one exists, else to a
// child section; a path ending in the separator resolves to the section
// itself. The result is either a [value.Value] or a *[Section].
func (s *Section) Resolve(path string) (any, error) {
	cursor := s.Root()
	parts := strings.Split(path, s.sep)

	if parts[0] != cursor.name {
		return nil, ErrInvalidPath.With(
			slog.String("path", path),
			slog.String("root", cursor.name),
		)
	}

	for i := 1; i < len(parts); i++ {
		name := parts[i]
		last := i == len(parts)-1

		if last {
			if name == "" {
				return cursor, nil
			}

			if v, ok := cursor.content[name]; ok {
				return v, nil
			}

			if child, ok := cursor.children[name]; ok {
				return child, nil
			}

			return nil, ErrKeyNotFound.With(slog.String("path", path))
		}

		child, ok := cursor.children[name]
		if !ok {
			return nil, ErrKeyNotFound.With(
				slog.String("path", path),
				slog.String("missing", name),
			)
		}

		cursor = child
	}

	return cursor, nil
}

// Get retrieves a value or section by key.
//
// A separator-bearing key is normalized with [Section.Expand] and then
// resolved directly. A bare key triggers a breadth search of the subtree
// rooted at s: every content entry with that key and every descendant
// section with that name is a candidate. A single candidate is returned
// outright. Among several, a candidate owned directly by s (a content
// entry stored in s itself, or a direct child section) wins if it is the
// only direct one; otherwise the lookup fails with [ErrAmbiguousKey]
// listing every candidate's full path.
func (s *Section) Get(key string) (any, error) {
	if strings.Contains(key, s.sep) {
		path, err := s.Expand(key)
		if err != nil {
			return nil, err
		}

		return s.Resolve(path)
	}

	vals := s.FindValues(key)
	secs := s.FindSections(key)

	switch len(vals) + len(secs) {
	case 0:
		return nil, ErrKeyNotFound.With(slog.String("key", key))

	case 1:
		if len(vals) == 1 {
			return vals[0].Val, nil
		}

		return secs[0], nil
	}

	// Direct-child preference: a match owned by s itself beats deeper
	// matches, but only when it is unique.
	var (
		direct  []any
		nDirect int
	)

	for _, m := range vals {
		if m.Owner == s {
			direct = append(direct, m.Val)
			nDirect++
		}
	}

	for _, sec := range secs {
		if sec.parent == s {
			direct = append(direct, sec)
			nDirect++
		}
	}

	if nDirect == 1 {
		return direct[0], nil
	}

	candidates := make([]string, 0, len(vals)+len(secs))

	for _, m := range vals {
		candidates = append(candidates, m.Path())
	}

	for _, sec := range secs {
		candidates = append(candidates, sec.Path())
	}

	return nil, ErrAmbiguousKey.With(
		slog.String("key", key),
		slog.Any("candidates", candidates),
	)
}

// GetValue retrieves a key that must resolve to a stored value.
func (s *Section) GetValue(key string) (value.Value, error) {
	got, err := s.Get(key)
	if err != nil {
		return value.Value{}, err
	}

	v, ok := got.(value.Value)
	if !ok {
		return value.Value{}, ErrKeyNotFound.With(
			slog.String("key", key),
			slog.String("detail", "key names a section, not a value"),
		)
	}

	return v, nil
}

// GetSection retrieves a key that must resolve to a section.
func (s *Section) GetSection(key string) (*Section, error) {
	got, err := s.Get(key)
	if err != nil {
		return nil, err
	}

	sec, ok := got.(*Section)
	if !ok {
		return nil, ErrKeyNotFound.With(
			slog.String("key", key),
			slog.String("detail", "key names a value, not a section"),
		)
	}

	return sec, nil
}
