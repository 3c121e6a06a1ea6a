// Package section implements the hierarchical configuration tree: named
// sections holding key-value content and ordered child sections, with
// path normalization, implicit-ancestor creation, and ambiguity-aware
// lookup.
//
// A tree has exactly one root. Sections own their children exclusively
// and hold a non-owning back-reference to their parent used only to
// compute ancestry; child insertion order is preserved and observable in
// traversal, rendering, and export. Keys may collide with descendant
// section names; that is legal, and bare-key lookup resolves the
// resulting ambiguity rather than preventing it (see [Section.Get]).
//
// The tree is a single mutable resource with no internal locking:
// concurrent readers and writers need external synchronization.
package section

import (
	"log/slog"
	"strings"

	"github.com/ardnew/conifer/value"
)

// DefaultSeparator joins section names into paths unless the root is
// created with [WithSeparator].
const DefaultSeparator = "/"

// Section is a node of a configuration tree. The zero value is not
// usable; create roots with [NewRoot] and descendants with
// [Section.EnsurePath].
type Section struct {
	name   string
	sep    string
	parent *Section

	keys    []string // content keys in insertion order
	content map[string]value.Value

	order    []string // child names in insertion order
	children map[string]*Section
}

// Option configures a root section at creation time.
type Option func(*Section)

// WithSeparator sets the path separator token shared by the whole tree.
func WithSeparator(sep string) Option {
	return func(s *Section) {
		if sep != "" {
			s.sep = sep
		}
	}
}

// NewRoot creates the root of a new tree. The separator is fixed here and
// inherited by every descendant.
func NewRoot(name string, opts ...Option) *Section {
	s := newSection(name, nil, DefaultSeparator)

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func newSection(name string, parent *Section, sep string) *Section {
	return &Section{
		name:     name,
		sep:      sep,
		parent:   parent,
		content:  make(map[string]value.Value),
		children: make(map[string]*Section),
	}
}

// Name returns the section's own name.
func (s *Section) Name() string { return s.name }

// Separator returns the tree-wide path separator.
func (s *Section) Separator() string { return s.sep }

// Parent returns the owning section, or nil for the root.
func (s *Section) Parent() *Section { return s.parent }

// Root returns the root of the tree containing s.
func (s *Section) Root() *Section {
	top := s
	for top.parent != nil {
		top = top.parent
	}

	return top
}

// Path returns the separator-joined names from the root to s.
// Paths are unique tree-wide.
func (s *Section) Path() string {
	if s.parent == nil {
		return s.name
	}

	return s.parent.Path() + s.sep + s.name
}

// Sections returns the names of the direct child sections in insertion
// order. The returned slice is a copy.
func (s *Section) Sections() []string {
	return append([]string(nil), s.order...)
}

// Keys returns the content keys of this section in insertion order.
// The returned slice is a copy.
func (s *Section) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Child returns the direct child section with the given name.
func (s *Section) Child(name string) (*Section, bool) {
	c, ok := s.children[name]

	return c, ok
}

// Value returns the content entry stored directly in s under key.
func (s *Section) Value(key string) (value.Value, bool) {
	v, ok := s.content[key]

	return v, ok
}

// IsDirectChild reports whether the final segment of key (after
// normalization against s) names a direct child section of s.
func (s *Section) IsDirectChild(key string) bool {
	path, err := s.Expand(key)
	if err != nil {
		return false
	}

	segs := strings.Split(path, s.sep)
	_, ok := s.children[segs[len(segs)-1]]

	return ok
}

// Expand normalizes key into a full path relative to s.
//
// A key with no separator is interpreted as an entry directly under s. A
// run of k leading separators is a positional marker: the first k
// segments of s's own full path are substituted in place, so one leading
// separator anchors at the root, two keep the root's first child level,
// and so on: segment-count indexing from the root, not parent-relative
// hops. A key whose first segment names an existing direct child of s
// gains an implicit leading separator, so it anchors at the root segment
// like any other single-separator key.
//
// Expansion fails with [ErrInvalidPath] when the leading-separator run is
// deeper than s's own ancestry.
func (s *Section) Expand(key string) (string, error) {
	parts := strings.Split(key, s.sep)
	if len(parts) == 1 {
		return s.Path() + s.sep + key, nil
	}

	if !strings.HasPrefix(key, s.sep) {
		if _, ok := s.children[parts[0]]; ok {
			parts = append([]string{""}, parts...)
		}
	}

	anchor := strings.Split(s.Path(), s.sep)

	for i, pt := range parts {
		if pt != "" {
			break
		}

		if i >= len(anchor) {
			return "", ErrInvalidPath.With(
				slog.String("key", key),
				slog.String("relative_to", s.Path()),
			)
		}

		parts[i] = anchor[i]
	}

	return strings.Join(parts, s.sep), nil
}

// SplitExisting normalizes key against s, then walks the tree from the
// root consuming segments while each names an existing child. It returns
// the names that exist, in order from the root, and the missing suffix.
func (s *Section) SplitExisting(key string) (exist, missing []string, err error) {
	path, err := s.Expand(key)
	if err != nil {
		return nil, nil, err
	}

	parts := strings.Split(path, s.sep)
	top := s.Root()

	if parts[0] != top.name {
		return nil, nil, ErrInvalidPath.With(
			slog.String("path", path),
			slog.String("root", top.name),
		)
	}

	exist = append(exist, parts[0])
	cursor := top

	for i := 1; i < len(parts); i++ {
		child, ok := cursor.children[parts[i]]
		if !ok {
			return exist, parts[i:], nil
		}

		cursor = child

		exist = append(exist, parts[i])
	}

	return exist, nil, nil
}

// EnsurePath creates every section of key that does not already exist,
// one node per missing segment, each attached as a child of the previous.
// It returns the created nodes in order; calling it again with the same
// key creates nothing and returns an empty slice.
func (s *Section) EnsurePath(key string) ([]*Section, error) {
	exist, missing, err := s.SplitExisting(key)
	if err != nil {
		return nil, err
	}

	cursor := s.Root()

	for _, name := range exist[1:] {
		cursor = cursor.children[name]
	}

	created := make([]*Section, 0, len(missing))

	for _, name := range missing {
		if name == "" {
			continue
		}

		child := newSection(name, cursor, s.sep)
		cursor.children[name] = child
		cursor.order = append(cursor.order, name)
		cursor = child

		created = append(created, child)
	}

	return created, nil
}

// Ensure resolves key to a section, creating any missing ancestors, and
// returns the deepest node whether it was created or already existed.
func (s *Section) Ensure(key string) (*Section, error) {
	created, err := s.EnsurePath(key)
	if err != nil {
		return nil, err
	}

	if len(created) > 0 {
		return created[len(created)-1], nil
	}

	path, err := s.Expand(key)
	if err != nil {
		return nil, err
	}

	got, err := s.Resolve(path + s.sep)
	if err != nil {
		return nil, err
	}

	sec, ok := got.(*Section)
	if !ok {
		return nil, ErrInvalidPath.With(
			slog.String("path", path),
			slog.String("detail", "path names a value, not a section"),
		)
	}

	return sec, nil
}

// Set stores v under key. The key is normalized with [Section.Expand], so
// entries of other sections may be assigned through any section handle.
// Every intermediate section must already exist: assignment never creates
// ancestors, failing with [ErrMissingSubsection] instead.
func (s *Section) Set(key string, v value.Value) error {
	path, err := s.Expand(key)
	if err != nil {
		return err
	}

	parts := strings.Split(path, s.sep)

	top := s.Root()
	if parts[0] != top.name {
		return ErrInvalidPath.With(
			slog.String("path", path),
			slog.String("root", top.name),
		)
	}

	valkey := parts[len(parts)-1]
	cursor := top

	for _, name := range parts[1 : len(parts)-1] {
		child, ok := cursor.children[name]
		if !ok {
			return ErrMissingSubsection.With(
				slog.String("path", path),
				slog.String("missing", name),
			)
		}

		cursor = child
	}

	cursor.put(valkey, v)

	return nil
}

// put inserts or overwrites a content entry directly in s.
func (s *Section) put(key string, v value.Value) {
	if _, ok := s.content[key]; !ok {
		s.keys = append(s.keys, key)
	}

	s.content[key] = v
}
