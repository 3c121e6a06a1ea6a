package section

import (
	"github.com/ardnew/conifer/pkg"
)

// Lookup and mutation failures are reported as distinct kinds so callers
// can branch on cause with errors.Is. Query-time failures are recoverable
// by the caller; each carries the key text and, for ambiguity, every
// candidate's full path, so conflicts can be resolved without re-deriving
// the search.
var (
	// ErrKeyNotFound is returned when a key or path names nothing in the
	// tree.
	ErrKeyNotFound = pkg.NewError("key not found")

	// ErrAmbiguousKey is returned when a bare-key search matches more
	// than one entry and the direct-child preference cannot break the
	// tie. The attribute "candidates" lists every match's full path.
	ErrAmbiguousKey = pkg.NewError("ambiguous key")

	// ErrMissingSubsection is returned by Set when an intermediate
	// section of the target path does not exist. Assignment never
	// creates ancestors; use EnsurePath first.
	ErrMissingSubsection = pkg.NewError("missing subsection")

	// ErrInvalidPath is returned when a path does not start at this
	// tree's root, or normalization ascends past the root.
	ErrInvalidPath = pkg.NewError("invalid path")
)
