package source

import (
	"strings"

	"github.com/matzehuels/modcheck/pkg/errors"
)

// Module is the first path segment of a [ChildPath]: the top-level directory
// grouping a set of files.
type Module string

// String implements fmt.Stringer.
func (m Module) String() string { return string(m) }

// ChildPath is a path relative to a [Root], rendered with forward slashes.
// Two child paths are the same node iff their renderings are equal.
type ChildPath struct {
	rel    string
	barrel bool
}

// String implements fmt.Stringer.
func (c ChildPath) String() string { return c.rel }

// IsBarrel reports whether the path names a barrel (re-export) file.
func (c ChildPath) IsBarrel() bool { return c.barrel }

// Module returns the first path segment.
// It fails with INVALID_MODULE if the path has no segments or the first
// segment is not a plain name.
func (c ChildPath) Module() (Module, error) {
	if c.rel == "" {
		return "", errors.New(errors.ErrCodeInvalidModule, "path has no segments")
	}
	first, _, _ := strings.Cut(c.rel, "/")
	switch first {
	case "", ".", "..":
		return "", errors.New(errors.ErrCodeInvalidModule, "invalid first segment %q in %s", first, c.rel)
	}
	return Module(first), nil
}
