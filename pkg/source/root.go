package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/modcheck/pkg/errors"
)

const (
	defaultExtension            = ".ts"
	defaultDeclarationExtension = ".d.ts"
)

// Layout describes the file naming conventions of an analyzed tree.
type Layout struct {
	Extension            string   // source file extension, e.g. ".ts"
	DeclarationExtension string   // declaration-only extension, e.g. ".d.ts"
	BarrelNames          []string // base names (without extension) of barrel files
}

// DefaultLayout returns the TypeScript layout: ".ts" sources, ".d.ts"
// declarations and "index"/"testing" barrels.
func DefaultLayout() Layout {
	return Layout{
		Extension:            defaultExtension,
		DeclarationExtension: defaultDeclarationExtension,
		BarrelNames:          []string{"index", "testing"},
	}
}

// IsBarrel reports whether a file base name is one of the layout's barrel files.
func (l Layout) IsBarrel(base string) bool {
	for _, name := range l.BarrelNames {
		if base == name+l.Extension {
			return true
		}
	}
	return false
}

// Root is the canonicalized directory an analysis runs against.
// The zero value is not usable; create roots with [NewRoot].
type Root struct {
	path   string
	skip   []string
	layout Layout
}

// Option configures a Root.
type Option func(*Root)

// WithSkip sets the folder names pruned during traversal.
func WithSkip(folders ...string) Option {
	return func(r *Root) { r.skip = slices.Clone(folders) }
}

// WithLayout overrides [DefaultLayout]. Empty fields keep their defaults.
func WithLayout(l Layout) Option {
	return func(r *Root) {
		if l.Extension != "" {
			r.layout.Extension = l.Extension
		}
		if l.DeclarationExtension != "" {
			r.layout.DeclarationExtension = l.DeclarationExtension
		}
		if len(l.BarrelNames) > 0 {
			r.layout.BarrelNames = slices.Clone(l.BarrelNames)
		}
	}
}

// NewRoot canonicalizes path and returns it as a Root.
// It fails with INVALID_ROOT if the path does not exist, is not a directory,
// or cannot be canonicalized.
func NewRoot(path string, opts ...Option) (Root, error) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return Root{}, errors.Wrap(errors.ErrCodeInvalidRoot, err, "cannot canonicalize %q", path)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return Root{}, errors.Wrap(errors.ErrCodeInvalidRoot, err, "cannot stat %q", path)
	}
	if !info.IsDir() {
		return Root{}, errors.New(errors.ErrCodeInvalidRoot, "%q is not a directory", path)
	}

	r := Root{path: canonical, layout: DefaultLayout()}
	for _, opt := range opts {
		opt(&r)
	}
	return r, nil
}

// Path returns the canonical absolute path of the root.
func (r Root) Path() string { return r.path }

// String implements fmt.Stringer.
func (r Root) String() string { return r.path }

// Layout returns the naming conventions of the tree.
func (r Root) Layout() Layout { return r.layout }

// Skip returns the folder names pruned during traversal.
func (r Root) Skip() []string { return slices.Clone(r.skip) }

func (r Root) skipped(name string) bool {
	return slices.Contains(r.skip, name)
}

// Classify makes abs relative to the root.
// It returns an [*OutsideRootError] when abs does not lie under the root.
func (r Root) Classify(abs string) (ChildPath, error) {
	rel, err := filepath.Rel(r.path, abs)
	if err != nil || !filepath.IsAbs(abs) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ChildPath{}, newOutsideRootError(abs, r.path)
	}
	rel = filepath.ToSlash(rel)
	return ChildPath{rel: rel, barrel: r.layout.IsBarrel(filepath.Base(rel))}, nil
}

// Resolve joins a child path back onto the root.
// For any file under the root, Resolve(Classify(abs)) == abs.
func (r Root) Resolve(c ChildPath) string {
	return filepath.Join(r.path, filepath.FromSlash(c.rel))
}

// Canonicalize returns the absolute, symlink-free form of path.
// It fails if the path does not exist.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// OutsideRootError reports a path that does not lie under the analyzed root.
// It is an expected outcome for imports of external packages.
type OutsideRootError struct {
	Path string
	Root string
	err  *errors.Error
}

func newOutsideRootError(path, root string) *OutsideRootError {
	return &OutsideRootError{
		Path: path,
		Root: root,
		err:  errors.New(errors.ErrCodeOutsideRoot, "%s is outside %s", path, root),
	}
}

// Error implements the error interface.
func (e *OutsideRootError) Error() string {
	return fmt.Sprintf("import outside root: %s", e.Path)
}

// Unwrap exposes the coded error so errors.Is(err, ErrCodeOutsideRoot) holds.
func (e *OutsideRootError) Unwrap() error { return e.err }
