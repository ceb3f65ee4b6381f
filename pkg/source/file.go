package source

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/modcheck/pkg/errors"
)

// File is a source file under a [Root].
// Copies share memoized fields, so copying a File is cheap.
type File struct {
	path   string
	root   Root
	module func() (Module, error)
}

// NewFile validates that path is a regular file with the root's source
// extension and returns its canonical form.
// Entries that are not source files fail with NOT_SOURCE_FILE; a failure to
// canonicalize an otherwise valid file fails with FILE_READ.
func NewFile(root Root, path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || filepath.Ext(path) != root.layout.Extension {
		return File{}, errors.New(errors.ErrCodeNotSourceFile, "not a source file: %s", path)
	}
	canonical, err := Canonicalize(path)
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeFileRead, err, "canonicalize %s", path)
	}

	f := File{path: canonical, root: root}
	f.module = sync.OnceValues(func() (Module, error) {
		child, err := root.Classify(canonical)
		if err != nil {
			return "", err
		}
		return child.Module()
	})
	return f, nil
}

// Path returns the canonical absolute path.
func (f File) Path() string { return f.path }

// String implements fmt.Stringer.
func (f File) String() string { return f.path }

// Dir returns the file's parent directory.
func (f File) Dir() string { return filepath.Dir(f.path) }

// Root returns the root the file was discovered under.
func (f File) Root() Root { return f.root }

// Child classifies the file relative to its root.
func (f File) Child() (ChildPath, error) {
	return f.root.Classify(f.path)
}

// Module returns the module owning the file. The result is computed once
// and shared by all copies of f; concurrent callers observe the same value.
func (f File) Module() (Module, error) {
	if f.module == nil {
		return "", errors.New(errors.ErrCodeInternal, "file %q was not created with NewFile", f.path)
	}
	return f.module()
}

// Lines calls fn for each line of the file.
// Read failures are reported as FILE_READ errors.
func (f File) Lines(fn func(n int, line string)) error {
	fh, err := os.Open(f.path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileRead, err, "open %s", f.path)
	}
	defer fh.Close()

	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		fn(n, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeFileRead, err, "read %s", f.path)
	}
	return nil
}
