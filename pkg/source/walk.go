package source

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/matzehuels/modcheck/pkg/errors"
)

// Entry is one non-directory filesystem entry produced by [Root.Walk].
// Err is set when the entry could not be read.
type Entry struct {
	Path string
	Err  error
}

// Walk visits every non-directory entry under the root in lexical order,
// pruning entries whose base name is a skip folder. Entries that cannot be
// read are reported with Err set rather than stopping the walk.
// The walk stops with ctx.Err() once ctx is cancelled.
func (r Root) Walk(ctx context.Context, fn func(Entry)) error {
	return filepath.WalkDir(r.path, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			fn(Entry{Path: path, Err: errors.Wrap(errors.ErrCodeWalk, err, "walk %s", path)})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path != r.path && r.skipped(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		fn(Entry{Path: path})
		return nil
	})
}
