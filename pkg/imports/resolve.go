package imports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modcheck/pkg/errors"
	"github.com/matzehuels/modcheck/pkg/source"
)

// UnresolvedError reports an import literal that matched no file on disk.
type UnresolvedError struct {
	Literal   string // literal as written (after alias rewriting)
	Candidate string // last path tried
	err       *errors.Error
}

// Error implements the error interface.
func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("cannot find file for import %q (tried %s)", e.Literal, e.Candidate)
}

// Unwrap exposes the coded error so errors.Is(err, ErrCodeUnresolvedImport) holds.
func (e *UnresolvedError) Unwrap() error { return e.err }

// Resolve maps literal, relative to the directory base, to a canonical
// absolute path using the layout's extensionless resolution rules.
func Resolve(literal, base string, layout source.Layout) (string, error) {
	candidate := candidateFor(filepath.Join(base, filepath.FromSlash(literal)), literal, layout)
	canonical, err := source.Canonicalize(candidate)
	if err != nil {
		return "", &UnresolvedError{
			Literal:   literal,
			Candidate: candidate,
			err:       errors.Wrap(errors.ErrCodeUnresolvedImport, err, "resolve %s", literal),
		}
	}
	return canonical, nil
}

func candidateFor(joined, literal string, layout source.Layout) string {
	if strings.HasSuffix(literal, layout.Extension) {
		return joined
	}
	for _, c := range []string{
		joined + layout.Extension,
		joined + layout.DeclarationExtension,
		filepath.Join(joined, "index"+layout.Extension),
	} {
		if exists(c) {
			return c
		}
	}
	return joined
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Target is a resolved import of a file.
type Target struct {
	Path    string // canonical absolute path
	Literal string
	Line    int
}

// ResolveFile reads f, extracts its imports and resolves each of them.
// Unresolved imports are logged at warn level and skipped. A read failure
// is returned as a FILE_READ error.
// Every literal, aliased or not, resolves against the file's directory.
func ResolveFile(f source.File, mappings Mappings, logger *log.Logger) ([]Target, error) {
	if logger == nil {
		logger = log.Default()
	}

	var stmts []Statement
	err := f.Lines(func(n int, line string) {
		if st, ok := ParseLine(line, mappings); ok {
			st.Line = n
			stmts = append(stmts, st)
		}
	})
	if err != nil {
		return nil, err
	}

	root := f.Root()
	targets := make([]Target, 0, len(stmts))
	for _, st := range stmts {
		path, err := Resolve(st.Literal, f.Dir(), root.Layout())
		if err != nil {
			logger.Warn("unresolved import", "file", f.Path(), "import", st.Literal, "line", st.Line)
			continue
		}
		targets = append(targets, Target{Path: path, Literal: st.Literal, Line: st.Line})
	}
	return targets, nil
}
