package graph

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modcheck/pkg/errors"
	"github.com/matzehuels/modcheck/pkg/imports"
	"github.com/matzehuels/modcheck/pkg/source"
)

// FileError collects the failures found while analyzing one file.
type FileError struct {
	File   string
	Causes []error
}

func (e *FileError) Error() string {
	msgs := make([]string, len(e.Causes))
	for i, c := range e.Causes {
		msgs[i] = c.Error()
	}
	return fmt.Sprintf("invalid imports in %s: %s", e.File, strings.Join(msgs, "; "))
}

// Unwrap returns the coded INVALID_IMPORTS error followed by every cause.
func (e *FileError) Unwrap() []error {
	return append([]error{errors.New(errors.ErrCodeInvalidImports, "%d invalid import(s) in %s", len(e.Causes), e.File)}, e.Causes...)
}

// Analysis is the per-file result every graph level is derived from.
type Analysis struct {
	File     source.File
	Child    source.ChildPath
	Edges    *EdgeSet[source.ChildPath, source.ChildPath]
	Imports  int // resolved imports, before deduplication
	External int // resolved imports that left the root
}

// Analyze resolves f's imports into file-level edges.
// Failing to classify f itself is returned as is; targets outside the root
// are dropped; any other target failure is collected into a [*FileError].
func Analyze(f source.File, mappings imports.Mappings, logger *log.Logger) (*Analysis, error) {
	from, err := f.Child()
	if err != nil {
		return nil, err
	}
	targets, err := imports.ResolveFile(f, mappings, logger)
	if err != nil {
		return nil, err
	}

	a := &Analysis{File: f, Child: from, Edges: NewEdgeSet[source.ChildPath, source.ChildPath]()}
	var causes []error
	for _, t := range targets {
		to, err := f.Root().Classify(t.Path)
		if err != nil {
			var outside *source.OutsideRootError
			if stderrors.As(err, &outside) {
				a.External++
				continue
			}
			causes = append(causes, err)
			continue
		}
		a.Imports++
		a.Edges.Add(FileEdge{From: from, To: to})
	}
	if len(causes) > 0 {
		return nil, &FileError{File: f.Path(), Causes: causes}
	}
	return a, nil
}

// FileEdges resolves f's imports into file-level edges.
func FileEdges(f source.File, mappings imports.Mappings, logger *log.Logger) (*EdgeSet[source.ChildPath, source.ChildPath], error) {
	a, err := Analyze(f, mappings, logger)
	if err != nil {
		return nil, err
	}
	return a.Edges, nil
}

// ModuleEdges maps the file-level edges through their modules and drops
// internal edges.
func (a *Analysis) ModuleEdges() (*EdgeSet[source.Module, source.Module], error) {
	out := NewEdgeSet[source.Module, source.Module]()
	err := a.eachForeign(func(_ source.ChildPath, from, to source.Module) {
		out.Add(ModuleEdge{From: from, To: to})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ForeignEdges returns the edges from this file into other modules.
func (a *Analysis) ForeignEdges() (*EdgeSet[source.ChildPath, source.Module], error) {
	out := NewEdgeSet[source.ChildPath, source.Module]()
	err := a.eachForeign(func(child source.ChildPath, _, to source.Module) {
		out.Add(ForeignEdge{From: child, To: to})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Analysis) eachForeign(fn func(child source.ChildPath, from, to source.Module)) error {
	from, err := a.File.Module()
	if err != nil {
		return err
	}
	var causes []error
	for _, e := range a.Edges.Sorted() {
		to, err := e.To.Module()
		if err != nil {
			causes = append(causes, err)
			continue
		}
		if from == to {
			continue
		}
		fn(a.Child, from, to)
	}
	if len(causes) > 0 {
		return &FileError{File: a.File.Path(), Causes: causes}
	}
	return nil
}
