package graph

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/modcheck/pkg/errors"
	"github.com/matzehuels/modcheck/pkg/imports"
	"github.com/matzehuels/modcheck/pkg/observability"
	"github.com/matzehuels/modcheck/pkg/source"
)

// Stats summarizes a build.
type Stats struct {
	FilesSeen          int64 `json:"files_seen" yaml:"files_seen"`
	FilesAnalyzed      int64 `json:"files_analyzed" yaml:"files_analyzed"`
	FilesSkipped       int64 `json:"files_skipped" yaml:"files_skipped"`
	ImportsResolved    int64 `json:"imports_resolved" yaml:"imports_resolved"`
	ExternalImports    int64 `json:"external_imports" yaml:"external_imports"`
	CrossModuleImports int64 `json:"cross_module_imports" yaml:"cross_module_imports"`
}

type counters struct {
	seen, analyzed, skipped, resolved, external, crossModule atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		FilesSeen:          c.seen.Load(),
		FilesAnalyzed:      c.analyzed.Load(),
		FilesSkipped:       c.skipped.Load(),
		ImportsResolved:    c.resolved.Load(),
		ExternalImports:    c.external.Load(),
		CrossModuleImports: c.crossModule.Load(),
	}
}

// BuildError aggregates every per-file failure of a build.
type BuildError struct {
	Root     string
	Failures []error
}

func (e *BuildError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d file(s) failed analysis under %s", len(e.Failures), e.Root)
	for _, f := range e.Failures {
		sb.WriteString("\n  - ")
		sb.WriteString(f.Error())
	}
	return sb.String()
}

// Unwrap returns the coded INVALID_FILES error followed by every failure.
func (e *BuildError) Unwrap() []error {
	return append([]error{errors.New(errors.ErrCodeInvalidFiles, "%d invalid file(s)", len(e.Failures))}, e.Failures...)
}

func newBuildError(root string, failures []error) error {
	if len(failures) == 0 {
		return nil
	}
	slices.SortFunc(failures, func(a, b error) int { return strings.Compare(a.Error(), b.Error()) })
	return &BuildError{Root: root, Failures: failures}
}

// Builder derives graphs from a root. Each call re-scans the tree.
type Builder struct {
	Root     source.Root
	Mappings imports.Mappings
	Workers  int         // pool size; <= 0 means runtime.NumCPU()
	Logger   *log.Logger // nil means log.Default()
}

func (b *Builder) logger() *log.Logger {
	if b.Logger == nil {
		return log.Default()
	}
	return b.Logger
}

func (b *Builder) workers() int {
	if b.Workers <= 0 {
		return runtime.NumCPU()
	}
	return b.Workers
}

// Analyze walks the root and analyzes every source file on the worker pool.
// For the module level, a file whose edges cannot be mapped to modules is
// a failure too. Analyses are returned sorted by child path.
func (b *Builder) Analyze(ctx context.Context, level string) ([]*Analysis, Stats, error) {
	observability.Analysis().OnWalkStart(ctx, b.Root.Path())
	return b.run(ctx, level, func(ctx context.Context, bs *build) error {
		return b.Root.Walk(ctx, func(e source.Entry) {
			bs.submit(func() error { return bs.entry(e) })
		})
	})
}

// AnalyzeFiles is [Builder.Analyze] over the given files instead of a walk.
func (b *Builder) AnalyzeFiles(ctx context.Context, level string, files []source.File) ([]*Analysis, Stats, error) {
	return b.run(ctx, level, func(ctx context.Context, bs *build) error {
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			bs.counters.seen.Add(1)
			bs.submit(func() error { return bs.file(f) })
		}
		return nil
	})
}

func (b *Builder) run(ctx context.Context, level string, produce func(context.Context, *build) error) ([]*Analysis, Stats, error) {
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.workers())
	bs := &build{Builder: b, ctx: gctx, eg: eg, level: level}

	produceErr := produce(gctx, bs)
	if err := eg.Wait(); err != nil {
		return nil, Stats{}, err
	}
	if produceErr != nil {
		return nil, Stats{}, produceErr
	}

	stats := bs.counters.snapshot()
	if err := newBuildError(b.Root.Path(), bs.failures); err != nil {
		return nil, stats, err
	}
	slices.SortFunc(bs.results, func(x, y *Analysis) int {
		return strings.Compare(x.Child.String(), y.Child.String())
	})
	return bs.results, stats, nil
}

// build is the state of one run. Tasks never return errors to the group;
// failures are collected so every file is reported.
type build struct {
	*Builder
	ctx   context.Context
	eg    *errgroup.Group
	level string

	mu       sync.Mutex
	results  []*Analysis
	failures []error
	counters counters
}

func (bs *build) submit(task func() error) {
	bs.eg.Go(func() error {
		select {
		case <-bs.ctx.Done():
			return bs.ctx.Err()
		default:
		}
		if err := task(); err != nil {
			bs.mu.Lock()
			bs.failures = append(bs.failures, err)
			bs.mu.Unlock()
		}
		return nil
	})
}

func (bs *build) entry(e source.Entry) error {
	bs.counters.seen.Add(1)
	if e.Err != nil {
		return e.Err
	}
	f, err := source.NewFile(bs.Root, e.Path)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotSourceFile) {
			bs.counters.skipped.Add(1)
			return nil
		}
		return err
	}
	return bs.file(f)
}

func (bs *build) file(f source.File) error {
	a, err := Analyze(f, bs.Mappings, bs.logger())
	if err == nil {
		foreign, ferr := a.ForeignEdges()
		switch {
		case ferr == nil:
			bs.counters.crossModule.Add(int64(foreign.Len()))
		case bs.level != LevelFile:
			err = ferr
		}
	}

	var edges int
	if a != nil {
		edges = a.Edges.Len()
	}
	observability.Analysis().OnFileAnalyzed(bs.ctx, f.Path(), edges, err)
	if err != nil {
		bs.logger().Debug("file failed", "file", f.Path(), "error", err)
		return err
	}

	bs.counters.analyzed.Add(1)
	bs.counters.resolved.Add(int64(a.Imports))
	bs.counters.external.Add(int64(a.External))
	bs.mu.Lock()
	bs.results = append(bs.results, a)
	bs.mu.Unlock()
	return nil
}

// FileGraph returns the union of every file's edges.
func (b *Builder) FileGraph(ctx context.Context) (*EdgeSet[source.ChildPath, source.ChildPath], Stats, error) {
	start := time.Now()
	analyses, stats, err := b.Analyze(ctx, LevelFile)
	if err != nil {
		b.complete(ctx, LevelFile, 0, start, err)
		return nil, stats, err
	}
	out := FileGraphOf(analyses)
	b.complete(ctx, LevelFile, out.Len(), start, nil)
	return out, stats, nil
}

// ModuleGraph returns the module-level graph. Edges inside one module are
// dropped.
func (b *Builder) ModuleGraph(ctx context.Context) (*EdgeSet[source.Module, source.Module], Stats, error) {
	start := time.Now()
	analyses, stats, err := b.Analyze(ctx, LevelModule)
	if err != nil {
		b.complete(ctx, LevelModule, 0, start, err)
		return nil, stats, err
	}
	out, err := ModuleGraphOf(b.Root.Path(), analyses)
	if err != nil {
		b.complete(ctx, LevelModule, 0, start, err)
		return nil, stats, err
	}
	b.complete(ctx, LevelModule, out.Len(), start, nil)
	return out, stats, nil
}

// ForeignGraph returns the edges from files into modules other than their own.
func (b *Builder) ForeignGraph(ctx context.Context) (*EdgeSet[source.ChildPath, source.Module], Stats, error) {
	analyses, stats, err := b.Analyze(ctx, LevelModule)
	if err != nil {
		return nil, stats, err
	}
	out, err := ForeignGraphOf(b.Root.Path(), analyses)
	return out, stats, err
}

func (b *Builder) complete(ctx context.Context, level string, edges int, start time.Time, err error) {
	observability.Analysis().OnBuildComplete(ctx, b.Root.Path(), level, edges, time.Since(start), err)
}

// FileGraphOf unions the file-level edges of analyses.
func FileGraphOf(analyses []*Analysis) *EdgeSet[source.ChildPath, source.ChildPath] {
	out := NewEdgeSet[source.ChildPath, source.ChildPath]()
	for _, a := range analyses {
		out.Merge(a.Edges)
	}
	return out
}

// ModuleGraphOf unions the module-level edges of analyses.
// Files whose edges cannot be mapped to modules fail the whole graph.
func ModuleGraphOf(root string, analyses []*Analysis) (*EdgeSet[source.Module, source.Module], error) {
	out := NewEdgeSet[source.Module, source.Module]()
	var failures []error
	for _, a := range analyses {
		edges, err := a.ModuleEdges()
		if err != nil {
			failures = append(failures, err)
			continue
		}
		out.Merge(edges)
	}
	if err := newBuildError(root, failures); err != nil {
		return nil, err
	}
	return out, nil
}

// ForeignGraphOf unions the file-to-foreign-module edges of analyses.
func ForeignGraphOf(root string, analyses []*Analysis) (*EdgeSet[source.ChildPath, source.Module], error) {
	out := NewEdgeSet[source.ChildPath, source.Module]()
	var failures []error
	for _, a := range analyses {
		edges, err := a.ForeignEdges()
		if err != nil {
			failures = append(failures, err)
			continue
		}
		out.Merge(edges)
	}
	if err := newBuildError(root, failures); err != nil {
		return nil, err
	}
	return out, nil
}
