package rules

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modcheck/pkg/errors"
	"github.com/matzehuels/modcheck/pkg/graph"
	"github.com/matzehuels/modcheck/pkg/source"
)

func newRoot(t *testing.T) source.Root {
	t.Helper()
	r, err := source.NewRoot(t.TempDir())
	if err != nil {
		t.Fatalf("NewRoot() error: %v", err)
	}
	return r
}

func child(t *testing.T, r source.Root, rel string) source.ChildPath {
	t.Helper()
	c, err := r.Classify(filepath.Join(r.Path(), filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("Classify(%q) error: %v", rel, err)
	}
	return c
}

func fileGraph(t *testing.T, r source.Root, pairs ...[2]string) *graph.EdgeSet[source.ChildPath, source.ChildPath] {
	t.Helper()
	s := graph.NewEdgeSet[source.ChildPath, source.ChildPath]()
	for _, p := range pairs {
		s.Add(graph.FileEdge{From: child(t, r, p[0]), To: child(t, r, p[1])})
	}
	return s
}

func messages(vs []Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Message
	}
	return out
}

func TestParseRules(t *testing.T) {
	got, err := ParseRules(nil)
	if err != nil || !slices.Equal(got, All()) {
		t.Errorf("ParseRules(nil) = %v, %v, want all", got, err)
	}

	got, err = ParseRules([]string{"barrel-imports-barrel", "circular-modules", "circular-modules"})
	if err != nil {
		t.Fatalf("ParseRules() error: %v", err)
	}
	if want := []Rule{CircularModules, BarrelImportsBarrel}; !slices.Equal(got, want) {
		t.Errorf("ParseRules() = %v, want %v", got, want)
	}

	_, err = ParseRules([]string{"nope", "circular-files", "also-nope"})
	if !errors.Is(err, errors.ErrCodeInvalidRule) {
		t.Fatalf("ParseRules() error = %v, want %s", err, errors.ErrCodeInvalidRule)
	}
}

func TestCheckExternalBarrelImports(t *testing.T) {
	r := newRoot(t)
	tests := []struct {
		name string
		edge [2]string
		want []string
	}{
		{"cross-module to leaf", [2]string{"B/index.ts", "A/util.ts"}, []string{"External import does not use a barrel file: B/index.ts > A/util.ts"}},
		{"cross-module to barrel", [2]string{"B/index.ts", "A/index.ts"}, nil},
		{"cross-module to testing barrel", [2]string{"B/x.ts", "A/testing.ts"}, nil},
		{"same module leaf", [2]string{"A/index.ts", "A/util.ts"}, nil},
		{"nested leaf in other module", [2]string{"B/x.ts", "A/deep/index.ts"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := messages(CheckExternalBarrelImports(fileGraph(t, r, tt.edge)))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("CheckExternalBarrelImports() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckBarrelImportsBarrel(t *testing.T) {
	r := newRoot(t)
	g := fileGraph(t, r,
		[2]string{"A/index.ts", "B/index.ts"},
		[2]string{"A/index.ts", "A/testing.ts"},
		[2]string{"A/index.ts", "A/util.ts"},
		[2]string{"A/util.ts", "B/index.ts"},
	)
	want := []string{
		"Barrel file imports another barrel file: A/index.ts > A/testing.ts",
		"Barrel file imports another barrel file: A/index.ts > B/index.ts",
	}
	if got := messages(CheckBarrelImportsBarrel(g)); !slices.Equal(got, want) {
		t.Errorf("CheckBarrelImportsBarrel() = %v, want %v", got, want)
	}
}

func TestCheckCircular(t *testing.T) {
	r := newRoot(t)
	files := fileGraph(t, r,
		[2]string{"a/x.ts", "b/y.ts"},
		[2]string{"b/y.ts", "a/x.ts"},
		[2]string{"c/z.ts", "c/z.ts"},
	)
	want := []string{
		"Circular dependency: a/x.ts > b/y.ts > a/x.ts",
		"Circular dependency: c/z.ts > c/z.ts",
	}
	vs := CheckCircularFiles(files)
	if got := messages(vs); !slices.Equal(got, want) {
		t.Errorf("CheckCircularFiles() = %v, want %v", got, want)
	}
	if vs[0].Chain == nil || vs[0].Rule != CircularFiles {
		t.Errorf("violation = %+v, want chain and rule", vs[0])
	}

	modules := graph.NewEdgeSet(
		graph.ModuleEdge{From: "b", To: "c"},
		graph.ModuleEdge{From: "c", To: "a"},
		graph.ModuleEdge{From: "a", To: "b"},
	)
	if got, want := messages(CheckCircularModules(modules)), []string{"Circular dependency: a > b > c > a"}; !slices.Equal(got, want) {
		t.Errorf("CheckCircularModules() = %v, want %v", got, want)
	}
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestRunner(t *testing.T) {
	r := newRoot(t)
	dir := r.Path()
	// a and b import each other through b's leaf; b's barrel re-exports a's barrel.
	write(t, dir, "a/index.ts", "import { Y } from '../b/y';\n")
	write(t, dir, "b/y.ts", "import { A } from '../a';\n")
	write(t, dir, "b/index.ts", "import { A } from '../a/index';\n")

	runner := &Runner{Builder: &graph.Builder{Root: r, Workers: 2, Logger: log.New(io.Discard)}}
	results, stats, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stats.FilesAnalyzed != 3 {
		t.Errorf("FilesAnalyzed = %d, want 3", stats.FilesAnalyzed)
	}

	want := map[Rule][]string{
		CircularModules: {"Circular dependency: a > b > a"},
		CircularFiles:   {"Circular dependency: a/index.ts > b/y.ts > a/index.ts"},
		ExternalBarrelImports: {
			"External import does not use a barrel file: a/index.ts > b/y.ts",
		},
		BarrelImportsBarrel: {"Barrel file imports another barrel file: b/index.ts > a/index.ts"},
	}
	if len(results) != 4 {
		t.Fatalf("Run() returned %d results, want 4", len(results))
	}
	for _, res := range results {
		if got := messages(res.Violations); !slices.Equal(got, want[res.Rule]) {
			t.Errorf("%s = %v, want %v", res.Rule, got, want[res.Rule])
		}
	}
	if got := Total(results); got != 4 {
		t.Errorf("Total() = %d, want 4", got)
	}
}

func TestRunner_BuildFailure(t *testing.T) {
	r := newRoot(t)
	write(t, r.Path(), "a/x.ts", "import { R } from '..';\n")

	runner := &Runner{Builder: &graph.Builder{Root: r, Logger: log.New(io.Discard)}}
	if _, _, err := runner.Run(context.Background(), []Rule{CircularModules}); !errors.Is(err, errors.ErrCodeInvalidFiles) {
		t.Errorf("Run(circular-modules) error = %v, want %s", err, errors.ErrCodeInvalidFiles)
	}
	// File-level rules do not need modules.
	if _, _, err := runner.Run(context.Background(), []Rule{BarrelImportsBarrel}); err != nil {
		t.Errorf("Run(barrel-imports-barrel) error = %v, want nil", err)
	}
}
