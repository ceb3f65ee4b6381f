package rules

import (
	"context"
	"time"

	"github.com/matzehuels/modcheck/pkg/graph"
	"github.com/matzehuels/modcheck/pkg/observability"
	"github.com/matzehuels/modcheck/pkg/source"
)

// Result holds the violations of one rule.
type Result struct {
	Rule       Rule          `json:"rule" yaml:"rule"`
	Violations []Violation   `json:"violations" yaml:"violations"`
	Duration   time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// Total counts the violations across results.
func Total(results []Result) int {
	n := 0
	for _, r := range results {
		n += len(r.Violations)
	}
	return n
}

// Runner evaluates rules against a freshly built graph.
type Runner struct {
	Builder *graph.Builder
}

// Run builds the graphs once and evaluates selected in order.
// A nil selection runs every rule. Build failures abort the run before any
// rule is evaluated.
func (r *Runner) Run(ctx context.Context, selected []Rule) ([]Result, graph.Stats, error) {
	if len(selected) == 0 {
		selected = All()
	}
	level := graph.LevelFile
	for _, rule := range selected {
		if rule.NeedsModules() {
			level = graph.LevelModule
		}
	}

	analyses, stats, err := r.Builder.Analyze(ctx, level)
	if err != nil {
		return nil, stats, err
	}
	files := graph.FileGraphOf(analyses)

	results := make([]Result, 0, len(selected))
	for _, rule := range selected {
		start := time.Now()
		observability.Validation().OnValidateStart(ctx, string(rule))

		var vs []Violation
		switch rule {
		case CircularModules:
			var modules *graph.EdgeSet[source.Module, source.Module]
			modules, err = graph.ModuleGraphOf(r.Builder.Root.Path(), analyses)
			if err == nil {
				vs = CheckCircularModules(modules)
			}
		case CircularFiles:
			vs = CheckCircularFiles(files)
		case ExternalBarrelImports:
			vs = CheckExternalBarrelImports(files)
		case BarrelImportsBarrel:
			vs = CheckBarrelImportsBarrel(files)
		}

		if vs == nil {
			vs = []Violation{}
		}
		d := time.Since(start)
		observability.Validation().OnValidateComplete(ctx, string(rule), len(vs), d, err)
		if err != nil {
			return nil, stats, err
		}
		results = append(results, Result{Rule: rule, Violations: vs, Duration: d})
	}
	return results, stats, nil
}
