// Package rules implements the module-boundary checks run by validate.
//
// Four rules are available:
//
//   - circular-modules: cycles in the module graph
//   - circular-files: cycles in the file graph
//   - external-barrel-imports: an import crossing modules must target a barrel
//   - barrel-imports-barrel: a barrel must not import another barrel
//
// Each check is a pure function over a graph and never stops at the first
// violation. [Runner] builds the graphs a selection needs once and evaluates
// every selected rule against them.
package rules

import (
	stderrors "errors"
	"slices"
	"strings"

	"github.com/matzehuels/modcheck/pkg/errors"
	"github.com/matzehuels/modcheck/pkg/graph"
	"github.com/matzehuels/modcheck/pkg/graph/cycles"
	"github.com/matzehuels/modcheck/pkg/source"
)

// Rule names a check.
type Rule string

const (
	CircularModules       Rule = "circular-modules"
	CircularFiles         Rule = "circular-files"
	ExternalBarrelImports Rule = "external-barrel-imports"
	BarrelImportsBarrel   Rule = "barrel-imports-barrel"
)

// All returns every rule in execution order.
func All() []Rule {
	return []Rule{CircularModules, CircularFiles, ExternalBarrelImports, BarrelImportsBarrel}
}

// Title is the heading printed before a rule's violations.
func (r Rule) Title() string {
	switch r {
	case CircularModules:
		return "circular module validation"
	case CircularFiles:
		return "circular file validation"
	case ExternalBarrelImports:
		return "external barrel import validation"
	case BarrelImportsBarrel:
		return "barrel imports barrel validation"
	}
	return string(r)
}

// NeedsModules reports whether evaluating r requires every file's module.
func (r Rule) NeedsModules() bool {
	return r == CircularModules || r == ExternalBarrelImports
}

// ParseRule validates a rule name.
func ParseRule(s string) (Rule, error) {
	r := Rule(strings.TrimSpace(s))
	if !slices.Contains(All(), r) {
		return "", errors.New(errors.ErrCodeInvalidRule, "unknown rule %q (valid: %s)", s, strings.Join(names(), ", "))
	}
	return r, nil
}

// ParseRules validates every name and reports all unknown ones at once.
// An empty selection selects every rule. The result is deduplicated and in
// [All] order.
func ParseRules(names []string) ([]Rule, error) {
	if len(names) == 0 {
		return All(), nil
	}
	selected := make(map[Rule]bool, len(names))
	var errs []error
	for _, n := range names {
		r, err := ParseRule(n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		selected[r] = true
	}
	if len(errs) > 0 {
		return nil, errors.Wrap(errors.ErrCodeInvalidRule, stderrors.Join(errs...), "%d unknown rule(s)", len(errs))
	}
	var out []Rule
	for _, r := range All() {
		if selected[r] {
			out = append(out, r)
		}
	}
	return out, nil
}

func names() []string {
	out := make([]string, 0, 4)
	for _, r := range All() {
		out = append(out, string(r))
	}
	return out
}

// Violation is one rule failure.
type Violation struct {
	Rule    Rule            `json:"rule" yaml:"rule"`
	Message string          `json:"message" yaml:"message"`
	Chain   *cycles.Chain   `json:"chain,omitempty" yaml:"chain,omitempty"`
	Edge    *graph.EdgeJSON `json:"edge,omitempty" yaml:"edge,omitempty"`
}

// String returns the message.
func (v Violation) String() string { return v.Message }

func cycleViolation(rule Rule, c cycles.Chain) Violation {
	return Violation{Rule: rule, Message: "Circular dependency: " + c.String(), Chain: &c}
}

func edgeViolation(rule Rule, prefix string, e graph.FileEdge) Violation {
	k := e.Key()
	return Violation{Rule: rule, Message: prefix + e.String(), Edge: &graph.EdgeJSON{From: k.From, To: k.To}}
}

func sortViolations(vs []Violation) []Violation {
	slices.SortFunc(vs, func(a, b Violation) int { return strings.Compare(a.Message, b.Message) })
	return vs
}

// CheckCircularModules reports every cycle in the module graph.
func CheckCircularModules(modules *graph.EdgeSet[source.Module, source.Module]) []Violation {
	return checkCycles(CircularModules, modules.GroupByFrom())
}

// CheckCircularFiles reports every cycle in the file graph.
func CheckCircularFiles(files *graph.EdgeSet[source.ChildPath, source.ChildPath]) []Violation {
	return checkCycles(CircularFiles, files.GroupByFrom())
}

func checkCycles(rule Rule, adj map[string][]string) []Violation {
	var out []Violation
	for _, c := range cycles.Find(adj) {
		out = append(out, cycleViolation(rule, c))
	}
	return sortViolations(out)
}

// CheckExternalBarrelImports reports file edges that cross modules without
// targeting a barrel. Edges whose modules cannot be determined are not
// considered crossing; the module-level build reports them.
func CheckExternalBarrelImports(files *graph.EdgeSet[source.ChildPath, source.ChildPath]) []Violation {
	var out []Violation
	for _, e := range files.Edges() {
		if crossesModules(e) && !e.To.IsBarrel() {
			out = append(out, edgeViolation(ExternalBarrelImports, "External import does not use a barrel file: ", e))
		}
	}
	return sortViolations(out)
}

// CheckBarrelImportsBarrel reports file edges between two barrels,
// regardless of module.
func CheckBarrelImportsBarrel(files *graph.EdgeSet[source.ChildPath, source.ChildPath]) []Violation {
	var out []Violation
	for _, e := range files.Edges() {
		if e.From.IsBarrel() && e.To.IsBarrel() {
			out = append(out, edgeViolation(BarrelImportsBarrel, "Barrel file imports another barrel file: ", e))
		}
	}
	return sortViolations(out)
}

func crossesModules(e graph.FileEdge) bool {
	from, err := e.From.Module()
	if err != nil {
		return false
	}
	to, err := e.To.Module()
	if err != nil {
		return false
	}
	return !graph.ModuleEdge{From: from, To: to}.IsInternal()
}
