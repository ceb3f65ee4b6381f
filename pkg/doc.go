// Package pkg provides the core libraries for modcheck, a module-boundary
// analyzer for TypeScript source trees.
//
// # Overview
//
// The pkg directory is organized by stage:
//
//  1. [source] - the analyzed root, its files and their module-relative paths
//  2. [imports] - import extraction, alias mappings and path resolution
//  3. [graph] - file, module and foreign edge sets built concurrently
//  4. [graph/cycles] - circular dependency detection
//  5. [rules] - the four boundary rules and a runner for them
//  6. [report], [render] - text/JSON/YAML reports and Graphviz output
//
// [config], [errors], [observability] and [buildinfo] carry the ambient
// concerns shared by every stage.
//
// # Architecture
//
//	source.Root.Walk
//	      ↓
//	imports.ResolveFile (per file, in parallel)
//	      ↓
//	graph.Builder → EdgeSet[File] / EdgeSet[Module]
//	      ↓
//	rules.Runner → report.Report / dot.ToDOT
//
// # Quick Start
//
//	root, _ := source.NewRoot("./src", source.WithSkip("node_modules"))
//	b := &graph.Builder{Root: root}
//	results, stats, err := (&rules.Runner{Builder: b}).Run(ctx, rules.All())
//	rep := report.New(root.Path(), stats, results)
//	rep.Write(os.Stdout, report.FormatText)
package pkg
