// Package graph derives dependency graphs from a source tree.
//
// Two graph levels are built from the same per-file analysis:
//
//   - file level: [EdgeSet] of [source.ChildPath] to [source.ChildPath]
//   - module level: [EdgeSet] of [source.Module] to [source.Module], with
//     edges inside a single module dropped
//
// A third projection, file to foreign module, backs the inspect command.
//
// # Node Identity
//
// Nodes are identified by their rendered string. Two edges are equal iff
// their endpoint renderings are equal, so an [EdgeSet] can hold values of
// any [fmt.Stringer] type without comparing the values themselves.
//
// # Building
//
// [Builder] walks the root, runs per-file analysis on a bounded worker pool
// and unions the results:
//
//	b := &graph.Builder{Root: root, Mappings: mappings, Workers: 8}
//	modules, stats, err := b.ModuleGraph(ctx)
//
// Entries that are not source files are skipped. Every other per-file
// failure is collected; if any occurred, the build fails with a
// [*BuildError] and no partial graph is returned.
//
// # Serialization
//
// [Graph] is the node-link JSON form used by the HTTP server and reports:
//
//	{
//	  "nodes": [{"id": "billing"}, {"id": "core"}],
//	  "edges": [{"from": "billing", "to": "core"}]
//	}
package graph
