// Package source models the analyzed source tree: its root, the source files
// under it, and the paths of those files relative to the root.
//
// # Overview
//
// A [Root] is the canonical absolute directory every relative classification
// is measured from. It also carries the folder names pruned during traversal
// and the [Layout] of the tree (source extension, declaration extension and
// barrel file names).
//
// A [File] is a regular file under the root with the layout's source
// extension. Files are cheap to copy; derived fields such as [File.Module]
// are computed once and shared by every copy.
//
// [Root.Classify] turns an absolute path into a [ChildPath]. Paths that do
// not lie under the root fail with [*OutsideRootError]; callers use this to
// tell imports of external packages apart from internal imports.
//
//	root, _ := source.NewRoot("./app", source.WithSkip("node_modules"))
//	child, err := root.Classify("/abs/app/billing/index.ts")
//	// child.String() == "billing/index.ts", child.IsBarrel() == true
//	mod, _ := child.Module() // "billing"
//
// # Concurrency
//
// Root, File, ChildPath and Module are immutable after construction and safe
// for concurrent use.
package source
