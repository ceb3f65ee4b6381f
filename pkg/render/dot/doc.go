// Package dot renders dependency graphs as Graphviz DOT and, through
// go-graphviz, as SVG or PNG.
//
// # Usage
//
//	src := dot.ToDOT(modules, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// The plain output is one statement per edge:
//
//	digraph G {
//	  "billing" -> "core";
//	}
//
// With [Options.Styled], nodes get rounded boxes, barrel files are
// drawn bold and edges listed in [Options.Highlight] are drawn red. Use
// [CycleEdges] to highlight the edges of detected cycles.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no Graphviz installation is needed.
package dot
