// Package render groups the output renderers for modcheck graphs.
//
// The [dot] subpackage emits Graphviz DOT for module and file graphs and
// renders it to SVG or PNG through the embedded Graphviz library:
//
//	src := dot.ToDOT(g, dot.Options{Styled: true})
//	svg, err := dot.Render(ctx, src, dot.FormatSVG)
package render
