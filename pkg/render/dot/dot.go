package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/modcheck/pkg/errors"
	"github.com/matzehuels/modcheck/pkg/graph"
	"github.com/matzehuels/modcheck/pkg/graph/cycles"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case FormatDOT, FormatSVG, FormatPNG:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q (valid: dot, svg, png)", s)
}

// Options configures DOT generation.
type Options struct {
	// Styled adds layout attributes and node styling.
	Styled bool
	// Barrel flags barrel nodes; only used when Styled.
	Barrel func(id string) bool
	// Highlight lists edges drawn red; only used when Styled.
	Highlight map[graph.Key]bool
}

// ToDOT converts s to Graphviz DOT. Edges are emitted in sorted order.
func ToDOT[F, T graph.Node](s *graph.EdgeSet[F, T], opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")

	if opts.Styled {
		buf.WriteString("  rankdir=LR;\n")
		buf.WriteString("  bgcolor=\"transparent\";\n")
		buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
		buf.WriteString("  ranksep=0.5;\n")
		buf.WriteString("  nodesep=0.3;\n")
		buf.WriteString("\n")
		if opts.Barrel != nil {
			for _, id := range s.Nodes() {
				if opts.Barrel(id) {
					fmt.Fprintf(&buf, "  %q [penwidth=2, fillcolor=\"#eef4ff\"];\n", id)
				}
			}
		}
	}

	for _, e := range s.Sorted() {
		if opts.Styled && opts.Highlight[e.Key()] {
			k := e.Key()
			fmt.Fprintf(&buf, "  %q -> %q [color=red, penwidth=2];\n", k.From, k.To)
			continue
		}
		buf.WriteString("  ")
		buf.WriteString(e.DOT())
		buf.WriteString("\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// CycleEdges returns the consecutive node pairs of every chain.
func CycleEdges(chains []cycles.Chain) map[graph.Key]bool {
	out := make(map[graph.Key]bool)
	for _, c := range chains {
		for i := 0; i+1 < len(c.Nodes); i++ {
			out[graph.Key{From: c.Nodes[i], To: c.Nodes[i+1]}] = true
		}
	}
	return out
}

// Render returns src in format. The DOT format returns src unchanged.
func Render(ctx context.Context, src, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(src), nil
	case FormatSVG:
		return RenderSVG(ctx, src)
	case FormatPNG:
		return RenderPNG(ctx, src)
	}
	_, err := ParseFormat(format)
	return nil, err
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, src string) ([]byte, error) {
	out, err := render(ctx, src, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, src string) ([]byte, error) {
	return render(ctx, src, graphviz.PNG)
}

func render(ctx context.Context, src string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// viewBox-only one so the SVG scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
