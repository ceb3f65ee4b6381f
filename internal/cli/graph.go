package cli

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modcheck/pkg/errors"
	"github.com/matzehuels/modcheck/pkg/graph"
	"github.com/matzehuels/modcheck/pkg/graph/cycles"
	"github.com/matzehuels/modcheck/pkg/render/dot"
	"github.com/matzehuels/modcheck/pkg/source"
)

type graphOpts struct {
	analysisFlags
	format string
	level  string
	styled bool
	output string
}

func (c *CLI) graphCommand() *cobra.Command {
	opts := &graphOpts{}

	cmd := &cobra.Command{
		Use:   "graph <root>",
		Short: "Print the dependency graph",
		Long: `Graph prints the module-level (default) or file-level dependency graph of <root>
as Graphviz DOT, or renders it to SVG or PNG.`,
		Example: `  modcheck graph ./src > modules.dot
  modcheck graph ./src --level file --styled --format svg -o files.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := dot.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			level, err := parseLevel(opts.level)
			if err != nil {
				return err
			}
			s, err := c.open(cmd, &opts.analysisFlags, args[0])
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			src, nodes, edges, err := buildDOT(cmd.Context(), s, level, opts.styled)
			if err != nil {
				return describe(err)
			}
			var sp *Spinner
			if format != dot.FormatDOT {
				sp = newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Rendering "+format+"...")
				sp.Start()
			}
			out, err := dot.Render(cmd.Context(), src, format)
			if sp != nil {
				sp.Stop()
			}
			if err != nil {
				return err
			}
			prog.done("Built graph", "level", level, "nodes", nodes, "edges", edges)

			if opts.output == "" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(opts.output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Wrote %s graph", level)
			printFile(w, opts.output)
			printStats(w, nodes, edges)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", dot.FormatDOT, "output format: dot, svg, png")
	cmd.Flags().StringVarP(&opts.level, "level", "l", graph.LevelModule, "graph level: module, file")
	cmd.Flags().BoolVar(&opts.styled, "styled", false, "style nodes and highlight cycles")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func parseLevel(s string) (string, error) {
	switch s {
	case graph.LevelModule, graph.LevelFile:
		return s, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown graph level %q (valid: module, file)", s)
}

// buildDOT scans the session root and returns the DOT source of the graph at
// level along with its node and edge counts.
func buildDOT(ctx context.Context, s *session, level string, styled bool) (string, int, int, error) {
	switch level {
	case graph.LevelFile:
		g, _, err := s.builder.FileGraph(ctx)
		if err != nil {
			return "", 0, 0, err
		}
		layout := s.root.Layout()
		opts := dot.Options{
			Styled:    styled,
			Barrel:    func(id string) bool { return layout.IsBarrel(path.Base(id)) },
			Highlight: dot.CycleEdges(cycles.Find(g.GroupByFrom())),
		}
		return dot.ToDOT(g, opts), len(g.Nodes()), g.Len(), nil
	default:
		g, _, err := s.builder.ModuleGraph(ctx)
		if err != nil {
			return "", 0, 0, err
		}
		opts := dot.Options{
			Styled:    styled,
			Highlight: dot.CycleEdges(cycles.Find(g.GroupByFrom())),
		}
		return dot.ToDOT(g, opts), len(g.Nodes()), g.Len(), nil
	}
}

// graphJSON scans the session root and returns the serialized graph at level.
func graphJSON(ctx context.Context, s *session, level string) (graph.Graph, error) {
	if level == graph.LevelFile {
		g, _, err := s.builder.FileGraph(ctx)
		if err != nil {
			return graph.Graph{}, err
		}
		layout := s.root.Layout()
		return graph.FromEdgeSet(level, g, func(id string) bool { return layout.IsBarrel(path.Base(id)) }), nil
	}
	g, _, err := s.builder.ModuleGraph(ctx)
	if err != nil {
		return graph.Graph{}, err
	}
	return graph.FromEdgeSet[source.Module, source.Module](level, g, nil), nil
}
