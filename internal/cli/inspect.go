package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type inspectOpts struct {
	analysisFlags
	interactive bool
}

func (c *CLI) inspectCommand() *cobra.Command {
	opts := &inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect <root>",
		Short: "List imports from files into other modules",
		Long: `Inspect prints every edge from a file to a module other than its own, as
"<file> > <module>". With --interactive, browse the modules in a terminal UI.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd, &opts.analysisFlags, args[0])
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			g, _, err := s.builder.ForeignGraph(cmd.Context())
			if err != nil {
				return describe(err)
			}
			prog.done("Inspected imports", "edges", g.Len())

			if opts.interactive {
				m := newModuleBrowser(g, s.root.Layout())
				_, err := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
				return err
			}

			w := cmd.OutOrStdout()
			for _, e := range g.Sorted() {
				fmt.Fprintln(w, e.String())
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse modules interactively")
	return cmd
}
