package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modcheck/pkg/graph"
)

func (c *CLI) statisticsCommand() *cobra.Command {
	opts := &analysisFlags{}

	cmd := &cobra.Command{
		Use:     "statistics <root>",
		Aliases: []string{"stats"},
		Short:   "Count cross-module imports",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd, opts, args[0])
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			_, stats, err := s.builder.Analyze(cmd.Context(), graph.LevelModule)
			if err != nil {
				return describe(err)
			}
			prog.done("Analyzed files", "files", stats.FilesAnalyzed)

			w := cmd.OutOrStdout()
			printKeyValue(w, "Total imports from outside own modules:", strconv.FormatInt(stats.CrossModuleImports, 10))
			printKeyValue(w, "Total files checked:", strconv.FormatInt(stats.FilesAnalyzed, 10))
			c.Logger.Debug("statistics",
				"seen", stats.FilesSeen,
				"skipped", stats.FilesSkipped,
				"resolved", stats.ImportsResolved,
				"external", stats.ExternalImports,
			)
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}
