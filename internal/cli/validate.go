package cli

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modcheck/pkg/report"
	"github.com/matzehuels/modcheck/pkg/rules"
)

// formatPretty is the default, styled validate output.
const formatPretty = "pretty"

type validateOpts struct {
	analysisFlags
	circularModules       bool
	circularFiles         bool
	externalBarrelImports bool
	barrelImportsBarrel   bool
	format                string
	watch                 bool
}

// selection returns the rules picked by flags, or nil if none was set.
func (o *validateOpts) selection() []rules.Rule {
	var out []rules.Rule
	for _, pick := range []struct {
		on   bool
		rule rules.Rule
	}{
		{o.circularModules, rules.CircularModules},
		{o.circularFiles, rules.CircularFiles},
		{o.externalBarrelImports, rules.ExternalBarrelImports},
		{o.barrelImportsBarrel, rules.BarrelImportsBarrel},
	} {
		if pick.on {
			out = append(out, pick.rule)
		}
	}
	return out
}

func (c *CLI) validateCommand() *cobra.Command {
	opts := &validateOpts{}

	cmd := &cobra.Command{
		Use:   "validate <root>",
		Short: "Check module boundaries",
		Long: `Validate builds the module and file graphs of <root> and runs the selected rules.
With no rule flags, every rule runs (or those listed under "rules" in modcheck.toml).

Exits with status 2 when any rule reports a violation.`,
		Example: `  modcheck validate ./src
  modcheck validate ./src --circular-modules --format json
  modcheck validate ./src --module-mapping @lib:./packages/lib --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := formatPretty
			if opts.format != formatPretty {
				f, err := report.ParseFormat(opts.format)
				if err != nil {
					return err
				}
				format = f
			}

			s, err := c.open(cmd, &opts.analysisFlags, args[0])
			if err != nil {
				return err
			}
			selected := opts.selection()
			if len(selected) == 0 {
				if selected, err = s.cfg.SelectedRules(); err != nil {
					return err
				}
			}

			if opts.watch {
				return c.watch(cmd.Context(), s.root, func(ctx context.Context) {
					err := c.runValidate(ctx, cmd.OutOrStdout(), s, selected, format)
					if err != nil && !errors.Is(err, ErrViolations) {
						printError(cmd.ErrOrStderr(), "%v", err)
					}
				})
			}
			return c.runValidate(cmd.Context(), cmd.OutOrStdout(), s, selected, format)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.circularModules, "circular-modules", false, "run circular module validation")
	cmd.Flags().BoolVar(&opts.circularFiles, "circular-files", false, "run circular file validation")
	cmd.Flags().BoolVar(&opts.externalBarrelImports, "external-barrel-imports", false, "run external barrel import validation")
	cmd.Flags().BoolVar(&opts.barrelImportsBarrel, "barrel-imports-barrel", false, "run barrel imports barrel validation")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatPretty, "output format: pretty, text, json, yaml")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-run on every change under <root>")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, w io.Writer, s *session, selected []rules.Rule, format string) error {
	prog := newProgress(c.Logger)
	runner := &rules.Runner{Builder: s.builder}
	results, stats, err := runner.Run(ctx, selected)
	if err != nil {
		return describe(err)
	}
	rep := report.New(s.root.Path(), stats, results)
	prog.done("Validated", "run", rep.ID, "files", stats.FilesAnalyzed, "violations", rep.Total)

	if format == formatPretty {
		printReport(w, rep)
	} else if err := rep.Write(w, format); err != nil {
		return err
	}
	if rep.Failed() {
		return ErrViolations
	}
	return nil
}

func printReport(w io.Writer, rep *report.Report) {
	for i, res := range rep.Results {
		if i > 0 {
			printNewline(w)
		}
		printInfo(w, "Running %s", res.Rule.Title())
		for _, v := range res.Violations {
			printViolation(w, v.Message)
		}
		if len(res.Violations) == 0 {
			printSuccess(w, "Total: %s", StyleNumber.Render("0"))
			continue
		}
		printError(w, "Total: %s", StyleNumber.Render(strconv.Itoa(len(res.Violations))))
	}
	printNewline(w)
	printDetail(w, "%d files checked · %d violations", rep.Stats.FilesAnalyzed, rep.Total)
}
