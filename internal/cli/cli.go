// Package cli implements the modcheck command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log. All
// commands analyze a fresh scan of the given root; nothing is cached
// between runs.
//
// # Commands
//
//   - validate: run the module-boundary rules
//   - graph: emit the module or file graph as DOT, SVG or PNG
//   - inspect: list imports from files into foreign modules
//   - statistics: count cross-module imports and analyzed files
//   - serve: expose graph and validation over HTTP
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modcheck/pkg/buildinfo"
)

// appName is the application name used in help and completion output.
const appName = "modcheck"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrViolations is returned by validate when at least one rule failed.
var ErrViolations = errors.New("validation failed")

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "modcheck enforces module boundaries in TypeScript source trees",
		Long:          `modcheck scans a source tree organised into top-level module directories, builds file- and module-level import graphs, and checks them for circular dependencies and barrel-file discipline.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.statisticsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
