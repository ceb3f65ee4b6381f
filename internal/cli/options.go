package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modcheck/pkg/config"
	"github.com/matzehuels/modcheck/pkg/errors"
	"github.com/matzehuels/modcheck/pkg/graph"
	"github.com/matzehuels/modcheck/pkg/source"
)

// analysisFlags are shared by every command that scans a root.
type analysisFlags struct {
	configPath string
	skip       []string
	mappings   []string
	workers    int
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (default: <root>/"+config.FileName+")")
	cmd.Flags().StringSliceVar(&f.skip, "skip-folders", []string{"node_modules"}, "folder names to skip")
	cmd.Flags().StringArrayVar(&f.mappings, "module-mapping", nil, "module mapping, e.g. --module-mapping @lib:./packages/lib (repeatable)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "analysis workers (0 = number of CPUs)")
}

// session is a resolved analysis setup: config merged with flags.
type session struct {
	cfg     config.Config
	root    source.Root
	builder *graph.Builder
}

// load reads the config for dir and applies explicitly set flags over it.
func (f *analysisFlags) load(cmd *cobra.Command, dir string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.Load(f.configPath)
	} else {
		cfg, _, err = config.Discover(dir)
	}
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("skip-folders") {
		cfg.SkipFolders = f.skip
	}
	if flags.Changed("module-mapping") {
		cfg.ModuleMappings = append(cfg.ModuleMappings, f.mappings...)
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	return cfg, cfg.Validate()
}

// open builds a session for dir.
func (c *CLI) open(cmd *cobra.Command, f *analysisFlags, dir string) (*session, error) {
	cfg, err := f.load(cmd, dir)
	if err != nil {
		return nil, err
	}
	root, err := cfg.Root(dir)
	if err != nil {
		return nil, err
	}
	mappings, err := cfg.Mappings()
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("analysis configured",
		"root", root.Path(),
		"skip", cfg.SkipFolders,
		"mappings", mappings.Strings(),
		"workers", cfg.Workers,
	)
	return &session{
		cfg:  cfg,
		root: root,
		builder: &graph.Builder{
			Root:     root,
			Mappings: mappings,
			Workers:  cfg.Workers,
			Logger:   c.Logger,
		},
	}, nil
}

// describe turns a build failure into a message listing every cause.
func describe(err error) error {
	if errors.Is(err, errors.ErrCodeInvalidFiles) {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return err
}
