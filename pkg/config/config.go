// Package config loads modcheck.toml.
//
// A config file is optional. When present it provides defaults that
// command-line flags override:
//
//	skip_folders = ["node_modules", "dist"]
//	module_mappings = ["@lib:./packages/lib"]
//	extension = ".ts"
//	declaration_extension = ".d.ts"
//	barrel_names = ["index", "testing"]
//	workers = 8
//	rules = ["circular-modules", "barrel-imports-barrel"]
//
// Unknown keys are rejected so typos do not silently disable settings.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/modcheck/pkg/errors"
	"github.com/matzehuels/modcheck/pkg/imports"
	"github.com/matzehuels/modcheck/pkg/rules"
	"github.com/matzehuels/modcheck/pkg/source"
)

// FileName is the config file looked up in the analyzed root.
const FileName = "modcheck.toml"

// Config holds analysis settings.
type Config struct {
	SkipFolders          []string `toml:"skip_folders"`
	ModuleMappings       []string `toml:"module_mappings"`
	Extension            string   `toml:"extension"`
	DeclarationExtension string   `toml:"declaration_extension"`
	BarrelNames          []string `toml:"barrel_names"`
	Workers              int      `toml:"workers"`
	Rules                []string `toml:"rules"`
}

// Default returns the settings used without a config file.
func Default() Config {
	l := source.DefaultLayout()
	return Config{
		SkipFolders:          []string{"node_modules"},
		Extension:            l.Extension,
		DeclarationExtension: l.DeclarationExtension,
		BarrelNames:          l.BarrelNames,
	}
}

// Load decodes path over [Default] and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Discover loads FileName from dir if it exists. A missing file yields
// [Default] and found == false.
func Discover(dir string) (cfg Config, found bool, err error) {
	path := filepath.Join(dir, FileName)
	if _, statErr := os.Stat(path); stderrors.Is(statErr, os.ErrNotExist) {
		return Default(), false, nil
	}
	cfg, err = Load(path)
	return cfg, err == nil, err
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	for _, f := range c.SkipFolders {
		if err := errors.ValidateFolderName(f); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := imports.ParseMappings(c.ModuleMappings); err != nil {
		errs = append(errs, err)
	}
	if _, err := rules.ParseRules(c.Rules); err != nil {
		errs = append(errs, err)
	}
	if !strings.HasPrefix(c.Extension, ".") {
		errs = append(errs, errors.New(errors.ErrCodeInvalidConfig, "extension must start with '.': %q", c.Extension))
	}
	if !strings.HasPrefix(c.DeclarationExtension, ".") {
		errs = append(errs, errors.New(errors.ErrCodeInvalidConfig, "declaration_extension must start with '.': %q", c.DeclarationExtension))
	}
	for _, b := range c.BarrelNames {
		if b == "" || strings.ContainsAny(b, "/\\") {
			errs = append(errs, errors.New(errors.ErrCodeInvalidConfig, "invalid barrel name %q", b))
		}
	}
	if c.Workers < 0 {
		errs = append(errs, errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative: %d", c.Workers))
	}
	if len(errs) > 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, stderrors.Join(errs...), "invalid configuration")
	}
	return nil
}

// Layout returns the file naming conventions.
func (c Config) Layout() source.Layout {
	return source.Layout{
		Extension:            c.Extension,
		DeclarationExtension: c.DeclarationExtension,
		BarrelNames:          c.BarrelNames,
	}
}

// Root opens dir with the configured skip folders and layout.
func (c Config) Root(dir string) (source.Root, error) {
	return source.NewRoot(dir, source.WithSkip(c.SkipFolders...), source.WithLayout(c.Layout()))
}

// Mappings parses the module mappings.
func (c Config) Mappings() (imports.Mappings, error) {
	return imports.ParseMappings(c.ModuleMappings)
}

// SelectedRules parses the rule selection; empty selects every rule.
func (c Config) SelectedRules() ([]rules.Rule, error) {
	return rules.ParseRules(c.Rules)
}
