package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/nibzard/starter/internal/utils"
)

// NewFlagSet returns the flag set used to parse starter's command line.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// parseFlags defines and parses CLI flags. Only flags that were actually set
// override values from files and the environment.
func parseFlags(cfg *Config, fs *pflag.FlagSet, args []string) error {
	if fs == nil {
		fs = NewFlagSet("starter")
	}

	fs.StringVarP(&cfg.Source, "source", "s", cfg.Source, "Directory searched for templates before all others")
	fs.StringVarP(&cfg.LogLevel, "log-level", "l", cfg.LogLevel, "Log level (debug, info, warn, error, critical)")
	fs.StringVarP(&cfg.ContextFile, "config", "c", cfg.ContextFile, "Path to an INI file with context values")
	pairs := fs.StringArrayP("context", "x", nil, "Context value as NAME:VALUE (repeatable)")
	fs.BoolVarP(&cfg.List, "list", "t", cfg.List, "List available templates")
	fs.BoolVarP(&cfg.Interactive, "interactive", "i", cfg.Interactive, "Prompt for context values before copying")
	fs.BoolVarP(&cfg.Version, "version", "v", false, "Print version and exit")
	fs.BoolVarP(&cfg.Help, "help", "h", false, "Show help")
	fs.BoolVar(&cfg.NoTUI, "no-tui", cfg.NoTUI, "Use plain line prompts in interactive mode")
	fs.StringVar(&cfg.TemplateSuffix, "suffix", cfg.TemplateSuffix, "Suffix marking files that are rendered")
	exclude := fs.StringArray("exclude", nil, "Glob of template files to skip (repeatable)")
	templateDirs := fs.StringArray("template-dir", nil, "Additional template directory (repeatable)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.BoolVar(&cfg.PrintExample, "example-config", false, "Print an example settings file and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, *exclude...)
	}
	if fs.Changed("template-dir") {
		cfg.TemplateDirs = append(append([]string{}, *templateDirs...), cfg.TemplateDirs...)
	}

	for _, raw := range *pairs {
		p, err := parseParam(raw)
		if err != nil {
			return err
		}
		cfg.Params = append(cfg.Params, p)
	}

	return parsePositional(cfg, fs.Args())
}

// parsePositional reads TEMPLATES and the optional TARGET.
func parsePositional(cfg *Config, args []string) error {
	switch len(args) {
	case 0:
	case 1:
		cfg.Templates = utils.Unique(utils.SplitAndTrim(args[0], ","))
	case 2:
		cfg.Templates = utils.Unique(utils.SplitAndTrim(args[0], ","))
		cfg.Target = args[1]
	default:
		return fmt.Errorf("unexpected arguments: %s", strings.Join(args[2:], " "))
	}
	return nil
}

// parseParam splits NAME:VALUE. A value without a colon sets NAME to "".
func parseParam(raw string) (Param, error) {
	name, value := utils.SplitPair(raw)
	if name == "" {
		return Param{}, fmt.Errorf("invalid context value %q (expected NAME:VALUE)", raw)
	}
	return Param{Name: name, Value: value}, nil
}
