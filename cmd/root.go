// Package cmd implements the command line interface of starter.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/nibzard/starter/internal/builtin"
	"github.com/nibzard/starter/internal/config"
	"github.com/nibzard/starter/internal/configstore"
	"github.com/nibzard/starter/internal/logging"
	"github.com/nibzard/starter/internal/starter"
	"github.com/nibzard/starter/internal/template"
	"github.com/nibzard/starter/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams are the standard streams of one invocation.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the starter CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, std streams) error {
	fs := config.NewFlagSet("starter")
	fs.SetOutput(std.err)
	fs.Usage = func() {
		printUsage(fs, std.err)
	}

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Help {
		printUsage(fs, std.out)
		return nil
	}
	if cfg.Version {
		return versionCommand(std.out)
	}
	if cfg.PrintExample {
		_, err := fmt.Fprint(std.out, config.ExampleConfig())
		return err
	}

	logger, err := logging.New(std.err, cfg.LoggingOptions())
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	for _, file := range cfg.Files {
		logger.Debug("Settings loaded", "path", file)
	}

	rc := starter.NewRunContext(logger)
	rc.Catalog = []template.Source{builtin.Source()}
	rc.Prompter = newPrompter(cfg, std)

	s, err := starter.New(rc, params(cfg))
	if err != nil {
		return err
	}

	if cfg.ListMode() {
		return listCommand(s, std.out)
	}
	return copyCommand(ctx, s, std.out)
}

// params turns parsed settings into a starter run description.
func params(cfg *config.Config) starter.Params {
	pairs := make([]configstore.Pair, 0, len(cfg.Params))
	for _, p := range cfg.Params {
		pairs = append(pairs, configstore.Pair{Key: p.Name, Value: p.Value})
	}
	return starter.Params{
		Templates:    cfg.Templates,
		Target:       cfg.Target,
		Source:       cfg.Source,
		TemplateDirs: cfg.TemplateDirs,
		ContextFile:  cfg.ContextFile,
		Context:      pairs,
		Suffix:       cfg.TemplateSuffix,
		Exclude:      cfg.Exclude,
		Interactive:  cfg.Interactive,
	}
}

// newPrompter picks the form prompter on a terminal and plain line prompts
// otherwise.
func newPrompter(cfg *config.Config, std streams) ui.Prompter {
	if !cfg.NoTUI && ui.Interactive(std.in, std.out) {
		return ui.NewFormPrompter(std.in, std.out)
	}
	p := ui.NewLinePrompter(std.in, std.out)
	if ui.IsTTY(std.out) {
		styles := ui.DefaultStyles()
		p.Styles = &styles
	}
	return p
}

// listCommand prints every available template with its description.
func listCommand(s *starter.Starter, w io.Writer) error {
	listings := s.Templates()
	if len(listings) == 0 {
		fmt.Fprintln(w, "No templates found.")
		return nil
	}

	entries := make([]ui.ListEntry, 0, len(listings))
	for _, l := range listings {
		entries = append(entries, ui.ListEntry{
			Name:        l.Template.Name,
			Source:      l.Template.Source.Label,
			Description: l.Description,
		})
	}

	styles := ui.PlainStyles()
	if ui.IsTTY(w) {
		styles = ui.DefaultStyles()
	}
	_, err := fmt.Fprint(w, ui.FormatList(entries, styles))
	return err
}

// copyCommand pastes the requested templates and reports what was written.
func copyCommand(ctx context.Context, s *starter.Starter, w io.Writer) error {
	results, err := s.Copy(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(results))
	files := 0
	for _, r := range results {
		names = append(names, r.Template.Name)
		files += len(r.Written)
	}
	fmt.Fprintf(w, "Pasted %s into %s (%d files)\n", strings.Join(names, ", "), s.Target(), files)
	return nil
}

func versionCommand(w io.Writer) error {
	_, err := fmt.Fprintf(w, "starter version %s\n", Version)
	return err
}

// printUsage prints the usage message.
func printUsage(fs *pflag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Starter - create project skeletons from templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  starter [options] TEMPLATES [TARGET]")
	fmt.Fprintln(w, "  starter -t")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  TEMPLATES   Comma separated template names or paths; empty lists templates")
	fmt.Fprintln(w, "  TARGET      Target directory (default: current directory)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Templates are searched in -s, template_dirs, ~/.starter/templates and the")
	fmt.Fprintln(w, "built-in catalog, in that order. Context values come from -x, then -c,")
	fmt.Fprintln(w, "./.starter.ini, ~/.starter.ini and finally each template's .starter.ini.")
}
