// Package starter drives a scaffolding run: it merges context configuration,
// resolves the requested templates with their includes and pastes them into
// the target directory.
package starter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/nibzard/starter/internal/configstore"
	"github.com/nibzard/starter/internal/starterdir"
	"github.com/nibzard/starter/internal/template"
	"github.com/nibzard/starter/internal/ui"
)

// DatetimeLayout formats the datetime context key.
const DatetimeLayout = "2006-01-02 15:04:05.000000"

// State is a step of a copy run.
type State int

const (
	StateInit State = iota
	StateConfigLoaded
	StateTemplatesResolved
	StateInteractiveOverride
	StateTargetPrepared
	StatePasted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateConfigLoaded:
		return "config_loaded"
	case StateTemplatesResolved:
		return "templates_resolved"
	case StateInteractiveOverride:
		return "interactive_override"
	case StateTargetPrepared:
		return "target_prepared"
	case StatePasted:
		return "pasted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Params describes one run as requested on the command line.
type Params struct {
	Templates []string
	Target    string
	// Source is searched before every other template directory.
	Source       string
	TemplateDirs []string
	// ContextFile is an extra INI file read before the project and home files.
	ContextFile string
	Context     []configstore.Pair
	Suffix      string
	Exclude     []string
	Interactive bool
}

// Starter owns the configuration store, the search sources and the resolved
// templates of a run.
type Starter struct {
	rc        *RunContext
	params    Params
	cwd       string
	target    string
	sources   []template.Source
	store     *configstore.Store
	templates []*template.Template
	state     State
}

// New prepares a run. The target is made absolute against the working
// directory.
func New(rc *RunContext, params Params) (*Starter, error) {
	if rc == nil {
		rc = &RunContext{}
	}
	rc = rc.withDefaults()

	cwd, err := rc.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	target := params.Target
	if target == "" {
		target = "."
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(cwd, target)
	}

	s := &Starter{
		rc:     rc,
		params: params,
		cwd:    cwd,
		target: filepath.Clean(target),
		store:  configstore.New(rc.Engine),
	}
	s.sources = s.searchSources()
	return s, nil
}

// searchSources lists where templates are looked up, in priority order.
func (s *Starter) searchSources() []template.Source {
	var dirs []string
	if s.params.Source != "" {
		dirs = append(dirs, s.params.Source)
	}
	dirs = append(dirs, s.params.TemplateDirs...)
	if s.rc.HomeDir != "" {
		dirs = append(dirs, starterdir.TemplatesPath(s.rc.HomeDir))
	}

	sources := make([]template.Source, 0, len(dirs)+len(s.rc.Catalog))
	for _, dir := range dirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(s.cwd, dir)
		}
		sources = append(sources, template.Source{Fs: s.rc.Fs, Dir: filepath.Clean(dir)})
	}
	return append(sources, s.rc.Catalog...)
}

// lookup finds templates in the search sources. Template paths given on the
// command line are taken against the working directory on rc.Fs.
func (s *Starter) lookup() template.Lookup {
	return template.Lookup{
		Sources: s.sources,
		Fs:      s.rc.Fs,
		Dir:     s.cwd,
		Home:    s.rc.HomeDir,
	}
}

// State returns the step the run has reached.
func (s *Starter) State() State { return s.state }

// Target returns the absolute target directory.
func (s *Starter) Target() string { return s.target }

// Sources returns the template search sources in priority order.
func (s *Starter) Sources() []template.Source { return s.sources }

// Store returns the context configuration store.
func (s *Starter) Store() *configstore.Store { return s.store }

// Resolved returns the templates selected by the last Copy, in paste order.
func (s *Starter) Resolved() []*template.Template { return s.templates }

// Copy runs every step and pastes the resolved templates into the target.
// A missing template aborts the run before anything is written. A failure
// while pasting leaves the files already written in place.
func (s *Starter) Copy(ctx context.Context) ([]template.PasteResult, error) {
	logger := s.rc.Logger

	if err := s.loadConfig(); err != nil {
		return nil, err
	}
	s.syncTarget()
	s.advance(StateConfigLoaded)

	templates, err := Resolve(s.params.Templates, s.lookup(), s.store, logger)
	if err != nil {
		return nil, err
	}
	s.templates = templates
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}
	s.store.SetDefault(configstore.KeyTemplates, strings.Join(names, ","))
	s.advance(StateTemplatesResolved)
	logger.Info("Paste templates", "templates", strings.Join(names, ","), "target", s.target)

	if s.params.Interactive {
		if err := s.override(ctx); err != nil {
			return nil, err
		}
		s.syncTarget()
		s.advance(StateInteractiveOverride)
	}

	snapshot, err := s.store.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("building context: %w", err)
	}
	snapshot = snapshot.With(configstore.KeyDeployDir, s.target)

	if err := s.prepareTarget(); err != nil {
		return nil, err
	}
	s.advance(StateTargetPrepared)

	opts := template.PasteOptions{
		Suffix:  s.params.Suffix,
		Exclude: s.params.Exclude,
		Engine:  s.rc.Engine,
		Logger:  logger,
	}
	results := make([]template.PasteResult, 0, len(templates))
	for _, t := range templates {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := t.Paste(s.rc.Fs, snapshot, opts)
		results = append(results, result)
		if err != nil {
			return results, fmt.Errorf("paste %s: %w", t.Name, err)
		}
	}
	s.advance(StatePasted)
	return results, nil
}

// syncTarget follows a deploy_dir changed through -x or the prompt. Relative
// values are taken against the working directory.
func (s *Starter) syncTarget() {
	value, ok := s.store.Raw(configstore.DefaultSection, configstore.KeyDeployDir)
	if !ok || value == "" || value == s.target {
		return
	}
	if !filepath.IsAbs(value) {
		value = filepath.Join(s.cwd, value)
	}
	s.target = filepath.Clean(value)
	s.store.SetDefault(configstore.KeyDeployDir, s.target)
}

func (s *Starter) advance(state State) {
	s.state = state
	s.rc.Logger.Debug("State changed", "state", state)
}

// loadConfig seeds the store with the computed keys and CLI values, then
// merges the context files without overwriting: -c, project, home.
func (s *Starter) loadConfig() error {
	s.store.SetDefault(configstore.KeyDeployDir, s.target)
	s.store.SetDefault(configstore.KeyCurrentDir, s.cwd)
	s.store.SetDefault(configstore.KeyUser, s.rc.User)
	s.store.SetDefault(configstore.KeyDatetime, s.rc.Now().Format(DatetimeLayout))
	for _, p := range s.params.Context {
		s.store.SetDefault(p.Key, p.Value)
	}

	if file := s.params.ContextFile; file != "" {
		if ok, _ := afero.Exists(s.rc.Fs, file); !ok {
			s.rc.Logger.Warn("Context file not found", "path", file)
		}
	}

	files := []string{s.params.ContextFile, starterdir.ContextPath(s.cwd)}
	if s.rc.HomeDir != "" {
		files = append(files, starterdir.ContextPath(s.rc.HomeDir))
	}
	if err := s.store.Read(s.rc.Fs, false, files...); err != nil {
		return fmt.Errorf("loading context: %w", err)
	}
	return nil
}

// override lets the user edit every public default key. Keys starting with
// "_" are not offered. A blank answer keeps the current value.
func (s *Starter) override(ctx context.Context) error {
	if s.rc.Prompter == nil {
		return errors.New("interactive mode needs a prompter")
	}

	var keys []string
	var fields []ui.Field
	for _, key := range s.store.Keys(configstore.DefaultSection) {
		if strings.HasPrefix(key, "_") {
			continue
		}
		value, err := s.store.Get(configstore.DefaultSection, key)
		if err != nil {
			return err
		}
		keys = append(keys, key)
		fields = append(fields, ui.Field{Key: key, Default: value})
	}

	answers, err := s.rc.Prompter.Ask(ctx, fields)
	if err != nil {
		return fmt.Errorf("interactive mode: %w", err)
	}
	for i, answer := range answers {
		if i < len(keys) && answer != "" {
			s.store.SetDefault(keys[i], answer)
		}
	}
	return nil
}

// prepareTarget creates the target directory. An existing directory is fine.
func (s *Starter) prepareTarget() error {
	err := s.rc.Fs.MkdirAll(s.target, 0o755)
	if err == nil {
		s.rc.Logger.Debug("Directory created", "path", s.target)
		return nil
	}
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	return fmt.Errorf("creating target %s: %w", s.target, err)
}
