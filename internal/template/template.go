// Package template locates templates on disk and pastes them into a target tree.
//
// A template is a directory of static files, renderable files carrying the
// template suffix, and one .starter.ini holding its defaults and its
// [templates] settings (include, description, exclude).
package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/nibzard/starter/internal/configstore"
	"github.com/nibzard/starter/internal/starterdir"
	"github.com/nibzard/starter/internal/utils"
)

// Settings section and keys read from a template's config file.
const (
	SettingsSection = "templates"
	IncludeKey      = "include"
	DescriptionKey  = "description"
	ExcludeKey      = "exclude"
)

// ErrNotFound is returned when a template name matches no directory.
var ErrNotFound = errors.New("template not found")

// NotFoundError reports a template that could not be located.
type NotFoundError struct {
	Name     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	if len(e.Searched) == 0 {
		return fmt.Sprintf("template %q not found", e.Name)
	}
	return fmt.Sprintf("template %q not found (searched %s)", e.Name, strings.Join(e.Searched, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Template is one template directory.
type Template struct {
	// Name is the name the template was requested by.
	Name string
	// Path is the template directory inside Source.Fs.
	Path   string
	Source Source
}

// Settings holds what a template declares about itself.
type Settings struct {
	Description string
	Include     []string
	Exclude     []string
	Params      []configstore.Entry
}

// Lookup finds templates by name in Sources. Names that look like paths are
// resolved on Fs instead, relative to Dir, with "~" expanded to Home.
type Lookup struct {
	Sources []Source
	// Fs defaults to the OS filesystem.
	Fs   afero.Fs
	Dir  string
	Home string
}

// Find locates name with an OS-backed Lookup over sources.
func Find(name string, sources []Source) (*Template, error) {
	return Lookup{Sources: sources}.Find(name)
}

// Find locates name. A name that looks like a path is used directly when it
// is an existing directory. Otherwise each source is probed in order for the
// name itself and for the name with dots turned into nested directories.
func (l Lookup) Find(name string) (*Template, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimRight(name, `/\`)
	if name == "" {
		return nil, &NotFoundError{Name: name}
	}

	if isExplicitPath(name) {
		path, err := l.path(name)
		if err != nil {
			return nil, fmt.Errorf("resolve template path %q: %w", name, err)
		}
		fsys := l.Fs
		if fsys == nil {
			fsys = afero.NewOsFs()
		}
		src := Source{Fs: fsys, Dir: filepath.Dir(path)}
		if ok, _ := afero.DirExists(fsys, path); ok {
			return &Template{Name: name, Path: path, Source: src}, nil
		}
		return nil, &NotFoundError{Name: name, Searched: []string{path}}
	}

	candidates := []string{name}
	if strings.Contains(name, ".") {
		candidates = append(candidates, strings.ReplaceAll(name, ".", string(filepath.Separator)))
	}

	var searched []string
	for _, src := range l.Sources {
		if src.Fs == nil {
			continue
		}
		for _, rel := range candidates {
			path := filepath.Join(src.Dir, rel)
			if ok, _ := afero.DirExists(src.Fs, path); ok {
				return &Template{Name: name, Path: path, Source: src}, nil
			}
		}
		searched = append(searched, src.String())
	}
	return nil, &NotFoundError{Name: name, Searched: searched}
}

func isExplicitPath(name string) bool {
	return filepath.IsAbs(name) ||
		strings.HasPrefix(name, "~") ||
		strings.HasPrefix(name, ".") ||
		strings.ContainsRune(name, '/') ||
		strings.ContainsRune(name, filepath.Separator)
}

// path turns an explicit template name into an absolute path.
func (l Lookup) path(name string) (string, error) {
	home := l.Home
	if home == "" && strings.HasPrefix(name, "~") {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return "", err
		}
	}
	name = utils.ExpandHome(name, home)
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}
	if l.Dir != "" {
		return filepath.Join(l.Dir, name), nil
	}
	return filepath.Abs(name)
}

// ID identifies the template by where it lives. Two templates are the same
// template when their IDs are equal.
func (t *Template) ID() string {
	path := filepath.Clean(t.Path)
	if t.Source.Label == "" {
		return path
	}
	return t.Source.Label + ":" + path
}

// Equal reports whether t and other resolve to the same directory.
func (t *Template) Equal(other *Template) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.ID() == other.ID()
}

// String implements fmt.Stringer.
func (t *Template) String() string {
	return fmt.Sprintf("<Template: %s>", t.ID())
}

// Fs returns the filesystem the template is read from.
func (t *Template) Fs() afero.Fs {
	return t.Source.Fs
}

// Configuration returns the path of the template's own config file.
func (t *Template) Configuration() string {
	return filepath.Join(t.Path, starterdir.ContextFile)
}

// Settings reads the template's config file on its own. A template without a
// config file has empty settings.
func (t *Template) Settings() (Settings, error) {
	var settings Settings
	store := configstore.New(nil)
	if err := store.Read(t.Fs(), true, t.Configuration()); err != nil {
		return settings, fmt.Errorf("template %s: %w", t.Name, err)
	}
	if v, ok := store.Raw(SettingsSection, DescriptionKey); ok {
		settings.Description = strings.TrimSpace(v)
	}
	if v, ok := store.Raw(SettingsSection, IncludeKey); ok {
		settings.Include = ParseList(v)
	}
	if v, ok := store.Raw(SettingsSection, ExcludeKey); ok {
		settings.Exclude = ParseList(v)
	}
	for _, key := range store.Keys(configstore.DefaultSection) {
		v, _ := store.Raw(configstore.DefaultSection, key)
		settings.Params = append(settings.Params, configstore.Entry{Key: key, Value: v})
	}
	return settings, nil
}

// ParseList splits a comma separated declaration, dropping blanks and
// duplicates while keeping the declared order.
func ParseList(value string) []string {
	return utils.Unique(utils.SplitAndTrim(value, ","))
}
