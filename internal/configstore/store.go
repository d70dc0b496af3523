// Package configstore implements the layered key/value namespace that becomes
// the render context.
//
// A Store is an ordered mapping of section name to ordered key/value pairs.
// Files are merged with Read; with update=false an existing key is never
// replaced, so whatever is read first wins. Values may reference other keys
// with {{ ... }} markers, which are expanded when the value is read, not when
// the file is parsed.
package configstore

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/nibzard/starter/internal/render"
)

// MaxInterpolationDepth bounds how many times a value is re-rendered while it
// still contains markers.
const MaxInterpolationDepth = 10

var (
	// ErrKeyNotFound is returned when a section or key does not exist.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInterpolationDepth is returned when a value keeps producing markers,
	// which happens for self-referential keys.
	ErrInterpolationDepth = errors.New("interpolation depth exceeded")
)

type keys = orderedmap.OrderedMap[string, string]

// Store is an ordered, sectioned key/value namespace.
type Store struct {
	sections *orderedmap.OrderedMap[string, *keys]
	engine   render.Engine
}

// New creates an empty store with the default section. engine expands
// interpolation markers; with a nil engine values are returned raw.
func New(engine render.Engine) *Store {
	s := &Store{
		sections: orderedmap.New[string, *keys](),
		engine:   engine,
	}
	s.section(DefaultSection)
	return s
}

func (s *Store) section(name string) *keys {
	if sec, ok := s.sections.Get(name); ok {
		return sec
	}
	sec := orderedmap.New[string, string]()
	s.sections.Set(name, sec)
	return sec
}

// Set assigns key in section unconditionally.
func (s *Store) Set(section, key, value string) {
	s.section(section).Set(key, value)
}

// SetDefault assigns key in the default section.
func (s *Store) SetDefault(key, value string) {
	s.Set(DefaultSection, key, value)
}

// SetIfAbsent assigns key only when section does not define it yet.
// It reports whether the value was stored.
func (s *Store) SetIfAbsent(section, key, value string) bool {
	sec := s.section(section)
	if _, ok := sec.Get(key); ok {
		return false
	}
	sec.Set(key, value)
	return true
}

// Has reports whether section defines key.
func (s *Store) Has(section, key string) bool {
	_, ok := s.Raw(section, key)
	return ok
}

// Raw returns the uninterpolated value of key.
func (s *Store) Raw(section, key string) (string, bool) {
	sec, ok := s.sections.Get(section)
	if !ok {
		return "", false
	}
	return sec.Get(key)
}

// Get returns the interpolated value of key.
func (s *Store) Get(section, key string) (string, error) {
	raw, ok := s.Raw(section, key)
	if !ok {
		return "", fmt.Errorf("%s.%s: %w", section, key, ErrKeyNotFound)
	}
	return s.interpolate(section, key, raw)
}

// Pop removes key from section and returns its raw value.
func (s *Store) Pop(section, key string) (string, error) {
	sec, ok := s.sections.Get(section)
	if !ok {
		return "", fmt.Errorf("%s.%s: %w", section, key, ErrKeyNotFound)
	}
	value, ok := sec.Delete(key)
	if !ok {
		return "", fmt.Errorf("%s.%s: %w", section, key, ErrKeyNotFound)
	}
	return value, nil
}

// Sections returns section names in insertion order.
func (s *Store) Sections() []string {
	names := make([]string, 0, s.sections.Len())
	for pair := s.sections.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Keys returns the keys of section in insertion order.
func (s *Store) Keys(section string) []string {
	sec, ok := s.sections.Get(section)
	if !ok {
		return nil
	}
	names := make([]string, 0, sec.Len())
	for pair := sec.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Merge applies parsed sections to the store. With update=false existing keys
// are kept.
func (s *Store) Merge(sections []Section, update bool) {
	for _, parsed := range sections {
		sec := s.section(parsed.Name)
		for _, e := range parsed.Entries {
			if !update {
				if _, ok := sec.Get(e.Key); ok {
					continue
				}
			}
			sec.Set(e.Key, e.Value)
		}
	}
}

// Read merges every existing file in order. Missing files are skipped.
func (s *Store) Read(fsys afero.Fs, update bool, files ...string) error {
	for _, file := range files {
		if file == "" {
			continue
		}
		exists, err := afero.Exists(fsys, file)
		if err != nil {
			return fmt.Errorf("stat %s: %w", file, err)
		}
		if !exists {
			continue
		}
		data, err := afero.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		sections, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		s.Merge(sections, update)
	}
	return nil
}

// Snapshot returns the interpolated default section as an immutable Context.
func (s *Store) Snapshot() (Context, error) {
	names := s.Keys(DefaultSection)
	ctx := Context{keys: make([]string, 0, len(names)), values: make(map[string]string, len(names))}
	for _, name := range names {
		value, err := s.Get(DefaultSection, name)
		if err != nil {
			return Context{}, err
		}
		ctx.keys = append(ctx.keys, name)
		ctx.values[name] = value
	}
	return ctx, nil
}

// vars returns raw default values overlaid with the raw values of section.
func (s *Store) vars(section string) map[string]any {
	vars := make(map[string]any)
	for _, name := range []string{DefaultSection, section} {
		sec, ok := s.sections.Get(name)
		if !ok {
			continue
		}
		for pair := sec.Oldest(); pair != nil; pair = pair.Next() {
			vars[pair.Key] = pair.Value
		}
	}
	return vars
}

func (s *Store) interpolate(section, key, value string) (string, error) {
	if s.engine == nil || !render.HasMarkers(value) {
		return value, nil
	}
	vars := s.vars(section)
	for depth := 0; render.HasMarkers(value); depth++ {
		if depth >= MaxInterpolationDepth {
			return "", fmt.Errorf("%s.%s: %w", section, key, ErrInterpolationDepth)
		}
		out, err := s.engine.Render(section+"."+key, value, vars)
		if err != nil {
			return "", fmt.Errorf("interpolate %s.%s: %w", section, key, err)
		}
		value = out
	}
	return value, nil
}
