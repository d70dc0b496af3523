package template

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Source is a directory probed for templates.
type Source struct {
	// Label distinguishes sources that do not live on the OS filesystem.
	// It is empty for OS directories.
	Label string
	Fs    afero.Fs
	Dir   string
}

// String returns a printable location.
func (s Source) String() string {
	if s.Label == "" {
		return s.Dir
	}
	return s.Label + ":" + s.Dir
}

// Scan lists every loadable template in sources. Hidden directories and
// directories whose settings cannot be read are skipped. When two sources
// provide the same name the first one wins, as it does for Find.
func Scan(sources []Source) []*Template {
	var found []*Template
	seen := make(map[string]bool)
	for _, src := range sources {
		if src.Fs == nil {
			continue
		}
		entries, err := afero.ReadDir(src.Fs, src.Dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if !entry.IsDir() || strings.HasPrefix(name, ".") || seen[name] {
				continue
			}
			t := &Template{Name: name, Path: filepath.Join(src.Dir, name), Source: src}
			if _, err := t.Settings(); err != nil {
				continue
			}
			seen[name] = true
			found = append(found, t)
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})
	return found
}
