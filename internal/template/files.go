package template

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/nibzard/starter/internal/starterdir"
)

// File is one entry of a template's manifest.
type File struct {
	// Source is the path inside the template's filesystem.
	Source string
	// Rel is the slash-separated path relative to the template root.
	Rel  string
	Mode os.FileMode
}

// Files walks the template directory in lexical order. The template's own
// config file at its root is left out, as is anything matching the template's exclude globs or extra.
// Each call walks the directory again.
func (t *Template) Files(extra ...string) ([]File, error) {
	settings, err := t.Settings()
	if err != nil {
		return nil, err
	}
	patterns := append(append([]string{}, settings.Exclude...), extra...)
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("template %s: invalid exclude pattern %q", t.Name, p)
		}
	}

	var files []File
	err = afero.Walk(t.Fs(), t.Path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == t.Path {
			return nil
		}
		rel, err := filepath.Rel(t.Path, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if excluded(rel, patterns) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || rel == starterdir.ContextFile {
			return nil
		}
		files = append(files, File{Source: path, Rel: rel, Mode: info.Mode()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk template %s: %w", t.Name, err)
	}
	return files, nil
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, path.Base(rel)); ok {
			return true
		}
	}
	return false
}
