package template

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/nibzard/starter/internal/configstore"
	"github.com/nibzard/starter/internal/render"
)

// DefaultSuffix marks files that are rendered instead of copied.
const DefaultSuffix = ".tmpl"

var varPattern = regexp.MustCompile(`\+([^+]+)\+`)

// PasteOptions controls how a template is materialized.
type PasteOptions struct {
	// Suffix marks renderable files. Defaults to DefaultSuffix.
	Suffix string
	// Exclude holds extra globs to leave out, on top of the template's own.
	Exclude []string
	Engine  render.Engine
	Logger  *log.Logger
}

// PasteResult lists the files a paste wrote, in write order.
type PasteResult struct {
	Template *Template
	Written  []string
}

// SubstitutePath replaces +KEY+ placeholders with context values. Unknown
// keys are replaced by the empty string.
func SubstitutePath(p string, ctx configstore.Context) string {
	return varPattern.ReplaceAllStringFunc(p, func(m string) string {
		return ctx.Value(m[1 : len(m)-1])
	})
}

// Paste copies static files and renders suffixed files into ctx.DeployDir()
// on dst. Files already written stay in place when a later file fails.
func (t *Template) Paste(dst afero.Fs, ctx configstore.Context, opts PasteOptions) (PasteResult, error) {
	result := PasteResult{Template: t}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	suffix := opts.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	root := ctx.DeployDir()
	if root == "" {
		root = "."
	}

	files, err := t.Files(opts.Exclude...)
	if err != nil {
		return result, err
	}

	logger.Info("Paste template", "template", t.Name, "files", len(files))
	vars := ctx.Map()
	for _, f := range files {
		target := filepath.Join(root, filepath.FromSlash(SubstitutePath(f.Rel, ctx)))

		if !strings.HasSuffix(f.Rel, suffix) {
			if err := copyFile(t.Fs(), f, dst, target); err != nil {
				return result, fmt.Errorf("copy %s: %w", f.Rel, err)
			}
			logger.Debug("File copied", "path", target)
			result.Written = append(result.Written, target)
			continue
		}

		target = strings.TrimSuffix(target, suffix)
		if err := t.renderFile(f, dst, target, vars, opts.Engine); err != nil {
			return result, err
		}
		logger.Debug("Template rendered", "path", target)
		result.Written = append(result.Written, target)
	}
	return result, nil
}

func (t *Template) renderFile(f File, dst afero.Fs, target string, vars map[string]any, engine render.Engine) error {
	data, err := afero.ReadFile(t.Fs(), f.Source)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.Rel, err)
	}
	out, err := render.Render(engine, t.Name+"/"+f.Rel, string(data), vars)
	if err != nil {
		return err
	}
	if err := dst.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", f.Rel, err)
	}
	if err := afero.WriteFile(dst, target, []byte(out), filePerm(f.Mode)); err != nil {
		return fmt.Errorf("write %s: %w", f.Rel, err)
	}
	return nil
}

func copyFile(src afero.Fs, f File, dst afero.Fs, target string) error {
	in, err := src.Open(f.Source)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := dst.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := dst.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm(f.Mode))
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// filePerm keeps the executable bit of the source and nothing else, so files
// from read-only sources stay writable in the target.
func filePerm(mode os.FileMode) os.FileMode {
	if mode&0o111 != 0 {
		return 0o755
	}
	return 0o644
}
