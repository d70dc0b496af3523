package starter

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nibzard/starter/internal/configstore"
	"github.com/nibzard/starter/internal/template"
)

// Resolve finds every requested template and expands their includes into a
// dependency-first sequence. Each template's config is merged into store
// without overwriting keys that are already set, so earlier sources win.
//
// All requested names are located before anything is read. A template is
// emitted once, at its first visit, after everything it includes. Include
// cycles end at the first template seen twice.
func Resolve(names []string, lookup template.Lookup, store *configstore.Store, logger *log.Logger) ([]*template.Template, error) {
	requested := make([]*template.Template, 0, len(names))
	for _, name := range names {
		t, err := lookup.Find(name)
		if err != nil {
			return nil, err
		}
		requested = append(requested, t)
	}

	r := &resolver{
		lookup:  lookup,
		store:   store,
		logger:  logger,
		visited: make(map[string]bool),
	}
	for _, t := range requested {
		if err := r.expand(t); err != nil {
			return nil, err
		}
	}
	return r.resolved, nil
}

type resolver struct {
	lookup   template.Lookup
	store    *configstore.Store
	logger   *log.Logger
	visited  map[string]bool
	resolved []*template.Template
}

// frame is a template whose includes are being walked.
type frame struct {
	tpl      *template.Template
	includes []string
	next     int
}

func (r *resolver) expand(root *template.Template) error {
	if r.visited[root.ID()] {
		return nil
	}

	var stack []*frame
	push := func(t *template.Template) error {
		r.visited[t.ID()] = true
		includes, err := r.open(t)
		if err != nil {
			return err
		}
		stack = append(stack, &frame{tpl: t, includes: includes})
		return nil
	}

	if err := push(root); err != nil {
		return err
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.includes) {
			stack = stack[:len(stack)-1]
			r.resolved = append(r.resolved, top.tpl)
			if r.logger != nil {
				r.logger.Debug("Template resolved", "template", top.tpl.Name, "path", top.tpl.Path)
			}
			continue
		}

		name := top.includes[top.next]
		top.next++
		dep, err := r.lookup.Find(name)
		if err != nil {
			return fmt.Errorf("template %s includes %s: %w", top.tpl.Name, name, err)
		}
		if r.visited[dep.ID()] {
			continue
		}
		if err := push(dep); err != nil {
			return err
		}
	}
	return nil
}

// open merges the template's config and takes its include list out of the
// store. A missing include key means no dependencies.
func (r *resolver) open(t *template.Template) ([]string, error) {
	if err := r.store.Read(t.Fs(), false, t.Configuration()); err != nil {
		return nil, fmt.Errorf("template %s: %w", t.Name, err)
	}
	include, err := r.store.Pop(template.SettingsSection, template.IncludeKey)
	if errors.Is(err, configstore.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return template.ParseList(include), nil
}
