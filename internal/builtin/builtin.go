// Package builtin ships the templates compiled into the starter binary.
package builtin

import (
	"embed"

	"github.com/spf13/afero"

	"github.com/nibzard/starter/internal/template"
)

// Label marks templates served from the binary.
const Label = "builtin"

// Dir is the root of the bundled templates inside FS.
const Dir = "templates"

//go:embed all:templates
var files embed.FS

// FS returns the bundled templates as a read-only filesystem.
func FS() afero.Fs {
	return afero.FromIOFS{FS: files}
}

// Source returns the search source for bundled templates. It is probed last.
func Source() template.Source {
	return template.Source{Label: Label, Fs: FS(), Dir: Dir}
}
