// Package starterdir provides constants and utilities for the .starter directory structure.
package starterdir

import "path/filepath"

const (
	// Dir is the name of the per-user starter directory.
	Dir = ".starter"

	// TemplatesDir is the name of the user template directory (inside .starter).
	TemplatesDir = "templates"

	// ContextFile is the INI file holding context defaults. It is read from the
	// home directory and the project directory, and names a template's own config.
	ContextFile = ".starter.ini"

	// SettingsFile is the default settings file name (inside .starter).
	SettingsFile = "starter.toml"
)

// TemplatesPath returns the user template directory within a home directory.
func TemplatesPath(home string) string {
	return joinPath(home, TemplatesDir)
}

// SettingsPath returns the full path to the settings file within a home directory.
func SettingsPath(home string) string {
	return joinPath(home, SettingsFile)
}

// ContextPath returns the path of the context defaults file in dir.
func ContextPath(dir string) string {
	if dir == "" {
		return ContextFile
	}
	return filepath.Join(dir, ContextFile)
}

// DirPath returns the full path to the .starter directory within a home directory.
func DirPath(home string) string {
	if home == "." || home == "" {
		return Dir
	}
	return home + string(filepath.Separator) + Dir
}

func joinPath(home, file string) string {
	if home == "." || home == "" {
		return Dir + string(filepath.Separator) + file
	}
	return home + string(filepath.Separator) + Dir + string(filepath.Separator) + file
}
