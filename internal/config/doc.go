// Package config handles configuration loading and defaults.
//
// Settings are loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User settings file (~/.starter/starter.toml or OS-specific config directory)
// 3. Project settings file (starter.toml or .starter.toml in the working directory)
// 4. Environment variables (STARTER_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence. Every
// settings file is validated against an embedded JSON schema before it is
// applied.
//
// User-level settings locations:
// - ~/.starter/starter.toml (preferred)
// - Windows: %APPDATA%\starter\starter.toml
// - macOS: ~/Library/Application Support/starter/starter.toml
// - Linux/BSD: $XDG_CONFIG_HOME/starter/starter.toml or ~/.config/starter/starter.toml
//
// These files configure the tool itself. Render context values live in INI
// files (.starter.ini) and are handled by the configstore package.
package config
