package config

// ExampleConfig returns an example settings file showing all available options.
func ExampleConfig() string {
	return `# starter settings file
# Values can be overridden by STARTER_* environment variables or CLI flags.
# Render context values do not belong here; put them in .starter.ini.

# Extra template directories, searched after -s and before ~/.starter/templates
# (supports ~ expansion and %VAR% on Windows)
template_dirs = []

# Files ending with this suffix are rendered; the suffix is stripped
template_suffix = ".tmpl"

# Globs of template files that are never copied (doublestar syntax)
exclude = [".git/**", "**/.DS_Store"]

# Prompt for context values before copying
interactive = false

# Logging: debug, info, warn, error, critical
log_level = "warn"
# text, json or logfmt
log_format = "text"
log_timestamps = false
log_caller = false
`
}
