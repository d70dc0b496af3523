package config

import "fmt"

// Default values.
const (
	DefaultTemplateSuffix = ".tmpl"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"
	DefaultTarget         = "."
)

// Config holds the tool settings and the parsed command line for one run.
type Config struct {
	// Template search
	TemplateDirs   []string `toml:"template_dirs"`
	TemplateSuffix string   `toml:"template_suffix"`
	Exclude        []string `toml:"exclude"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Prompt for context values before pasting
	Interactive bool `toml:"interactive"`

	// Command line only
	Templates    []string `toml:"-"`
	Target       string   `toml:"-"`
	Source       string   `toml:"-"`
	ContextFile  string   `toml:"-"`
	Params       []Param  `toml:"-"`
	List         bool     `toml:"-"`
	Version      bool     `toml:"-"`
	Help         bool     `toml:"-"`
	NoTUI        bool     `toml:"-"`
	PrintExample bool     `toml:"-"`

	// Settings files applied, lowest priority first (computed)
	Files []string `toml:"-"`
}

// Param is a NAME:VALUE context override given with -x.
type Param struct {
	Name  string
	Value string
}

func (p Param) String() string {
	return p.Name + ":" + p.Value
}

// ListMode reports whether the run should list templates instead of copying.
func (c *Config) ListMode() bool {
	return c.List || len(c.Templates) == 0
}

// ValidationError describes a settings value rejected by the schema or by
// finalization.
type ValidationError struct {
	File    string
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.File != "" {
		msg = fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}
