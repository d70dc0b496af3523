package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/nibzard/starter/internal/logging"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User settings file (~/.starter/starter.toml or OS-specific config dir)
// 3. Project settings file (starter.toml or .starter.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user settings file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project settings file (overrides user settings)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadConfigFile validates and applies a TOML settings file. Keys present in
// the file replace the current values; absent keys are left untouched.
func loadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return err
	}
	if err := validateSettings(path, raw); err != nil {
		return err
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return err
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

// finalizeConfig computes derived values and validates the merged result.
func finalizeConfig(cfg *Config) error {
	dirs := make([]string, 0, len(cfg.TemplateDirs))
	for _, dir := range cfg.TemplateDirs {
		dir = expandPath(strings.TrimSpace(dir))
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolving template dir %s: %w", dir, err)
		}
		dirs = append(dirs, abs)
	}
	cfg.TemplateDirs = dirs

	if cfg.Source != "" {
		cfg.Source = expandPath(cfg.Source)
	}
	if cfg.ContextFile != "" {
		cfg.ContextFile = expandPath(cfg.ContextFile)
	}
	if cfg.Target == "" {
		cfg.Target = DefaultTarget
	}
	cfg.Target = expandPath(cfg.Target)

	if !strings.HasPrefix(cfg.TemplateSuffix, ".") || len(cfg.TemplateSuffix) < 2 {
		return &ValidationError{Path: "template_suffix", Message: fmt.Sprintf("%q must start with a dot", cfg.TemplateSuffix)}
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Message: err.Error()}
	}
	if _, err := logging.ParseFormat(cfg.LogFormat); err != nil {
		return &ValidationError{Path: "log_format", Message: err.Error()}
	}

	return nil
}

// LoggingOptions returns the console logging options selected by cfg.
func (c *Config) LoggingOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.LogLevel
	opts.Format = c.LogFormat
	opts.Timestamps = c.LogTimestamps
	opts.Caller = c.LogCaller
	return opts
}
