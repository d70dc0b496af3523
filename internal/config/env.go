package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nibzard/starter/internal/utils"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("STARTER_TEMPLATE_DIRS"); v != "" {
		cfg.TemplateDirs = filepath.SplitList(v)
	}
	if v := os.Getenv("STARTER_TEMPLATE_SUFFIX"); v != "" {
		cfg.TemplateSuffix = strings.TrimSpace(v)
	}
	if v := os.Getenv("STARTER_EXCLUDE"); v != "" {
		cfg.Exclude = utils.SplitAndTrim(v, ",")
	}
	if v := os.Getenv("STARTER_INTERACTIVE"); v != "" {
		cfg.Interactive = boolFromString(v)
	}

	// Logging configuration
	if v := os.Getenv("STARTER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("STARTER_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("STARTER_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
	if v := os.Getenv("STARTER_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
