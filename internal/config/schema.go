package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/starter/internal/utils"
)

const schemaURL = "starter-settings.schema.json"

// SettingsSchema is the JSON schema every settings file must satisfy.
const SettingsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "starter settings",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "template_dirs": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "template_suffix": {
      "type": "string",
      "pattern": "^\\.[^/\\\\]+$"
    },
    "exclude": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "log_level": {
      "enum": ["debug", "info", "warn", "warning", "error", "critical"]
    },
    "log_format": {
      "enum": ["text", "json", "logfmt"]
    },
    "log_timestamps": {"type": "boolean"},
    "log_caller": {"type": "boolean"},
    "interactive": {"type": "boolean"}
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func settingsSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(SettingsSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// validateSettings checks decoded TOML against the settings schema.
func validateSettings(file string, raw map[string]any) error {
	schema, err := settingsSchema()
	if err != nil {
		return err
	}

	// TOML decodes integers as int64 and times as time.Time; normalize to
	// plain JSON values first.
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return mapSchemaError(file, err)
	}
	return nil
}

// mapSchemaError converts a jsonschema.ValidationError into the first leaf
// cause as a ValidationError.
func mapSchemaError(file string, err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{File: file, Message: err.Error()}
	}

	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &ValidationError{
		File:    file,
		Path:    utils.JSONPointerToPath(leaf.InstanceLocation),
		Message: leaf.Message,
	}
}
