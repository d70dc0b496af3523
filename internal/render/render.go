// Package render renders template text with a variable context.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nikolalohinski/gonja"
)

// Engine renders template text against vars. Name identifies the text in errors.
type Engine interface {
	Render(name, text string, vars map[string]any) (string, error)
}

// Error reports a failure to parse or execute a template.
type Error struct {
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %q: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNilEngine is returned when rendering through an uninitialized engine.
var ErrNilEngine = errors.New("render engine is not initialized")

// ErrUnclosed is returned for a "{{", "{%" or "{#" marker without its closer.
var ErrUnclosed = errors.New("unclosed marker")

var delimiters = [...]struct{ open, close string }{
	{"{{", "}}"},
	{"{%", "%}"},
	{"{#", "#}"},
}

// GonjaEngine renders Jinja-syntax templates. Undefined variables render as
// empty strings.
type GonjaEngine struct{}

// NewEngine returns the default engine.
func NewEngine() *GonjaEngine {
	return &GonjaEngine{}
}

// Render parses and executes text.
func (GonjaEngine) Render(name, text string, vars map[string]any) (string, error) {
	// gonja's lexer does not stop at the end of an unterminated expression.
	if err := checkDelimiters(text); err != nil {
		return "", &Error{Name: name, Err: fmt.Errorf("parse: %w", err)}
	}
	tpl, err := gonja.FromString(text)
	if err != nil {
		return "", &Error{Name: name, Err: fmt.Errorf("parse: %w", err)}
	}
	if vars == nil {
		vars = map[string]any{}
	}
	out, err := tpl.Execute(vars)
	if err != nil {
		return "", &Error{Name: name, Err: err}
	}
	return out, nil
}

// checkDelimiters fails when a marker opened in text is never closed.
func checkDelimiters(text string) error {
	for offset := 0; ; {
		start, i := -1, 0
		for j, d := range delimiters {
			if k := strings.Index(text[offset:], d.open); k >= 0 && (start < 0 || k < start) {
				start, i = k, j
			}
		}
		if start < 0 {
			return nil
		}
		start += offset
		body := start + len(delimiters[i].open)
		end := strings.Index(text[body:], delimiters[i].close)
		if end < 0 {
			return fmt.Errorf("%w %q at offset %d", ErrUnclosed, delimiters[i].open, start)
		}
		offset = body + end + len(delimiters[i].close)
	}
}

// HasMarkers reports whether text contains expression or statement markers.
func HasMarkers(text string) bool {
	return strings.Contains(text, "{{") || strings.Contains(text, "{%")
}

// Render renders text through engine, returning ErrNilEngine when engine is nil.
func Render(engine Engine, name, text string, vars map[string]any) (string, error) {
	if engine == nil {
		return "", ErrNilEngine
	}
	return engine.Render(name, text, vars)
}
