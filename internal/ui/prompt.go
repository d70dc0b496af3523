// Package ui provides the terminal interfaces used by starter: context
// prompts and template listings.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("prompt cancelled")

// Field is one context value offered for editing.
type Field struct {
	Key     string
	Default string
}

// Prompter asks the user for new values of fields. The returned slice has one
// answer per field; an empty answer keeps the default.
type Prompter interface {
	Ask(ctx context.Context, fields []Field) ([]string, error)
}

// LinePrompter asks one question per line. It works with any reader, so it is
// used when stdin is not a terminal and in tests.
type LinePrompter struct {
	In     io.Reader
	Out    io.Writer
	Styles *Styles // nil renders plain text
}

// NewLinePrompter creates a line prompter reading from in and writing to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{In: in, Out: out}
}

// Ask implements Prompter. End of input leaves the remaining answers blank.
func (p *LinePrompter) Ask(ctx context.Context, fields []Field) ([]string, error) {
	answers := make([]string, len(fields))
	reader := bufio.NewReader(p.In)
	styles := PlainStyles()
	if p.Styles != nil {
		styles = *p.Styles
	}

	for i, field := range fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fmt.Fprintf(p.Out, "%s [%s]: ", styles.Key.Render(field.Key), field.Default)

		line, err := reader.ReadString('\n')
		answers[i] = strings.TrimSpace(line)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.Out)
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read answer for %s: %w", field.Key, err)
		}
	}
	return answers, nil
}
