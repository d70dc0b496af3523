package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles for prompts and listings.
type Styles struct {
	Title       lipgloss.Style
	Key         lipgloss.Style
	Focused     lipgloss.Style
	Name        lipgloss.Style
	Source      lipgloss.Style
	Description lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the built-in color scheme (ANSI 256 colors).
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Key:         lipgloss.NewStyle().Foreground(lipgloss.Color("180")),
		Focused:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Name:        lipgloss.NewStyle().Bold(true),
		Source:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:       plain,
		Key:         plain,
		Focused:     plain,
		Name:        plain,
		Source:      plain,
		Description: plain,
		Help:        plain,
	}
}

// NoDescription is shown for templates without a description.
const NoDescription = "no description"

// ListEntry is one template row in a listing.
type ListEntry struct {
	Name        string
	Source      string
	Description string
}

// FormatList renders entries as "name -- description" lines with names padded
// to a common width.
func FormatList(entries []ListEntry, styles Styles) string {
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}

	var b strings.Builder
	for _, e := range entries {
		desc := e.Description
		if desc == "" {
			desc = NoDescription
		}
		name := styles.Name.Render(fmt.Sprintf("%-*s", width, e.Name))
		b.WriteString(name + " -- " + styles.Description.Render(desc))
		if e.Source != "" {
			b.WriteString(" " + styles.Source.Render("("+e.Source+")"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
