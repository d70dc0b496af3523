package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FormPrompter shows all fields at once as an editable bubbletea form.
type FormPrompter struct {
	In     io.Reader
	Out    io.Writer
	Title  string
	Styles Styles
}

// NewFormPrompter creates a form prompter on the given terminal streams.
func NewFormPrompter(in io.Reader, out io.Writer) *FormPrompter {
	return &FormPrompter{
		In:     in,
		Out:    out,
		Title:  "Template context",
		Styles: DefaultStyles(),
	}
}

// Ask implements Prompter.
func (p *FormPrompter) Ask(ctx context.Context, fields []Field) ([]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	model := newFormModel(p.Title, fields, p.Styles)
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
	)
	final, err := program.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("run form: %w", err)
	}

	m, ok := final.(*formModel)
	if !ok || m.cancelled {
		return nil, ErrCancelled
	}
	return m.answers(), nil
}

type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

var defaultFormKeys = formKeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab/↓", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab/↑", "previous"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "next, submit on last"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	),
}

type formModel struct {
	title     string
	fields    []Field
	inputs    []textinput.Model
	focus     int
	width     int
	done      bool
	cancelled bool
	keys      formKeyMap
	styles    Styles
}

func newFormModel(title string, fields []Field, styles Styles) *formModel {
	m := &formModel{
		title:  title,
		fields: fields,
		inputs: make([]textinput.Model, len(fields)),
		keys:   defaultFormKeys,
		styles: styles,
	}
	for i, field := range fields {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = field.Default
		m.inputs[i] = input
		m.width = max(m.width, len(field.Key))
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m *formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			if m.focus == len(m.inputs)-1 {
				m.done = true
				return m, tea.Quit
			}
			return m, m.setFocus(m.focus + 1)
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus(m.focus + 1)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus(m.focus - 1)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// setFocus moves the cursor to field i, wrapping around both ends.
func (m *formModel) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	i = ((i % n) + n) % n
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *formModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title) + "\n\n")
	for i, field := range m.fields {
		cursor := "  "
		label := m.styles.Key.Render(fmt.Sprintf("%-*s", m.width, field.Key))
		if i == m.focus {
			cursor = m.styles.Focused.Render("> ")
			label = m.styles.Focused.Render(fmt.Sprintf("%-*s", m.width, field.Key))
		}
		b.WriteString(cursor + label + "  " + m.inputs[i].View() + "\n")
	}
	b.WriteString("\n" + m.styles.Help.Render(m.helpLine()) + "\n")
	return b.String()
}

func (m *formModel) helpLine() string {
	bindings := []key.Binding{m.keys.Next, m.keys.Prev, m.keys.Submit, m.keys.Cancel}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " | ") + " | blank keeps the default"
}

func (m *formModel) answers() []string {
	answers := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		answers[i] = strings.TrimSpace(input.Value())
	}
	return answers
}
