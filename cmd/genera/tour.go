package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

// tourEntry is one executed cell: the step's title and code line plus what
// running it produced. Inspector queries reuse the shape with no title.
type tourEntry struct {
	title  string
	code   string
	output string
	isErr  bool
}

type tourModel struct {
	textInput   textinput.Model
	state       *tourState
	steps       []tourStep
	idx         int
	log         []tourEntry
	width       int
	height      int
	quitting    bool
	initialized bool
}

type keyMap struct {
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
}

var keys = keyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run the next step"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
}

func newTourModel() tourModel {
	ti := textinput.New()
	ti.Placeholder = "enter to continue, :help for the inspector"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "genera> "

	return tourModel{
		textInput: ti,
		state:     newTourState(),
		steps:     tourSteps(),
		log:       make([]tourEntry, 0),
	}
}

func (m tourModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m tourModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.log = make([]tourEntry, 0)
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			m.textInput.SetValue("")
			if input == "" {
				m = m.advance()
				return m, nil
			}
			if strings.HasPrefix(input, ":") {
				return m.handleInspect(input)
			}
			m.log = append(m.log, tourEntry{
				code:   input,
				output: "press enter on an empty prompt to continue, or use :help",
				isErr:  true,
			})
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m tourModel) advance() tourModel {
	if m.idx >= len(m.steps) {
		return m
	}
	step := m.steps[m.idx]
	output, isErr := step.run(m.state)
	m.log = append(m.log, tourEntry{
		title:  step.title,
		code:   step.code,
		output: output,
		isErr:  isErr,
	})
	m.idx++
	return m
}

func (m tourModel) handleInspect(input string) (tourModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]
	reg := m.state.reg

	entry := tourEntry{code: input}
	switch cmd {
	case ":help", ":h":
		entry.output = strings.Join([]string{
			":classes            list value classes",
			":generics           list generics",
			":refclasses         list reference classes",
			":describe <class>   schema and validity origin",
			":methods <generic>  registered implementations",
			":warnings           recorded generic conflicts",
			":quit               leave the tour",
		}, "\n")
	case ":classes":
		entry.output = strings.Join(reg.Classes(), ", ")
	case ":generics":
		entry.output = strings.Join(reg.Generics(), ", ")
	case ":refclasses":
		if refs := reg.RefClasses(); len(refs) == 0 {
			entry.output = "no reference classes registered"
		} else {
			entry.output = strings.Join(refs, ", ")
		}
	case ":describe":
		if len(parts) != 2 {
			entry.output = "usage: :describe <class>"
			entry.isErr = true
			break
		}
		desc, err := reg.DescribeClass(parts[1])
		if err != nil {
			entry.output = err.Error()
			entry.isErr = true
			break
		}
		entry.output = strings.TrimRight(renderDescription(desc), "\n")
	case ":methods":
		if len(parts) != 2 {
			entry.output = "usage: :methods <generic>"
			entry.isErr = true
			break
		}
		infos, err := reg.Methods(parts[1])
		if err != nil {
			entry.output = err.Error()
			entry.isErr = true
			break
		}
		if len(infos) == 0 {
			entry.output = "no methods registered"
			break
		}
		lines := make([]string, len(infos))
		for i, info := range infos {
			lines[i] = fmt.Sprintf("%s for %s", info.Signature, info.Class)
		}
		entry.output = strings.Join(lines, "\n")
	case ":warnings":
		warnings := reg.Warnings()
		if len(warnings) == 0 {
			entry.output = "no warnings"
			break
		}
		lines := make([]string, len(warnings))
		for i, w := range warnings {
			lines[i] = w.Error()
		}
		entry.output = strings.Join(lines, "\n")
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		entry.output = fmt.Sprintf("unknown command: %s", cmd)
		entry.isErr = true
	}
	m.log = append(m.log, entry)
	return m, nil
}

func (m tourModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	progress := "complete"
	if m.idx < len(m.steps) {
		progress = fmt.Sprintf("step %d of %d", m.idx+1, len(m.steps))
	}
	b.WriteString(headerStyle.Render("genera tour") + " " + mutedStyle.Render(progress) + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n")

	reserved := 10
	available := m.height - reserved
	maxEntries := available / 4
	if maxEntries < 1 {
		maxEntries = 1
	}
	start := 0
	if len(m.log) > maxEntries {
		start = len(m.log) - maxEntries
	}

	for i := start; i < len(m.log); i++ {
		entry := m.log[i]
		if entry.title != "" {
			b.WriteString("  " + headerStyle.Render(entry.title) + "\n")
		}
		if entry.code != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.code + "\n")
		}
		for _, line := range strings.Split(entry.output, "\n") {
			if entry.isErr {
				b.WriteString("  " + errorStyle.Render("✗ "+line) + "\n")
			} else {
				b.WriteString("  " + resultStyle.Render("→ "+line) + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(m.nextPreview() + "\n")
	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("enter") + helpDescStyle.Render(" run step  ") +
		helpKeyStyle.Render(":help") + helpDescStyle.Render(" inspector  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func (m tourModel) nextPreview() string {
	if m.idx >= len(m.steps) {
		return borderStyle.Render(mutedStyle.Render(
			"Tour complete. The registry stays live; poke at it with :describe, :methods, :classes."))
	}
	step := m.steps[m.idx]
	title := headerStyle.Render("Next: " + step.title)
	return borderStyle.Render(title + "\n" + helpDescStyle.Render(step.narrative))
}

func runTour() error {
	p := tea.NewProgram(newTourModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
