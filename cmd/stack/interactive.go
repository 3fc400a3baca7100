package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxSlots bounds how many slot cells the view draws.
const maxSlots = 48

const historySize = 12

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	filledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type historyEntry struct {
	err    error
	line   string
	result string
}

type interactiveModel struct {
	ss      *session
	input   textinput.Model
	history []historyEntry
}

func newInteractiveModel(ss *session) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "push 1 2 3"
	ti.Prompt = "> "
	ti.Width = 40
	ti.Focus()
	return &interactiveModel{ss: ss, input: ti}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "quit" || line == "exit" {
				return m, tea.Quit
			}
			if line != "" {
				m.record(line)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) record(line string) {
	result, err := m.ss.exec(line)
	m.history = append(m.history, historyEntry{line: line, result: result, err: err})
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	s := m.ss.stack

	b.WriteString(titleStyle.Render("Bounded Stack"))
	b.WriteString(" ")
	b.WriteString(m.ss.describe())
	b.WriteString("\n\n")

	b.WriteString(renderSlots(s.Len(), s.Cap()))
	b.WriteString(fmt.Sprintf("  %d/%d", s.Len(), s.Cap()))
	b.WriteString("\n")

	b.WriteString("top: ")
	if err := s.Peek(m.ss.out); err != nil {
		b.WriteString(helpStyle.Render("(empty)"))
	} else {
		b.WriteString(resultStyle.Render(m.ss.layout.Format(m.ss.out)))
		b.WriteString(" ")
		b.WriteString(typeStyle.Render(m.ss.layout.Name))
	}
	b.WriteString("\n\n")

	for _, h := range m.history {
		b.WriteString(helpStyle.Render("> " + h.line))
		b.WriteString("\n")
		switch {
		case h.err != nil:
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", h.err)))
			b.WriteString("\n")
		case h.result != "":
			b.WriteString(h.result)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("push/pop/peek/len/empty/full/reset/help • esc quit"))

	return b.String()
}

// renderSlots draws one cell per slot, bottom of the stack first.
func renderSlots(n, capacity int) string {
	shown := min(capacity, maxSlots)
	var b strings.Builder
	for i := range shown {
		if i < n {
			b.WriteString(filledStyle.Render("■"))
		} else {
			b.WriteString(emptyStyle.Render("□"))
		}
	}
	if capacity > shown {
		b.WriteString(helpStyle.Render(fmt.Sprintf(" +%d", capacity-shown)))
	}
	return b.String()
}

func runInteractive(ss *session) error {
	p := tea.NewProgram(newInteractiveModel(ss), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
