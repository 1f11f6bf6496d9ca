package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/vfs/file"
	"github.com/wippyai/vfs/internal/shell"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	outputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxHistory bounds how many past commands stay on screen
const maxHistory = 20

type historyEntry struct {
	err    error
	line   string
	output string
	code   file.ExitCode
}

type interactiveModel struct {
	sh      *shell.Shell
	history []historyEntry
	input   textinput.Model
	busy    bool
}

type runResultMsg struct {
	entry historyEntry
}

func newInteractiveModel(sh *shell.Shell) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("vfsh> ")
	ti.Placeholder = "help"
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{sh: sh, input: ti}
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.runLine("cat /etc/motd"))
}

// runLine runs line with the shell's output captured. Commands run one at
// a time, so the shell is never used concurrently.
func (m *interactiveModel) runLine(line string) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		var buf bytes.Buffer
		prevOut, prevErr := m.sh.SetOutput(&buf, &buf)
		code, err := m.sh.Run(line)
		m.sh.SetOutput(prevOut, prevErr)

		return runResultMsg{entry: historyEntry{
			line:   line,
			output: buf.String(),
			code:   code,
			err:    err,
		}}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d", "esc":
			return m, tea.Quit

		case "enter":
			if m.busy {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "exit" {
				return m, tea.Quit
			}
			if line == "clear" {
				m.history = nil
				return m, nil
			}
			return m, m.runLine(line)
		}

	case runResultMsg:
		m.busy = false
		m.history = append(m.history, msg.entry)
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("vfsh"))
	b.WriteString(" in-memory file store\n\n")

	for _, h := range m.history {
		if h.line != "" {
			b.WriteString(promptStyle.Render("vfsh> "))
			b.WriteString(h.line)
			b.WriteString("\n")
		}
		if h.output != "" {
			b.WriteString(outputStyle.Render(strings.TrimRight(h.output, "\n")))
			b.WriteString("\n")
		}
		if h.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", h.err)))
			b.WriteString("\n")
		} else if h.code != 0 {
			b.WriteString(errorStyle.Render(fmt.Sprintf("exit %d", h.code)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter run • clear • exit/esc quit"))

	return b.String()
}

func runInteractive(sh *shell.Shell) error {
	p := tea.NewProgram(newInteractiveModel(sh), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
