package controller

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// nameModel prompts for the variable name, prefilled with the first
// suggestion. Tab cycles through the other suggestions.
type nameModel struct {
	input       textinput.Model
	suggestions []string
	next        int

	name      string
	cancelled bool
}

func newNameModel(suggestions []string, width int) nameModel {
	input := textinput.New()
	input.Prompt = "name: "
	input.CharLimit = 64
	input.Width = max(width-10, 10)

	if len(suggestions) > 0 {
		input.SetValue(suggestions[0])
	}

	input.Focus()

	return nameModel{input: input, suggestions: suggestions, next: 1}
}

func (m nameModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m nameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if value := strings.TrimSpace(m.input.Value()); value != "" {
				m.name = value
				return m, tea.Quit
			}

			return m, nil
		case tea.KeyTab:
			if len(m.suggestions) > 0 {
				m.input.SetValue(m.suggestions[m.next%len(m.suggestions)])
				m.input.CursorEnd()
				m.next++
			}

			return m, nil
		}
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m nameModel) View() string {
	if m.name != "" || m.cancelled {
		return ""
	}

	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("Introduce variable"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if len(m.suggestions) > 1 {
		b.WriteString(hint.Render("suggestions: " + strings.Join(m.suggestions, ", ")))
		b.WriteString("\n")
	}

	b.WriteString(hint.Render("tab next suggestion • enter accept • esc cancel"))
	b.WriteString("\n")

	return b.String()
}
