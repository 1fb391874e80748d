package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PromptAPIKey blocks until the user types an API key. The rest of the
// application cannot do anything useful without one, so this runs as its
// own small program before the main model starts.
func PromptAPIKey() (string, error) {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "sk-..."
	ti.EchoMode = textinput.EchoPassword
	ti.Focus()
	m, err := tea.NewProgram(keyModel{input: ti}).Run()
	if err != nil {
		return "", err
	}
	km := m.(keyModel)
	key := strings.TrimSpace(km.input.Value())
	if key == "" {
		return "", errors.New("no API key entered")
	}
	return key, nil
}

type keyModel struct {
	input textinput.Model
}

func (m keyModel) Init() tea.Cmd { return textinput.Blink }

func (m keyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.input.SetValue("")
			return m, tea.Quit
		case tea.KeyEnter:
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m keyModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Image Finder")
	info := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
		Render("Enter your OpenAI API key to use this application.")
	return header + "\n" + info + "\n" + m.input.View() + "\n"
}
