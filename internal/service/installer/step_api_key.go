package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// APIKeyStep collects a key for each selected provider in turn. Ollama
// asks for its base URL instead: local daemons rarely need a key.
type APIKeyStep struct {
	input   textinput.Model
	index   int
	started bool
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return nil
}

func (s *APIKeyStep) current(state *InstallState) string {
	if s.index >= len(state.Providers) {
		return ""
	}
	return state.Providers[s.index]
}

func (s *APIKeyStep) startInput(provider string) tea.Cmd {
	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 40
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'

	switch provider {
	case "openai":
		s.input.Placeholder = "sk-..."
	case "anthropic":
		s.input.Placeholder = "sk-ant-..."
	case "openrouter":
		s.input.Placeholder = "sk-or-v1-..."
	case "ollama":
		s.input.Placeholder = "http://localhost:11434"
		s.input.EchoMode = textinput.EchoNormal
	}
	s.started = true
	return textinput.Blink
}

func (s *APIKeyStep) store(state *InstallState, provider, value string) {
	switch provider {
	case "openai":
		state.Env.OpenAIAPIKey = value
	case "anthropic":
		state.Env.AnthropicAPIKey = value
	case "openrouter":
		state.Env.OpenRouterAPIKey = value
	case "ollama":
		if value == "" {
			value = "http://localhost:11434"
		}
		state.Env.OllamaBaseURL = value
	}
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
	provider := s.current(state)
	if provider == "" {
		return nil, nil
	}
	if !s.started {
		return s, s.startInput(provider)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		s.store(state, provider, s.input.Value())
		s.index++
		s.started = false
		if s.index >= len(state.Providers) {
			return nil, nil
		}
		return s, s.startInput(s.current(state))
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	provider := s.current(state)
	if provider == "" {
		return "Loading...\n"
	}

	label := fmt.Sprintf("%s API key", provider)
	if provider == "ollama" {
		label = "Ollama base URL"
	}
	return fmt.Sprintf("Enter your %s:\n\n%s\n\n(press enter to confirm)\n", label, s.input.View())
}
