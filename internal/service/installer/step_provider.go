package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ProviderStep picks the providers to configure. Several can be
// toggled; consult and research work across all of them.
type ProviderStep struct {
	choices  []string
	cursor   int
	selected map[int]bool
}

func NewProviderStep() Step {
	return &ProviderStep{
		choices:  []string{"openai", "anthropic", "openrouter", "ollama"},
		selected: make(map[int]bool),
	}
}

func (s *ProviderStep) Init() tea.Cmd {
	return nil
}

func (s *ProviderStep) Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case " ":
			s.selected[s.cursor] = !s.selected[s.cursor]
		case "enter":
			for i, choice := range s.choices {
				if s.selected[i] {
					state.Providers = append(state.Providers, choice)
				}
			}
			if len(state.Providers) == 0 {
				state.Providers = []string{s.choices[s.cursor]}
			}
			return nil, nil
		}
	}
	return s, nil
}

func (s *ProviderStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Select providers to configure (space to toggle, enter to confirm):\n\n")
	for i, choice := range s.choices {
		mark := "[ ]"
		if s.selected[i] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, choice)
		if s.cursor == i {
			b.WriteString(selStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
