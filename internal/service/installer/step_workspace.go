package installer

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// WorkspaceStep optionally pins a default workspace. Left empty, the
// resolver detects the project heuristically per request.
type WorkspaceStep struct {
	input   textinput.Model
	started bool
	err     error
}

func NewWorkspaceStep() Step {
	return &WorkspaceStep{}
}

func (s *WorkspaceStep) Init() tea.Cmd {
	return nil
}

func (s *WorkspaceStep) Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
	if !s.started {
		s.input = textinput.New()
		s.input.Focus()
		s.input.CharLimit = 512
		s.input.Width = 60
		s.input.Placeholder = "Optional - press Enter to skip"
		s.started = true
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		value := s.input.Value()
		if value == "" {
			return nil, nil
		}
		info, err := os.Stat(value)
		if err != nil || !info.IsDir() {
			s.err = fmt.Errorf("%q is not an existing directory", value)
			return s, nil
		}
		state.Env.Workspace = value
		return nil, nil
	}
	return s, cmd
}

func (s *WorkspaceStep) View(state *InstallState) string {
	view := fmt.Sprintf("Default workspace directory:\n\n%s\n\n(press enter to confirm or skip)\n", s.input.View())
	if s.err != nil {
		view += "\n" + errorStyle.Render(s.err.Error()) + "\n"
	}
	return view
}
