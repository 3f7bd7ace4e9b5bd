package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep computes derived values before the .env is written.
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	state.Finalize()
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}
