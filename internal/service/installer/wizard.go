package installer

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/parley/internal/service/ui"
)

var ErrInterrupted = errors.New("parley installation interrupted")

// Step represents a single step in the installation wizard. Update returns
// nil once the step is complete.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

func getSteps(runtimePath string) []Step {
	steps := []Step{NewProviderStep()}
	steps = append(steps, NewAPIKeySteps()...)
	return append(steps,
		NewStorageStep(),
		NewChannelStep(),
		NewTelegramTokenStep(),
		NewTelegramOwnerStep(),
		NewFinalizationStep(),
		NewSaveEnvStep(runtimePath),
		NewInitializeFilesStep(runtimePath),
	)
}

type item struct {
	id    string
	title string
	desc  string
}

type nextMsg struct{}

// wizard runs the steps in order. Steps completed by a key press are
// remembered so esc can return to them; skipped steps are not.
type wizard struct {
	runtimePath string
	steps       []Step
	current     int
	answered    []int
	state       *InstallState
	quitting    bool
	width       int
	height      int
}

func newWizard(runtimePath string, steps []Step) wizard {
	return wizard{
		runtimePath: runtimePath,
		steps:       steps,
		state:       NewInstallState(),
	}
}

func (w wizard) done() bool {
	return w.current >= len(w.steps)
}

func (w wizard) Init() tea.Cmd {
	if w.done() {
		return nil
	}
	return w.steps[w.current].Init()
}

func (w wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if w.quitting || w.done() {
		return w, tea.Quit
	}

	key, isKey := msg.(tea.KeyMsg)
	switch {
	case isKey && key.String() == "ctrl+c":
		w.quitting = true
		return w, tea.Quit
	case isKey && key.String() == "esc" && len(w.answered) > 0:
		w.current = w.answered[len(w.answered)-1]
		w.answered = w.answered[:len(w.answered)-1]
		return w, w.steps[w.current].Init()
	}

	if size, ok := msg.(tea.WindowSizeMsg); ok {
		w.width, w.height = size.Width, size.Height
	}

	next, cmd := w.steps[w.current].Update(msg, w.state, w.width, w.height)
	if next != nil {
		w.steps[w.current] = next
		return w, cmd
	}

	if isKey {
		w.answered = append(w.answered, w.current)
	}
	w.current++
	if w.done() {
		return w, tea.Quit
	}
	return w, w.steps[w.current].Init()
}

func (w wizard) View() string {
	switch {
	case w.quitting:
		return "Installation cancelled.\n"
	case w.done():
		return "Configuration complete!\n"
	}

	header := ui.HeaderStyle.Render("Setting up Parley") + " " + ui.DescStyle.Render(w.runtimePath)
	footer := ""
	if len(w.answered) > 0 {
		footer = ui.DescStyle.Render("esc: back") + "\n"
	}
	return header + "\n\n" + w.steps[w.current].View(w.state) + footer
}

// RunWizard starts the TUI and writes the result under runtimePath.
func RunWizard(runtimePath string) (*InstallState, error) {
	p := tea.NewProgram(newWizard(runtimePath, getSteps(runtimePath)), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := m.(wizard)
	if final.quitting {
		return nil, ErrInterrupted
	}
	if !final.done() {
		return nil, fmt.Errorf("installation stopped at step %d of %d", final.current+1, len(final.steps))
	}
	return final.state, nil
}
