package installer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/parley/internal/service/brain"
	"github.com/sandevgo/parley/internal/service/ui"
	"github.com/sandevgo/parley/pkg/env"
)

const (
	envFileName     = ".env"
	catalogFileName = "intents.yaml"
)

// WriteEnv renders settings into <dir>/.env. An existing file is never
// overwritten.
func WriteEnv(dir string, settings *Settings) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(dir, envFileName)
	if _, err := os.Stat(envPath); err == nil {
		return "", fmt.Errorf(".env file already exists at %s", envPath)
	}

	content, err := env.MarshalEnv(settings)
	if err != nil {
		return "", fmt.Errorf("failed to render .env: %w", err)
	}

	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		return "", err
	}
	return envPath, nil
}

// WriteCatalog copies the built-in intent catalog to <dir>/intents.yaml
// so it can be edited. An existing copy is kept.
func WriteCatalog(dir string) (string, error) {
	path := filepath.Join(dir, catalogFileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	if err := os.WriteFile(path, []byte(brain.DefaultCatalogSource()), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// SaveEnvStep writes the collected configuration to the .env file
type SaveEnvStep struct {
	dir   string
	err   error
	saved bool
}

func NewSaveEnvStep(dir string) Step {
	return &SaveEnvStep{dir: dir}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}
	if s.err != nil {
		return s, nil
	}

	if _, err := WriteEnv(s.dir, &state.Settings); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return ui.ErrorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

// InitializeFilesStep writes the editable runtime files
type InitializeFilesStep struct {
	dir  string
	err  error
	done bool
}

func NewInitializeFilesStep(dir string) Step {
	return &InitializeFilesStep{dir: dir}
}

func (s *InitializeFilesStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *InitializeFilesStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}
	if s.err != nil {
		return s, nil
	}

	if _, err := WriteCatalog(s.dir); err != nil {
		s.err = err
		return s, nil
	}

	s.done = true
	return nil, nil
}

func (s *InitializeFilesStep) View(state *InstallState) string {
	if s.err != nil {
		return ui.ErrorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return "Runtime files initialized successfully!\n"
	}
	return "Initializing runtime files...\n"
}
