package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/parley/internal/config"
	"github.com/sandevgo/parley/internal/service/ui"
)

// InputStep collects one text value. Steps whose applies func rejects the
// current state are skipped.
type InputStep struct {
	title    string
	optional bool
	applies  func(state *InstallState) bool
	assign   func(state *InstallState, value string) error

	input   textinput.Model
	err     error
	started bool
}

type inputOption func(*InputStep)

func secret() inputOption {
	return func(s *InputStep) {
		s.input.EchoMode = textinput.EchoPassword
		s.input.EchoCharacter = '•'
	}
}

func optional() inputOption {
	return func(s *InputStep) { s.optional = true }
}

func placeholder(p string) inputOption {
	return func(s *InputStep) { s.input.Placeholder = p }
}

func newInputStep(title string, applies func(*InstallState) bool, assign func(*InstallState, string) error, opts ...inputOption) *InputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50

	s := &InputStep{
		title:   title,
		applies: applies,
		assign:  assign,
		input:   ti,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.started {
		if s.applies != nil && !s.applies(state) {
			return nil, nil
		}
		s.started = true
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" && !s.optional {
			s.err = fmt.Errorf("a value is required")
			return s, cmd
		}
		if err := s.assign(state, val); err != nil {
			s.err = err
			return s, cmd
		}
		return nil, nil
	}
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	hint := ""
	if s.optional {
		hint = " (optional - press Enter to skip)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s:\n\n%s\n\n", s.title, hint, s.input.View())
	if s.err != nil {
		b.WriteString(ui.ErrorStyle.Render(s.err.Error()) + "\n\n")
	}
	b.WriteString("(press enter to confirm)\n")
	return b.String()
}

func providerIs(names ...string) func(*InstallState) bool {
	return func(state *InstallState) bool {
		for _, n := range names {
			if state.Settings.Provider == n {
				return true
			}
		}
		return false
	}
}

// NewAPIKeySteps returns the provider-specific credential and endpoint
// prompts. Each one skips itself unless its provider was chosen.
func NewAPIKeySteps() []Step {
	return []Step{
		newInputStep("Enter your OpenAI API Key",
			providerIs(config.ProviderOpenAI, config.ProviderAuto),
			func(state *InstallState, v string) error {
				state.Settings.OpenAIAPIKey = v
				return nil
			},
			secret(), placeholder("sk-..."), optionalFor(config.ProviderAuto),
		),
		newInputStep("Enter your Anthropic API Key",
			providerIs(config.ProviderAnthropic, config.ProviderAuto),
			func(state *InstallState, v string) error {
				state.Settings.AnthropicAPIKey = v
				return nil
			},
			secret(), placeholder("sk-ant-..."), optionalFor(config.ProviderAuto),
		),
		newInputStep("Enter your OpenRouter API Key",
			providerIs(config.ProviderOpenRouter),
			func(state *InstallState, v string) error {
				state.Settings.OpenRouterAPIKey = v
				return nil
			},
			secret(), placeholder("sk-or-v1-..."),
		),
		newInputStep("Enter Ollama Base URL",
			providerIs(config.ProviderOllama, config.ProviderAuto),
			func(state *InstallState, v string) error {
				state.Settings.OllamaBaseURL = v
				return nil
			},
			placeholder("http://localhost:11434"), optional(),
		),
		newInputStep("Enter Custom OpenAI Base URL",
			providerIs(config.ProviderCustom),
			func(state *InstallState, v string) error {
				if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
					return fmt.Errorf("base url must start with http:// or https://")
				}
				state.Settings.CustomOpenAIBaseURL = v
				return nil
			},
			placeholder("https://api.example.com/v1"),
		),
		newInputStep("Enter the Custom endpoint API Key",
			providerIs(config.ProviderCustom),
			func(state *InstallState, v string) error {
				state.Settings.CustomOpenAIAPIKey = v
				return nil
			},
			secret(), optional(),
		),
		newInputStep("Enter the Custom endpoint model name",
			providerIs(config.ProviderCustom),
			func(state *InstallState, v string) error {
				state.Settings.CustomOpenAIModel = v
				return nil
			},
			placeholder("llama-3.1-8b-instruct"),
		),
	}
}

// optionalFor makes the value optional when the given provider is selected.
func optionalFor(provider string) inputOption {
	return func(s *InputStep) {
		applies := s.applies
		s.applies = func(state *InstallState) bool {
			if !applies(state) {
				return false
			}
			s.optional = state.Settings.Provider == provider
			return true
		}
	}
}
