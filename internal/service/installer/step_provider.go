package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/parley/internal/config"
	"github.com/sandevgo/parley/internal/service/ui"
)

// ChoiceStep is a single-select list. onSelect receives the chosen id.
type ChoiceStep struct {
	title    string
	choices  []item
	cursor   int
	onSelect func(state *InstallState, id string)
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
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
		case "enter":
			s.onSelect(state, s.choices[s.cursor].id)
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, choice := range s.choices {
		line := fmt.Sprintf("  %s", choice.title)
		if choice.desc != "" {
			line += " - " + choice.desc
		}
		if s.cursor == i {
			b.WriteString(ui.SelectedStyle.Render("❯"+line[1:]) + "\n")
		} else {
			b.WriteString(ui.ItemStyle.Render(line) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}

// NewProviderStep selects AI_PROVIDER.
func NewProviderStep() Step {
	return &ChoiceStep{
		title: "Select your AI Provider:",
		choices: []item{
			{id: config.ProviderAuto, title: "Auto", desc: "OpenAI, then Anthropic, then local Ollama"},
			{id: config.ProviderOpenAI, title: "OpenAI"},
			{id: config.ProviderAnthropic, title: "Anthropic"},
			{id: config.ProviderOllama, title: "Ollama", desc: "local models"},
			{id: config.ProviderOpenRouter, title: "OpenRouter"},
			{id: config.ProviderCustom, title: "Custom", desc: "any OpenAI-compatible endpoint"},
			{id: config.ProviderBrain, title: "Brain only", desc: "no language model"},
		},
		onSelect: func(state *InstallState, id string) {
			state.Settings.Provider = id
		},
	}
}

// NewStorageStep selects PARLEY_STORAGE.
func NewStorageStep() Step {
	return &ChoiceStep{
		title: "Where should taught facts be kept?",
		choices: []item{
			{id: config.StorageSQLite, title: "SQLite", desc: "facts and chat history in parley.db"},
			{id: config.StorageJSON, title: "JSON file", desc: "facts in learned.json, history in memory"},
		},
		onSelect: func(state *InstallState, id string) {
			state.Settings.Storage = id
		},
	}
}
