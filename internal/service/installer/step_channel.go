package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/parley/internal/service/ui"
)

const (
	channelCLI      = "cli"
	channelHTTP     = "http"
	channelTelegram = "telegram"
)

// ChannelStep toggles the transports to enable. At least one must stay on.
type ChannelStep struct {
	choices []item
	cursor  int
	err     error
}

func NewChannelStep() Step {
	return &ChannelStep{
		choices: []item{
			{id: channelCLI, title: "Terminal", desc: "interactive prompt"},
			{id: channelHTTP, title: "HTTP API", desc: "POST /api/chat"},
			{id: channelTelegram, title: "Telegram", desc: "owner-only bot"},
		},
	}
}

func (s *ChannelStep) Init() tea.Cmd {
	return nil
}

func (s *ChannelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
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
		case " ", "x":
			id := s.choices[s.cursor].id
			state.Channels[id] = !state.Channels[id]
			s.err = nil
		case "enter":
			if !anyEnabled(state.Channels) {
				s.err = fmt.Errorf("select at least one channel")
				return s, nil
			}
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChannelStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Select your Chat Channels (space to toggle):\n\n")
	for i, choice := range s.choices {
		mark := "[ ]"
		if state.Channels[choice.id] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s - %s", mark, choice.title, choice.desc)
		if s.cursor == i {
			b.WriteString(ui.SelectedStyle.Render("❯ "+line) + "\n")
		} else {
			b.WriteString(ui.ItemStyle.Render("  "+line) + "\n")
		}
	}
	if s.err != nil {
		b.WriteString("\n" + ui.ErrorStyle.Render(s.err.Error()) + "\n")
	}
	b.WriteString("\n(press enter to confirm, ctrl+c to quit)\n")
	return b.String()
}

func anyEnabled(channels map[string]bool) bool {
	for _, on := range channels {
		if on {
			return true
		}
	}
	return false
}
