package installer

import (
	"strconv"

	"github.com/sandevgo/parley/internal/config"
)

// Settings mirrors the env variables the wizard can write. Zero values are
// left out of the generated .env so the config defaults apply.
type Settings struct {
	Provider string `env:"AI_PROVIDER"`

	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey     string `env:"ANTHROPIC_API_KEY"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL       string `env:"OLLAMA_URL"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`
	CustomOpenAIModel   string `env:"CUSTOM_OPENAI_MODEL"`

	Storage string `env:"PARLEY_STORAGE"`

	// Channel switches are strings so an explicit "false" survives marshaling.
	EnableCLI      string `env:"ENABLE_CLI"`
	EnableHTTP     string `env:"ENABLE_HTTP"`
	EnableTelegram string `env:"ENABLE_TELEGRAM"`

	TelegramToken   string `env:"TELEGRAM_TOKEN"`
	TelegramOwnerID int64  `env:"TELEGRAM_OWNER_ID"`

	Debug string `env:"PARLEY_DEBUG"`
}

type InstallState struct {
	Settings Settings
	Channels map[string]bool
}

func NewInstallState() *InstallState {
	return &InstallState{
		Settings: Settings{
			Provider: config.ProviderAuto,
			Storage:  config.StorageSQLite,
		},
		Channels: map[string]bool{channelCLI: true},
	}
}

// Finalize derives the channel switches and drops values that do not
// belong to the selected provider.
func (s *InstallState) Finalize() {
	st := &s.Settings

	st.EnableCLI = strconv.FormatBool(s.Channels[channelCLI])
	st.EnableHTTP = strconv.FormatBool(s.Channels[channelHTTP])
	st.EnableTelegram = strconv.FormatBool(s.Channels[channelTelegram] && st.TelegramToken != "")
	if st.EnableTelegram == "false" {
		st.TelegramToken = ""
		st.TelegramOwnerID = 0
	}

	if st.Provider == config.ProviderBrain {
		st.OpenAIAPIKey = ""
		st.AnthropicAPIKey = ""
		st.OpenRouterAPIKey = ""
	}
	if st.Provider != config.ProviderCustom {
		st.CustomOpenAIBaseURL = ""
		st.CustomOpenAIAPIKey = ""
		st.CustomOpenAIModel = ""
	}

	if st.Debug == "" {
		st.Debug = "0"
	}
}
