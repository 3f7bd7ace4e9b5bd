package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/parley/internal/config"
	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
)

// NewProviders returns the ranked list of language models selected by
// AI_PROVIDER. "auto" tries OpenAI and Anthropic when keyed, then the
// local Ollama; "brain" disables language models entirely.
func NewProviders(ctx context.Context, cfg core.ProviderConfig) ([]core.LanguageModel, error) {
	logger := log.FromCtx(ctx)
	opts := []Option{WithMaxTokens(cfg.GetMaxTokens())}

	var models []core.LanguageModel
	add := func(m core.LanguageModel) {
		models = append(models, m)
	}

	switch p := cfg.GetProvider(); p {
	case config.ProviderBrain:
	case config.ProviderAuto:
		if cfg.GetOpenAIAPIKey() != "" {
			add(NewOpenAI(cfg.GetOpenAIAPIKey(), cfg.GetOpenAIModel(), opts...))
		}
		if cfg.GetAnthropicAPIKey() != "" {
			add(NewAnthropic(cfg.GetAnthropicAPIKey(), cfg.GetAnthropicModel(), opts...))
		}
		add(NewOllama(cfg.GetOllamaBaseURL(), cfg.GetOllamaModel(), opts...))
	case config.ProviderOpenAI:
		if cfg.GetOpenAIAPIKey() != "" {
			add(NewOpenAI(cfg.GetOpenAIAPIKey(), cfg.GetOpenAIModel(), opts...))
		}
	case config.ProviderAnthropic:
		if cfg.GetAnthropicAPIKey() != "" {
			add(NewAnthropic(cfg.GetAnthropicAPIKey(), cfg.GetAnthropicModel(), opts...))
		}
	case config.ProviderOllama:
		add(NewOllama(cfg.GetOllamaBaseURL(), cfg.GetOllamaModel(), opts...))
	case config.ProviderOpenRouter:
		if cfg.GetOpenRouterAPIKey() != "" {
			add(NewOpenRouter(cfg.GetOpenRouterAPIKey(), cfg.GetOpenRouterModel(), opts...))
		}
	case config.ProviderCustom:
		if cfg.GetCustomOpenAIBaseURL() == "" {
			return nil, fmt.Errorf("custom llm provider requires CUSTOM_OPENAI_BASE_URL")
		}
		add(NewCustomOpenAI(cfg.GetCustomOpenAIBaseURL(), cfg.GetCustomOpenAIAPIKey(), cfg.GetCustomOpenAIModel(), opts...))
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", p)
	}

	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name())
	}
	if len(models) == 0 && cfg.GetProvider() != config.ProviderBrain {
		logger.Warn().Str("provider", cfg.GetProvider()).Msg("llm provider selected but not configured, replies stay local")
	}
	logger.Info().
		Str("provider", cfg.GetProvider()).
		Strs("chain", names).
		Msg("starting llm providers")

	return models, nil
}
