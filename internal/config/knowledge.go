package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/parley/pkg/log"
)

type KnowledgeConfig struct {
	Enabled bool `env:"PARLEY_KNOWLEDGE_ENABLED" envDefault:"true"`

	GoogleAPIKey         string `env:"GOOGLE_API_KEY"`
	GoogleCSEID          string `env:"GOOGLE_CSE_ID"`
	SerperAPIKey         string `env:"SERPER_API_KEY"`
	BraveAPIKey          string `env:"BRAVE_API_KEY"`
	TavilyAPIKey         string `env:"TAVILY_API_KEY"`
	NewsAPIKey           string `env:"NEWS_API_KEY"`
	MerriamWebsterAPIKey string `env:"MERRIAM_WEBSTER_API_KEY"`
	// Used for answer synthesis over fetched sources.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
}

func NewKnowledgeConfig(ctx context.Context) *KnowledgeConfig {
	c := &KnowledgeConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Knowledge config")
	}
	return c
}

func (c KnowledgeConfig) IsKnowledgeEnabled() bool        { return c.Enabled }
func (c KnowledgeConfig) GetGoogleAPIKey() string         { return c.GoogleAPIKey }
func (c KnowledgeConfig) GetGoogleCSEID() string          { return c.GoogleCSEID }
func (c KnowledgeConfig) GetSerperAPIKey() string         { return c.SerperAPIKey }
func (c KnowledgeConfig) GetBraveAPIKey() string          { return c.BraveAPIKey }
func (c KnowledgeConfig) GetTavilyAPIKey() string         { return c.TavilyAPIKey }
func (c KnowledgeConfig) GetNewsAPIKey() string           { return c.NewsAPIKey }
func (c KnowledgeConfig) GetMerriamWebsterAPIKey() string { return c.MerriamWebsterAPIKey }
func (c KnowledgeConfig) GetOpenAIAPIKey() string         { return c.OpenAIAPIKey }
