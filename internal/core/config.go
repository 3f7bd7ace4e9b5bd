package core

import "time"

type AppConfig interface {
	GetRuntimePath() string
	GetStorageBackend() string
	GetDatabasePath() string
	GetFactsPath() string
	GetHistoryLimit() int
	GetStageTimeout() time.Duration
	IsTelegramSelected() bool
	IsCLISelected() bool
	IsHTTPSelected() bool
}

type ProviderConfig interface {
	GetProvider() string
	GetOpenAIAPIKey() string
	GetOpenAIModel() string
	GetAnthropicAPIKey() string
	GetAnthropicModel() string
	GetOllamaBaseURL() string
	GetOllamaModel() string
	GetOpenRouterAPIKey() string
	GetOpenRouterModel() string
	GetCustomOpenAIBaseURL() string
	GetCustomOpenAIAPIKey() string
	GetCustomOpenAIModel() string
	GetMaxTokens() int
	GetContextTokens() int
}

type KnowledgeConfig interface {
	IsKnowledgeEnabled() bool
	GetGoogleAPIKey() string
	GetGoogleCSEID() string
	GetSerperAPIKey() string
	GetBraveAPIKey() string
	GetTavilyAPIKey() string
	GetNewsAPIKey() string
	GetMerriamWebsterAPIKey() string
	GetOpenAIAPIKey() string
}

type EmbeddingConfig interface {
	GetEmbeddingProvider() string
	GetEmbeddingModel() string
	GetEmbeddingBaseURL() string
	GetEmbeddingAPIKey() string
}

type TelegramConfig interface {
	GetTelegramToken() string
	GetTelegramOwnerID() int64
}
