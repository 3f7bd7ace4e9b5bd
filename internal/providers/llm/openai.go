package llm

// OpenAI provider is implemented using OpenAICompatible.
type OpenAI struct {
	*OpenAICompatible
}

// NewOpenAI creates a new OpenAI provider.
func NewOpenAI(apiKey, model string, opts ...Option) *OpenAI {
	return &OpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			Name:       "openai",
			BaseURL:    "https://api.openai.com",
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}, opts...),
	}
}
