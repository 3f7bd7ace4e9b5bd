package llm

type CustomOpenAI struct {
	*OpenAICompatible
}

func NewCustomOpenAI(baseURL, apiKey, model string, opts ...Option) *CustomOpenAI {
	return &CustomOpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			Name:       "custom",
			BaseURL:    baseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}, opts...),
	}
}
