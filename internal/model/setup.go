package model

// ResolveModel fills in the model for provider. An empty model, or the
// other backend's default left over from built-in defaults, becomes the
// provider's default.
func ResolveModel(provider, model string) string {
	if model == "" {
		return DefaultModel(provider)
	}
	for _, other := range []string{OpenAI, Ollama} {
		if other != provider && model == DefaultModel(other) {
			return DefaultModel(provider)
		}
	}
	return model
}

// ResolveAPIKeyEnv returns apiKeyEnv, or the provider's default when
// apiKeyEnv still holds the other backend's default.
func ResolveAPIKeyEnv(provider, apiKeyEnv string) string {
	if apiKeyEnv == "" || apiKeyEnv == DefaultAPIKeyEnv(OpenAI) {
		return DefaultAPIKeyEnv(provider)
	}
	return apiKeyEnv
}
