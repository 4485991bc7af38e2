package ai

import (
	"context"
	"os"
	"time"
)

// ollamaCheckTimeout bounds the server probe in CheckAvailability.
const ollamaCheckTimeout = 2 * time.Second

// CheckAvailability reports, per provider, whether it looks usable:
// openai needs apiKeyEnv set (or a custom baseURL), ollama needs a
// reachable server.
func CheckAvailability(apiKeyEnv, baseURL string, providers ...string) map[string]bool {
	result := make(map[string]bool, len(providers))
	for _, p := range providers {
		switch p {
		case ProviderOpenAI:
			result[p] = os.Getenv(apiKeyEnv) != "" || baseURL != ""
		case ProviderOllama:
			result[p] = ollamaReachable(baseURL)
		default:
			result[p] = false
		}
	}
	return result
}

func ollamaReachable(baseURL string) bool {
	client, err := newOllamaClient(baseURL)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), ollamaCheckTimeout)
	defer cancel()

	_, err = client.List(ctx)
	return err == nil
}
