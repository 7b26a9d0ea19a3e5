package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates an LLM provider based on the configuration.
// An empty provider name yields a nil provider; callers fall back to
// heuristic-only operation in that case.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "anthropic":
		return NewAnthropicProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
