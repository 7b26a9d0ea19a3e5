// Package llm talks to the classification/extraction oracle. Providers are
// interchangeable transports; the classifier and field extractor build the
// prompts, hold the strict-JSON response contract, and carry the
// deterministic fallbacks used when the oracle misbehaves.
package llm

import (
	"context"

	"github.com/ppiankov/lossrun/internal/model"
)

// Provider defines the interface for oracle transports.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt and returns the raw completion text
	Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompleteRequest contains the input for a single oracle call.
type CompleteRequest struct {
	// System is the optional system prompt
	System string

	// Prompt is the user prompt
	Prompt string

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// CompleteResponse contains the oracle's raw output.
type CompleteResponse struct {
	// Text is the completion text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds oracle provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   60,
		MaxTokens: 4000,
	}
}

// ConfigFromModel converts model.OracleConfig to llm.Config.
func ConfigFromModel(oracle model.OracleConfig) Config {
	return Config{
		Provider:  oracle.Provider,
		Model:     oracle.Model,
		APIKey:    oracle.APIKey,
		BaseURL:   oracle.BaseURL,
		Timeout:   oracle.Timeout,
		MaxTokens: oracle.MaxTokens,
	}
}
