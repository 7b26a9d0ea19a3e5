package model

import "time"

// Config is the full runtime configuration, assembled from defaults, the
// config file (~/.lossrun/config.yaml), LOSSRUN_* environment variables and
// CLI flags, in ascending priority.
type Config struct {
	Oracle OracleConfig `yaml:"oracle" mapstructure:"oracle"`
	Chunk  ChunkConfig  `yaml:"chunk" mapstructure:"chunk"`
	Pacing PacingConfig `yaml:"pacing" mapstructure:"pacing"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// OracleConfig configures the classification/extraction oracle.
type OracleConfig struct {
	// Provider name: "openai", "anthropic", "ollama", "" (disabled, heuristics only)
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model" mapstructure:"model"`

	// APIKey for OpenAI/Anthropic (usually via env var, not the config file)
	APIKey string `yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Timeout for a single oracle call, seconds
	Timeout int `yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ChunkConfig bounds the text segments sent per oracle call.
type ChunkConfig struct {
	// MaxChars is the chunk size ceiling
	MaxChars int `yaml:"max_chars" mapstructure:"max_chars"`

	// MinCut rejects newline cut points closer than this to the chunk start
	MinCut int `yaml:"min_cut" mapstructure:"min_cut"`
}

// PacingConfig throttles successive oracle calls. The delay is a scheduling
// policy for external rate limits, not a correctness requirement; zero
// disables it.
type PacingConfig struct {
	CallsPerSecond float64       `yaml:"calls_per_second" mapstructure:"calls_per_second"`
	CallDelay      time.Duration `yaml:"call_delay" mapstructure:"call_delay"`
}

// CacheConfig controls the in-memory oracle response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig controls artifact generation.
type OutputConfig struct {
	// Dir is the output directory for workbooks and row dumps
	Dir string `yaml:"dir" mapstructure:"dir"`

	// JSON also writes a rows.json dump alongside the workbooks
	JSON bool `yaml:"json" mapstructure:"json"`

	// Verbose enables progress output on stderr
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleConfig{
			Provider:  "", // disabled by default
			Model:     "",
			Timeout:   60,
			MaxTokens: 4000,
		},
		Chunk: ChunkConfig{
			MaxChars: 15000,
			MinCut:   1000,
		},
		Pacing: PacingConfig{
			CallsPerSecond: 2,
			CallDelay:      time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Output: OutputConfig{
			Dir:  "lossrun-results",
			JSON: true,
		},
	}
}
