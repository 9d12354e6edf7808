package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use. Empty disables the
	// assistant's generation and every call falls back to canned text.
	Provider string `yaml:"provider" validate:"omitempty,oneof=anthropic openai gemini openrouter ollama mock"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Ollama     OllamaConfig     `yaml:"ollama"`
	Retry      RetryConfig      `yaml:"retry"`

	// MaxTokens is the default response budget. Default: 500.
	MaxTokens int `yaml:"max_tokens" validate:"gte=0"`

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 30s.
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "google/gemini-2.0-flash-exp"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// OllamaConfig holds configuration for a local Ollama server.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"` // Default: "http://localhost:11434/v1"
	Model   string `yaml:"model"`    // Default: "llama3"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" validate:"gte=0"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Ollama: OllamaConfig{
			BaseURL: defaultOllamaBaseURL,
			Model:   "llama3",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		MaxTokens: 500,
		Timeout:   30 * time.Second,
	}
}

// ApplyEnv overlays ADAPTED_* environment variables onto c.
func (c *Config) ApplyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Provider, "ADAPTED_LLM_PROVIDER")

	setString(&c.Anthropic.APIKey, "ADAPTED_ANTHROPIC_API_KEY")
	setString(&c.Anthropic.Model, "ADAPTED_ANTHROPIC_MODEL")

	setString(&c.OpenAI.APIKey, "ADAPTED_OPENAI_API_KEY")
	setString(&c.OpenAI.Model, "ADAPTED_OPENAI_MODEL")
	setString(&c.OpenAI.BaseURL, "ADAPTED_OPENAI_BASE_URL")

	setString(&c.Gemini.APIKey, "ADAPTED_GEMINI_API_KEY")
	setString(&c.Gemini.Model, "ADAPTED_GEMINI_MODEL")

	setString(&c.OpenRouter.APIKey, "ADAPTED_OPENROUTER_API_KEY")
	setString(&c.OpenRouter.Model, "ADAPTED_OPENROUTER_MODEL")

	setString(&c.Ollama.BaseURL, "ADAPTED_OLLAMA_URL")
	setString(&c.Ollama.Model, "ADAPTED_OLLAMA_MODEL")
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// Discover fills in a provider from the standard API key env vars when c
// names none. Keys are probed in priority order (Gemini → OpenAI →
// Anthropic → OpenRouter), then OLLAMA_URL. It reports whether a provider
// is set afterwards.
func (c *Config) Discover() bool {
	if c.Provider != "" {
		return true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		c.Provider = ProviderGemini
		c.Gemini.APIKey = k
		return true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		c.Provider = ProviderOpenAI
		c.OpenAI.APIKey = k
		return true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		c.Provider = ProviderAnthropic
		c.Anthropic.APIKey = k
		return true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		c.Provider = ProviderOpenRouter
		c.OpenRouter.APIKey = k
		return true
	}
	if u := os.Getenv("OLLAMA_URL"); u != "" {
		c.Provider = ProviderOllama
		c.Ollama.BaseURL = u
		return true
	}
	return false
}

// Validate checks that the selected provider has its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ADAPTED_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("ADAPTED_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("ADAPTED_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("ADAPTED_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderOllama:
		if c.Ollama.BaseURL == "" {
			return fmt.Errorf("ADAPTED_OLLAMA_URL is required for the ollama provider")
		}
	case ProviderMock, "":
		// Nothing to check.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
