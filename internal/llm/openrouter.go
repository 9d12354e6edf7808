package llm

import (
	"fmt"
	"strings"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOllamaBaseURL     = "http://localhost:11434/v1"

	// ollamaAPIKey is sent to Ollama, which ignores it.
	ollamaAPIKey = "ollama"
)

// OpenRouterProvider wraps OpenAIProvider with OpenRouter-specific defaults.
// OpenRouter exposes an OpenAI-compatible API, so the underlying SDK is reused.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	inner := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	})
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// NewOllamaProvider creates a provider for a local Ollama server through its
// OpenAI-compatible endpoint.
func NewOllamaProvider(cfg OllamaConfig) (*OpenAIProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	p := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  ollamaAPIKey,
		Model:   cfg.Model,
		BaseURL: ollamaBaseURL(cfg.BaseURL),
	})
	p.jsonObjectOnly = true
	return p, nil
}

// ollamaBaseURL accepts both the server root (as in OLLAMA_URL) and the
// OpenAI-compatible /v1 prefix.
func ollamaBaseURL(raw string) string {
	if raw == "" {
		return defaultOllamaBaseURL
	}
	u := strings.TrimRight(raw, "/")
	if !strings.HasSuffix(u, "/v1") {
		u += "/v1"
	}
	return u
}
