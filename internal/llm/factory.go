package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → limits → retry → logging → base. The mock provider skips the
// retry layer. eventRepo and logger may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderOllama:
		base, err = NewOllamaProvider(cfg.Ollama)
	case ProviderMock:
		logged := WithLogging(NewMockProvider(), cfg.Provider, eventRepo, logger)
		return WithLimits(logged, cfg.MaxTokens, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("no LLM provider configured")
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logger.Info("LLM provider ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", base.ModelID()),
	)

	logged := WithLogging(base, cfg.Provider, eventRepo, logger)
	retried := WithRetry(logged, cfg.Retry, logger)
	return WithLimits(retried, cfg.MaxTokens, cfg.Timeout), nil
}
