package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotConfigured is returned by NewProviderFromEnv when no provider has an
// API key.
var ErrNotConfigured = errors.New("no LLM provider configured")

// NewProvider builds the configured provider and wraps it as
// caller → retry → logging → provider, so every attempt is recorded.
// sink may be nil to skip request logging.
func NewProvider(ctx context.Context, cfg Config, sink EventSink, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if sink != nil {
		base = WithLogging(base, sink, logger)
	}
	return WithRetry(base, cfg.Retry), nil
}

// NewProviderFromEnv reads STORYQUIZ_* settings, falling back to the
// vendors' standard key variables, and builds a provider. It returns
// ErrNotConfigured when neither yields a usable config.
func NewProviderFromEnv(ctx context.Context, sink EventSink, logger *slog.Logger) (Provider, Config, error) {
	cfg := ConfigFromEnv()
	if !cfg.Configured() {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, cfg, ErrNotConfigured
		}
		cfg = discovered
	}

	p, err := NewProvider(ctx, cfg, sink, logger)
	if err != nil {
		return nil, cfg, err
	}
	return p, cfg, nil
}
