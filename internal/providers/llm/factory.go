package llm

import (
	"context"

	"github.com/sandevgo/counsel/internal/config"
	"github.com/sandevgo/counsel/internal/core"
	"github.com/sandevgo/counsel/pkg/log"
)

// NewProviderSet builds every provider whose credential is present.
// A missing credential leaves that provider unconfigured; it is never a
// startup failure.
func NewProviderSet(ctx context.Context, cfg *config.AppConfig) core.ProviderSet {
	set := make(core.ProviderSet)

	if cfg.OpenAIAPIKey != "" {
		set["openai"] = NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	if cfg.AnthropicAPIKey != "" {
		set["anthropic"] = NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	if cfg.OpenRouterAPIKey != "" {
		set["openrouter"] = NewOpenRouter(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	}
	if cfg.OllamaBaseURL != "" {
		set["ollama"] = NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.OllamaModel)
	}

	log.FromCtx(ctx).Info().
		Strs("providers", set.Names()).
		Msg("configured llm providers")
	return set
}
