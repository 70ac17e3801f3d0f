package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/counsel/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"COUNSEL_RUNTIME_PATH" envDefault:".counsel"`

	// Optional workspace hint; overrides heuristic detection when it
	// points at a real project directory.
	Workspace string `env:"COUNSEL_WORKSPACE"`

	// Provider credentials. None is required: a provider without its key
	// is left unconfigured and the rest of the system keeps working.
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIModel      string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel   string `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-20250514"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OpenRouterModel  string `env:"OPENROUTER_MODEL" envDefault:"google/gemma-3-27b-it:free"`
	OllamaBaseURL    string `env:"OLLAMA_BASE_URL"`
	OllamaAPIKey     string `env:"OLLAMA_API_KEY"`
	OllamaModel      string `env:"OLLAMA_MODEL" envDefault:"llama3.1"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}
