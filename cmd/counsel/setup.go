package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/counsel/internal/config"
	"github.com/sandevgo/counsel/internal/history"
	"github.com/sandevgo/counsel/internal/project"
	"github.com/sandevgo/counsel/internal/providers/llm"
	"github.com/sandevgo/counsel/internal/ratelimit"
	"github.com/sandevgo/counsel/internal/service/assembler"
	"github.com/sandevgo/counsel/internal/service/broker"
	"github.com/sandevgo/counsel/internal/transport/mcpserver"
	"github.com/sandevgo/counsel/internal/workspace"
	"github.com/sandevgo/counsel/pkg/log"
	"github.com/sandevgo/counsel/pkg/retry"
	"github.com/sandevgo/counsel/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)

	// 2. Workspace resolution
	state := workspace.NewState()
	if appCfg.Workspace != "" {
		state.Set(appCfg.Workspace)
	}
	resolver := workspace.NewResolver(state)

	// 3. Project context and conversation history
	projectCache := project.NewCache(resolver)
	store := history.NewStore(resolver)

	// 4. Context assembly
	asm := assembler.NewAssembler(projectCache, store)

	// 5. AI providers
	providers := llm.NewProviderSet(ctx, appCfg)
	if len(providers) == 0 {
		logger.Warn().Msg("no AI providers configured, run 'counsel install' to add credentials")
	}

	// 6. Broker
	limiter := ratelimit.NewLimiter(providers.Names())
	retrier := retry.NewDefaultRetrier()
	b := broker.NewBroker(providers, limiter, retrier, asm, store, state, projectCache)

	// 7. Transport
	services = append(services, mcpserver.NewServer(b, store, projectCache))

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
