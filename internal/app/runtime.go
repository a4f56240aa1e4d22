package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/transgate/internal/cache"
	"horse.fit/transgate/internal/cli"
	"horse.fit/transgate/internal/config"
	"horse.fit/transgate/internal/logging"
	"horse.fit/transgate/internal/secrets"
	"horse.fit/transgate/internal/translation"
)

func loadRuntime(envLoader *cli.EnvLoader) (*config.Config, zerolog.Logger, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

// pipeline holds everything a translate call needs.
type pipeline struct {
	cache        *cache.Cache
	registry     *translation.Registry
	validator    *translation.Validator
	orchestrator *translation.BatchOrchestrator
	secrets      secrets.Source
}

func (p *pipeline) Close(logger zerolog.Logger) {
	if p == nil {
		return
	}
	if err := p.registry.Close(); err != nil {
		logger.Warn().Err(err).Msg("close provider clients failed")
	}
	if err := p.cache.Close(); err != nil {
		logger.Warn().Err(err).Msg("close cache failed")
	}
	if closer, ok := p.secrets.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn().Err(err).Msg("close secrets client failed")
		}
	}
}

func openCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *cache.Cache {
	return cache.Open(ctx, cfg.CacheConnectionURL(), cache.OpenOptions{
		Options: cache.Options{
			TTL:     cfg.CacheTTL,
			Timeout: cfg.CacheTimeout,
		},
		DBMaxConns:  cfg.CacheDBMaxConns,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	}, logger)
}

func buildPipeline(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pipeline {
	source := newSecretsSource(cfg)
	store := openCache(ctx, cfg, logger)

	registry := translation.BuildRegistry(ctx, logger, translation.RegistryOptions{
		InitTimeout: cfg.ProviderInitTimeout,
		Breaker: &translation.BreakerSettings{
			FailureThreshold: cfg.BreakerFailureThreshold,
			OpenTimeout:      cfg.BreakerOpenTimeout,
		},
	}, providerFactories(cfg, source)...)

	dispatcher := translation.NewDispatcher(registry, logger)
	orchestrator := translation.NewBatchOrchestrator(store, dispatcher, translation.BatchOptions{
		Concurrency: cfg.BatchConcurrency,
	}, logger)

	return &pipeline{
		cache:    store,
		registry: registry,
		validator: translation.NewValidator(translation.Limits{
			MaxTextLength: cfg.MaxTextLength,
			MaxBatchSize:  cfg.MaxBatchSize,
		}),
		orchestrator: orchestrator,
		secrets:      source,
	}
}

func newSecretsSource(cfg *config.Config) secrets.Source {
	if strings.EqualFold(strings.TrimSpace(cfg.SecretsBackend), "gcp") {
		return secrets.NewSecretManagerSource(cfg.GCPProjectID)
	}
	return secrets.NewEnvSource()
}

// providerFactories builds one factory per provider. Each fetches its own credential so a
// missing secret only disables that provider. Clients are built on a context detached from
// the init deadline because they outlive it.
func providerFactories(cfg *config.Config, source secrets.Source) []translation.Factory {
	return []translation.Factory{
		{
			ID:      translation.GenericMT,
			Timeout: cfg.GenericTimeout,
			Build: func(ctx context.Context) (translation.Provider, error) {
				credential, err := source.Get(ctx, cfg.GoogleSecretName)
				if err != nil {
					return nil, fmt.Errorf("load google credential: %w", err)
				}
				return translation.NewGoogleProvider(context.WithoutCancel(ctx), credential)
			},
		},
		{
			ID:      translation.NeuralMT,
			Timeout: cfg.NeuralTimeout,
			Build: func(ctx context.Context) (translation.Provider, error) {
				key, err := source.Get(ctx, cfg.DeepLSecretName)
				if err != nil {
					return nil, fmt.Errorf("load deepl credential: %w", err)
				}
				return translation.NewDeepLProvider(key, cfg.DeepLAPIURL, &http.Client{})
			},
		},
		{
			ID:      translation.GenerativeLM,
			Timeout: cfg.GenerativeTimeout,
			Build: func(ctx context.Context) (translation.Provider, error) {
				generator, err := newGenerator(ctx, cfg, source)
				if err != nil {
					return nil, err
				}
				return translation.NewGenerativeProvider(generator)
			},
		},
	}
}

func newGenerator(ctx context.Context, cfg *config.Config, source secrets.Source) (translation.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.GenerativeEngine)) {
	case "openai":
		key, err := source.Get(ctx, cfg.OpenAISecretName)
		if err != nil {
			return nil, fmt.Errorf("load openai credential: %w", err)
		}
		return translation.NewOpenAIGenerator(key, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	default:
		key, err := source.Get(ctx, cfg.GeminiSecretName)
		if err != nil {
			return nil, fmt.Errorf("load gemini credential: %w", err)
		}
		return translation.NewGeminiGenerator(context.WithoutCancel(ctx), key, cfg.GeminiModel)
	}
}
