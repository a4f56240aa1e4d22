package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/transgate/internal/db"
)

type OpenOptions struct {
	Options
	DBMaxConns  int32
	LogLevel    string
	Environment string
}

// Open connects to the backend named by rawURL's scheme:
//   - redis://, rediss://          Redis with native expiry
//   - postgres://, postgresql://   translation_cache table via gorm
//   - memory://                    in-process map
//
// An empty URL, an unknown scheme or a failed SQL connection yields a disabled cache.
// Redis is kept even when unreachable at startup and recovers when the server returns.
func Open(ctx context.Context, rawURL string, opts OpenOptions, logger zerolog.Logger) *Cache {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		logger.Info().Msg("cache disabled: no CACHE_URL or REDIS_URL configured")
		return New(nil, opts.Options, logger)
	}

	backend, err := openBackend(ctx, trimmed, opts, logger)
	if err != nil {
		logger.Warn().Err(err).Str("url", redactURL(trimmed)).Msg("cache disabled: backend unavailable")
		return New(nil, opts.Options, logger)
	}

	logger.Info().Str("backend", backend.Name()).Str("url", redactURL(trimmed)).Msg("cache backend connected")
	return New(backend, opts.Options, logger)
}

func openBackend(ctx context.Context, rawURL string, opts OpenOptions, logger zerolog.Logger) (Backend, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse cache url: %w", err)
	}

	switch strings.ToLower(parsed.Scheme) {
	case "redis", "rediss":
		return NewRedisBackend(ctx, rawURL, logger)
	case "postgres", "postgresql":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		pool, err := db.NewPool(connectCtx, rawURL, db.PoolOptions{
			MaxConns:    opts.DBMaxConns,
			LogLevel:    opts.LogLevel,
			Environment: opts.Environment,
		})
		if err != nil {
			return nil, err
		}
		return NewPostgresBackend(pool), nil
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported cache scheme %q", parsed.Scheme)
	}
}

func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "<invalid>"
	}
	return parsed.Redacted()
}
