package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"horse.fit/transgate/internal/cache"
	"horse.fit/transgate/internal/cli"
	"horse.fit/transgate/internal/httpapi"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env")
	host := fs.String("host", "0.0.0.0", "Host interface to bind")
	port := fs.Int("port", 0, "HTTP port (default: PORT env, 8080)")
	readTimeout := fs.Duration("read-timeout", 15*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 60*time.Second, "HTTP write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *port < 0 || *port > 65535 {
		fmt.Fprintln(os.Stderr, "--port must be between 1 and 65535")
		return 2
	}

	cfg, logger, err := loadRuntime(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	listenPort := cfg.Port
	if *port > 0 {
		listenPort = *port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	p := buildPipeline(ctx, cfg, logger)
	defer p.Close(logger)

	for _, status := range p.registry.Status() {
		event := logger.Info()
		if !status.Available {
			event = logger.Warn().Str("error", status.Error)
		}
		event.Str("provider", status.Provider).Bool("available", status.Available).Msg("provider status")
	}

	if p.cache.NeedsPurge() {
		scheduler, err := startPurgeSchedule(cfg.CachePurgeSchedule, p.cache, logger)
		if err != nil {
			logger.Error().Err(err).Str("schedule", cfg.CachePurgeSchedule).Msg("invalid cache purge schedule")
			fmt.Fprintf(os.Stderr, "Invalid CACHE_PURGE_SCHEDULE: %v\n", err)
			return 1
		}
		defer func() {
			<-scheduler.Stop().Done()
		}()
	}

	srv := httpapi.NewServer(httpapi.Deps{
		Validator:  p.validator,
		Translator: p.orchestrator,
		Providers:  p.registry,
	}, logger, httpapi.Options{
		Host:                  *host,
		Port:                  listenPort,
		ReadTimeout:           *readTimeout,
		WriteTimeout:          *writeTimeout,
		ShutdownTimeout:       *shutdownTimeout,
		BodyLimit:             cfg.BodyLimit,
		AllowedOrigins:        cfg.CORSAllowedOriginsList(),
		TrustProxy:            cfg.TrustProxy,
		UpstreamFailureStatus: cfg.UpstreamFailureStatus,
		PartialResults:        cfg.BatchPartialResults,
		RateLimit: httpapi.RateLimitOptions{
			Requests: cfg.RateLimitRequests,
			Window:   cfg.RateLimitWindow,
		},
	})

	logger.Info().
		Str("cache", p.cache.BackendName()).
		Dur("cache_ttl", p.cache.TTL()).
		Int("rate_limit", cfg.RateLimitRequests).
		Dur("rate_window", cfg.RateLimitWindow).
		Msg("translation gateway configured")

	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Str("host", *host).Int("port", listenPort).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}

	stats := p.orchestrator.Stats()
	logger.Info().
		Int64("items", stats.Items).
		Int64("cache_hits", stats.CacheHits).
		Int64("shared", stats.Shared).
		Int64("failed", stats.Failed).
		Msg("translation totals")
	return 0
}

// startPurgeSchedule deletes expired cache rows on the given cron spec.
func startPurgeSchedule(spec string, store *cache.Cache, logger zerolog.Logger) (*cron.Cron, error) {
	scheduler := cron.New()
	_, err := scheduler.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		removed, err := store.PurgeExpired(ctx)
		if err != nil {
			logger.Warn().Err(err).Str("backend", store.BackendName()).Msg("cache purge failed")
			return
		}
		logger.Debug().Int64("removed", removed).Str("backend", store.BackendName()).Msg("cache purge completed")
	})
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}
