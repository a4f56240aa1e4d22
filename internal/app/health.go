package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/transgate/internal/cli"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env")
	timeout := fs.Duration("timeout", 20*time.Second, "Health check timeout")
	requireAll := fs.Bool("require-all", false, "Fail unless every provider initialized")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, logger, err := loadRuntime(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	p := buildPipeline(ctx, cfg, logger)
	defer p.Close(logger)

	exitCode := 0
	if err := p.cache.Ping(ctx); err != nil {
		logger.Error().Err(err).Str("backend", p.cache.BackendName()).Msg("cache health check failed")
		fmt.Printf("fail: cache %s: %v\n", p.cache.BackendName(), err)
		exitCode = 1
	} else {
		fmt.Printf("ok: cache %s\n", p.cache.BackendName())
	}

	available := 0
	for _, status := range p.registry.Status() {
		if status.Available {
			available++
			fmt.Printf("ok: provider %s\n", status.Provider)
			continue
		}
		fmt.Printf("fail: provider %s: %s\n", status.Provider, status.Error)
		if *requireAll {
			exitCode = 1
		}
	}
	if available == 0 {
		fmt.Println("fail: no provider available")
		exitCode = 1
	}

	logger.Info().
		Int("providers_available", available).
		Str("cache", p.cache.BackendName()).
		Int("exit_code", exitCode).
		Msg("health check finished")
	return exitCode
}
