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

func runPurgeCache(args []string) int {
	fs := flag.NewFlagSet("purge-cache", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")

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

	store := openCache(ctx, cfg, logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("close cache failed")
		}
	}()

	if !store.Enabled() {
		fmt.Fprintln(os.Stderr, "No cache configured (set CACHE_URL)")
		return 1
	}
	if !store.NeedsPurge() {
		fmt.Printf("purge-cache backend=%s removed=0 (native expiry)\n", store.BackendName())
		return 0
	}

	removed, err := store.PurgeExpired(ctx)
	if err != nil {
		logger.Error().Err(err).Str("backend", store.BackendName()).Msg("cache purge failed")
		fmt.Fprintf(os.Stderr, "Cache purge failed: %v\n", err)
		return 1
	}

	logger.Info().Int64("removed", removed).Str("backend", store.BackendName()).Msg("cache purge completed")
	fmt.Printf("purge-cache backend=%s removed=%d\n", store.BackendName(), removed)
	return 0
}
