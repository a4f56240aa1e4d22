// Package cache is the best-effort translation cache. Backend failures are logged and
// swallowed: a miss is reported instead of an error and writes become no-ops.
package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultTTL     = time.Hour
	DefaultTimeout = 500 * time.Millisecond
)

// Backend is a key/value store with native or emulated expiry.
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// Purger is implemented by backends without native expiry.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Options struct {
	TTL     time.Duration
	Timeout time.Duration
}

type Cache struct {
	backend Backend
	ttl     time.Duration
	timeout time.Duration
	logger  zerolog.Logger
}

// New wraps backend. A nil backend yields a disabled cache that never hits.
func New(backend Backend, opts Options, logger zerolog.Logger) *Cache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Cache{
		backend: backend,
		ttl:     ttl,
		timeout: timeout,
		logger:  logger,
	}
}

// Disabled returns a cache with no backend.
func Disabled() *Cache {
	return New(nil, Options{}, zerolog.Nop())
}

func (c *Cache) Enabled() bool {
	return c != nil && c.backend != nil
}

func (c *Cache) BackendName() string {
	if !c.Enabled() {
		return "none"
	}
	return c.backend.Name()
}

func (c *Cache) TTL() time.Duration {
	if c == nil {
		return DefaultTTL
	}
	return c.ttl
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if !c.Enabled() {
		return "", false
	}
	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	value, found, err := c.backend.Get(opCtx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("backend", c.backend.Name()).Msg("cache get failed")
		return "", false
	}
	return value, found
}

// Set stores value for the default TTL.
func (c *Cache) Set(ctx context.Context, key, value string) {
	c.SetWithTTL(ctx, key, value, 0)
}

func (c *Cache) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.backend.Set(opCtx, key, value, ttl); err != nil {
		c.logger.Warn().Err(err).Str("backend", c.backend.Name()).Msg("cache set failed")
	}
}

// Ping reports backend reachability for health checks. Request paths never call it.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	opCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.backend.Ping(opCtx)
}

// NeedsPurge reports whether the backend lacks native expiry.
func (c *Cache) NeedsPurge() bool {
	if !c.Enabled() {
		return false
	}
	_, ok := c.backend.(Purger)
	return ok
}

// PurgeExpired removes stale entries on backends that need it; others report zero.
func (c *Cache) PurgeExpired(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	purger, ok := c.backend.(Purger)
	if !ok {
		return 0, nil
	}
	return purger.PurgeExpired(ctx)
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.backend.Close()
}
