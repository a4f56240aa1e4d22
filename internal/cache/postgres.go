package cache

import (
	"context"
	"time"

	"horse.fit/transgate/internal/db"
)

type cacheStore interface {
	GetCacheEntry(ctx context.Context, key string, now time.Time) (string, error)
	UpsertCacheEntry(ctx context.Context, key, value string, expiresAt time.Time) error
	PurgeExpiredCacheEntries(ctx context.Context, now time.Time) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// PostgresBackend keeps entries in translation_cache with an explicit expires_at column.
type PostgresBackend struct {
	store cacheStore
	now   func() time.Time
}

func NewPostgresBackend(pool *db.Pool) *PostgresBackend {
	return newPostgresBackend(pool, time.Now)
}

func newPostgresBackend(store cacheStore, now func() time.Time) *PostgresBackend {
	return &PostgresBackend{store: store, now: now}
}

func (b *PostgresBackend) Name() string {
	return "postgres"
}

func (b *PostgresBackend) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := b.store.GetCacheEntry(ctx, key, b.now().UTC())
	if db.IsNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (b *PostgresBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return b.store.UpsertCacheEntry(ctx, key, value, b.now().UTC().Add(ttl))
}

func (b *PostgresBackend) PurgeExpired(ctx context.Context) (int64, error) {
	return b.store.PurgeExpiredCacheEntries(ctx, b.now().UTC())
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.store.Ping(ctx)
}

func (b *PostgresBackend) Close() error {
	return b.store.Close()
}
