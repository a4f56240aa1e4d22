package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"
)

// GetCacheEntry returns the value stored under key when it has not expired by now.
func (p *Pool) GetCacheEntry(ctx context.Context, key string, now time.Time) (string, error) {
	if p == nil || p.gdb == nil {
		return "", fmt.Errorf("database pool is not initialized")
	}

	var entry CacheEntry
	res := p.gdb.WithContext(ctx).
		Where("cache_key = ? AND expires_at > ?", key, now).
		Limit(1).
		Find(&entry)
	if res.Error != nil {
		return "", fmt.Errorf("query cache entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrNoRows
	}
	return entry.Value, nil
}

// UpsertCacheEntry writes value under key, replacing any previous value and expiry.
func (p *Pool) UpsertCacheEntry(ctx context.Context, key, value string, expiresAt time.Time) error {
	if p == nil || p.gdb == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	entry := CacheEntry{
		CacheKey:  key,
		Value:     value,
		ExpiresAt: expiresAt.UTC(),
	}
	err := p.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

// PurgeExpiredCacheEntries deletes rows whose expiry is at or before now.
func (p *Pool) PurgeExpiredCacheEntries(ctx context.Context, now time.Time) (int64, error) {
	if p == nil || p.gdb == nil {
		return 0, fmt.Errorf("database pool is not initialized")
	}
	res := p.gdb.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&CacheEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge expired cache entries: %w", res.Error)
	}
	return res.RowsAffected, nil
}
