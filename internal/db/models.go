package db

import "time"

// CacheEntry maps translation_cache. Expiry is enforced on read and by PurgeExpired.
type CacheEntry struct {
	CacheKey  string    `gorm:"column:cache_key;type:text;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;type:timestamptz;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (CacheEntry) TableName() string { return "translation_cache" }

func autoMigrateModels() []any {
	return []any{
		&CacheEntry{},
	}
}
