package contract

import (
	"context"
	"time"

	"marketplace-be/internal/entity"
)

type AiCacheRepository interface {
	// FindValid returns the entry for the key/feature pair if it has not
	// expired yet, or nil when absent.
	FindValid(ctx context.Context, cacheKey string, feature string, now time.Time) (*entity.AiCacheEntry, error)
	Upsert(ctx context.Context, entry *entity.AiCacheEntry) error
	IncrementHit(ctx context.Context, cacheKey string, feature string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
