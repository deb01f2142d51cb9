package contract

import (
	"context"
	"time"

	"marketplace-be/internal/entity"

	"github.com/google/uuid"
)

type RecommendationRepository interface {
	// FindValid returns the cached recommendation set for an ad if it has
	// not expired yet, or nil when absent.
	FindValid(ctx context.Context, adId uuid.UUID, now time.Time) (*entity.AdRecommendation, error)
	Upsert(ctx context.Context, rec *entity.AdRecommendation) error
	RecordHit(ctx context.Context, id uuid.UUID) error
	DeleteByAdId(ctx context.Context, adId uuid.UUID) error
}
