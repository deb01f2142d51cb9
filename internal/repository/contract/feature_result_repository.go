package contract

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"
)

type FeatureResultRepository interface {
	Create(ctx context.Context, result *entity.FeatureResult) error
	// UpsertByAd replaces the existing row for the same feature/ad pair,
	// keeping one live result per ad for features like tag suggestions
	// and fraud checks.
	UpsertByAd(ctx context.Context, result *entity.FeatureResult) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureResult, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureResult, error)
}
