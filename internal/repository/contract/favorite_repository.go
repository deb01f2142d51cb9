package contract

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *entity.Favorite) error
	DeleteByUserAndAd(ctx context.Context, userId uuid.UUID, adId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Favorite, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Favorite, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
