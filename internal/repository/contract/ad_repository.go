package contract

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AdRepository interface {
	Create(ctx context.Context, ad *entity.Ad) error
	Update(ctx context.Context, ad *entity.Ad) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ad, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ad, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
