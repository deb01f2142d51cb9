package contract

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"
)

type UsageLogRepository interface {
	Create(ctx context.Context, log *entity.AiUsageLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AiUsageLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
