package contract

import (
	"context"

	"marketplace-be/internal/entity"

	"github.com/google/uuid"
)

type CreditRepository interface {
	FindActivePackages(ctx context.Context) ([]*entity.CreditPackage, error)
	FindPackageById(ctx context.Context, id uuid.UUID) (*entity.CreditPackage, error)
	CreateTransaction(ctx context.Context, trx *entity.CreditTransaction) error
	FindTransactionById(ctx context.Context, id uuid.UUID) (*entity.CreditTransaction, error)
	UpdateTransaction(ctx context.Context, trx *entity.CreditTransaction) error
}
