package implementation

import (
	"context"
	"errors"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/mapper"
	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreditRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CreditMapper
}

func NewCreditRepository(db *gorm.DB) contract.CreditRepository {
	return &CreditRepositoryImpl{
		db:     db,
		mapper: mapper.NewCreditMapper(),
	}
}

func (r *CreditRepositoryImpl) FindActivePackages(ctx context.Context) ([]*entity.CreditPackage, error) {
	var models []*model.CreditPackage
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("unit_price ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.PackageToEntities(models), nil
}

func (r *CreditRepositoryImpl) FindPackageById(ctx context.Context, id uuid.UUID) (*entity.CreditPackage, error) {
	var m model.CreditPackage
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PackageToEntity(&m), nil
}

func (r *CreditRepositoryImpl) CreateTransaction(ctx context.Context, trx *entity.CreditTransaction) error {
	m := r.mapper.TransactionToModel(trx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*trx = *r.mapper.TransactionToEntity(m)
	return nil
}

func (r *CreditRepositoryImpl) FindTransactionById(ctx context.Context, id uuid.UUID) (*entity.CreditTransaction, error) {
	var m model.CreditTransaction
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TransactionToEntity(&m), nil
}

func (r *CreditRepositoryImpl) UpdateTransaction(ctx context.Context, trx *entity.CreditTransaction) error {
	m := r.mapper.TransactionToModel(trx)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*trx = *r.mapper.TransactionToEntity(m)
	return nil
}
