package implementation

import (
	"context"
	"errors"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/mapper"
	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"
	"marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AdMapper
}

func NewAdRepository(db *gorm.DB) contract.AdRepository {
	return &AdRepositoryImpl{
		db:     db,
		mapper: mapper.NewAdMapper(),
	}
}

func (r *AdRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AdRepositoryImpl) Create(ctx context.Context, ad *entity.Ad) error {
	m := r.mapper.ToModel(ad)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*ad = *r.mapper.ToEntity(m)
	return nil
}

func (r *AdRepositoryImpl) Update(ctx context.Context, ad *entity.Ad) error {
	m := r.mapper.ToModel(ad)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*ad = *r.mapper.ToEntity(m)
	return nil
}

func (r *AdRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Ad{}, id).Error
}

func (r *AdRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ad, error) {
	var m model.Ad
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AdRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ad, error) {
	var models []*model.Ad
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AdRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Ad{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
