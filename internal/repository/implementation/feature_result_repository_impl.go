package implementation

import (
	"context"
	"errors"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/mapper"
	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"
	"marketplace-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeatureResultRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeatureResultMapper
}

func NewFeatureResultRepository(db *gorm.DB) contract.FeatureResultRepository {
	return &FeatureResultRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeatureResultMapper(),
	}
}

func (r *FeatureResultRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FeatureResultRepositoryImpl) Create(ctx context.Context, result *entity.FeatureResult) error {
	m := r.mapper.ToModel(result)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*result = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeatureResultRepositoryImpl) UpsertByAd(ctx context.Context, result *entity.FeatureResult) error {
	m := r.mapper.ToModel(result)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "feature"}, {Name: "ad_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "payload", "flagged_for_review", "review_status", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*result = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeatureResultRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeatureResult, error) {
	var m model.FeatureResult
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FeatureResultRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeatureResult, error) {
	var models []*model.FeatureResult
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.FeatureResult, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
