package implementation

import (
	"context"
	"errors"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/mapper"
	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecommendationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AdRecommendationMapper
}

func NewRecommendationRepository(db *gorm.DB) contract.RecommendationRepository {
	return &RecommendationRepositoryImpl{
		db:     db,
		mapper: mapper.NewAdRecommendationMapper(),
	}
}

func (r *RecommendationRepositoryImpl) FindValid(ctx context.Context, adId uuid.UUID, now time.Time) (*entity.AdRecommendation, error) {
	var m model.AdRecommendation
	err := r.db.WithContext(ctx).
		Where("ad_id = ? AND expires_at > ?", adId, now).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RecommendationRepositoryImpl) Upsert(ctx context.Context, rec *entity.AdRecommendation) error {
	m := r.mapper.ToModel(rec)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ad_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"recommended_ids", "expires_at", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*rec = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecommendationRepositoryImpl) RecordHit(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.AdRecommendation{}).
		Where("id = ?", id).
		UpdateColumn("hit_count", gorm.Expr("hit_count + 1")).Error
}

func (r *RecommendationRepositoryImpl) DeleteByAdId(ctx context.Context, adId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("ad_id = ?", adId).
		Delete(&model.AdRecommendation{}).Error
}
