package implementation

import (
	"context"
	"errors"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/mapper"
	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AiCacheRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AiCacheMapper
}

func NewAiCacheRepository(db *gorm.DB) contract.AiCacheRepository {
	return &AiCacheRepositoryImpl{
		db:     db,
		mapper: mapper.NewAiCacheMapper(),
	}
}

func (r *AiCacheRepositoryImpl) FindValid(ctx context.Context, cacheKey string, feature string, now time.Time) (*entity.AiCacheEntry, error) {
	var m model.AiCacheEntry
	err := r.db.WithContext(ctx).
		Where("cache_key = ? AND feature = ? AND expires_at > ?", cacheKey, feature, now).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AiCacheRepositoryImpl) Upsert(ctx context.Context, entry *entity.AiCacheEntry) error {
	m := r.mapper.ToModel(entry)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}, {Name: "feature"}},
			DoUpdates: clause.AssignmentColumns([]string{"response", "expires_at", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *AiCacheRepositoryImpl) IncrementHit(ctx context.Context, cacheKey string, feature string) error {
	return r.db.WithContext(ctx).
		Model(&model.AiCacheEntry{}).
		Where("cache_key = ? AND feature = ?", cacheKey, feature).
		UpdateColumn("hit_count", gorm.Expr("hit_count + 1")).Error
}

func (r *AiCacheRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.AiCacheEntry{})
	return res.RowsAffected, res.Error
}
