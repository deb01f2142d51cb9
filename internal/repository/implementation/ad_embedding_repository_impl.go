package implementation

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/mapper"
	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AdEmbeddingMapper
}

func NewAdEmbeddingRepository(db *gorm.DB) contract.AdEmbeddingRepository {
	return &AdEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewAdEmbeddingMapper(),
	}
}

func (r *AdEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.AdEmbedding) error {
	m := r.mapper.ToModel(embedding)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ad_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "embedding_value"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *AdEmbeddingRepositoryImpl) DeleteByAdId(ctx context.Context, adId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("ad_id = ?", adId).
		Delete(&model.AdEmbedding{}).Error
}

func (r *AdEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, excludeAdId uuid.UUID) ([]*contract.ScoredAdEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding_value <=> query_vector) gives the similarity.
	type result struct {
		model.AdEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("ad_embeddings").
		Select("ad_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN ads ON ads.id = ad_embeddings.ad_id").
		Where("ads.id <> ?", excludeAdId).
		Where("ads.status = ?", "active").
		Where("ads.deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredAdEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredAdEmbedding{
			Embedding:  r.mapper.ToEntity(&res.AdEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
