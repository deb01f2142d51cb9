package contract

import (
	"context"

	"marketplace-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredAdEmbedding wraps AdEmbedding with its similarity score
type ScoredAdEmbedding struct {
	Embedding  *entity.AdEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type AdEmbeddingRepository interface {
	Upsert(ctx context.Context, embedding *entity.AdEmbedding) error
	DeleteByAdId(ctx context.Context, adId uuid.UUID) error
	SearchSimilar(ctx context.Context, embedding []float32, limit int, excludeAdId uuid.UUID) ([]*ScoredAdEmbedding, error)
}
