package unitofwork

import (
	"context"

	"marketplace-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AdRepository() contract.AdRepository
	FavoriteRepository() contract.FavoriteRepository
	AiCacheRepository() contract.AiCacheRepository
	UsageLogRepository() contract.UsageLogRepository
	FeatureResultRepository() contract.FeatureResultRepository
	RecommendationRepository() contract.RecommendationRepository
	AdEmbeddingRepository() contract.AdEmbeddingRepository
	CreditRepository() contract.CreditRepository
}
