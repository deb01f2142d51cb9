package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/pkg/embedding"
	"marketplace-be/pkg/genai"

	"github.com/google/uuid"
)

// Similar listings stay within this band around the source price.
const (
	priceBandLowerFactor = 0.7
	priceBandUpperFactor = 1.3

	defaultSimilarLimit = 10
)

type IRecommendationService interface {
	SimilarAds(ctx context.Context, adId uuid.UUID, limit int) (*dto.SimilarAdsResponse, error)
	SemanticRelated(ctx context.Context, adId uuid.UUID, limit int) ([]*dto.RelatedAdResponse, error)
}

type recommendationService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
	now               func() time.Time
}

func NewRecommendationService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IRecommendationService {
	return &recommendationService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		log:               log,
		now:               time.Now,
	}
}

// SimilarAds is the non-AI variant of the generate-then-cache cycle: on a
// cache miss it runs a bounded filter query (same category, price within
// the band, active listings only, source excluded) and stores the id list
// with a fixed forward expiry.
func (s *recommendationService) SimilarAds(ctx context.Context, adId uuid.UUID, limit int) (*dto.SimilarAdsResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = defaultSimilarLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	source, err := uow.AdRepository().FindOne(ctx, specification.ByID{ID: adId})
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: ad %s", ErrNotFound, adId)
	}

	cached, err := uow.RecommendationRepository().FindValid(ctx, adId, s.now())
	if err != nil {
		s.log.Warn("recommendation", "cache lookup failed, recomputing", map[string]interface{}{
			"ad_id": adId.String(),
			"error": err.Error(),
		})
	} else if cached != nil {
		if hitErr := uow.RecommendationRepository().RecordHit(ctx, cached.Id); hitErr != nil {
			s.log.Warn("recommendation", "hit counter update failed", map[string]interface{}{
				"ad_id": adId.String(),
				"error": hitErr.Error(),
			})
		}
		ads, err := s.loadAds(ctx, cached.RecommendedIds)
		if err != nil {
			return nil, err
		}
		return &dto.SimilarAdsResponse{SourceAdId: adId, Ads: ads, Cached: true}, nil
	}

	matches, err := uow.AdRepository().FindAll(ctx,
		specification.CategoryIs{Category: source.Category},
		specification.PriceBetween{
			Min: source.Price * priceBandLowerFactor,
			Max: source.Price * priceBandUpperFactor,
		},
		specification.StatusIs{Status: string(entity.AdStatusActive)},
		specification.ExcludeID{ID: adId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(matches))
	res := make([]*dto.ShowAdResponse, len(matches))
	for i, ad := range matches {
		ids[i] = ad.Id
		res[i] = adToResponse(ad)
	}

	rec := &entity.AdRecommendation{
		Id:             uuid.New(),
		AdId:           adId,
		RecommendedIds: ids,
		ExpiresAt:      s.now().Add(genai.DefaultCacheTTL),
		CreatedAt:      s.now(),
	}
	if err := uow.RecommendationRepository().Upsert(ctx, rec); err != nil {
		// The result set is already computed; failing the request over a
		// cache write would punish the caller for a storage hiccup.
		s.log.Warn("recommendation", "cache write failed", map[string]interface{}{
			"ad_id": adId.String(),
			"error": err.Error(),
		})
	}

	return &dto.SimilarAdsResponse{SourceAdId: adId, Ads: res, Cached: false}, nil
}

func (s *recommendationService) loadAds(ctx context.Context, ids []uuid.UUID) ([]*dto.ShowAdResponse, error) {
	if len(ids) == 0 {
		return []*dto.ShowAdResponse{}, nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ads, err := uow.AdRepository().FindAll(ctx,
		specification.ByIDs{IDs: ids},
		specification.StatusIs{Status: string(entity.AdStatusActive)},
	)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ShowAdResponse, len(ads))
	for i, ad := range ads {
		res[i] = adToResponse(ad)
	}
	return res, nil
}

// SemanticRelated ranks other listings by vector similarity to the source
// ad's embedded document.
func (s *recommendationService) SemanticRelated(ctx context.Context, adId uuid.UUID, limit int) ([]*dto.RelatedAdResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = defaultSimilarLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	source, err := uow.AdRepository().FindOne(ctx, specification.ByID{ID: adId})
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: ad %s", ErrNotFound, adId)
	}

	doc := BuildAdDocument(source)
	embedRes, err := s.embeddingProvider.Generate(doc, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := uow.AdEmbeddingRepository().SearchSimilar(ctx, embedRes.Embedding.Values, limit, adId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.RelatedAdResponse, 0, len(scored))
	for _, match := range scored {
		ad, err := uow.AdRepository().FindOne(ctx, specification.ByID{ID: match.Embedding.AdId})
		if err != nil {
			return nil, err
		}
		if ad == nil {
			continue
		}
		res = append(res, &dto.RelatedAdResponse{
			Ad:         adToResponse(ad),
			Similarity: match.Similarity,
		})
	}
	return res, nil
}

// BuildAdDocument flattens a listing into the text that gets embedded.
func BuildAdDocument(ad *entity.Ad) string {
	return fmt.Sprintf(`Title: %s
Category: %s
Price: %.2f

%s

Tags: %s`,
		ad.Title,
		ad.Category,
		ad.Price,
		ad.Description,
		strings.Join(ad.Tags, ", "),
	)
}
