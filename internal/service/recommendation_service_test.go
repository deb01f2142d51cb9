package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/pkg/genai"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecommendationHarness(uow *fakeUow) *recommendationService {
	svc := NewRecommendationService(&fakeUowFactory{uow: uow}, nil, nopLogger{}).(*recommendationService)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func activeAd(price float64, category string) *entity.Ad {
	return &entity.Ad{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Title:     "Listing",
		Price:     price,
		Category:  category,
		Status:    entity.AdStatusActive,
		CreatedAt: time.Now(),
	}
}

func TestSimilarAdsUnknownAd(t *testing.T) {
	uow := &fakeUow{ads: newFakeAdRepo(), recs: &fakeRecommendationRepo{}}
	svc := newRecommendationHarness(uow)

	_, err := svc.SimilarAds(context.Background(), uuid.New(), 10)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSimilarAdsComputesPriceBand(t *testing.T) {
	source := activeAd(100, "electronics")
	match1 := activeAd(90, "electronics")
	match2 := activeAd(120, "electronics")

	ads := newFakeAdRepo(source)
	ads.findAllResult = []*entity.Ad{match1, match2}
	recs := &fakeRecommendationRepo{}
	uow := &fakeUow{ads: ads, recs: recs}
	svc := newRecommendationHarness(uow)

	res, err := svc.SimilarAds(context.Background(), source.Id, 5)
	require.NoError(t, err)

	assert.False(t, res.Cached)
	assert.Equal(t, source.Id, res.SourceAdId)
	require.Len(t, res.Ads, 2)
	assert.Equal(t, match1.Id, res.Ads[0].Id)

	require.Len(t, ads.findAllSpecs, 1)
	var sawBand, sawCategory, sawStatus, sawExclude, sawLimit bool
	for _, spec := range ads.findAllSpecs[0] {
		switch s := spec.(type) {
		case specification.PriceBetween:
			sawBand = true
			assert.InDelta(t, 70, s.Min, 0.001)
			assert.InDelta(t, 130, s.Max, 0.001)
		case specification.CategoryIs:
			sawCategory = true
			assert.Equal(t, "electronics", s.Category)
		case specification.StatusIs:
			sawStatus = true
			assert.Equal(t, "active", s.Status)
		case specification.ExcludeID:
			sawExclude = true
			assert.Equal(t, source.Id, s.ID)
		case specification.Pagination:
			sawLimit = true
			assert.Equal(t, 5, s.Limit)
		}
	}
	assert.True(t, sawBand, "price band spec missing")
	assert.True(t, sawCategory)
	assert.True(t, sawStatus)
	assert.True(t, sawExclude)
	assert.True(t, sawLimit)
}

func TestSimilarAdsCachesResultForSevenDays(t *testing.T) {
	source := activeAd(50, "bikes")
	match := activeAd(55, "bikes")

	ads := newFakeAdRepo(source)
	ads.findAllResult = []*entity.Ad{match}
	recs := &fakeRecommendationRepo{}
	uow := &fakeUow{ads: ads, recs: recs}
	svc := newRecommendationHarness(uow)

	_, err := svc.SimilarAds(context.Background(), source.Id, 10)
	require.NoError(t, err)

	require.Len(t, recs.upserted, 1)
	rec := recs.upserted[0]
	assert.Equal(t, source.Id, rec.AdId)
	assert.Equal(t, []uuid.UUID{match.Id}, rec.RecommendedIds)
	assert.Equal(t, svc.now().Add(genai.DefaultCacheTTL), rec.ExpiresAt)
}

func TestSimilarAdsServesCachedSet(t *testing.T) {
	source := activeAd(100, "electronics")
	cachedAd := activeAd(95, "electronics")

	ads := newFakeAdRepo(source)
	ads.findAllResult = []*entity.Ad{cachedAd}
	recs := &fakeRecommendationRepo{
		valid: &entity.AdRecommendation{
			Id:             uuid.New(),
			AdId:           source.Id,
			RecommendedIds: []uuid.UUID{cachedAd.Id},
			ExpiresAt:      time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		},
	}
	uow := &fakeUow{ads: ads, recs: recs}
	svc := newRecommendationHarness(uow)

	res, err := svc.SimilarAds(context.Background(), source.Id, 10)
	require.NoError(t, err)

	assert.True(t, res.Cached)
	require.Len(t, res.Ads, 1)
	assert.Equal(t, cachedAd.Id, res.Ads[0].Id)
	assert.Equal(t, []uuid.UUID{recs.valid.Id}, recs.hits)
	assert.Empty(t, recs.upserted, "cache hit must not recompute")

	// The cached-hit load goes through an id filter, not the band query.
	require.Len(t, ads.findAllSpecs, 1)
	var sawIds bool
	for _, spec := range ads.findAllSpecs[0] {
		if byIds, ok := spec.(specification.ByIDs); ok {
			sawIds = true
			assert.Equal(t, []uuid.UUID{cachedAd.Id}, byIds.IDs)
		}
	}
	assert.True(t, sawIds)
}

func TestSimilarAdsRecomputesWhenCacheLookupFails(t *testing.T) {
	source := activeAd(100, "electronics")
	ads := newFakeAdRepo(source)
	ads.findAllResult = []*entity.Ad{}
	recs := &fakeRecommendationRepo{findValidErr: errors.New("db down")}
	uow := &fakeUow{ads: ads, recs: recs}
	svc := newRecommendationHarness(uow)

	res, err := svc.SimilarAds(context.Background(), source.Id, 10)

	require.NoError(t, err)
	assert.False(t, res.Cached)
}

func TestSimilarAdsSurvivesCacheWriteFailure(t *testing.T) {
	source := activeAd(100, "electronics")
	match := activeAd(110, "electronics")

	ads := newFakeAdRepo(source)
	ads.findAllResult = []*entity.Ad{match}
	recs := &fakeRecommendationRepo{upsertErr: errors.New("conflict storm")}
	uow := &fakeUow{ads: ads, recs: recs}
	svc := newRecommendationHarness(uow)

	res, err := svc.SimilarAds(context.Background(), source.Id, 10)

	require.NoError(t, err)
	assert.False(t, res.Cached)
	require.Len(t, res.Ads, 1)
}

func TestSimilarAdsClampsLimit(t *testing.T) {
	source := activeAd(100, "electronics")
	ads := newFakeAdRepo(source)
	ads.findAllResult = []*entity.Ad{}
	uow := &fakeUow{ads: ads, recs: &fakeRecommendationRepo{}}
	svc := newRecommendationHarness(uow)

	_, err := svc.SimilarAds(context.Background(), source.Id, 500)
	require.NoError(t, err)

	require.Len(t, ads.findAllSpecs, 1)
	for _, spec := range ads.findAllSpecs[0] {
		if p, ok := spec.(specification.Pagination); ok {
			assert.Equal(t, defaultSimilarLimit, p.Limit)
		}
	}
}

func TestBuildAdDocument(t *testing.T) {
	ad := &entity.Ad{
		Title:       "Trek Marlin 7",
		Category:    "bikes",
		Price:       8500000,
		Description: "Hardtail in great condition.",
		Tags:        []string{"mtb", "trek"},
	}

	doc := BuildAdDocument(ad)

	assert.Contains(t, doc, "Title: Trek Marlin 7")
	assert.Contains(t, doc, "Category: bikes")
	assert.Contains(t, doc, "Hardtail in great condition.")
	assert.Contains(t, doc, "Tags: mtb, trek")
}
