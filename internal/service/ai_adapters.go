package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/pkg/cache"
	"marketplace-be/pkg/genai"

	"github.com/google/uuid"
)

// aiCacheStore backs the orchestrator's cache with the durable ai_cache
// table plus a Redis hot tier. Redis failures degrade to the table, table
// hits are backfilled into Redis.
type aiCacheStore struct {
	uowFactory unitofwork.RepositoryFactory
	hot        *cache.RedisCache
	log        logger.ILogger
}

func NewAiCacheStore(uowFactory unitofwork.RepositoryFactory, hot *cache.RedisCache, log logger.ILogger) genai.CacheStore {
	return &aiCacheStore{
		uowFactory: uowFactory,
		hot:        hot,
		log:        log,
	}
}

func hotCacheKey(key string, feature genai.Feature) string {
	return fmt.Sprintf("ai:%s:%s", feature, key)
}

func (s *aiCacheStore) Lookup(ctx context.Context, key string, feature genai.Feature) (*genai.CachedResponse, error) {
	var cached genai.CachedResponse
	found, err := s.hot.GetJSON(ctx, hotCacheKey(key, feature), &cached)
	if err != nil {
		s.log.Warn("ai_cache", "redis lookup failed, falling back to table", map[string]interface{}{
			"feature": string(feature),
			"error":   err.Error(),
		})
	} else if found && time.Now().Before(cached.ExpiresAt) {
		return &cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.AiCacheRepository().FindValid(ctx, key, string(feature), time.Now())
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	resp := &genai.CachedResponse{
		Key:       entry.CacheKey,
		Feature:   feature,
		Response:  entry.Response,
		HitCount:  entry.HitCount,
		ExpiresAt: entry.ExpiresAt,
	}

	if err := s.hot.SetJSON(ctx, hotCacheKey(key, feature), resp, time.Until(entry.ExpiresAt)); err != nil {
		s.log.Warn("ai_cache", "redis backfill failed", map[string]interface{}{
			"feature": string(feature),
			"error":   err.Error(),
		})
	}
	return resp, nil
}

func (s *aiCacheStore) Save(ctx context.Context, entry *genai.CachedResponse) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	row := &entity.AiCacheEntry{
		Id:        uuid.New(),
		CacheKey:  entry.Key,
		Feature:   string(entry.Feature),
		Response:  entry.Response,
		ExpiresAt: entry.ExpiresAt,
		CreatedAt: time.Now(),
	}
	if err := uow.AiCacheRepository().Upsert(ctx, row); err != nil {
		return err
	}

	if err := s.hot.SetJSON(ctx, hotCacheKey(entry.Key, entry.Feature), entry, time.Until(entry.ExpiresAt)); err != nil {
		s.log.Warn("ai_cache", "redis write failed", map[string]interface{}{
			"feature": string(entry.Feature),
			"error":   err.Error(),
		})
	}
	return nil
}

func (s *aiCacheStore) RecordHit(ctx context.Context, key string, feature genai.Feature) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AiCacheRepository().IncrementHit(ctx, key, string(feature))
}

// featureResultSink writes one feature_results row per invocation. Fraud
// results derive a moderation flag from the reported risk level before the
// row is stored.
type featureResultSink struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewFeatureResultSink(uowFactory unitofwork.RepositoryFactory) genai.ResultSink {
	return &featureResultSink{uowFactory: uowFactory}
}

// FraudRiskLevelsRequiringReview lists the risk levels that put a listing
// into the moderation queue.
var FraudRiskLevelsRequiringReview = map[string]bool{
	"high":     true,
	"critical": true,
}

func deriveReview(feature genai.Feature, result json.RawMessage) (bool, entity.ReviewStatus) {
	if feature != genai.FeatureFraudCheck {
		return false, entity.ReviewStatusApproved
	}

	var verdict struct {
		RiskLevel string `json:"risk_level"`
	}
	if err := json.Unmarshal(result, &verdict); err != nil {
		// An unreadable verdict goes to a human.
		return true, entity.ReviewStatusPending
	}
	if FraudRiskLevelsRequiringReview[strings.ToLower(verdict.RiskLevel)] {
		return true, entity.ReviewStatusPending
	}
	return false, entity.ReviewStatusApproved
}

func (s *featureResultSink) Persist(ctx context.Context, feature genai.Feature, req *genai.Request, result json.RawMessage) error {
	flagged, status := deriveReview(feature, result)

	row := &entity.FeatureResult{
		Id:               uuid.New(),
		Feature:          string(feature),
		AdId:             req.AdId,
		UserId:           req.UserId,
		Payload:          result,
		FlaggedForReview: flagged,
		ReviewStatus:     status,
		CreatedAt:        time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	spec, _ := genai.Spec(feature)
	if spec.UpsertByAd {
		return uow.FeatureResultRepository().UpsertByAd(ctx, row)
	}
	return uow.FeatureResultRepository().Create(ctx, row)
}

// usagePublisher hands usage records to the background writer over the
// in-process bus. Record never blocks the response path; a failed publish
// is logged and dropped.
type usagePublisher struct {
	publisher IPublisherService
	log       logger.ILogger
}

func NewUsagePublisher(publisher IPublisherService, log logger.ILogger) genai.UsageSink {
	return &usagePublisher{
		publisher: publisher,
		log:       log,
	}
}

func (s *usagePublisher) Record(entry genai.UsageEntry) {
	payload, err := json.Marshal(dto.PublishUsageLogMessage{
		UserId:    entry.UserId,
		Feature:   string(entry.Feature),
		LatencyMs: entry.LatencyMs,
		Success:   entry.Success,
		Metadata:  entry.Metadata,
	})
	if err != nil {
		s.log.Warn("ai_usage", "failed to marshal usage record", map[string]interface{}{
			"feature": string(entry.Feature),
			"error":   err.Error(),
		})
		return
	}
	if err := s.publisher.Publish(context.Background(), payload); err != nil {
		s.log.Warn("ai_usage", "failed to publish usage record", map[string]interface{}{
			"feature": string(entry.Feature),
			"error":   err.Error(),
		})
	}
}
