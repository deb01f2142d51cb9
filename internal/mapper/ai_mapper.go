package mapper

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/model"
)

type AiCacheMapper struct{}

func NewAiCacheMapper() *AiCacheMapper {
	return &AiCacheMapper{}
}

func (m *AiCacheMapper) ToEntity(c *model.AiCacheEntry) *entity.AiCacheEntry {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.AiCacheEntry{
		Id:        c.Id,
		CacheKey:  c.CacheKey,
		Feature:   c.Feature,
		Response:  json.RawMessage(c.Response),
		HitCount:  c.HitCount,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *AiCacheMapper) ToModel(c *entity.AiCacheEntry) *model.AiCacheEntry {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.AiCacheEntry{
		Id:        c.Id,
		CacheKey:  c.CacheKey,
		Feature:   c.Feature,
		Response:  datatypes.JSON(c.Response),
		HitCount:  c.HitCount,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

type AiUsageLogMapper struct{}

func NewAiUsageLogMapper() *AiUsageLogMapper {
	return &AiUsageLogMapper{}
}

func (m *AiUsageLogMapper) ToModel(l *entity.AiUsageLog) *model.AiUsageLog {
	if l == nil {
		return nil
	}

	var metadata datatypes.JSON
	if l.Metadata != nil {
		raw, err := json.Marshal(l.Metadata)
		if err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	return &model.AiUsageLog{
		Id:        l.Id,
		UserId:    l.UserId,
		Feature:   l.Feature,
		LatencyMs: l.LatencyMs,
		Success:   l.Success,
		Metadata:  metadata,
		CreatedAt: l.CreatedAt,
	}
}

func (m *AiUsageLogMapper) ToEntity(l *model.AiUsageLog) *entity.AiUsageLog {
	if l == nil {
		return nil
	}

	var metadata map[string]interface{}
	_ = json.Unmarshal(l.Metadata, &metadata)

	return &entity.AiUsageLog{
		Id:        l.Id,
		UserId:    l.UserId,
		Feature:   l.Feature,
		LatencyMs: l.LatencyMs,
		Success:   l.Success,
		Metadata:  metadata,
		CreatedAt: l.CreatedAt,
	}
}

type FeatureResultMapper struct{}

func NewFeatureResultMapper() *FeatureResultMapper {
	return &FeatureResultMapper{}
}

func (m *FeatureResultMapper) ToEntity(r *model.FeatureResult) *entity.FeatureResult {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.FeatureResult{
		Id:               r.Id,
		Feature:          r.Feature,
		AdId:             r.AdId,
		UserId:           r.UserId,
		Payload:          json.RawMessage(r.Payload),
		FlaggedForReview: r.FlaggedForReview,
		ReviewStatus:     entity.ReviewStatus(r.ReviewStatus),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *FeatureResultMapper) ToModel(r *entity.FeatureResult) *model.FeatureResult {
	if r == nil {
		return nil
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.FeatureResult{
		Id:               r.Id,
		Feature:          r.Feature,
		AdId:             r.AdId,
		UserId:           r.UserId,
		Payload:          datatypes.JSON(r.Payload),
		FlaggedForReview: r.FlaggedForReview,
		ReviewStatus:     string(r.ReviewStatus),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

type AdRecommendationMapper struct{}

func NewAdRecommendationMapper() *AdRecommendationMapper {
	return &AdRecommendationMapper{}
}

func (m *AdRecommendationMapper) ToEntity(r *model.AdRecommendation) *entity.AdRecommendation {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	var ids []uuid.UUID
	_ = json.Unmarshal(r.RecommendedIds, &ids)

	return &entity.AdRecommendation{
		Id:             r.Id,
		AdId:           r.AdId,
		RecommendedIds: ids,
		HitCount:       r.HitCount,
		ExpiresAt:      r.ExpiresAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *AdRecommendationMapper) ToModel(r *entity.AdRecommendation) *model.AdRecommendation {
	if r == nil {
		return nil
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	ids, _ := json.Marshal(r.RecommendedIds)

	return &model.AdRecommendation{
		Id:             r.Id,
		AdId:           r.AdId,
		RecommendedIds: datatypes.JSON(ids),
		HitCount:       r.HitCount,
		ExpiresAt:      r.ExpiresAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

type AdEmbeddingMapper struct{}

func NewAdEmbeddingMapper() *AdEmbeddingMapper {
	return &AdEmbeddingMapper{}
}

func (m *AdEmbeddingMapper) ToEntity(e *model.AdEmbedding) *entity.AdEmbedding {
	if e == nil {
		return nil
	}
	return &entity.AdEmbedding{
		Id:             e.Id,
		AdId:           e.AdId,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *AdEmbeddingMapper) ToModel(e *entity.AdEmbedding) *model.AdEmbedding {
	if e == nil {
		return nil
	}
	return &model.AdEmbedding{
		Id:             e.Id,
		AdId:           e.AdId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
}
