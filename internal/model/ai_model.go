package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type AiCacheEntry struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CacheKey  string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_ai_cache_key_feature"`
	Feature   string         `gorm:"type:varchar(40);not null;uniqueIndex:idx_ai_cache_key_feature"`
	Response  datatypes.JSON `gorm:"type:jsonb;not null"`
	HitCount  int64          `gorm:"not null;default:0"`
	ExpiresAt time.Time      `gorm:"not null;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (AiCacheEntry) TableName() string {
	return "ai_cache"
}

type AiUsageLog struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    *uuid.UUID     `gorm:"type:uuid;index"`
	Feature   string         `gorm:"type:varchar(40);not null;index"`
	LatencyMs int64          `gorm:"not null"`
	Success   bool           `gorm:"not null"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (AiUsageLog) TableName() string {
	return "ai_usage_logs"
}

type FeatureResult struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Feature          string         `gorm:"type:varchar(40);not null;uniqueIndex:idx_feature_results_feature_ad"`
	AdId             *uuid.UUID     `gorm:"type:uuid;uniqueIndex:idx_feature_results_feature_ad"`
	UserId           *uuid.UUID     `gorm:"type:uuid;index"`
	Payload          datatypes.JSON `gorm:"type:jsonb;not null"`
	FlaggedForReview bool           `gorm:"not null;default:false;index"`
	ReviewStatus     string         `gorm:"type:varchar(20);not null;default:'approved'"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
}

func (FeatureResult) TableName() string {
	return "feature_results"
}

type AdRecommendation struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AdId           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	RecommendedIds datatypes.JSON `gorm:"type:jsonb;not null"`
	HitCount       int64          `gorm:"not null;default:0"`
	ExpiresAt      time.Time      `gorm:"not null;index"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (AdRecommendation) TableName() string {
	return "ad_recommendations"
}

type AdEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AdId           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (AdEmbedding) TableName() string {
	return "ad_embeddings"
}
