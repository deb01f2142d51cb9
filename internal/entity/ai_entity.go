package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AiCacheEntry is the durable content-addressed cache row backing the
// orchestrator. Validity: expires_at must be after the current time.
type AiCacheEntry struct {
	Id        uuid.UUID
	CacheKey  string
	Feature   string
	Response  json.RawMessage
	HitCount  int64
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// AiUsageLog records one orchestrator invocation's telemetry.
type AiUsageLog struct {
	Id        uuid.UUID
	UserId    *uuid.UUID
	Feature   string
	LatencyMs int64
	Success   bool
	Metadata  map[string]interface{}
	CreatedAt time.Time
}

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// FeatureResult is the polymorphic persisted outcome of one feature,
// keyed by (feature, ad id) for upsert-style features. The review columns
// are only meaningful for fraud checks.
type FeatureResult struct {
	Id               uuid.UUID
	Feature          string
	AdId             *uuid.UUID
	UserId           *uuid.UUID
	Payload          json.RawMessage
	FlaggedForReview bool
	ReviewStatus     ReviewStatus
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// AdRecommendation caches the similar-ad id list for one source ad.
type AdRecommendation struct {
	Id             uuid.UUID
	AdId           uuid.UUID
	RecommendedIds []uuid.UUID
	HitCount       int64
	ExpiresAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// AdEmbedding stores the semantic vector for one listing.
type AdEmbedding struct {
	Id             uuid.UUID
	AdId           uuid.UUID
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
