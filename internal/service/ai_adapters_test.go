package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/pkg/genai"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveReviewRiskLevels(t *testing.T) {
	tests := []struct {
		name       string
		result     string
		wantFlag   bool
		wantStatus entity.ReviewStatus
	}{
		{"low risk", `{"risk_level":"low"}`, false, entity.ReviewStatusApproved},
		{"medium risk", `{"risk_level":"medium"}`, false, entity.ReviewStatusApproved},
		{"high risk", `{"risk_level":"high"}`, true, entity.ReviewStatusPending},
		{"critical risk", `{"risk_level":"critical"}`, true, entity.ReviewStatusPending},
		{"uppercase level", `{"risk_level":"HIGH"}`, true, entity.ReviewStatusPending},
		{"missing level", `{}`, false, entity.ReviewStatusApproved},
		{"unreadable verdict", `not json`, true, entity.ReviewStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagged, status := deriveReview(genai.FeatureFraudCheck, json.RawMessage(tt.result))
			assert.Equal(t, tt.wantFlag, flagged)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestDeriveReviewIgnoresNonFraudFeatures(t *testing.T) {
	// A description result carrying risk-like fields must not be flagged.
	flagged, status := deriveReview(genai.FeatureDescription, json.RawMessage(`{"risk_level":"critical"}`))

	assert.False(t, flagged)
	assert.Equal(t, entity.ReviewStatusApproved, status)
}

func TestFeatureResultSinkRoutesUpsertFeatures(t *testing.T) {
	results := &fakeFeatureResultRepo{}
	uow := &fakeUow{featureResults: results}
	sink := NewFeatureResultSink(&fakeUowFactory{uow: uow})

	adId := uuid.New()
	userId := uuid.New()
	req := &genai.Request{AdId: &adId, UserId: &userId}

	// Fraud checks keep one live row per ad.
	err := sink.Persist(context.Background(), genai.FeatureFraudCheck, req, json.RawMessage(`{"risk_level":"low"}`))
	require.NoError(t, err)
	require.Len(t, results.upserted, 1)
	assert.Empty(t, results.created)
	assert.Equal(t, &adId, results.upserted[0].AdId)
	assert.Equal(t, string(genai.FeatureFraudCheck), results.upserted[0].Feature)

	// Descriptions append a new row per invocation.
	err = sink.Persist(context.Background(), genai.FeatureDescription, req, json.RawMessage(`{"description":"x"}`))
	require.NoError(t, err)
	require.Len(t, results.created, 1)
}

func TestFeatureResultSinkFlagsHighRiskRows(t *testing.T) {
	results := &fakeFeatureResultRepo{}
	uow := &fakeUow{featureResults: results}
	sink := NewFeatureResultSink(&fakeUowFactory{uow: uow})

	adId := uuid.New()
	err := sink.Persist(context.Background(), genai.FeatureFraudCheck, &genai.Request{AdId: &adId}, json.RawMessage(`{"risk_level":"critical"}`))

	require.NoError(t, err)
	require.Len(t, results.upserted, 1)
	assert.True(t, results.upserted[0].FlaggedForReview)
	assert.Equal(t, entity.ReviewStatusPending, results.upserted[0].ReviewStatus)
}

type capturingPublisher struct {
	payloads [][]byte
	err      error
}

func (p *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestUsagePublisherRecord(t *testing.T) {
	pub := &capturingPublisher{}
	sink := NewUsagePublisher(pub, nopLogger{})

	userId := uuid.New()
	sink.Record(genai.UsageEntry{
		UserId:    &userId,
		Feature:   genai.FeatureTitle,
		LatencyMs: 420,
		Success:   true,
		Metadata:  map[string]interface{}{"model": "gemini-1.5-flash"},
	})

	require.Len(t, pub.payloads, 1)
	var msg dto.PublishUsageLogMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, &userId, msg.UserId)
	assert.Equal(t, "title", msg.Feature)
	assert.Equal(t, int64(420), msg.LatencyMs)
	assert.True(t, msg.Success)
}

func TestUsagePublisherDropsOnPublishFailure(t *testing.T) {
	pub := &capturingPublisher{err: errors.New("bus closed")}
	sink := NewUsagePublisher(pub, nopLogger{})

	// Must not panic or surface the error; usage logging is best effort.
	sink.Record(genai.UsageEntry{Feature: genai.FeatureTags, LatencyMs: 10, Success: false})

	assert.Empty(t, pub.payloads)
}
