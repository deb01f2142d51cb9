package genai

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidateInput(t *testing.T) {
	userId := uuid.New()
	adId := uuid.New()

	tests := []struct {
		name    string
		feature Feature
		req     *Request
		wantErr bool
	}{
		{
			name:    "description without user id",
			feature: FeatureDescription,
			req: &Request{
				Input: map[string]interface{}{"product_info": map[string]interface{}{"title": "x"}},
			},
			wantErr: true,
		},
		{
			name:    "description without product info",
			feature: FeatureDescription,
			req:     &Request{UserId: &userId, Input: map[string]interface{}{}},
			wantErr: true,
		},
		{
			name:    "description valid",
			feature: FeatureDescription,
			req: &Request{
				UserId: &userId,
				Input:  map[string]interface{}{"product_info": map[string]interface{}{"title": "x"}},
			},
			wantErr: false,
		},
		{
			name:    "comparison with one product",
			feature: FeatureComparison,
			req: &Request{
				Input: map[string]interface{}{"products": []interface{}{map[string]interface{}{"title": "a"}}},
			},
			wantErr: true,
		},
		{
			name:    "comparison with two products",
			feature: FeatureComparison,
			req: &Request{
				Input: map[string]interface{}{"products": []interface{}{
					map[string]interface{}{"title": "a"},
					map[string]interface{}{"title": "b"},
				}},
			},
			wantErr: false,
		},
		{
			name:    "fraud check without ad id",
			feature: FeatureFraudCheck,
			req: &Request{
				Input: map[string]interface{}{"ad_data": map[string]interface{}{"title": "x"}},
			},
			wantErr: true,
		},
		{
			name:    "fraud check valid",
			feature: FeatureFraudCheck,
			req: &Request{
				AdId:  &adId,
				Input: map[string]interface{}{"ad_data": map[string]interface{}{"title": "x"}},
			},
			wantErr: false,
		},
		{
			name:    "tags with nil required value",
			feature: FeatureTags,
			req: &Request{
				AdId:  &adId,
				Input: map[string]interface{}{"product_info": nil},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := Spec(tt.feature)
			if !ok {
				t.Fatalf("feature %s not registered", tt.feature)
			}
			err := spec.ValidateInput(tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("error %v is not ErrInvalidInput", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAllFeaturesRegistered(t *testing.T) {
	features := []Feature{
		FeatureDescription, FeatureTitle, FeatureTags, FeatureComparison,
		FeaturePriceRecommendation, FeatureFraudCheck, FeatureImageAnalysis,
		FeatureAlternatives,
	}
	for _, f := range features {
		spec, ok := Spec(f)
		if !ok {
			t.Errorf("feature %s has no spec", f)
			continue
		}
		if spec.Prompt == nil {
			t.Errorf("feature %s has no prompt builder", f)
		}
		if len(spec.Schema) == 0 {
			t.Errorf("feature %s has no output schema", f)
		}
		if spec.Cacheable && spec.CacheInput == nil {
			t.Errorf("cacheable feature %s has no cache input extractor", f)
		}
	}
}

func TestComparisonCacheInputExcludesUser(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()
	products := []interface{}{
		map[string]interface{}{"title": "a", "price": 10},
		map[string]interface{}{"title": "b", "price": 20},
	}

	spec, _ := Spec(FeatureComparison)
	keyA, err := ContentKey(spec.CacheInput(&Request{UserId: &userA, Input: map[string]interface{}{"products": products}}))
	if err != nil {
		t.Fatalf("ContentKey error: %v", err)
	}
	keyB, _ := ContentKey(spec.CacheInput(&Request{UserId: &userB, Input: map[string]interface{}{"products": products}}))

	if keyA != keyB {
		t.Error("user identity must not be part of the comparison cache key")
	}
}

func TestOutputContractEmbedsSchema(t *testing.T) {
	spec, _ := Spec(FeatureFraudCheck)
	contract := OutputContract(spec.Schema)

	for _, field := range []string{"risk_score", "risk_level", "reasons"} {
		if !strings.Contains(contract, field) {
			t.Errorf("output contract missing schema field %q", field)
		}
	}
}
