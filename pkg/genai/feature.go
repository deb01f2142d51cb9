package genai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"marketplace-be/pkg/llm"
)

// Feature identifies one AI-backed capability of the marketplace.
type Feature string

const (
	FeatureDescription         Feature = "description"
	FeatureTitle               Feature = "title"
	FeatureTags                Feature = "tags"
	FeatureComparison          Feature = "comparison"
	FeaturePriceRecommendation Feature = "price_recommendation"
	FeatureFraudCheck          Feature = "fraud_check"
	FeatureImageAnalysis       Feature = "image_analysis"
	FeatureAlternatives        Feature = "alternatives"
)

// ErrInvalidInput marks client-input failures detected before any external
// call. Handlers map it to a 400.
var ErrInvalidInput = errors.New("invalid generation input")

// ErrUnknownFeature is returned for a feature with no registered spec.
var ErrUnknownFeature = errors.New("unknown generation feature")

// Request is the transient argument to one orchestrator invocation.
type Request struct {
	UserId   *uuid.UUID
	AdId     *uuid.UUID
	Category string
	Input    map[string]interface{}
}

// FeatureSpec declares how one feature is validated, prompted, cached and
// persisted. Specs are immutable and registered once per feature.
type FeatureSpec struct {
	// Prompt renders the feature-specific instruction text. The output
	// contract is appended by the orchestrator, not here.
	Prompt func(req *Request) string

	// Schema is the declarative output shape the provider must honor.
	Schema llm.OutputSchema

	// Cacheable marks features whose output is deterministic given
	// identical input.
	Cacheable bool

	// CacheInput extracts the semantically relevant subset of the request
	// used for the content hash. Only set when Cacheable.
	CacheInput func(req *Request) interface{}

	// UpsertByAd marks features with at most one current result per ad.
	UpsertByAd bool

	RequiredInput []string
	RequireUser   bool
	RequireAd     bool

	// Validate holds extra constraints beyond required-key presence.
	Validate func(req *Request) error
}

func (s FeatureSpec) ValidateInput(req *Request) error {
	if s.RequireUser && req.UserId == nil {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if s.RequireAd && req.AdId == nil {
		return fmt.Errorf("%w: ad id is required", ErrInvalidInput)
	}
	for _, key := range s.RequiredInput {
		if req.Input == nil {
			return fmt.Errorf("%w: missing required field '%s'", ErrInvalidInput, key)
		}
		if v, ok := req.Input[key]; !ok || v == nil {
			return fmt.Errorf("%w: missing required field '%s'", ErrInvalidInput, key)
		}
	}
	if s.Validate != nil {
		return s.Validate(req)
	}
	return nil
}

// Spec returns the registered spec for a feature.
func Spec(f Feature) (FeatureSpec, bool) {
	spec, ok := registry[f]
	return spec, ok
}

func inputJSON(req *Request, key string) string {
	raw, err := json.Marshal(req.Input[key])
	if err != nil {
		return "{}"
	}
	return string(raw)
}

var registry = map[Feature]FeatureSpec{
	FeatureDescription: {
		RequiredInput: []string{"product_info"},
		RequireUser:   true,
		Schema:        llm.OutputSchema{"description": "A compelling, honest product description."},
		Prompt: func(req *Request) string {
			return fmt.Sprintf(
				"You are a marketplace copywriter. Write a concise, appealing "+
					"second-hand listing description in 2-4 sentences. Be honest "+
					"about condition, avoid superlatives you cannot back up.\n\n"+
					"Product data: %s",
				inputJSON(req, "product_info"),
			)
		},
	},
	FeatureTitle: {
		RequiredInput: []string{"product_info"},
		RequireUser:   true,
		Schema:        llm.OutputSchema{"title": "Short listing title, max 60 characters."},
		Prompt: func(req *Request) string {
			return fmt.Sprintf(
				"You are a marketplace copywriter. Write a short, searchable "+
					"listing title (max 60 characters) that names the product, "+
					"brand and key attribute.\n\nProduct data: %s",
				inputJSON(req, "product_info"),
			)
		},
	},
	FeatureTags: {
		RequiredInput: []string{"product_info"},
		RequireAd:     true,
		UpsertByAd:    true,
		Schema:        llm.OutputSchema{"tags": []interface{}{"tag1", "tag2", "tag3"}},
		Prompt: func(req *Request) string {
			return fmt.Sprintf(
				"Generate 5-8 lowercase search tags for this marketplace "+
					"listing. Tags must be single words or short hyphenated "+
					"phrases a buyer would actually type.\n\nProduct data: %s",
				inputJSON(req, "product_info"),
			)
		},
	},
	FeatureComparison: {
		RequiredInput: []string{"products"},
		Cacheable:     true,
		CacheInput: func(req *Request) interface{} {
			// Only the product list is semantically relevant; user identity
			// must not change the key.
			return req.Input["products"]
		},
		Validate: func(req *Request) error {
			products, ok := req.Input["products"].([]interface{})
			if !ok || len(products) < 2 {
				return fmt.Errorf("%w: comparison requires at least 2 products", ErrInvalidInput)
			}
			return nil
		},
		Schema: llm.OutputSchema{
			"best_choice": 0,
			"summary":     "One paragraph explaining the recommendation.",
			"products": []interface{}{
				map[string]interface{}{
					"index": 0,
					"pros":  []interface{}{"pro"},
					"cons":  []interface{}{"con"},
				},
			},
		},
		Prompt: func(req *Request) string {
			return fmt.Sprintf(
				"Compare the following marketplace products for a buyer. "+
					"List pros and cons per product (by zero-based index) and "+
					"pick the best overall value as best_choice.\n\nProducts: %s",
				inputJSON(req, "products"),
			)
		},
	},
	FeaturePriceRecommendation: {
		RequiredInput: []string{"product_info"},
		RequireUser:   true,
		Schema: llm.OutputSchema{
			"recommended_price": 100.0,
			"min_price":         80.0,
			"max_price":         120.0,
			"reasoning":         "Why this price range fits the market.",
		},
		Prompt: func(req *Request) string {
			category := req.Category
			if category == "" {
				category = "general"
			}
			return fmt.Sprintf(
				"You are a pricing analyst for a second-hand marketplace. "+
					"Recommend a fair asking price and a realistic range for "+
					"this product in the '%s' category.\n\nProduct data: %s",
				category,
				inputJSON(req, "product_info"),
			)
		},
	},
	FeatureFraudCheck: {
		RequiredInput: []string{"ad_data"},
		RequireAd:     true,
		UpsertByAd:    true,
		Schema: llm.OutputSchema{
			"risk_score": 0.25,
			"risk_level": "low",
			"reasons":    []interface{}{"reason"},
		},
		Prompt: func(req *Request) string {
			return fmt.Sprintf(
				"You are a fraud analyst for a consumer marketplace. Assess "+
					"this listing for scam signals (unrealistic price, stock "+
					"photos, urgency language, off-platform payment requests). "+
					"risk_level must be one of: low, medium, high, critical. "+
					"risk_score is 0.0-1.0.\n\nListing data: %s",
				inputJSON(req, "ad_data"),
			)
		},
	},
	FeatureImageAnalysis: {
		RequiredInput: []string{"images"},
		RequireUser:   true,
		Schema: llm.OutputSchema{
			"labels":        []interface{}{"label"},
			"condition":     "good",
			"quality_score": 0.8,
		},
		Prompt: func(req *Request) string {
			return fmt.Sprintf(
				"Analyze these marketplace listing photos (described or "+
					"linked below). Label the product, estimate its visible "+
					"condition and rate photo quality 0.0-1.0.\n\nImages: %s",
				inputJSON(req, "images"),
			)
		},
	},
	FeatureAlternatives: {
		RequiredInput: []string{"product_info"},
		Schema: llm.OutputSchema{
			"alternatives": []interface{}{
				map[string]interface{}{
					"name":   "Alternative product",
					"reason": "Why it is a good substitute.",
				},
			},
		},
		Prompt: func(req *Request) string {
			return fmt.Sprintf(
				"Suggest 3-5 alternative products a buyer should consider "+
					"instead of this one, with a one-line reason each.\n\n"+
					"Product data: %s",
				inputJSON(req, "product_info"),
			)
		},
	},
}

// OutputContract renders the exact-shape instruction appended to every
// prompt so the provider returns parseable JSON.
func OutputContract(schema llm.OutputSchema) string {
	example, err := json.MarshalIndent(map[string]interface{}(schema), "", "  ")
	if err != nil {
		example = []byte("{}")
	}
	var b strings.Builder
	b.WriteString("\n\nRespond with ONLY a JSON object matching exactly this shape, no other text:\n")
	b.Write(example)
	return b.String()
}
