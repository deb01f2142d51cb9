package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// AiResponse is the common envelope for every generation endpoint.
type AiResponse struct {
	Result           json.RawMessage `json:"result"`
	GenerationTimeMs int64           `json:"generation_time_ms"`
	Cached           bool            `json:"cached"`
}

type GenerateDescriptionRequest struct {
	ProductInfo map[string]interface{} `json:"product_info" validate:"required"`
}

type GenerateTitleRequest struct {
	ProductInfo map[string]interface{} `json:"product_info" validate:"required"`
}

type GenerateTagsRequest struct {
	AdId        uuid.UUID              `json:"ad_id" validate:"required"`
	ProductInfo map[string]interface{} `json:"product_info" validate:"required"`
}

type CompareProductsRequest struct {
	Products []map[string]interface{} `json:"products" validate:"required,min=2"`
}

type RecommendPriceRequest struct {
	Category    string                 `json:"category"`
	ProductInfo map[string]interface{} `json:"product_info" validate:"required"`
}

type DetectFraudRequest struct {
	AdId   uuid.UUID              `json:"ad_id" validate:"required"`
	AdData map[string]interface{} `json:"ad_data" validate:"required"`
}

type AnalyzeImagesRequest struct {
	Images []string `json:"images" validate:"required,min=1"`
}

type AlternativesRequest struct {
	ProductInfo map[string]interface{} `json:"product_info" validate:"required"`
}
