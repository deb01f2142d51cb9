package dto

import "github.com/google/uuid"

// PublishEmbedAdMessage asks the background consumer to (re)embed one ad.
type PublishEmbedAdMessage struct {
	AdId uuid.UUID `json:"ad_id"`
}

// PublishUsageLogMessage carries one AI usage record to the background writer.
type PublishUsageLogMessage struct {
	UserId    *uuid.UUID             `json:"user_id"`
	Feature   string                 `json:"feature"`
	LatencyMs int64                  `json:"latency_ms"`
	Success   bool                   `json:"success"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}
