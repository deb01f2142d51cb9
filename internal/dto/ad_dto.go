package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAdRequest struct {
	Title       string   `json:"title" validate:"required,max=120"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Category    string   `json:"category" validate:"required"`
	ImageURLs   []string `json:"image_urls"`
}

type CreateAdResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateAdRequest struct {
	Id          uuid.UUID
	Title       string   `json:"title" validate:"required,max=120"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Category    string   `json:"category" validate:"required"`
	Status      string   `json:"status" validate:"omitempty,oneof=active inactive sold"`
	ImageURLs   []string `json:"image_urls"`
}

type UpdateAdResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowAdResponse struct {
	Id          uuid.UUID  `json:"id"`
	UserId      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	Tags        []string   `json:"tags"`
	ImageURLs   []string   `json:"image_urls"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// SimilarAdsResponse carries the cached recommendation set for one source ad.
type SimilarAdsResponse struct {
	SourceAdId uuid.UUID         `json:"source_ad_id"`
	Ads        []*ShowAdResponse `json:"ads"`
	Cached     bool              `json:"cached"`
}

// RelatedAdResponse is a semantic match with its similarity score.
type RelatedAdResponse struct {
	Ad         *ShowAdResponse `json:"ad"`
	Similarity float64         `json:"similarity"`
}

type FavoriteRequest struct {
	AdId uuid.UUID `json:"ad_id" validate:"required"`
}

type FavoriteResponse struct {
	Id   uuid.UUID `json:"id"`
	AdId uuid.UUID `json:"ad_id"`
}
