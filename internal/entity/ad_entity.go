package entity

import (
	"time"

	"github.com/google/uuid"
)

type AdStatus string

const (
	AdStatusActive   AdStatus = "active"
	AdStatusInactive AdStatus = "inactive"
	AdStatusSold     AdStatus = "sold"
)

type Ad struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Title       string
	Description string
	Price       float64
	Category    string
	Status      AdStatus
	Tags        []string
	ImageURLs   []string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

type Favorite struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	AdId      uuid.UUID
	CreatedAt time.Time
}
