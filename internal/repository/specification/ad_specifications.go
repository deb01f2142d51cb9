package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryIs filters ads by category
type CategoryIs struct {
	Category string
}

func (s CategoryIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// StatusIs filters by listing status
type StatusIs struct {
	Status string
}

func (s StatusIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// PriceBetween filters ads with price inside [Min, Max]
type PriceBetween struct {
	Min float64
	Max float64
}

func (s PriceBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price >= ? AND price <= ?", s.Min, s.Max)
}

// ExcludeID drops one row from the result set, typically the source ad of
// a similarity query.
type ExcludeID struct {
	ID uuid.UUID
}

func (s ExcludeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id <> ?", s.ID)
}

// ExpiresAfter keeps rows whose expiry is still in the future.
type ExpiresAfter struct {
	Time time.Time
}

func (s ExpiresAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at > ?", s.Time)
}
