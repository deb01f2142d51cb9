package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditPackage struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Slug         string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Credits      int       `gorm:"not null"`
	BonusCredits int       `gorm:"not null;default:0"`
	UnitPrice    float64   `gorm:"not null"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (CreditPackage) TableName() string {
	return "credit_packages"
}

type CreditTransaction struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	PackageId    uuid.UUID `gorm:"type:uuid;not null"`
	Credits      int       `gorm:"not null"`
	BonusCredits int       `gorm:"not null;default:0"`
	Amount       float64   `gorm:"not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
