package entity

import (
	"time"

	"github.com/google/uuid"
)

type CreditPackage struct {
	Id           uuid.UUID
	Name         string
	Slug         string
	Credits      int
	BonusCredits int
	UnitPrice    float64
	Active       bool
	CreatedAt    time.Time
}

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSettled TransactionStatus = "settled"
	TransactionStatusFailed  TransactionStatus = "failed"
)

type CreditTransaction struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	PackageId    uuid.UUID
	Credits      int
	BonusCredits int
	Amount       float64
	Status       TransactionStatus
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
