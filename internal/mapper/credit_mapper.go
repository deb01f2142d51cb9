package mapper

import (
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/model"
)

type CreditMapper struct{}

func NewCreditMapper() *CreditMapper {
	return &CreditMapper{}
}

func (m *CreditMapper) PackageToEntity(p *model.CreditPackage) *entity.CreditPackage {
	if p == nil {
		return nil
	}
	return &entity.CreditPackage{
		Id:           p.Id,
		Name:         p.Name,
		Slug:         p.Slug,
		Credits:      p.Credits,
		BonusCredits: p.BonusCredits,
		UnitPrice:    p.UnitPrice,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
	}
}

func (m *CreditMapper) PackageToEntities(packages []*model.CreditPackage) []*entity.CreditPackage {
	entities := make([]*entity.CreditPackage, len(packages))
	for i, p := range packages {
		entities[i] = m.PackageToEntity(p)
	}
	return entities
}

func (m *CreditMapper) PackageToModel(p *entity.CreditPackage) *model.CreditPackage {
	if p == nil {
		return nil
	}
	return &model.CreditPackage{
		Id:           p.Id,
		Name:         p.Name,
		Slug:         p.Slug,
		Credits:      p.Credits,
		BonusCredits: p.BonusCredits,
		UnitPrice:    p.UnitPrice,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
	}
}

func (m *CreditMapper) TransactionToEntity(t *model.CreditTransaction) *entity.CreditTransaction {
	if t == nil {
		return nil
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}

	return &entity.CreditTransaction{
		Id:           t.Id,
		UserId:       t.UserId,
		PackageId:    t.PackageId,
		Credits:      t.Credits,
		BonusCredits: t.BonusCredits,
		Amount:       t.Amount,
		Status:       entity.TransactionStatus(t.Status),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *CreditMapper) TransactionToModel(t *entity.CreditTransaction) *model.CreditTransaction {
	if t == nil {
		return nil
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.CreditTransaction{
		Id:           t.Id,
		UserId:       t.UserId,
		PackageId:    t.PackageId,
		Credits:      t.Credits,
		BonusCredits: t.BonusCredits,
		Amount:       t.Amount,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}
