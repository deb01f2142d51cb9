package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/model"
)

type AdMapper struct{}

func NewAdMapper() *AdMapper {
	return &AdMapper{}
}

func (m *AdMapper) ToEntity(a *model.Ad) *entity.Ad {
	if a == nil {
		return nil
	}

	var deletedAt *time.Time
	if a.DeletedAt.Valid {
		t := a.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	var tags []string
	_ = json.Unmarshal(a.Tags, &tags)
	var imageURLs []string
	_ = json.Unmarshal(a.ImageURLs, &imageURLs)

	return &entity.Ad{
		Id:          a.Id,
		UserId:      a.UserId,
		Title:       a.Title,
		Description: a.Description,
		Price:       a.Price,
		Category:    a.Category,
		Status:      entity.AdStatus(a.Status),
		Tags:        tags,
		ImageURLs:   imageURLs,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   a.DeletedAt.Valid,
	}
}

func (m *AdMapper) ToModel(a *entity.Ad) *model.Ad {
	if a == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if a.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *a.DeletedAt, Valid: true}
	} else if a.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	tags, _ := json.Marshal(a.Tags)
	imageURLs, _ := json.Marshal(a.ImageURLs)

	return &model.Ad{
		Id:          a.Id,
		UserId:      a.UserId,
		Title:       a.Title,
		Description: a.Description,
		Price:       a.Price,
		Category:    a.Category,
		Status:      string(a.Status),
		Tags:        datatypes.JSON(tags),
		ImageURLs:   datatypes.JSON(imageURLs),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *AdMapper) ToEntities(ads []*model.Ad) []*entity.Ad {
	entities := make([]*entity.Ad, len(ads))
	for i, a := range ads {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

type FavoriteMapper struct{}

func NewFavoriteMapper() *FavoriteMapper {
	return &FavoriteMapper{}
}

func (m *FavoriteMapper) ToEntity(f *model.Favorite) *entity.Favorite {
	if f == nil {
		return nil
	}
	return &entity.Favorite{
		Id:        f.Id,
		UserId:    f.UserId,
		AdId:      f.AdId,
		CreatedAt: f.CreatedAt,
	}
}

func (m *FavoriteMapper) ToModel(f *entity.Favorite) *model.Favorite {
	if f == nil {
		return nil
	}
	return &model.Favorite{
		Id:        f.Id,
		UserId:    f.UserId,
		AdId:      f.AdId,
		CreatedAt: f.CreatedAt,
	}
}

func (m *FavoriteMapper) ToEntities(favorites []*model.Favorite) []*entity.Favorite {
	entities := make([]*entity.Favorite, len(favorites))
	for i, f := range favorites {
		entities[i] = m.ToEntity(f)
	}
	return entities
}
