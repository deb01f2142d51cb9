package service

import (
	"context"
	"fmt"
	"time"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IFavoriteService interface {
	Add(ctx context.Context, userId uuid.UUID, req *dto.FavoriteRequest) (*dto.FavoriteResponse, error)
	Remove(ctx context.Context, userId uuid.UUID, adId uuid.UUID) error
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowAdResponse, error)
}

type favoriteService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewFavoriteService(uowFactory unitofwork.RepositoryFactory) IFavoriteService {
	return &favoriteService{uowFactory: uowFactory}
}

func (s *favoriteService) Add(ctx context.Context, userId uuid.UUID, req *dto.FavoriteRequest) (*dto.FavoriteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ad, err := uow.AdRepository().FindOne(ctx, specification.ByID{ID: req.AdId})
	if err != nil {
		return nil, err
	}
	if ad == nil {
		return nil, fmt.Errorf("%w: ad %s", ErrNotFound, req.AdId)
	}

	existing, err := uow.FavoriteRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Filter("ad_id", req.AdId),
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.FavoriteResponse{Id: existing.Id, AdId: existing.AdId}, nil
	}

	fav := entity.Favorite{
		Id:        uuid.New(),
		UserId:    userId,
		AdId:      req.AdId,
		CreatedAt: time.Now(),
	}
	if err := uow.FavoriteRepository().Create(ctx, &fav); err != nil {
		return nil, err
	}

	return &dto.FavoriteResponse{Id: fav.Id, AdId: fav.AdId}, nil
}

func (s *favoriteService) Remove(ctx context.Context, userId uuid.UUID, adId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.FavoriteRepository().DeleteByUserAndAd(ctx, userId, adId)
}

func (s *favoriteService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowAdResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	favorites, err := uow.FavoriteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if len(favorites) == 0 {
		return []*dto.ShowAdResponse{}, nil
	}

	ids := make([]uuid.UUID, len(favorites))
	for i, f := range favorites {
		ids[i] = f.AdId
	}

	ads, err := uow.AdRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowAdResponse, len(ads))
	for i, ad := range ads {
		res[i] = adToResponse(ad)
	}
	return res, nil
}
