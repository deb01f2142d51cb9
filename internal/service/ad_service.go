package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAdService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateAdRequest) (*dto.CreateAdResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowAdResponse, error)
	List(ctx context.Context, category string, limit, offset int) ([]*dto.ShowAdResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateAdRequest) (*dto.UpdateAdResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type adService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	log              logger.ILogger
}

func NewAdService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IAdService {
	return &adService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		log:              log,
	}
}

func adToResponse(ad *entity.Ad) *dto.ShowAdResponse {
	return &dto.ShowAdResponse{
		Id:          ad.Id,
		UserId:      ad.UserId,
		Title:       ad.Title,
		Description: ad.Description,
		Price:       ad.Price,
		Category:    ad.Category,
		Status:      string(ad.Status),
		Tags:        ad.Tags,
		ImageURLs:   ad.ImageURLs,
		CreatedAt:   ad.CreatedAt,
		UpdatedAt:   ad.UpdatedAt,
	}
}

func (s *adService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateAdRequest) (*dto.CreateAdResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ad := entity.Ad{
		Id:          uuid.New(),
		UserId:      userId,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Status:      entity.AdStatusActive,
		ImageURLs:   req.ImageURLs,
		CreatedAt:   time.Now(),
	}

	if err := uow.AdRepository().Create(ctx, &ad); err != nil {
		return nil, err
	}

	s.publishEmbed(ctx, ad.Id)

	return &dto.CreateAdResponse{Id: ad.Id}, nil
}

func (s *adService) publishEmbed(ctx context.Context, adId uuid.UUID) {
	payload, err := json.Marshal(dto.PublishEmbedAdMessage{AdId: adId})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("ad", "failed to queue ad for embedding", map[string]interface{}{
			"ad_id": adId.String(),
			"error": err.Error(),
		})
	}
}

func (s *adService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowAdResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ad, err := uow.AdRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if ad == nil {
		return nil, fmt.Errorf("%w: ad %s", ErrNotFound, id)
	}
	return adToResponse(ad), nil
}

func (s *adService) List(ctx context.Context, category string, limit, offset int) ([]*dto.ShowAdResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	specs := []specification.Specification{
		specification.StatusIs{Status: string(entity.AdStatusActive)},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	if category != "" {
		specs = append([]specification.Specification{specification.CategoryIs{Category: category}}, specs...)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	ads, err := uow.AdRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowAdResponse, len(ads))
	for i, ad := range ads {
		res[i] = adToResponse(ad)
	}
	return res, nil
}

func (s *adService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateAdRequest) (*dto.UpdateAdResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ad, err := uow.AdRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if ad == nil {
		return nil, fmt.Errorf("%w: ad %s", ErrNotFound, req.Id)
	}

	ad.Title = req.Title
	ad.Description = req.Description
	ad.Price = req.Price
	ad.Category = req.Category
	ad.ImageURLs = req.ImageURLs
	if req.Status != "" {
		ad.Status = entity.AdStatus(req.Status)
	}
	now := time.Now()
	ad.UpdatedAt = &now

	if err := uow.AdRepository().Update(ctx, ad); err != nil {
		return nil, err
	}

	// Content changed, so the vector and any cached recommendations are stale.
	s.publishEmbed(ctx, ad.Id)
	if err := uow.RecommendationRepository().DeleteByAdId(ctx, ad.Id); err != nil {
		s.log.Warn("ad", "failed to invalidate recommendations", map[string]interface{}{
			"ad_id": ad.Id.String(),
			"error": err.Error(),
		})
	}

	return &dto.UpdateAdResponse{Id: ad.Id}, nil
}

func (s *adService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ad, err := uow.AdRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if ad == nil {
		return fmt.Errorf("%w: ad %s", ErrNotFound, id)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.AdRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.AdEmbeddingRepository().DeleteByAdId(ctx, id); err != nil {
		return err
	}
	if err := uow.RecommendationRepository().DeleteByAdId(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}
