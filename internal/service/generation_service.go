package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/pkg/mailer"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/pkg/events"
	"marketplace-be/pkg/genai"
	pktNats "marketplace-be/pkg/nats"

	"github.com/google/uuid"
)

type IGenerationService interface {
	GenerateDescription(ctx context.Context, userId uuid.UUID, req *dto.GenerateDescriptionRequest) (*dto.AiResponse, error)
	GenerateTitle(ctx context.Context, userId uuid.UUID, req *dto.GenerateTitleRequest) (*dto.AiResponse, error)
	GenerateTags(ctx context.Context, userId uuid.UUID, req *dto.GenerateTagsRequest) (*dto.AiResponse, error)
	CompareProducts(ctx context.Context, userId *uuid.UUID, req *dto.CompareProductsRequest) (*dto.AiResponse, error)
	RecommendPrice(ctx context.Context, userId uuid.UUID, req *dto.RecommendPriceRequest) (*dto.AiResponse, error)
	DetectFraud(ctx context.Context, userId uuid.UUID, req *dto.DetectFraudRequest) (*dto.AiResponse, error)
	AnalyzeImages(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeImagesRequest) (*dto.AiResponse, error)
	SuggestAlternatives(ctx context.Context, userId *uuid.UUID, req *dto.AlternativesRequest) (*dto.AiResponse, error)
}

type generationService struct {
	orchestrator   *genai.Orchestrator
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewGenerationService(
	orchestrator *genai.Orchestrator,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IGenerationService {
	return &generationService{
		orchestrator:   orchestrator,
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *generationService) invoke(ctx context.Context, feature genai.Feature, req *genai.Request) (*dto.AiResponse, error) {
	res, err := s.orchestrator.Invoke(ctx, feature, req)
	if err != nil {
		return nil, err
	}
	return &dto.AiResponse{
		Result:           res.Data,
		GenerationTimeMs: res.GenerationTime.Milliseconds(),
		Cached:           res.Cached,
	}, nil
}

// requireAd returns ErrNotFound when the ad does not exist or is deleted.
func (s *generationService) requireAd(ctx context.Context, adId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ad, err := uow.AdRepository().FindOne(ctx, specification.ByID{ID: adId})
	if err != nil {
		return err
	}
	if ad == nil {
		return fmt.Errorf("%w: ad %s", ErrNotFound, adId)
	}
	return nil
}

func (s *generationService) GenerateDescription(ctx context.Context, userId uuid.UUID, req *dto.GenerateDescriptionRequest) (*dto.AiResponse, error) {
	return s.invoke(ctx, genai.FeatureDescription, &genai.Request{
		UserId: &userId,
		Input:  map[string]interface{}{"product_info": req.ProductInfo},
	})
}

func (s *generationService) GenerateTitle(ctx context.Context, userId uuid.UUID, req *dto.GenerateTitleRequest) (*dto.AiResponse, error) {
	return s.invoke(ctx, genai.FeatureTitle, &genai.Request{
		UserId: &userId,
		Input:  map[string]interface{}{"product_info": req.ProductInfo},
	})
}

func (s *generationService) GenerateTags(ctx context.Context, userId uuid.UUID, req *dto.GenerateTagsRequest) (*dto.AiResponse, error) {
	if err := s.requireAd(ctx, req.AdId); err != nil {
		return nil, err
	}

	res, err := s.invoke(ctx, genai.FeatureTags, &genai.Request{
		UserId: &userId,
		AdId:   &req.AdId,
		Input:  map[string]interface{}{"product_info": req.ProductInfo},
	})
	if err != nil {
		return nil, err
	}

	// Fresh tags also land on the listing itself so search picks them up.
	if !res.Cached {
		s.applyTagsToAd(ctx, req.AdId, res.Result)
	}
	return res, nil
}

func (s *generationService) applyTagsToAd(ctx context.Context, adId uuid.UUID, result json.RawMessage) {
	var parsed struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil || len(parsed.Tags) == 0 {
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	ad, err := uow.AdRepository().FindOne(ctx, specification.ByID{ID: adId})
	if err != nil || ad == nil {
		return
	}
	ad.Tags = parsed.Tags
	if err := uow.AdRepository().Update(ctx, ad); err != nil {
		s.log.Warn("generation", "failed to apply generated tags to ad", map[string]interface{}{
			"ad_id": adId.String(),
			"error": err.Error(),
		})
	}
}

func (s *generationService) CompareProducts(ctx context.Context, userId *uuid.UUID, req *dto.CompareProductsRequest) (*dto.AiResponse, error) {
	products := make([]interface{}, len(req.Products))
	for i, p := range req.Products {
		products[i] = p
	}
	return s.invoke(ctx, genai.FeatureComparison, &genai.Request{
		UserId: userId,
		Input:  map[string]interface{}{"products": products},
	})
}

func (s *generationService) RecommendPrice(ctx context.Context, userId uuid.UUID, req *dto.RecommendPriceRequest) (*dto.AiResponse, error) {
	return s.invoke(ctx, genai.FeaturePriceRecommendation, &genai.Request{
		UserId:   &userId,
		Category: req.Category,
		Input:    map[string]interface{}{"product_info": req.ProductInfo},
	})
}

func (s *generationService) DetectFraud(ctx context.Context, userId uuid.UUID, req *dto.DetectFraudRequest) (*dto.AiResponse, error) {
	if err := s.requireAd(ctx, req.AdId); err != nil {
		return nil, err
	}

	res, err := s.invoke(ctx, genai.FeatureFraudCheck, &genai.Request{
		UserId: &userId,
		AdId:   &req.AdId,
		Input:  map[string]interface{}{"ad_data": req.AdData},
	})
	if err != nil {
		return nil, err
	}

	if !res.Cached {
		s.raiseFraudAlerts(ctx, req.AdId, res.Result)
	}
	return res, nil
}

// raiseFraudAlerts fans out notifications for critical verdicts. Both the
// alert mail and the bus event are best-effort; the API response does not
// wait on either outcome.
func (s *generationService) raiseFraudAlerts(ctx context.Context, adId uuid.UUID, result json.RawMessage) {
	var verdict struct {
		RiskScore float64  `json:"risk_score"`
		RiskLevel string   `json:"risk_level"`
		Reasons   []string `json:"reasons"`
	}
	if err := json.Unmarshal(result, &verdict); err != nil {
		return
	}

	level := strings.ToLower(verdict.RiskLevel)
	if !FraudRiskLevelsRequiringReview[level] {
		return
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "AD_FLAGGED",
			Data: map[string]interface{}{
				"ad_id":      adId,
				"risk_level": level,
				"risk_score": verdict.RiskScore,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("generation", "failed to publish AD_FLAGGED event", map[string]interface{}{
				"ad_id": adId.String(),
				"error": err.Error(),
			})
		}
	}

	if level == "critical" && s.emailService != nil {
		go func() {
			if err := s.emailService.SendFraudAlert(adId.String(), level, verdict.RiskScore, verdict.Reasons); err != nil {
				s.log.Warn("generation", "failed to send fraud alert mail", map[string]interface{}{
					"ad_id": adId.String(),
					"error": err.Error(),
				})
			}
		}()
	}
}

func (s *generationService) AnalyzeImages(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeImagesRequest) (*dto.AiResponse, error) {
	images := make([]interface{}, len(req.Images))
	for i, img := range req.Images {
		images[i] = img
	}
	return s.invoke(ctx, genai.FeatureImageAnalysis, &genai.Request{
		UserId: &userId,
		Input:  map[string]interface{}{"images": images},
	})
}

func (s *generationService) SuggestAlternatives(ctx context.Context, userId *uuid.UUID, req *dto.AlternativesRequest) (*dto.AiResponse, error) {
	return s.invoke(ctx, genai.FeatureAlternatives, &genai.Request{
		UserId: userId,
		Input:  map[string]interface{}{"product_info": req.ProductInfo},
	})
}
