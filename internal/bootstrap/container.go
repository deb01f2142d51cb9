package bootstrap

import (
	"context"
	"log"
	"time"

	"marketplace-be/internal/config"
	"marketplace-be/internal/controller"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/pkg/mailer"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/internal/service"
	pkgCache "marketplace-be/pkg/cache"
	"marketplace-be/pkg/embedding"
	"marketplace-be/pkg/genai"
	"marketplace-be/pkg/llm/factory"

	pktNats "marketplace-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AdController       controller.IAdController
	AiController       controller.IAiController
	FavoriteController controller.IFavoriteController
	PaymentController  controller.IPaymentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	aiLogger := logger.NewIsolatedLogger("logs/ai.log")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.SMTP.AlertEmail,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	hotCache := pkgCache.NewRedisCache(rdb)

	// 5. Services
	embedPublisher := service.NewPublisherService(cfg.Keys.AdEmbedTopic, pubSub)
	usageTopicPublisher := service.NewPublisherService(cfg.Keys.AiUsageTopic, pubSub)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.AdEmbedTopic,
		cfg.Keys.AiUsageTopic,
		uowFactory,
		embeddingProvider,
	)

	orchestrator := genai.NewOrchestrator(
		llmProvider,
		service.NewAiCacheStore(uowFactory, hotCache, aiLogger),
		service.NewFeatureResultSink(uowFactory),
		service.NewUsagePublisher(usageTopicPublisher, aiLogger),
		aiLogger,
		genai.WithCacheTTL(time.Duration(cfg.Ai.CacheTTLDays)*24*time.Hour),
	)

	generationService := service.NewGenerationService(
		orchestrator,
		uowFactory,
		emailService,
		natsPub,
		sysLogger,
	)

	adService := service.NewAdService(uowFactory, embedPublisher, sysLogger)
	favoriteService := service.NewFavoriteService(uowFactory)
	recommendationService := service.NewRecommendationService(uowFactory, embeddingProvider, sysLogger)
	paymentService := service.NewPaymentService(
		uowFactory,
		natsPub,
		sysLogger,
		cfg.Midtrans.ServerKey,
		cfg.Midtrans.IsProduction,
	)

	// 6. Controllers
	return &Container{
		AdController:       controller.NewAdController(adService, recommendationService),
		AiController:       controller.NewAiController(generationService),
		FavoriteController: controller.NewFavoriteController(favoriteService),
		PaymentController:  controller.NewPaymentController(paymentService),

		ConsumerService: consumerService,
	}
}
