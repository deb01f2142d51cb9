package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	embedTopicName    string
	usageTopicName    string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	embedTopicName string,
	usageTopicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		embedTopicName:    embedTopicName,
		usageTopicName:    usageTopicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	embedMessages, err := cs.pubSub.Subscribe(ctx, cs.embedTopicName)
	if err != nil {
		return err
	}
	usageMessages, err := cs.pubSub.Subscribe(ctx, cs.usageTopicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range embedMessages {
			cs.processEmbedMessage(ctx, msg)
		}
	}()
	go func() {
		for msg := range usageMessages {
			cs.processUsageMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processEmbedMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedAdMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing ad embedding for AdId: %s", payload.AdId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	ad, err := uow.AdRepository().FindOne(ctx, specification.ByID{ID: payload.AdId})
	if err != nil {
		log.Printf("[ERROR] Failed to get ad %s: %v", payload.AdId, err)
		msg.Nack()
		return
	}
	if ad == nil {
		log.Printf("[WARN] Ad not found, skipping embed: %s", payload.AdId)
		msg.Ack() // Ad deleted in the meantime? Ack.
		return
	}

	doc := BuildAdDocument(ad)
	res, err := cs.embeddingProvider.Generate(doc, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for ad %s: %v", payload.AdId, err)
		msg.Nack()
		return
	}

	emb := &entity.AdEmbedding{
		Id:             uuid.New(),
		AdId:           ad.Id,
		Document:       doc,
		EmbeddingValue: res.Embedding.Values,
		CreatedAt:      time.Now(),
	}
	if err := uow.AdEmbeddingRepository().Upsert(ctx, emb); err != nil {
		log.Printf("[ERROR] Failed to store embedding for ad %s: %v", payload.AdId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Ad embedded: %s", payload.AdId)
	msg.Ack()
}

func (cs *consumerService) processUsageMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishUsageLogMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal usage message: %v", err)
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	entry := &entity.AiUsageLog{
		Id:        uuid.New(),
		UserId:    payload.UserId,
		Feature:   payload.Feature,
		LatencyMs: payload.LatencyMs,
		Success:   payload.Success,
		Metadata:  payload.Metadata,
		CreatedAt: time.Now(),
	}
	if err := uow.UsageLogRepository().Create(ctx, entry); err != nil {
		// Usage telemetry is best-effort end to end; drop rather than loop.
		log.Printf("[ERROR] Failed to persist usage log: %v", err)
		msg.Ack()
		return
	}

	msg.Ack()
}
