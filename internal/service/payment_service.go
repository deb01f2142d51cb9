package service

import (
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"time"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/pkg/events"
	pktNats "marketplace-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	gocache "github.com/patrickmn/go-cache"
)

var (
	ErrPaymentNotConfigured = errors.New("payment provider not configured")
	ErrInvalidSignature     = errors.New("invalid signature")
)

const packageCacheKey = "credit_packages"

type IPaymentService interface {
	GetPackages(ctx context.Context) ([]*dto.PackageResponse, error)
	CreateCheckout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
	serverKey      string
	isProduction   bool
	catalogCache   *gocache.Cache
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	serverKey string,
	isProduction bool,
) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
		serverKey:      serverKey,
		isProduction:   isProduction,
		catalogCache:   gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *paymentService) GetPackages(ctx context.Context) ([]*dto.PackageResponse, error) {
	if cached, found := s.catalogCache.Get(packageCacheKey); found {
		return cached.([]*dto.PackageResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	packages, err := uow.CreditRepository().FindActivePackages(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PackageResponse, len(packages))
	for i, p := range packages {
		res[i] = &dto.PackageResponse{
			Id:           p.Id,
			Name:         p.Name,
			Slug:         p.Slug,
			Credits:      p.Credits,
			BonusCredits: p.BonusCredits,
			UnitPrice:    p.UnitPrice,
		}
	}

	s.catalogCache.Set(packageCacheKey, res, gocache.DefaultExpiration)
	return res, nil
}

func (s *paymentService) CreateCheckout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	// Fail on misconfiguration before touching the database or the
	// payment provider.
	if s.serverKey == "" {
		return nil, ErrPaymentNotConfigured
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	pkg, err := uow.CreditRepository().FindPackageById(ctx, req.PackageId)
	if err != nil {
		return nil, err
	}
	if pkg == nil || !pkg.Active {
		return nil, fmt.Errorf("%w: package %s", ErrNotFound, req.PackageId)
	}

	trx := &entity.CreditTransaction{
		Id:           uuid.New(),
		UserId:       userId,
		PackageId:    pkg.Id,
		Credits:      pkg.Credits,
		BonusCredits: pkg.BonusCredits,
		Amount:       pkg.UnitPrice,
		Status:       entity.TransactionStatusPending,
		CreatedAt:    time.Now(),
	}
	if err := uow.CreditRepository().CreateTransaction(ctx, trx); err != nil {
		return nil, err
	}

	var sClient snap.Client
	env := midtrans.Sandbox
	if s.isProduction {
		env = midtrans.Production
	}
	sClient.New(s.serverKey, env)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  trx.Id.String(),
			GrossAmt: int64(pkg.UnitPrice),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.FirstName,
			LName: req.LastName,
			Email: req.Email,
			Phone: req.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    pkg.Id.String(),
				Price: int64(pkg.UnitPrice),
				Qty:   1,
				Name:  pkg.Name,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return &dto.CheckoutResponse{
		TransactionId:   trx.Id,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	s.log.Info("payment", "processing payment notification", map[string]interface{}{
		"order_id": req.OrderId,
		"status":   req.TransactionStatus,
	})

	if s.serverKey == "" {
		s.log.Error("payment", "server key not configured", nil)
		return ErrPaymentNotConfigured
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + s.serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))

	if req.SignatureKey != expectedSignature {
		s.log.Error("payment", "signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return ErrInvalidSignature
	}

	trxId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return fmt.Errorf("invalid order id format")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	trx, err := uow.CreditRepository().FindTransactionById(ctx, trxId)
	if err != nil {
		return err
	}
	if trx == nil {
		return fmt.Errorf("%w: transaction %s", ErrNotFound, trxId)
	}

	var newStatus entity.TransactionStatus
	switch req.TransactionStatus {
	case "capture", "settlement":
		newStatus = entity.TransactionStatusSettled
	case "deny", "cancel", "expire":
		newStatus = entity.TransactionStatusFailed
	case "pending":
		return nil
	default:
		s.log.Warn("payment", "unknown transaction status, no action taken", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		return nil
	}

	// Notifications are redelivered; only the first transition counts.
	if trx.Status == newStatus {
		return nil
	}
	if trx.Status != entity.TransactionStatusPending {
		s.log.Warn("payment", "ignoring transition for finalized transaction", map[string]interface{}{
			"order_id": req.OrderId,
			"current":  string(trx.Status),
			"incoming": string(newStatus),
		})
		return nil
	}

	trx.Status = newStatus
	now := time.Now()
	trx.UpdatedAt = &now

	if err := uow.CreditRepository().UpdateTransaction(ctx, trx); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if newStatus == entity.TransactionStatusSettled && s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "CREDITS_PURCHASED",
			Data: map[string]interface{}{
				"transaction_id": trx.Id,
				"user_id":        trx.UserId,
				"credits":        trx.Credits + trx.BonusCredits,
				"amount":         trx.Amount,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("payment", "failed to publish CREDITS_PURCHASED event", map[string]interface{}{
				"transaction_id": trx.Id.String(),
				"error":          err.Error(),
			})
		}
	}

	return nil
}
