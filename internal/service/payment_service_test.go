package service

import (
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"testing"
	"time"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "SB-Mid-server-testkey"

func newPaymentHarness(serverKey string) (IPaymentService, *fakeCreditRepo) {
	credits := newFakeCreditRepo()
	uow := &fakeUow{credits: credits}
	svc := NewPaymentService(&fakeUowFactory{uow: uow}, nil, nopLogger{}, serverKey, false)
	return svc, credits
}

func midtransSignature(orderId, statusCode, grossAmount, serverKey string) string {
	return fmt.Sprintf("%x", sha512.Sum512([]byte(orderId+statusCode+grossAmount+serverKey)))
}

func pendingTransaction() *entity.CreditTransaction {
	return &entity.CreditTransaction{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		PackageId: uuid.New(),
		Credits:   50,
		Amount:    25000,
		Status:    entity.TransactionStatusPending,
		CreatedAt: time.Now(),
	}
}

func TestCreateCheckoutWithoutServerKey(t *testing.T) {
	svc, credits := newPaymentHarness("")

	_, err := svc.CreateCheckout(context.Background(), uuid.New(), &dto.CheckoutRequest{
		PackageId: uuid.New(),
		FirstName: "Budi",
		Email:     "budi@example.com",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPaymentNotConfigured))
	// Misconfiguration must be caught before any database work.
	assert.Zero(t, credits.packageLookups)
	assert.Empty(t, credits.created)
}

func TestCreateCheckoutUnknownPackage(t *testing.T) {
	svc, credits := newPaymentHarness(testServerKey)

	_, err := svc.CreateCheckout(context.Background(), uuid.New(), &dto.CheckoutRequest{
		PackageId: uuid.New(),
		FirstName: "Budi",
		Email:     "budi@example.com",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, credits.created)
}

func TestCreateCheckoutInactivePackage(t *testing.T) {
	svc, credits := newPaymentHarness(testServerKey)
	pkg := &entity.CreditPackage{Id: uuid.New(), Name: "Retired", Slug: "retired", Active: false}
	credits.packages[pkg.Id] = pkg

	_, err := svc.CreateCheckout(context.Background(), uuid.New(), &dto.CheckoutRequest{
		PackageId: pkg.Id,
		FirstName: "Budi",
		Email:     "budi@example.com",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestHandleNotificationRejectsBadSignature(t *testing.T) {
	svc, credits := newPaymentHarness(testServerKey)
	trx := pendingTransaction()
	credits.transactions[trx.Id] = trx

	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		OrderId:           trx.Id.String(),
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "25000.00",
		SignatureKey:      "forged",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSignature))
	assert.Empty(t, credits.updated)
}

func TestHandleNotificationSettlesPendingTransaction(t *testing.T) {
	svc, credits := newPaymentHarness(testServerKey)
	trx := pendingTransaction()
	credits.transactions[trx.Id] = trx

	orderId := trx.Id.String()
	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		OrderId:           orderId,
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "25000.00",
		SignatureKey:      midtransSignature(orderId, "200", "25000.00", testServerKey),
	})

	require.NoError(t, err)
	require.Len(t, credits.updated, 1)
	assert.Equal(t, entity.TransactionStatusSettled, credits.updated[0].Status)
	require.NotNil(t, credits.updated[0].UpdatedAt)
}

func TestHandleNotificationMarksFailureStatuses(t *testing.T) {
	for _, status := range []string{"deny", "cancel", "expire"} {
		t.Run(status, func(t *testing.T) {
			svc, credits := newPaymentHarness(testServerKey)
			trx := pendingTransaction()
			credits.transactions[trx.Id] = trx

			orderId := trx.Id.String()
			err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
				OrderId:           orderId,
				TransactionStatus: status,
				StatusCode:        "202",
				GrossAmount:       "25000.00",
				SignatureKey:      midtransSignature(orderId, "202", "25000.00", testServerKey),
			})

			require.NoError(t, err)
			require.Len(t, credits.updated, 1)
			assert.Equal(t, entity.TransactionStatusFailed, credits.updated[0].Status)
		})
	}
}

func TestHandleNotificationRedeliveryIsIdempotent(t *testing.T) {
	svc, credits := newPaymentHarness(testServerKey)
	trx := pendingTransaction()
	trx.Status = entity.TransactionStatusSettled
	credits.transactions[trx.Id] = trx

	orderId := trx.Id.String()
	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		OrderId:           orderId,
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "25000.00",
		SignatureKey:      midtransSignature(orderId, "200", "25000.00", testServerKey),
	})

	require.NoError(t, err)
	assert.Empty(t, credits.updated)
}

func TestHandleNotificationNeverRevertsFinalizedTransaction(t *testing.T) {
	svc, credits := newPaymentHarness(testServerKey)
	trx := pendingTransaction()
	trx.Status = entity.TransactionStatusSettled
	credits.transactions[trx.Id] = trx

	orderId := trx.Id.String()
	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		OrderId:           orderId,
		TransactionStatus: "expire",
		StatusCode:        "202",
		GrossAmount:       "25000.00",
		SignatureKey:      midtransSignature(orderId, "202", "25000.00", testServerKey),
	})

	require.NoError(t, err)
	assert.Empty(t, credits.updated)
	assert.Equal(t, entity.TransactionStatusSettled, credits.transactions[trx.Id].Status)
}

func TestHandleNotificationIgnoresPendingStatus(t *testing.T) {
	svc, credits := newPaymentHarness(testServerKey)
	trx := pendingTransaction()
	credits.transactions[trx.Id] = trx

	orderId := trx.Id.String()
	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		OrderId:           orderId,
		TransactionStatus: "pending",
		StatusCode:        "201",
		GrossAmount:       "25000.00",
		SignatureKey:      midtransSignature(orderId, "201", "25000.00", testServerKey),
	})

	require.NoError(t, err)
	assert.Empty(t, credits.updated)
}

func TestHandleNotificationUnknownOrderId(t *testing.T) {
	svc, _ := newPaymentHarness(testServerKey)

	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		OrderId:           "not-a-uuid",
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "25000.00",
		SignatureKey:      midtransSignature("not-a-uuid", "200", "25000.00", testServerKey),
	})

	require.Error(t, err)
}

func TestGetPackagesMemoizesCatalog(t *testing.T) {
	svc, credits := newPaymentHarness(testServerKey)
	pkg := &entity.CreditPackage{Id: uuid.New(), Name: "Starter", Slug: "starter", Credits: 50, UnitPrice: 25000, Active: true}
	credits.packages[pkg.Id] = pkg

	first, err := svc.GetPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.GetPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, 1, credits.packageLookups, "second call should hit the in-memory catalog cache")
}
