package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/application/usecases/transaction"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

type stubProviderBalanceRepo struct {
	findFunc func(ctx context.Context, provider entities.Provider) (*entities.PaymentProviderBalance, error)
}

func (s *stubProviderBalanceRepo) FindByProviderForUpdate(ctx context.Context, provider entities.Provider) (*entities.PaymentProviderBalance, error) {
	if s.findFunc != nil {
		return s.findFunc(ctx, provider)
	}
	return nil, domainerrors.ErrEntityNotFound
}
func (s *stubProviderBalanceRepo) Create(ctx context.Context, balance *entities.PaymentProviderBalance) error {
	return nil
}
func (s *stubProviderBalanceRepo) Update(ctx context.Context, balance *entities.PaymentProviderBalance) error {
	return nil
}

type stubCurrencyRateRepo struct{}

func (s *stubCurrencyRateRepo) FindByCode(ctx context.Context, code string) (*entities.CurrencyRate, error) {
	return nil, domainerrors.ErrEntityNotFound
}
func (s *stubCurrencyRateRepo) Upsert(ctx context.Context, rate *entities.CurrencyRate) error { return nil }
func (s *stubCurrencyRateRepo) List(ctx context.Context) ([]*entities.CurrencyRate, error)     { return nil, nil }

func pendingDepositForWebhook(t *testing.T) *entities.Transaction {
	t.Helper()
	amount, err := valueobjects.NewMoney("20.00", valueobjects.USD)
	require.NoError(t, err)
	tx, err := entities.NewDepositOrWithdraw(entities.OperationDeposit, 1, 9, valueobjects.USD, amount, entities.ProviderStripe, "wh-1")
	require.NoError(t, err)
	tx.AssignID(500)
	return tx
}

func TestWebhookHandler_StripePayment_InvalidSignatureRejected(t *testing.T) {
	provider := &stubTxProvider{
		verifySignatureFunc: func(payload []byte, signature string, isPayout bool) error {
			return domainerrors.ErrProvider
		},
	}
	handlePayment := transaction.NewHandleStripePaymentUseCase(&stubTransactionRepo{}, &stubProviderBalanceRepo{}, &stubCurrencyRateRepo{}, &mockTxCache{}, &stubBusProducer{}, &stubTxUnitOfWork{}, "wallet.transaction.request", 4)
	handlePayout := transaction.NewHandleStripePayoutUseCase(&stubTransactionRepo{}, &stubProviderBalanceRepo{}, &stubCurrencyRateRepo{}, &mockTxCache{}, &stubBusProducer{}, &stubTxUnitOfWork{}, "wallet.transaction.request", 4)

	h := NewWebhookHandler(provider, handlePayment, handlePayout)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router.Group("/"))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe/payment", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "bogus")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookHandler_StripePayment_CreditsBalanceOnSuccess(t *testing.T) {
	tx := pendingDepositForWebhook(t)
	var updatedStatus entities.TransactionStatus
	var externalID string

	txRepo := &stubTransactionRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*entities.Transaction, error) {
			require.Equal(t, int64(500), id)
			return tx, nil
		},
		updateStatusFunc: func(ctx context.Context, id int64, status entities.TransactionStatus) error {
			updatedStatus = status
			return nil
		},
		setExternalIDFunc: func(ctx context.Context, id int64, extID string) error {
			externalID = extID
			return nil
		},
	}

	balanceRepo := &stubProviderBalanceRepo{
		findFunc: func(ctx context.Context, provider entities.Provider) (*entities.PaymentProviderBalance, error) {
			return nil, domainerrors.ErrEntityNotFound
		},
	}

	event := ports.WebhookEvent{
		IdempotencyKey:    "wh-1",
		ExternalPaymentID: "pi_123",
		Amount:            mustMoney(t, "20.00"),
		Currency:          valueobjects.USD,
		Status:            "succeeded",
		TransactionID:     500,
		WalletID:          9,
	}
	provider := &stubTxProvider{
		normalizeWebhookFunc: func(payload []byte) (ports.WebhookEvent, error) { return event, nil },
	}

	handlePayment := transaction.NewHandleStripePaymentUseCase(txRepo, balanceRepo, &stubCurrencyRateRepo{}, &mockTxCache{}, &stubBusProducer{}, &stubTxUnitOfWork{}, "wallet.transaction.request", 4)
	handlePayout := transaction.NewHandleStripePayoutUseCase(txRepo, balanceRepo, &stubCurrencyRateRepo{}, &mockTxCache{}, &stubBusProducer{}, &stubTxUnitOfWork{}, "wallet.transaction.request", 4)

	h := NewWebhookHandler(provider, handlePayment, handlePayout)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router.Group("/"))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe/payment", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "valid")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data dtos.WebhookResultDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Success)
	assert.Equal(t, entities.TransactionStatusProcessed, updatedStatus)
	assert.Equal(t, "pi_123", externalID)
}

func mustMoney(t *testing.T, amount string) valueobjects.Money {
	t.Helper()
	m, err := valueobjects.NewMoney(amount, valueobjects.USD)
	require.NoError(t, err)
	return m
}
