package transaction

import (
	"context"
	"testing"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/domain/entities"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

func pendingDepositFixture(t *testing.T) *entities.Transaction {
	t.Helper()
	tx, err := entities.NewDepositOrWithdraw(entities.OperationDeposit, 5, 50, mustUSD(t), mustAmount(t, "40.00"), entities.ProviderStripe, "webhook-1")
	if err != nil {
		t.Fatal(err)
	}
	tx.AssignID(500)
	return tx
}

func TestHandleStripePaymentUseCase_Execute_CreditsBalanceAndPublishes(t *testing.T) {
	tx := pendingDepositFixture(t)
	balance := entities.NewPaymentProviderBalance(entities.ProviderStripe, valueobjects.USD)

	txRepo := &mockTransactionRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*entities.Transaction, error) { return tx, nil },
	}
	balanceRepo := &mockProviderBalanceRepo{
		findByProviderForUpdateFunc: func(ctx context.Context, provider entities.Provider) (*entities.PaymentProviderBalance, error) {
			return balance, nil
		},
	}
	producer := &mockBusProducer{}

	uc := NewHandleStripePaymentUseCase(txRepo, balanceRepo, &mockCurrencyRateRepo{}, &mockIdempotencyCache{}, producer, &mockUnitOfWork{}, "wallet.transaction.request", 4)

	result, err := uc.Execute(context.Background(), dtos.WebhookCommand{
		IdempotencyKey: "webhook-1", ExternalPaymentID: "pi_1", Amount: "40.00", Currency: "USD",
		TransactionID: 500, WalletID: 50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success result")
	}
	if tx.Status() != entities.TransactionStatusProcessed {
		t.Fatalf("expected transaction to be marked processed, got %s", tx.Status())
	}
	if tx.ExternalID() != "pi_1" {
		t.Fatalf("expected external id to be recorded")
	}
	if balance.AvailableDecimal() != "40.00" {
		t.Fatalf("expected provider balance to be credited, got %s", balance.AvailableDecimal())
	}
	if len(producer.published) != 1 {
		t.Fatalf("expected one work item published, got %d", len(producer.published))
	}
}

func TestHandleStripePaymentUseCase_Execute_RedeliveryIsNoOp(t *testing.T) {
	tx := pendingDepositFixture(t)
	_ = tx.MarkProcessed()
	_ = tx.MarkCompleted()

	txRepo := &mockTransactionRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*entities.Transaction, error) { return tx, nil },
	}
	producer := &mockBusProducer{}

	uc := NewHandleStripePaymentUseCase(txRepo, &mockProviderBalanceRepo{}, &mockCurrencyRateRepo{}, &mockIdempotencyCache{}, producer, &mockUnitOfWork{}, "wallet.transaction.request", 4)

	result, err := uc.Execute(context.Background(), dtos.WebhookCommand{
		IdempotencyKey: "webhook-1", ExternalPaymentID: "pi_1", Amount: "40.00", Currency: "USD",
		TransactionID: 500, WalletID: 50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected a no-op success result for a redelivered webhook")
	}
	if len(producer.published) != 0 {
		t.Fatalf("expected no work item republished for an already-processed transaction")
	}
}

func TestHandleStripePaymentUseCase_Execute_CachedKeyShortCircuits(t *testing.T) {
	cache := &mockIdempotencyCache{existsFunc: func(ctx context.Context, key string) (bool, error) { return true, nil }}
	txRepo := &mockTransactionRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*entities.Transaction, error) {
			t.Fatalf("FindByID should not be called once the idempotency cache already has the key")
			return nil, nil
		},
	}

	uc := NewHandleStripePaymentUseCase(txRepo, &mockProviderBalanceRepo{}, &mockCurrencyRateRepo{}, cache, &mockBusProducer{}, &mockUnitOfWork{}, "wallet.transaction.request", 4)

	result, err := uc.Execute(context.Background(), dtos.WebhookCommand{
		IdempotencyKey: "webhook-1", ExternalPaymentID: "pi_1", Amount: "40.00", Currency: "USD",
		TransactionID: 500, WalletID: 50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected a success result")
	}
}
