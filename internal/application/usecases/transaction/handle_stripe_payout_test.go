package transaction

import (
	"context"
	"testing"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/domain/entities"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

func TestHandleStripePayoutUseCase_Execute_DebitsBalance(t *testing.T) {
	tx, err := entities.NewDepositOrWithdraw(entities.OperationWithdraw, 6, 60, mustUSD(t), mustAmount(t, "25.00"), entities.ProviderStripe, "webhook-payout-1")
	if err != nil {
		t.Fatal(err)
	}
	tx.AssignID(600)

	balance := entities.NewPaymentProviderBalance(entities.ProviderStripe, valueobjects.USD)
	balance.ApplyDelta(mustAmount(t, "100.00").Rat())

	txRepo := &mockTransactionRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*entities.Transaction, error) { return tx, nil },
	}
	balanceRepo := &mockProviderBalanceRepo{
		findByProviderForUpdateFunc: func(ctx context.Context, provider entities.Provider) (*entities.PaymentProviderBalance, error) {
			return balance, nil
		},
	}
	producer := &mockBusProducer{}

	uc := NewHandleStripePayoutUseCase(txRepo, balanceRepo, &mockCurrencyRateRepo{}, &mockIdempotencyCache{}, producer, &mockUnitOfWork{}, "wallet.transaction.request", 4)

	result, err := uc.Execute(context.Background(), dtos.WebhookCommand{
		IdempotencyKey: "webhook-payout-1", ExternalPaymentID: "po_1", Amount: "25.00", Currency: "USD",
		TransactionID: 600, WalletID: 60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success result")
	}
	if balance.AvailableDecimal() != "75.00" {
		t.Fatalf("expected provider balance to be debited to 75.00, got %s", balance.AvailableDecimal())
	}
	if len(producer.published) != 1 {
		t.Fatalf("expected one work item published, got %d", len(producer.published))
	}
}
