package transaction

import (
	"context"
	"testing"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

func TestTransferUseCase_Execute_Success(t *testing.T) {
	fromWallet, _ := entities.NewWallet(1)
	fromWallet.AssignID(10)
	toWallet, _ := entities.NewWallet(2)
	toWallet.AssignID(20)

	walletRepo := &mockWalletRepo{
		findByUserIDFunc: func(ctx context.Context, userID int64) (*entities.Wallet, error) {
			if userID == 1 {
				return fromWallet, nil
			}
			return toWallet, nil
		},
	}
	txRepo := &mockTransactionRepo{}
	producer := &mockBusProducer{}
	cache := &mockIdempotencyCache{}

	uc := NewTransferUseCase(walletRepo, txRepo, cache, producer, &mockUnitOfWork{}, "wallet.transaction.request", 4)

	result, err := uc.Execute(context.Background(), dtos.TransferCommand{
		FromUserID: 1, ToUserID: 2, Amount: "10.00", Currency: "USD", IdempotencyKey: "k1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != string(entities.TransactionStatusProcessed) {
		t.Fatalf("expected processed status, got %s", result.Status)
	}
	if len(producer.published) != 1 {
		t.Fatalf("expected one published work item, got %d", len(producer.published))
	}
}

func TestTransferUseCase_Execute_DuplicateIdempotencyKey(t *testing.T) {
	amount, err := valueobjects.NewMoney("5.00", valueobjects.USD)
	if err != nil {
		t.Fatal(err)
	}
	existing, err := entities.NewTransferTransaction(1, 10, 20, valueobjects.USD, amount, "dup-key")
	if err != nil {
		t.Fatal(err)
	}

	walletRepo := &mockWalletRepo{}
	txRepo := &mockTransactionRepo{
		findByIdempotencyKeyFunc: func(ctx context.Context, key string) (*entities.Transaction, error) {
			return existing, nil
		},
	}
	cache := &mockIdempotencyCache{
		existsFunc: func(ctx context.Context, key string) (bool, error) { return true, nil },
	}
	producer := &mockBusProducer{}

	uc := NewTransferUseCase(walletRepo, txRepo, cache, producer, &mockUnitOfWork{}, "wallet.transaction.request", 4)

	result, err := uc.Execute(context.Background(), dtos.TransferCommand{
		FromUserID: 1, ToUserID: 2, Amount: "5.00", Currency: "USD", IdempotencyKey: "dup-key",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CorrelationID != existing.CorrelationID().String() {
		t.Fatalf("expected cached transaction's correlation id to be replayed")
	}
	if len(producer.published) != 0 {
		t.Fatalf("expected no new work item published for a duplicate request")
	}
}

func TestTransferUseCase_Execute_RecipientWalletNotFound(t *testing.T) {
	fromWallet, _ := entities.NewWallet(1)
	fromWallet.AssignID(10)

	walletRepo := &mockWalletRepo{
		findByUserIDFunc: func(ctx context.Context, userID int64) (*entities.Wallet, error) {
			if userID == 1 {
				return fromWallet, nil
			}
			return nil, domainerrors.ErrEntityNotFound
		},
	}
	uc := NewTransferUseCase(walletRepo, &mockTransactionRepo{}, &mockIdempotencyCache{}, &mockBusProducer{}, &mockUnitOfWork{}, "wallet.transaction.request", 4)

	_, err := uc.Execute(context.Background(), dtos.TransferCommand{
		FromUserID: 1, ToUserID: 2, Amount: "5.00", Currency: "USD", IdempotencyKey: "k2",
	})
	if !domainerrors.IsNotFound(err) {
		t.Fatalf("expected a not-found error for the missing recipient wallet, got %v", err)
	}
}
