package transaction

import (
	"context"
	"testing"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

func withdrawFixture(t *testing.T) (*mockWalletRepo, *mockWalletAccountRepo, *mockProviderLinkedAccountRepo, *mockProviderBalanceRepo) {
	t.Helper()
	w, _ := entities.NewWallet(4)
	w.AssignID(40)

	account, err := entities.NewWalletAccount(40, mustUSD(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := account.Credit(mustAmount(t, "100.00")); err != nil {
		t.Fatal(err)
	}

	linked := entities.NewProviderLinkedAccount(4, entities.ProviderStripe, "acct_123")
	linked.MarkOnboarded()

	balance := entities.NewPaymentProviderBalance(entities.ProviderStripe, valueobjects.USD)
	balance.ApplyDelta(mustAmount(t, "500.00").Rat())

	walletRepo := &mockWalletRepo{
		findByUserIDFunc: func(ctx context.Context, userID int64) (*entities.Wallet, error) { return w, nil },
	}
	accountRepo := &mockWalletAccountRepo{
		findByWalletAndCurrencyForUpdateFunc: func(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error) {
			return account, nil
		},
	}
	linkedRepo := &mockProviderLinkedAccountRepo{
		findByUserIDFunc: func(ctx context.Context, userID int64, provider entities.Provider) (*entities.ProviderLinkedAccount, error) {
			return linked, nil
		},
	}
	balanceRepo := &mockProviderBalanceRepo{
		findByProviderForUpdateFunc: func(ctx context.Context, provider entities.Provider) (*entities.PaymentProviderBalance, error) {
			return balance, nil
		},
	}
	return walletRepo, accountRepo, linkedRepo, balanceRepo
}

func TestCreateWithdrawTransactionUseCase_Execute_Success(t *testing.T) {
	walletRepo, accountRepo, linkedRepo, balanceRepo := withdrawFixture(t)
	provider := &mockProvider{
		payoutFunc: func(ctx context.Context, in ports.PayoutInput) (ports.PayoutResult, error) {
			return ports.PayoutResult{ExternalID: "po_123"}, nil
		},
	}

	uc := NewCreateWithdrawTransactionUseCase(
		walletRepo, accountRepo, &mockTransactionRepo{}, balanceRepo, linkedRepo,
		&mockCurrencyRateRepo{}, &mockIdempotencyCache{}, provider, &mockUnitOfWork{},
	)

	result, err := uc.Execute(context.Background(), dtos.CreateWithdrawTransactionCommand{
		UserID: 4, Amount: "30.00", Currency: "USD", Gateway: "stripe", IdempotencyKey: "wd-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CorrelationID == "" {
		t.Fatalf("expected a correlation id")
	}
}

func TestCreateWithdrawTransactionUseCase_Execute_InsufficientFunds(t *testing.T) {
	walletRepo, accountRepo, linkedRepo, balanceRepo := withdrawFixture(t)

	uc := NewCreateWithdrawTransactionUseCase(
		walletRepo, accountRepo, &mockTransactionRepo{}, balanceRepo, linkedRepo,
		&mockCurrencyRateRepo{}, &mockIdempotencyCache{}, &mockProvider{}, &mockUnitOfWork{},
	)

	_, err := uc.Execute(context.Background(), dtos.CreateWithdrawTransactionCommand{
		UserID: 4, Amount: "9999.00", Currency: "USD", Gateway: "stripe", IdempotencyKey: "wd-2",
	})
	if domainerrors.Classify(err) != domainerrors.KindInsufficientFunds {
		t.Fatalf("expected an insufficient-funds classification, got %v", err)
	}
}

func TestCreateWithdrawTransactionUseCase_Execute_ProviderAccountNotReady(t *testing.T) {
	w, _ := entities.NewWallet(4)
	w.AssignID(40)
	account, _ := entities.NewWalletAccount(40, mustUSD(t))
	_ = account.Credit(mustAmount(t, "100.00"))

	notReady := entities.NewProviderLinkedAccount(4, entities.ProviderStripe, "acct_456")

	walletRepo := &mockWalletRepo{
		findByUserIDFunc: func(ctx context.Context, userID int64) (*entities.Wallet, error) { return w, nil },
	}
	accountRepo := &mockWalletAccountRepo{
		findByWalletAndCurrencyForUpdateFunc: func(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error) {
			return account, nil
		},
	}
	linkedRepo := &mockProviderLinkedAccountRepo{
		findByUserIDFunc: func(ctx context.Context, userID int64, provider entities.Provider) (*entities.ProviderLinkedAccount, error) {
			return notReady, nil
		},
	}

	uc := NewCreateWithdrawTransactionUseCase(
		walletRepo, accountRepo, &mockTransactionRepo{}, &mockProviderBalanceRepo{}, linkedRepo,
		&mockCurrencyRateRepo{}, &mockIdempotencyCache{}, &mockProvider{}, &mockUnitOfWork{},
	)

	_, err := uc.Execute(context.Background(), dtos.CreateWithdrawTransactionCommand{
		UserID: 4, Amount: "10.00", Currency: "USD", Gateway: "stripe", IdempotencyKey: "wd-3",
	})
	if domainerrors.Classify(err) != domainerrors.KindNoProviderAccount {
		t.Fatalf("expected a no-provider-account classification, got %v", err)
	}
}
