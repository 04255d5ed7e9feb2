package wallet

import (
	"context"
	"testing"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

func TestGetBalanceUseCase_Execute_AllAccounts(t *testing.T) {
	w, _ := entities.NewWallet(11)
	w.AssignID(110)

	usdAccount, _ := entities.NewWalletAccount(110, valueobjects.USD)
	amount, _ := valueobjects.NewMoney("12.50", valueobjects.USD)
	_ = usdAccount.Credit(amount)

	walletRepo := &mockWalletRepo{
		findByUserIDFunc: func(ctx context.Context, userID int64) (*entities.Wallet, error) { return w, nil },
	}
	accountRepo := &mockWalletAccountRepo{
		findByWalletFunc: func(ctx context.Context, walletID int64) ([]*entities.WalletAccount, error) {
			return []*entities.WalletAccount{usdAccount}, nil
		},
	}

	uc := NewGetBalanceUseCase(walletRepo, accountRepo)

	result, err := uc.Execute(context.Background(), dtos.GetBalanceQuery{UserID: 11})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Balances) != 1 || result.Balances[0].Amount != "12.50" {
		t.Fatalf("unexpected balances: %+v", result.Balances)
	}
}

func TestGetBalanceUseCase_Execute_SingleCurrencyFilter(t *testing.T) {
	w, _ := entities.NewWallet(11)
	w.AssignID(110)

	eurAccount, _ := entities.NewWalletAccount(110, valueobjects.EUR)

	walletRepo := &mockWalletRepo{
		findByUserIDFunc: func(ctx context.Context, userID int64) (*entities.Wallet, error) { return w, nil },
	}
	accountRepo := &mockWalletAccountRepo{
		findByWalletAndCurrencyFunc: func(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error) {
			if currency.Code() != "EUR" {
				t.Fatalf("expected a lookup for EUR, got %s", currency.Code())
			}
			return eurAccount, nil
		},
	}

	uc := NewGetBalanceUseCase(walletRepo, accountRepo)

	result, err := uc.Execute(context.Background(), dtos.GetBalanceQuery{UserID: 11, Currency: "EUR"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Balances) != 1 || result.Balances[0].Currency != "EUR" {
		t.Fatalf("unexpected balances: %+v", result.Balances)
	}
}

func TestGetBalanceUseCase_Execute_WalletNotFound(t *testing.T) {
	walletRepo := &mockWalletRepo{
		findByUserIDFunc: func(ctx context.Context, userID int64) (*entities.Wallet, error) {
			return nil, domainerrors.ErrEntityNotFound
		},
	}
	uc := NewGetBalanceUseCase(walletRepo, &mockWalletAccountRepo{})

	_, err := uc.Execute(context.Background(), dtos.GetBalanceQuery{UserID: 99})
	if !domainerrors.IsNotFound(err) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}
