package wallet

import (
	"context"
	"fmt"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// GetBalanceUseCase reads a wallet's accounts, optionally filtered to one
// currency (spec §6: GetBalance).
type GetBalanceUseCase struct {
	walletRepo  ports.WalletRepository
	accountRepo ports.WalletAccountRepository
}

// NewGetBalanceUseCase wires a GetBalanceUseCase.
func NewGetBalanceUseCase(walletRepo ports.WalletRepository, accountRepo ports.WalletAccountRepository) *GetBalanceUseCase {
	return &GetBalanceUseCase{walletRepo: walletRepo, accountRepo: accountRepo}
}

// Execute reads the balances for q.UserID's wallet. Read-only — runs outside
// any UnitOfWork.
func (uc *GetBalanceUseCase) Execute(ctx context.Context, q dtos.GetBalanceQuery) (*dtos.BalanceDTO, error) {
	w, err := uc.walletRepo.FindByUserID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("find wallet: %w", err)
	}

	if q.Currency != "" {
		currency, err := valueobjects.NewCurrency(q.Currency)
		if err != nil {
			return nil, err
		}
		account, err := uc.accountRepo.FindByWalletAndCurrency(ctx, w.ID(), currency)
		if err != nil {
			return nil, fmt.Errorf("find account: %w", err)
		}
		return &dtos.BalanceDTO{
			UserID: q.UserID,
			Balances: []dtos.BalanceLineDTO{
				{Currency: account.Currency().Code(), Kind: string(account.Kind()), Amount: account.Amount().Decimal()},
			},
		}, nil
	}

	accounts, err := uc.accountRepo.FindByWallet(ctx, w.ID())
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	lines := make([]dtos.BalanceLineDTO, 0, len(accounts))
	for _, a := range accounts {
		lines = append(lines, dtos.BalanceLineDTO{
			Currency: a.Currency().Code(),
			Kind:     string(a.Kind()),
			Amount:   a.Amount().Decimal(),
		})
	}

	return &dtos.BalanceDTO{UserID: q.UserID, Balances: lines}, nil
}
