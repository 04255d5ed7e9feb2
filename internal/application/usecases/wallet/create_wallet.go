// Package wallet holds use cases for the Wallet aggregate: creation and
// balance reads. Funds-movement use cases live in usecases/transaction.
package wallet

import (
	"context"
	"fmt"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
)

// CreateWalletUseCase inserts the per-user Wallet row (spec §6: CreateWallet).
type CreateWalletUseCase struct {
	walletRepo ports.WalletRepository
	uow        ports.UnitOfWork
}

// NewCreateWalletUseCase wires a CreateWalletUseCase.
func NewCreateWalletUseCase(walletRepo ports.WalletRepository, uow ports.UnitOfWork) *CreateWalletUseCase {
	return &CreateWalletUseCase{walletRepo: walletRepo, uow: uow}
}

// Execute creates and persists a wallet for the given user.
func (uc *CreateWalletUseCase) Execute(ctx context.Context, cmd dtos.CreateWalletCommand) (*dtos.WalletDTO, error) {
	var result *dtos.WalletDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		wallet, err := entities.NewWallet(cmd.UserID)
		if err != nil {
			return err
		}

		if err := uc.walletRepo.Create(txCtx, wallet); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}

		result = &dtos.WalletDTO{
			WalletID:  wallet.ID(),
			CreatedAt: wallet.CreatedAt(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
