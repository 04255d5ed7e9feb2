package transaction

import (
	"context"
	"fmt"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// CreatePaymentTransactionUseCase starts the deposit flow: creates a
// pending transaction, asks the provider for a checkout session tagged
// with {wallet_id, transaction_id}, returns the redirect URL the client
// sends the user to. The ledger is not touched until the provider's
// webhook arrives (spec §6: CreatePaymentTransaction).
type CreatePaymentTransactionUseCase struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	cache      ports.IdempotencyCache
	provider   ports.Provider
	uow        ports.UnitOfWork
}

// NewCreatePaymentTransactionUseCase wires a CreatePaymentTransactionUseCase.
func NewCreatePaymentTransactionUseCase(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	cache ports.IdempotencyCache,
	provider ports.Provider,
	uow ports.UnitOfWork,
) *CreatePaymentTransactionUseCase {
	return &CreatePaymentTransactionUseCase{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		cache:      cache,
		provider:   provider,
		uow:        uow,
	}
}

// Execute admits a deposit-init request.
func (uc *CreatePaymentTransactionUseCase) Execute(ctx context.Context, cmd dtos.CreatePaymentTransactionCommand) (*dtos.RedirectDTO, error) {
	exists, err := uc.cache.Exists(ctx, cmd.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrCache, err)
	}
	if exists {
		if tx, err := uc.txRepo.FindByIdempotencyKey(ctx, cmd.IdempotencyKey); err == nil {
			return nil, fmt.Errorf("%w: transaction %d already admitted", domainerrors.ErrIdempotentlyDone, tx.ID())
		} else if !domainerrors.IsNotFound(err) {
			return nil, err
		}
	}

	currency, err := valueobjects.NewCurrency(cmd.Currency)
	if err != nil {
		return nil, err
	}
	amount, err := valueobjects.NewMoney(cmd.Amount, currency)
	if err != nil {
		return nil, err
	}

	w, err := uc.walletRepo.FindByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("find wallet: %w", err)
	}

	var result *dtos.RedirectDTO
	err = uc.uow.Execute(ctx, func(txCtx context.Context) error {
		tx, err := entities.NewDepositOrWithdraw(entities.OperationDeposit, cmd.UserID, w.ID(), currency, amount, entities.Provider(cmd.Gateway), cmd.IdempotencyKey)
		if err != nil {
			return err
		}

		if err := uc.txRepo.Create(txCtx, tx); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		redirectURL, err := uc.provider.CreateCheckoutSession(txCtx, ports.CheckoutSessionInput{
			UserID:        cmd.UserID,
			WalletID:      w.ID(),
			TransactionID: tx.ID(),
			Amount:        amount,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", domainerrors.ErrProvider, err)
		}

		result = &dtos.RedirectDTO{RedirectURL: redirectURL}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Remember(ctx, cmd.IdempotencyKey, nil, idempotencyCacheTTL); err != nil {
		return nil, fmt.Errorf("remember idempotency key: %w", err)
	}

	return result, nil
}
