package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/services"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// CreateWithdrawTransactionUseCase admits a withdraw request: idempotency
// gate, user-balance check, provider-liquidity check (FX-normalized into the
// provider's settlement currency, per §9 Open Question 3), connected-account
// readiness, then hands the payout to the provider directly — the wallet
// account itself is only debited later, by the worker, once the payout
// webhook confirms it (spec §6: CreateWithdrawTransaction).
type CreateWithdrawTransactionUseCase struct {
	walletRepo        ports.WalletRepository
	accountRepo       ports.WalletAccountRepository
	txRepo            ports.TransactionRepository
	balanceRepo       ports.ProviderBalanceRepository
	linkedAccountRepo ports.ProviderLinkedAccountRepository
	rateRepo          ports.CurrencyRateRepository
	cache             ports.IdempotencyCache
	provider          ports.Provider
	uow               ports.UnitOfWork
}

// NewCreateWithdrawTransactionUseCase wires a CreateWithdrawTransactionUseCase.
func NewCreateWithdrawTransactionUseCase(
	walletRepo ports.WalletRepository,
	accountRepo ports.WalletAccountRepository,
	txRepo ports.TransactionRepository,
	balanceRepo ports.ProviderBalanceRepository,
	linkedAccountRepo ports.ProviderLinkedAccountRepository,
	rateRepo ports.CurrencyRateRepository,
	cache ports.IdempotencyCache,
	provider ports.Provider,
	uow ports.UnitOfWork,
) *CreateWithdrawTransactionUseCase {
	return &CreateWithdrawTransactionUseCase{
		walletRepo:        walletRepo,
		accountRepo:       accountRepo,
		txRepo:            txRepo,
		balanceRepo:       balanceRepo,
		linkedAccountRepo: linkedAccountRepo,
		rateRepo:          rateRepo,
		cache:             cache,
		provider:          provider,
		uow:               uow,
	}
}

// Execute admits a withdraw request.
func (uc *CreateWithdrawTransactionUseCase) Execute(ctx context.Context, cmd dtos.CreateWithdrawTransactionCommand) (*dtos.TransactionAcceptedDTO, error) {
	exists, err := uc.cache.Exists(ctx, cmd.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrCache, err)
	}
	if exists {
		if tx, err := uc.txRepo.FindByIdempotencyKey(ctx, cmd.IdempotencyKey); err == nil {
			return &dtos.TransactionAcceptedDTO{CorrelationID: tx.CorrelationID().String(), Status: string(tx.Status())}, nil
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
	providerKind := entities.Provider(cmd.Gateway)

	w, err := uc.walletRepo.FindByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("find wallet: %w", err)
	}

	var result *dtos.TransactionAcceptedDTO
	err = uc.uow.Execute(ctx, func(txCtx context.Context) error {
		account, err := uc.accountRepo.FindByWalletAndCurrencyForUpdate(txCtx, w.ID(), currency)
		if err != nil {
			return fmt.Errorf("find wallet account: %w", err)
		}
		hasEnough, err := account.HasAtLeast(amount)
		if err != nil {
			return err
		}
		if !hasEnough {
			return domainerrors.ErrInsufficientFunds
		}

		linkedAccount, err := uc.linkedAccountRepo.FindByUserID(txCtx, cmd.UserID, providerKind)
		if err != nil {
			return err
		}
		if !linkedAccount.IsReady() {
			return fmt.Errorf("%w: connected account not ready", domainerrors.ErrNoProviderAccount)
		}

		lookup := rateLookup(txCtx, uc.rateRepo)
		normalized, err := services.NormalizeToSettlement(amount, providerKind, lookup)
		if err != nil {
			return err
		}

		balance, err := uc.balanceRepo.FindByProviderForUpdate(txCtx, providerKind)
		if err != nil {
			if !errors.Is(err, domainerrors.ErrEntityNotFound) {
				return fmt.Errorf("find provider balance: %w", err)
			}
			settlementCurrency, ok := entities.SettlementCurrencyFor(providerKind)
			if !ok {
				settlementCurrency = normalized.Currency()
			}
			balance = entities.NewPaymentProviderBalance(providerKind, settlementCurrency)
		}
		available, err := valueobjects.NewMoneyFromRat(balance.AvailableAmount(), normalized.Currency())
		if err != nil {
			return err
		}
		sufficient, err := available.GreaterThanOrEqual(normalized)
		if err != nil {
			return err
		}
		if !sufficient {
			return domainerrors.ErrProviderLiquidityExhausted
		}

		tx, err := entities.NewDepositOrWithdraw(entities.OperationWithdraw, cmd.UserID, w.ID(), currency, amount, providerKind, cmd.IdempotencyKey)
		if err != nil {
			return err
		}
		if err := uc.txRepo.Create(txCtx, tx); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		payoutResult, err := uc.provider.Payout(txCtx, ports.PayoutInput{
			UserID:            cmd.UserID,
			WalletID:          w.ID(),
			TransactionID:     tx.ID(),
			ExternalAccountID: linkedAccount.ExternalAccountID(),
			Amount:            amount,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", domainerrors.ErrProvider, err)
		}
		if err := uc.txRepo.SetExternalID(txCtx, tx.ID(), payoutResult.ExternalID); err != nil {
			return fmt.Errorf("set external id: %w", err)
		}

		result = &dtos.TransactionAcceptedDTO{CorrelationID: tx.CorrelationID().String(), Status: string(tx.Status())}
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
