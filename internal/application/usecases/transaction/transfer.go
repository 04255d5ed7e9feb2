// Package transaction holds the funds-movement use cases: Transfer,
// Convert, the two deposit/withdraw payment-transaction flows, and the two
// Stripe webhook handlers. Every use case here admits a request, then hands
// off the actual ledger mutation to the wallet worker via a published work
// item — none of them touch WalletAccount.amount directly.
package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
	"github.com/wallethub/core/internal/infrastructure/bus/natsjs"
)

// idempotencyCacheTTL is how long an admission-gate key is remembered,
// per spec §4.2's default.
const idempotencyCacheTTL = 24 * time.Hour

// TransferUseCase admits a transfer between two users' wallets: idempotency
// gate, resolve wallet ids, create a processed transaction, publish a
// transfer work item (spec §6: Transfer).
type TransferUseCase struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	cache      ports.IdempotencyCache
	producer   ports.BusProducer
	uow        ports.UnitOfWork

	subjectPrefix string
	partitions    int
}

// NewTransferUseCase wires a TransferUseCase.
func NewTransferUseCase(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	cache ports.IdempotencyCache,
	producer ports.BusProducer,
	uow ports.UnitOfWork,
	subjectPrefix string,
	partitions int,
) *TransferUseCase {
	return &TransferUseCase{
		walletRepo:    walletRepo,
		txRepo:        txRepo,
		cache:         cache,
		producer:      producer,
		uow:           uow,
		subjectPrefix: subjectPrefix,
		partitions:    partitions,
	}
}

// Execute admits a transfer request.
func (uc *TransferUseCase) Execute(ctx context.Context, cmd dtos.TransferCommand) (*dtos.TransactionAcceptedDTO, error) {
	if existing, err := uc.rejectDuplicate(ctx, cmd.IdempotencyKey); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	currency, err := valueobjects.NewCurrency(cmd.Currency)
	if err != nil {
		return nil, err
	}
	amount, err := valueobjects.NewMoney(cmd.Amount, currency)
	if err != nil {
		return nil, err
	}

	fromWallet, err := uc.walletRepo.FindByUserID(ctx, cmd.FromUserID)
	if err != nil {
		return nil, fmt.Errorf("find sender wallet: %w", err)
	}
	toWallet, err := uc.walletRepo.FindByUserID(ctx, cmd.ToUserID)
	if err != nil {
		return nil, fmt.Errorf("find recipient wallet: %w", err)
	}

	var result *dtos.TransactionAcceptedDTO
	err = uc.uow.Execute(ctx, func(txCtx context.Context) error {
		tx, err := entities.NewTransferTransaction(cmd.FromUserID, fromWallet.ID(), toWallet.ID(), currency, amount, cmd.IdempotencyKey)
		if err != nil {
			return err
		}

		if err := uc.txRepo.Create(txCtx, tx); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		item := dtos.WorkItem{
			Operation:      dtos.OperationTransfer,
			Amount:         amount.Decimal(),
			Currency:       currency.Code(),
			WalletID:       fromWallet.ID(),
			ToWalletID:     toWallet.ID(),
			IdempotencyKey: cmd.IdempotencyKey,
			CorrelationID:  tx.CorrelationID().String(),
		}
		if err := uc.publish(txCtx, fromWallet.ID(), item); err != nil {
			return err
		}

		result = &dtos.TransactionAcceptedDTO{
			CorrelationID: tx.CorrelationID().String(),
			Status:        string(tx.Status()),
		}
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

func (uc *TransferUseCase) publish(ctx context.Context, walletID int64, item dtos.WorkItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode work item: %w", err)
	}
	subject := natsjs.PartitionSubject(uc.subjectPrefix, walletID, uc.partitions)
	if err := uc.producer.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrBus, err)
	}
	return nil
}

// rejectDuplicate checks the idempotency gate, then falls back to the
// authoritative transaction row (spec §4.2: the cache is a fast path, never
// the source of truth). A non-nil, nil-error return means "already
// admitted, here is the cached response".
func (uc *TransferUseCase) rejectDuplicate(ctx context.Context, key string) (*dtos.TransactionAcceptedDTO, error) {
	exists, err := uc.cache.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrCache, err)
	}
	if !exists {
		return nil, nil
	}

	tx, err := uc.txRepo.FindByIdempotencyKey(ctx, key)
	if err != nil {
		if domainerrors.IsNotFound(err) {
			// cache still warm but the row isn't there yet (race with the
			// admitting request); treat as not-yet-admitted.
			return nil, nil
		}
		return nil, fmt.Errorf("find transaction by idempotency key: %w", err)
	}
	return &dtos.TransactionAcceptedDTO{CorrelationID: tx.CorrelationID().String(), Status: string(tx.Status())}, nil
}
