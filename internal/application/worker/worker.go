// Package worker implements the wallet worker: the single authoritative
// consumer of `wallet.transaction.request` that applies ledger mutations
// and is the only code path ever allowed to change a WalletAccount's
// amount (spec §4.7). Ported from
// original_source/app/backend/wallet_worker/app/{kafka_consumer,services}.py.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/services"
	"github.com/wallethub/core/internal/domain/valueobjects"
	"github.com/wallethub/core/internal/infrastructure/bus/natsjs"
	"github.com/wallethub/core/internal/pkg/logger"
)

// maxRetries mirrors the Python worker's module-level MAX_RETRIES: a
// message that has already been requeued this many times is routed to the
// DLQ instead of dispatched again.
const maxRetries = 3

// resultCacheTTL is how long a terminal result stays keyed by idempotency
// key, matching the orchestrator's admission-gate TTL (spec §4.2).
const resultCacheTTL = 24 * time.Hour

// handlerTimeout bounds a single message's dispatch, mirroring the Python
// worker's `async_timeout.timeout(30.0)`.
const handlerTimeout = 30 * time.Second

// Worker dispatches WorkItems by operation against the ledger store, inside
// one UnitOfWork per message, and publishes the settlement result. It is
// the only component that ever calls WalletAccount.Credit/Debit.
type Worker struct {
	accountRepo ports.WalletAccountRepository
	rateRepo    ports.CurrencyRateRepository
	cache       ports.IdempotencyCache
	producer    ports.BusProducer
	uow         ports.UnitOfWork

	requestSubjectPrefix string
	resultSubject        string
	dlqSubject           string
	partitions           int
}

// New wires a Worker.
func New(
	accountRepo ports.WalletAccountRepository,
	rateRepo ports.CurrencyRateRepository,
	cache ports.IdempotencyCache,
	producer ports.BusProducer,
	uow ports.UnitOfWork,
	requestSubjectPrefix, resultSubject, dlqSubject string,
	partitions int,
) *Worker {
	return &Worker{
		accountRepo:           accountRepo,
		rateRepo:              rateRepo,
		cache:                 cache,
		producer:              producer,
		uow:                   uow,
		requestSubjectPrefix:  requestSubjectPrefix,
		resultSubject:         resultSubject,
		dlqSubject:            dlqSubject,
		partitions:            partitions,
	}
}

// Handle is a ports.MessageHandler: decode, DLQ-if-exhausted, dispatch
// inside one transaction, publish the result, cache it by idempotency key.
// A non-nil return leaves the message unacked for JetStream redelivery —
// returned for the handlerTimeout case and when the requeue or DLQ publish
// itself fails, as consumer.go documents.
func (w *Worker) Handle(ctx context.Context, payload []byte) error {
	var item dtos.WorkItem
	if err := json.Unmarshal(payload, &item); err != nil {
		logger.FromContext(ctx).Error("worker: malformed work item, dropping", "error", err)
		return nil
	}

	if item.Retries >= maxRetries {
		logger.FromContext(ctx).Warn("worker: max retries reached, routing to DLQ",
			"operation", item.Operation, "wallet_id", item.WalletID, "idempotency_key", item.IdempotencyKey)
		return w.routeToDLQ(ctx, item)
	}

	handlerCtx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	err := w.dispatch(handlerCtx, item)
	if err != nil {
		if errors.Is(handlerCtx.Err(), context.DeadlineExceeded) {
			return handlerCtx.Err()
		}
		logger.FromContext(ctx).Warn("worker: dispatch failed, requeueing with incremented retries",
			"operation", item.Operation, "wallet_id", item.WalletID, "error", err)
		return w.requeue(ctx, item)
	}

	return nil
}

// dispatch applies one WorkItem's ledger mutation inside a single
// UnitOfWork, then publishes and caches the result. Per §9's
// "non-atomic multi-leg mutation" redesign note, transfer/convert's two
// legs share this one transaction rather than two independent commits.
func (w *Worker) dispatch(ctx context.Context, item dtos.WorkItem) error {
	currency, err := valueobjects.NewCurrency(item.Currency)
	if err != nil {
		return err
	}
	amount, err := valueobjects.NewMoney(item.Amount, currency)
	if err != nil {
		return err
	}

	err = w.uow.Execute(ctx, func(txCtx context.Context) error {
		switch item.Operation {
		case dtos.OperationDeposit:
			return w.credit(txCtx, item.WalletID, amount)
		case dtos.OperationWithdraw:
			return w.debit(txCtx, item.WalletID, amount)
		case dtos.OperationTransfer:
			return w.transfer(txCtx, item.WalletID, item.ToWalletID, amount)
		case dtos.OperationConvert:
			toCurrency, err := valueobjects.NewCurrency(item.ToCurrency)
			if err != nil {
				return err
			}
			return w.convert(txCtx, item.WalletID, amount, toCurrency)
		default:
			return fmt.Errorf("%w: unknown operation %q", domainerrors.ErrUnsupported, item.Operation)
		}
	})
	if err != nil {
		return err
	}

	result := dtos.ResultMessage{
		Status:         dtos.ResultStatusSuccess,
		Operation:      item.Operation,
		WalletID:       item.WalletID,
		Amount:         item.Amount,
		IdempotencyKey: item.IdempotencyKey,
		CorrelationID:  item.CorrelationID,
	}
	return w.publishResult(ctx, result)
}

// credit finds-or-creates the (walletID, amount.Currency()) account and
// adds amount — the deposit leg.
func (w *Worker) credit(ctx context.Context, walletID int64, amount valueobjects.Money) error {
	account, err := w.accountRepo.FindByWalletAndCurrencyForUpdate(ctx, walletID, amount.Currency())
	if err != nil {
		if !errors.Is(err, domainerrors.ErrNoWallet) {
			return fmt.Errorf("find account: %w", err)
		}
		account, err = entities.NewWalletAccount(walletID, amount.Currency())
		if err != nil {
			return err
		}
		if err := account.Credit(amount); err != nil {
			return err
		}
		return w.accountRepo.Create(ctx, account)
	}
	if err := account.Credit(amount); err != nil {
		return err
	}
	return w.accountRepo.Update(ctx, account)
}

// debit subtracts amount from an existing (walletID, amount.Currency())
// account — the withdraw leg. A missing account can never cover a debit.
func (w *Worker) debit(ctx context.Context, walletID int64, amount valueobjects.Money) error {
	account, err := w.accountRepo.FindByWalletAndCurrencyForUpdate(ctx, walletID, amount.Currency())
	if err != nil {
		if errors.Is(err, domainerrors.ErrNoWallet) {
			return domainerrors.ErrInsufficientFunds
		}
		return fmt.Errorf("find account: %w", err)
	}
	if err := account.Debit(amount); err != nil {
		return err
	}
	return w.accountRepo.Update(ctx, account)
}

// transfer debits fromWalletID and credits toWalletID in the same
// currency. Row locks are always acquired in ascending wallet-id order
// (regardless of transfer direction) so two opposing concurrent transfers
// between the same pair of wallets can never deadlock against each other.
func (w *Worker) transfer(ctx context.Context, fromWalletID, toWalletID int64, amount valueobjects.Money) error {
	if fromWalletID < toWalletID {
		if err := w.debit(ctx, fromWalletID, amount); err != nil {
			return err
		}
		return w.credit(ctx, toWalletID, amount)
	}
	if err := w.preLockForUpdate(ctx, toWalletID, amount.Currency()); err != nil {
		return err
	}
	if err := w.debit(ctx, fromWalletID, amount); err != nil {
		return err
	}
	return w.credit(ctx, toWalletID, amount)
}

// preLockForUpdate takes the row lock on an account that will be credited
// later in the same transaction, before the debit leg runs, so the lock
// acquisition order stays ascending by wallet id even when toWalletID <
// fromWalletID. A missing account (first credit ever) has nothing to lock.
func (w *Worker) preLockForUpdate(ctx context.Context, walletID int64, currency valueobjects.Currency) error {
	_, err := w.accountRepo.FindByWalletAndCurrencyForUpdate(ctx, walletID, currency)
	if err != nil && !errors.Is(err, domainerrors.ErrNoWallet) {
		return fmt.Errorf("find account: %w", err)
	}
	return nil
}

// convert debits amount in its own currency and credits the FX-converted
// amount in toCurrency, within the same wallet.
func (w *Worker) convert(ctx context.Context, walletID int64, amount valueobjects.Money, toCurrency valueobjects.Currency) error {
	lookup := func(code string) (valueobjects.Rate, error) {
		row, err := w.rateRepo.FindByCode(ctx, code)
		if err != nil {
			return valueobjects.Rate{}, err
		}
		return row.RateToBase(), nil
	}

	converted, err := services.ConvertAmount(amount, toCurrency, lookup)
	if err != nil {
		return err
	}

	if err := w.debit(ctx, walletID, amount); err != nil {
		return err
	}
	return w.credit(ctx, walletID, converted)
}

// publishResult caches the terminal result by idempotency key and
// publishes it to the result subject, in that order — matching the Python
// worker's setex-then-produce sequence.
func (w *Worker) publishResult(ctx context.Context, result dtos.ResultMessage) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := w.cache.Remember(ctx, result.IdempotencyKey, payload, resultCacheTTL); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrCache, err)
	}
	if err := w.producer.Publish(ctx, w.resultSubject, payload); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrBus, err)
	}
	return nil
}

// requeue increments retries and republishes to the same partition subject
// the message originally arrived on, then returns nil so the caller acks
// the original delivery — mirroring the Python worker's "commit current
// offset, republish with incremented retries" behavior.
func (w *Worker) requeue(ctx context.Context, item dtos.WorkItem) error {
	item.Retries++
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode work item: %w", err)
	}
	subject := natsjs.PartitionSubject(w.requestSubjectPrefix, item.WalletID, w.partitions)
	if err := w.producer.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrBus, err)
	}
	return nil
}

// routeToDLQ publishes an exhausted-retry message verbatim to the DLQ
// subject.
func (w *Worker) routeToDLQ(ctx context.Context, item dtos.WorkItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode work item: %w", err)
	}
	if err := w.producer.Publish(ctx, w.dlqSubject, payload); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrBus, err)
	}
	return nil
}
