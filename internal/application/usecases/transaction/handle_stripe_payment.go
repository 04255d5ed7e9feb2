package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/services"
	"github.com/wallethub/core/internal/domain/valueobjects"
	"github.com/wallethub/core/internal/infrastructure/bus/natsjs"
)

// HandleStripePaymentUseCase ingests a verified, normalized deposit webhook:
// idempotency gate, +amount to the provider's settlement balance, publish a
// deposit work item for the worker, mark the transaction processed and
// record external_id (spec §6: HandleStripePayment). The HTTP adapter has
// already called Provider.VerifyWebhookSignature/NormalizeWebhook before
// this use case ever sees the event.
type HandleStripePaymentUseCase struct {
	txRepo      ports.TransactionRepository
	balanceRepo ports.ProviderBalanceRepository
	rateRepo    ports.CurrencyRateRepository
	cache       ports.IdempotencyCache
	producer    ports.BusProducer
	uow         ports.UnitOfWork

	subjectPrefix string
	partitions    int
}

// NewHandleStripePaymentUseCase wires a HandleStripePaymentUseCase.
func NewHandleStripePaymentUseCase(
	txRepo ports.TransactionRepository,
	balanceRepo ports.ProviderBalanceRepository,
	rateRepo ports.CurrencyRateRepository,
	cache ports.IdempotencyCache,
	producer ports.BusProducer,
	uow ports.UnitOfWork,
	subjectPrefix string,
	partitions int,
) *HandleStripePaymentUseCase {
	return &HandleStripePaymentUseCase{
		txRepo:        txRepo,
		balanceRepo:   balanceRepo,
		rateRepo:      rateRepo,
		cache:         cache,
		producer:      producer,
		uow:           uow,
		subjectPrefix: subjectPrefix,
		partitions:    partitions,
	}
}

// Execute ingests a deposit webhook event.
func (uc *HandleStripePaymentUseCase) Execute(ctx context.Context, cmd dtos.WebhookCommand) (*dtos.WebhookResultDTO, error) {
	return ingestProviderWebhook(ctx, providerWebhookDeps{
		txRepo:        uc.txRepo,
		balanceRepo:   uc.balanceRepo,
		rateRepo:      uc.rateRepo,
		cache:         uc.cache,
		producer:      uc.producer,
		uow:           uc.uow,
		subjectPrefix: uc.subjectPrefix,
		partitions:    uc.partitions,
	}, cmd, dtos.OperationDeposit, true)
}

// providerWebhookDeps bundles the collaborators HandleStripePayment and
// HandleStripePayout both need — the two flows differ only in credit sign
// and the published work item's operation, so the shared mechanics
// (idempotency gate, status-driven replay detection, balance update inside
// one UnitOfWork, publish, remember) live in one place.
type providerWebhookDeps struct {
	txRepo        ports.TransactionRepository
	balanceRepo   ports.ProviderBalanceRepository
	rateRepo      ports.CurrencyRateRepository
	cache         ports.IdempotencyCache
	producer      ports.BusProducer
	uow           ports.UnitOfWork
	subjectPrefix string
	partitions    int
}

// ingestProviderWebhook implements spec §6's webhook-ingestion rules. A
// transaction that is no longer pending when the webhook arrives means this
// exact event already applied (possibly a redelivery past the cache TTL) —
// that is treated as a no-op success, not an error, per the testable
// property "webhook re-delivery with identical payload is a no-op".
func ingestProviderWebhook(ctx context.Context, deps providerWebhookDeps, cmd dtos.WebhookCommand, op dtos.Operation, credit bool) (*dtos.WebhookResultDTO, error) {
	exists, err := deps.cache.Exists(ctx, cmd.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrCache, err)
	}
	if exists {
		return &dtos.WebhookResultDTO{Success: true, Message: "already processed"}, nil
	}

	currency, err := valueobjects.NewCurrency(cmd.Currency)
	if err != nil {
		return nil, err
	}
	amount, err := valueobjects.NewMoney(cmd.Amount, currency)
	if err != nil {
		return nil, err
	}

	var result *dtos.WebhookResultDTO
	err = deps.uow.Execute(ctx, func(txCtx context.Context) error {
		tx, err := deps.txRepo.FindByID(txCtx, cmd.TransactionID)
		if err != nil {
			return fmt.Errorf("find transaction: %w", err)
		}
		if tx.Status() != entities.TransactionStatusPending {
			result = &dtos.WebhookResultDTO{Success: true, Message: "already processed"}
			return nil
		}

		balance, err := deps.balanceRepo.FindByProviderForUpdate(txCtx, tx.Provider())
		isNewBalance := false
		if err != nil {
			if !errors.Is(err, domainerrors.ErrEntityNotFound) {
				return fmt.Errorf("find provider balance: %w", err)
			}
			settlementCurrency, ok := entities.SettlementCurrencyFor(tx.Provider())
			if !ok {
				settlementCurrency = currency
			}
			balance = entities.NewPaymentProviderBalance(tx.Provider(), settlementCurrency)
			isNewBalance = true
		}

		lookup := rateLookup(txCtx, deps.rateRepo)
		if err := services.ChangeProviderBalance(balance, amount, credit, lookup); err != nil {
			return err
		}
		if isNewBalance {
			if err := deps.balanceRepo.Create(txCtx, balance); err != nil {
				return fmt.Errorf("create provider balance: %w", err)
			}
		} else if err := deps.balanceRepo.Update(txCtx, balance); err != nil {
			return fmt.Errorf("update provider balance: %w", err)
		}

		if err := tx.MarkProcessed(); err != nil {
			return err
		}
		if err := deps.txRepo.UpdateStatus(txCtx, tx.ID(), tx.Status()); err != nil {
			return fmt.Errorf("update transaction status: %w", err)
		}
		if err := deps.txRepo.SetExternalID(txCtx, tx.ID(), cmd.ExternalPaymentID); err != nil {
			return fmt.Errorf("set external id: %w", err)
		}

		item := dtos.WorkItem{
			Operation:      op,
			Amount:         amount.Decimal(),
			Currency:       currency.Code(),
			WalletID:       cmd.WalletID,
			IdempotencyKey: tx.IdempotencyKey(),
			CorrelationID:  tx.CorrelationID().String(),
		}
		payload, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode work item: %w", err)
		}
		subject := natsjs.PartitionSubject(deps.subjectPrefix, cmd.WalletID, deps.partitions)
		if err := deps.producer.Publish(txCtx, subject, payload); err != nil {
			return fmt.Errorf("%w: %v", domainerrors.ErrBus, err)
		}

		result = &dtos.WebhookResultDTO{Success: true, Message: "accepted"}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := deps.cache.Remember(ctx, cmd.IdempotencyKey, nil, idempotencyCacheTTL); err != nil {
		return nil, fmt.Errorf("remember idempotency key: %w", err)
	}

	return result, nil
}
