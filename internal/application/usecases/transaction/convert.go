package transaction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
	"github.com/wallethub/core/internal/infrastructure/bus/natsjs"
)

// ConvertUseCase admits a same-wallet currency conversion: idempotency
// gate, create a processed transaction carrying both currency legs, publish
// a convert work item (spec §6: Convert).
type ConvertUseCase struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	cache      ports.IdempotencyCache
	producer   ports.BusProducer
	uow        ports.UnitOfWork

	subjectPrefix string
	partitions    int
}

// NewConvertUseCase wires a ConvertUseCase.
func NewConvertUseCase(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	cache ports.IdempotencyCache,
	producer ports.BusProducer,
	uow ports.UnitOfWork,
	subjectPrefix string,
	partitions int,
) *ConvertUseCase {
	return &ConvertUseCase{
		walletRepo:    walletRepo,
		txRepo:        txRepo,
		cache:         cache,
		producer:      producer,
		uow:           uow,
		subjectPrefix: subjectPrefix,
		partitions:    partitions,
	}
}

// Execute admits a conversion request.
func (uc *ConvertUseCase) Execute(ctx context.Context, cmd dtos.ConvertCommand) (*dtos.TransactionAcceptedDTO, error) {
	if existing, err := uc.rejectDuplicate(ctx, cmd.IdempotencyKey); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	from, err := valueobjects.NewCurrency(cmd.FromCurrency)
	if err != nil {
		return nil, err
	}
	to, err := valueobjects.NewCurrency(cmd.ToCurrency)
	if err != nil {
		return nil, err
	}
	amount, err := valueobjects.NewMoney(cmd.Amount, from)
	if err != nil {
		return nil, err
	}

	w, err := uc.walletRepo.FindByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("find wallet: %w", err)
	}

	var result *dtos.TransactionAcceptedDTO
	err = uc.uow.Execute(ctx, func(txCtx context.Context) error {
		tx, err := entities.NewConvertTransaction(cmd.UserID, w.ID(), from, to, amount, cmd.IdempotencyKey)
		if err != nil {
			return err
		}

		if err := uc.txRepo.Create(txCtx, tx); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		item := dtos.WorkItem{
			Operation:      dtos.OperationConvert,
			Amount:         amount.Decimal(),
			Currency:       from.Code(),
			ToCurrency:     to.Code(),
			WalletID:       w.ID(),
			IdempotencyKey: cmd.IdempotencyKey,
			CorrelationID:  tx.CorrelationID().String(),
		}
		payload, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode work item: %w", err)
		}
		subject := natsjs.PartitionSubject(uc.subjectPrefix, w.ID(), uc.partitions)
		if err := uc.producer.Publish(txCtx, subject, payload); err != nil {
			return fmt.Errorf("%w: %v", domainerrors.ErrBus, err)
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

func (uc *ConvertUseCase) rejectDuplicate(ctx context.Context, key string) (*dtos.TransactionAcceptedDTO, error) {
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
			return nil, nil
		}
		return nil, fmt.Errorf("find transaction by idempotency key: %w", err)
	}
	return &dtos.TransactionAcceptedDTO{CorrelationID: tx.CorrelationID().String(), Status: string(tx.Status())}, nil
}
