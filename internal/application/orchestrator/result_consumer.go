// Package orchestrator holds the admitting side's settlement-result
// consumer: the only code path allowed to advance a Transaction from
// processed to completed or failed (spec §4.7 Open Question 1/2).
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/pkg/logger"
)

// ResultConsumer applies the wallet worker's terminal verdict on
// wallet.transaction.result against the admitting transaction row. It never
// touches a WalletAccount directly — that remains the worker's exclusive
// responsibility.
type ResultConsumer struct {
	txRepo ports.TransactionRepository
	uow    ports.UnitOfWork
}

// New wires a ResultConsumer.
func New(txRepo ports.TransactionRepository, uow ports.UnitOfWork) *ResultConsumer {
	return &ResultConsumer{txRepo: txRepo, uow: uow}
}

// Handle is a ports.MessageHandler bound to the result subject.
func (rc *ResultConsumer) Handle(ctx context.Context, payload []byte) error {
	var result dtos.ResultMessage
	if err := json.Unmarshal(payload, &result); err != nil {
		logger.FromContext(ctx).Error("result consumer: malformed result message, dropping", "error", err)
		return nil
	}

	correlationID, err := uuid.Parse(result.CorrelationID)
	if err != nil {
		logger.FromContext(ctx).Error("result consumer: invalid correlation id, dropping",
			"correlation_id", result.CorrelationID, "error", err)
		return nil
	}

	return rc.uow.Execute(ctx, func(txCtx context.Context) error {
		tx, err := rc.txRepo.FindByCorrelationID(txCtx, correlationID)
		if err != nil {
			return fmt.Errorf("find transaction by correlation id: %w", err)
		}

		// A transaction already in a final state means this exact result
		// already applied (redelivery) — a no-op, not an error.
		if tx.Status().IsFinal() {
			return nil
		}

		switch result.Status {
		case dtos.ResultStatusSuccess:
			if err := tx.MarkCompleted(); err != nil {
				return err
			}
		case dtos.ResultStatusError:
			if err := tx.MarkFailed(); err != nil {
				return err
			}
		default:
			logger.FromContext(txCtx).Warn("result consumer: unknown result status",
				"status", result.Status, "correlation_id", result.CorrelationID)
			return nil
		}

		if err := rc.txRepo.UpdateStatus(txCtx, tx.ID(), tx.Status()); err != nil {
			return fmt.Errorf("update transaction status: %w", err)
		}
		return nil
	})
}
