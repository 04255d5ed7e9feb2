package events_test

import (
	"testing"

	"github.com/wallethub/core/internal/domain/events"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

func TestEventStore_AddGetAllClear(t *testing.T) {
	store := events.NewEventStore()
	amount, _ := valueobjects.NewMoney("10.00", valueobjects.USD)

	store.Add(events.NewWalletCreated(1, 42))
	store.Add(events.NewAccountCredited(1, amount, 99, amount))

	if store.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", store.Count())
	}

	all := store.GetAll()
	if all[0].EventType() != events.EventTypeWalletCreated {
		t.Errorf("first event type = %v, want %v", all[0].EventType(), events.EventTypeWalletCreated)
	}
	if all[1].AggregateID() != 1 {
		t.Errorf("second event aggregate id = %v, want 1", all[1].AggregateID())
	}

	store.Clear()
	if store.Count() != 0 {
		t.Errorf("Count() after Clear() = %d, want 0", store.Count())
	}
}

func TestTransactionLifecycleEvents(t *testing.T) {
	amount, _ := valueobjects.NewMoney("5.00", valueobjects.USD)

	created := events.NewTransactionCreated(7, 1, "deposit", amount, "idem-1")
	if created.IdempotencyKey != "idem-1" {
		t.Errorf("IdempotencyKey = %v, want idem-1", created.IdempotencyKey)
	}

	failed := events.NewTransactionFailed(7, "deposit", amount, "insufficient_funds")
	if failed.FailureReason != "insufficient_funds" {
		t.Errorf("FailureReason = %v, want insufficient_funds", failed.FailureReason)
	}
}
