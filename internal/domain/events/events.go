// Package events defines domain events that represent significant business
// occurrences in the wallet core. Events are immutable facts about what
// happened in the past.
package events

import (
	"time"

	"github.com/wallethub/core/internal/domain/valueobjects"
	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() int64
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	eventID     uuid.UUID
	eventType   string
	occurredAt  time.Time
	aggregateID int64
}

func newBaseEvent(eventType string, aggregateID int64) BaseEvent {
	return BaseEvent{
		eventID:     uuid.New(),
		eventType:   eventType,
		occurredAt:  time.Now(),
		aggregateID: aggregateID,
	}
}

func (e BaseEvent) EventID() uuid.UUID    { return e.eventID }
func (e BaseEvent) EventType() string     { return e.eventType }
func (e BaseEvent) OccurredAt() time.Time { return e.occurredAt }
func (e BaseEvent) AggregateID() int64    { return e.aggregateID }

// Event type constants.
const (
	EventTypeWalletCreated         = "wallet.created"
	EventTypeAccountCredited       = "wallet_account.credited"
	EventTypeAccountDebited        = "wallet_account.debited"
	EventTypeTransactionCreated    = "wallet_transaction.created"
	EventTypeTransactionProcessed  = "wallet_transaction.processed"
	EventTypeTransactionCompleted  = "wallet_transaction.completed"
	EventTypeTransactionFailed     = "wallet_transaction.failed"
	EventTypeTransactionReversed   = "wallet_transaction.reversed"
	EventTypeTransactionCancelled  = "wallet_transaction.cancelled"
)

// WalletCreated is raised when a wallet is created for a user.
type WalletCreated struct {
	BaseEvent
	UserID int64
}

func NewWalletCreated(walletID, userID int64) *WalletCreated {
	return &WalletCreated{BaseEvent: newBaseEvent(EventTypeWalletCreated, walletID), UserID: userID}
}

// AccountCredited is raised when a wallet account's balance increases.
type AccountCredited struct {
	BaseEvent
	AccountID     int64
	Amount        valueobjects.Money
	TransactionID int64
	BalanceAfter  valueobjects.Money
}

func NewAccountCredited(accountID int64, amount valueobjects.Money, transactionID int64, balanceAfter valueobjects.Money) *AccountCredited {
	return &AccountCredited{
		BaseEvent:     newBaseEvent(EventTypeAccountCredited, accountID),
		AccountID:     accountID,
		Amount:        amount,
		TransactionID: transactionID,
		BalanceAfter:  balanceAfter,
	}
}

// AccountDebited is raised when a wallet account's balance decreases.
type AccountDebited struct {
	BaseEvent
	AccountID     int64
	Amount        valueobjects.Money
	TransactionID int64
	BalanceAfter  valueobjects.Money
}

func NewAccountDebited(accountID int64, amount valueobjects.Money, transactionID int64, balanceAfter valueobjects.Money) *AccountDebited {
	return &AccountDebited{
		BaseEvent:     newBaseEvent(EventTypeAccountDebited, accountID),
		AccountID:     accountID,
		Amount:        amount,
		TransactionID: transactionID,
		BalanceAfter:  balanceAfter,
	}
}

// TransactionCreated is raised when a new WalletTransaction row is inserted.
type TransactionCreated struct {
	BaseEvent
	WalletID       int64
	Operation      string
	Amount         valueobjects.Money
	IdempotencyKey string
}

func NewTransactionCreated(transactionID, walletID int64, operation string, amount valueobjects.Money, idempotencyKey string) *TransactionCreated {
	return &TransactionCreated{
		BaseEvent:      newBaseEvent(EventTypeTransactionCreated, transactionID),
		WalletID:       walletID,
		Operation:      operation,
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
	}
}

// TransactionProcessed is raised when a transaction moves pending→processed.
type TransactionProcessed struct {
	BaseEvent
	CorrelationID uuid.UUID
}

func NewTransactionProcessed(transactionID int64, correlationID uuid.UUID) *TransactionProcessed {
	return &TransactionProcessed{BaseEvent: newBaseEvent(EventTypeTransactionProcessed, transactionID), CorrelationID: correlationID}
}

// TransactionCompleted is raised when the worker-result consumer moves a
// transaction processed→completed.
type TransactionCompleted struct {
	BaseEvent
	Operation string
	Amount    valueobjects.Money
}

func NewTransactionCompleted(transactionID int64, operation string, amount valueobjects.Money) *TransactionCompleted {
	return &TransactionCompleted{BaseEvent: newBaseEvent(EventTypeTransactionCompleted, transactionID), Operation: operation, Amount: amount}
}

// TransactionFailed is raised when a transaction moves to failed.
type TransactionFailed struct {
	BaseEvent
	Operation     string
	Amount        valueobjects.Money
	FailureReason string
}

func NewTransactionFailed(transactionID int64, operation string, amount valueobjects.Money, reason string) *TransactionFailed {
	return &TransactionFailed{
		BaseEvent:     newBaseEvent(EventTypeTransactionFailed, transactionID),
		Operation:     operation,
		Amount:        amount,
		FailureReason: reason,
	}
}

// TransactionReversed is raised by a compensating event against a processed
// transaction.
type TransactionReversed struct {
	BaseEvent
	Reason string
}

func NewTransactionReversed(transactionID int64, reason string) *TransactionReversed {
	return &TransactionReversed{BaseEvent: newBaseEvent(EventTypeTransactionReversed, transactionID), Reason: reason}
}

// TransactionCancelled is raised when a pending transaction is cancelled
// before settlement.
type TransactionCancelled struct {
	BaseEvent
}

func NewTransactionCancelled(transactionID int64) *TransactionCancelled {
	return &TransactionCancelled{BaseEvent: newBaseEvent(EventTypeTransactionCancelled, transactionID)}
}

// EventStore is an in-process buffer for events raised during a unit of
// work. It only collects events; it does not publish them anywhere.
type EventStore struct {
	events []DomainEvent
}

func NewEventStore() *EventStore {
	return &EventStore{events: make([]DomainEvent, 0)}
}

func (s *EventStore) Add(event DomainEvent) { s.events = append(s.events, event) }
func (s *EventStore) GetAll() []DomainEvent { return s.events }
func (s *EventStore) Clear()                { s.events = make([]DomainEvent, 0) }
func (s *EventStore) Count() int            { return len(s.events) }
