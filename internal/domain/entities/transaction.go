package entities

import (
	"time"

	"github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
	"github.com/google/uuid"
)

// OperationType is the kind of ledger movement a WalletTransaction performs.
type OperationType string

const (
	OperationDeposit  OperationType = "deposit"
	OperationWithdraw OperationType = "withdraw"
	OperationTransfer OperationType = "transfer"
	OperationConvert  OperationType = "convert"
)

func (o OperationType) IsValid() bool {
	switch o {
	case OperationDeposit, OperationWithdraw, OperationTransfer, OperationConvert:
		return true
	default:
		return false
	}
}

// Provider identifies the external payment gateway involved in a deposit or
// withdraw. Empty for transfer/convert, which never touch a provider.
type Provider string

const (
	ProviderStripe       Provider = "stripe"
	ProviderCloudpayments Provider = "cloudpayments"
)

// TransactionStatus is the lifecycle state of a WalletTransaction. Valid
// transitions form a DAG: pending → processed → {completed|failed|reversed};
// pending may also go straight to failed; cancelled may only be entered from
// pending.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusProcessed  TransactionStatus = "processed"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusFailed     TransactionStatus = "failed"
	TransactionStatusReversed   TransactionStatus = "reversed"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
)

func (s TransactionStatus) IsFinal() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusReversed, TransactionStatusCancelled:
		return true
	default:
		return false
	}
}

// Transaction is the append-only record of an intent to move funds (the
// spec calls it WalletTransaction). Only status and external_id may change
// after creation.
type Transaction struct {
	id             int64
	userID         int64
	walletID       int64
	fromWalletID   *int64
	toWalletID     *int64
	currency       *valueobjects.Currency
	fromCurrency   *valueobjects.Currency
	toCurrency     *valueobjects.Currency
	amount         valueobjects.Money
	operation      OperationType
	status         TransactionStatus
	correlationID  uuid.UUID
	externalID     string
	idempotencyKey string
	provider       Provider
	date           time.Time
}

// NewDepositOrWithdraw creates a pending deposit/withdraw transaction
// (single-leg, single currency, optionally provider-bound).
func NewDepositOrWithdraw(
	operation OperationType,
	userID, walletID int64,
	currency valueobjects.Currency,
	amount valueobjects.Money,
	provider Provider,
	idempotencyKey string,
) (*Transaction, error) {
	if operation != OperationDeposit && operation != OperationWithdraw {
		return nil, errors.ErrInvalidTransactionType
	}
	if err := validateCommon(amount, idempotencyKey); err != nil {
		return nil, err
	}
	return &Transaction{
		userID:         userID,
		walletID:       walletID,
		currency:       &currency,
		amount:         amount,
		operation:      operation,
		status:         TransactionStatusPending,
		correlationID:  uuid.New(),
		idempotencyKey: idempotencyKey,
		provider:       provider,
		date:           time.Now(),
	}, nil
}

// NewTransferTransaction creates a processed transfer transaction between
// two wallets of the same user-or-counterparty in the given currency. Per
// §4.6, Transfer is created directly in processed status (the worker's
// result consumer advances it to completed/failed).
func NewTransferTransaction(
	userID, fromWalletID, toWalletID int64,
	currency valueobjects.Currency,
	amount valueobjects.Money,
	idempotencyKey string,
) (*Transaction, error) {
	if err := validateCommon(amount, idempotencyKey); err != nil {
		return nil, err
	}
	return &Transaction{
		userID:         userID,
		walletID:       fromWalletID,
		fromWalletID:   &fromWalletID,
		toWalletID:     &toWalletID,
		currency:       &currency,
		amount:         amount,
		operation:      OperationTransfer,
		status:         TransactionStatusProcessed,
		correlationID:  uuid.New(),
		idempotencyKey: idempotencyKey,
		date:           time.Now(),
	}, nil
}

// NewConvertTransaction creates a processed convert transaction within a
// single wallet, carrying both currency legs.
func NewConvertTransaction(
	userID, walletID int64,
	from, to valueobjects.Currency,
	amount valueobjects.Money,
	idempotencyKey string,
) (*Transaction, error) {
	if err := validateCommon(amount, idempotencyKey); err != nil {
		return nil, err
	}
	return &Transaction{
		userID:         userID,
		walletID:       walletID,
		fromCurrency:   &from,
		toCurrency:     &to,
		amount:         amount,
		operation:      OperationConvert,
		status:         TransactionStatusProcessed,
		correlationID:  uuid.New(),
		idempotencyKey: idempotencyKey,
		date:           time.Now(),
	}, nil
}

func validateCommon(amount valueobjects.Money, idempotencyKey string) error {
	if idempotencyKey == "" {
		return errors.ValidationError{Field: "idempotency_key", Message: "idempotency key is required"}
	}
	if !amount.IsPositive() {
		return errors.NewBusinessRuleViolation(
			"INVALID_AMOUNT",
			"transaction amount must be positive",
			map[string]interface{}{"amount": amount.String()},
		)
	}
	return nil
}

// ReconstructTransaction hydrates a Transaction from stored data.
func ReconstructTransaction(
	id, userID, walletID int64,
	fromWalletID, toWalletID *int64,
	currency, fromCurrency, toCurrency *valueobjects.Currency,
	amount valueobjects.Money,
	operation OperationType,
	status TransactionStatus,
	correlationID uuid.UUID,
	externalID, idempotencyKey string,
	provider Provider,
	date time.Time,
) *Transaction {
	return &Transaction{
		id: id, userID: userID, walletID: walletID,
		fromWalletID: fromWalletID, toWalletID: toWalletID,
		currency: currency, fromCurrency: fromCurrency, toCurrency: toCurrency,
		amount: amount, operation: operation, status: status,
		correlationID: correlationID, externalID: externalID,
		idempotencyKey: idempotencyKey, provider: provider, date: date,
	}
}

func (t *Transaction) ID() int64                             { return t.id }
func (t *Transaction) UserID() int64                         { return t.userID }
func (t *Transaction) WalletID() int64                       { return t.walletID }
func (t *Transaction) FromWalletID() *int64                  { return t.fromWalletID }
func (t *Transaction) ToWalletID() *int64                     { return t.toWalletID }
func (t *Transaction) Currency() *valueobjects.Currency       { return t.currency }
func (t *Transaction) FromCurrency() *valueobjects.Currency   { return t.fromCurrency }
func (t *Transaction) ToCurrency() *valueobjects.Currency     { return t.toCurrency }
func (t *Transaction) Amount() valueobjects.Money             { return t.amount }
func (t *Transaction) Operation() OperationType               { return t.operation }
func (t *Transaction) Status() TransactionStatus              { return t.status }
func (t *Transaction) CorrelationID() uuid.UUID                { return t.correlationID }
func (t *Transaction) ExternalID() string                     { return t.externalID }
func (t *Transaction) IdempotencyKey() string                 { return t.idempotencyKey }
func (t *Transaction) Provider() Provider                     { return t.provider }
func (t *Transaction) Date() time.Time                        { return t.date }
func (t *Transaction) AssignID(id int64)                      { t.id = id }

// MarkProcessed transitions pending → processed (admission-time: checkout
// session/payout issued, or transfer/convert created directly as processed).
func (t *Transaction) MarkProcessed() error {
	if t.status != TransactionStatusPending {
		return errors.NewBusinessRuleViolation(
			"INVALID_STATUS_TRANSITION",
			"only a pending transaction can become processed",
			map[string]interface{}{"currentStatus": t.status},
		)
	}
	t.status = TransactionStatusProcessed
	return nil
}

// MarkCompleted transitions processed → completed. Only the worker-result
// consumer calls this — no handler on the request path ever does (Open
// Question 1/2).
func (t *Transaction) MarkCompleted() error {
	if t.status != TransactionStatusProcessed {
		return errors.NewBusinessRuleViolation(
			"INVALID_STATUS_TRANSITION",
			"only a processed transaction can complete",
			map[string]interface{}{"currentStatus": t.status},
		)
	}
	t.status = TransactionStatusCompleted
	return nil
}

// MarkFailed transitions pending|processed → failed.
func (t *Transaction) MarkFailed() error {
	if t.status != TransactionStatusPending && t.status != TransactionStatusProcessed {
		return errors.ErrTransactionAlreadyProcessed
	}
	t.status = TransactionStatusFailed
	return nil
}

// MarkReversed transitions processed → reversed (compensating event).
func (t *Transaction) MarkReversed() error {
	if t.status != TransactionStatusProcessed {
		return errors.NewBusinessRuleViolation(
			"INVALID_STATUS_TRANSITION",
			"only a processed transaction can be reversed",
			map[string]interface{}{"currentStatus": t.status},
		)
	}
	t.status = TransactionStatusReversed
	return nil
}

// Cancel transitions pending → cancelled. Never valid from any other state.
func (t *Transaction) Cancel() error {
	if t.status != TransactionStatusPending {
		return errors.NewBusinessRuleViolation(
			"CANNOT_CANCEL_NON_PENDING_TRANSACTION",
			"only a pending transaction can be cancelled",
			map[string]interface{}{"currentStatus": t.status},
		)
	}
	t.status = TransactionStatusCancelled
	return nil
}

// SetExternalID records the provider-side identifier (payment intent id,
// payout id). Valid at any non-final status.
func (t *Transaction) SetExternalID(externalID string) error {
	if t.status.IsFinal() {
		return errors.ErrTransactionAlreadyProcessed
	}
	t.externalID = externalID
	return nil
}
