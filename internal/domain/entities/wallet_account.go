package entities

import (
	"time"

	"github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// WalletAccount is a currency-and-kind-specific balance within a wallet.
// Created lazily on first credit. Unique on (wallet_id, currency, kind).
// Invariant: amount is never negative at any persisted point — every
// mutator returns an error instead of letting the balance go below zero.
type WalletAccount struct {
	id        int64
	walletID  int64
	currency  valueobjects.Currency
	kind      valueobjects.AccountKind
	amount    valueobjects.Money
	updatedAt time.Time
}

// NewWalletAccount creates a zero-balance account for a wallet/currency pair.
func NewWalletAccount(walletID int64, currency valueobjects.Currency) (*WalletAccount, error) {
	if currency.IsZero() {
		return nil, errors.ValidationError{Field: "currency", Message: "currency is required"}
	}
	return &WalletAccount{
		walletID:  walletID,
		currency:  currency,
		kind:      currency.Kind(),
		amount:    valueobjects.Zero(currency),
		updatedAt: time.Now(),
	}, nil
}

// ReconstructWalletAccount hydrates a WalletAccount from stored data.
func ReconstructWalletAccount(
	id, walletID int64,
	currency valueobjects.Currency,
	kind valueobjects.AccountKind,
	amount valueobjects.Money,
	updatedAt time.Time,
) *WalletAccount {
	return &WalletAccount{
		id:        id,
		walletID:  walletID,
		currency:  currency,
		kind:      kind,
		amount:    amount,
		updatedAt: updatedAt,
	}
}

func (a *WalletAccount) ID() int64                        { return a.id }
func (a *WalletAccount) WalletID() int64                   { return a.walletID }
func (a *WalletAccount) Currency() valueobjects.Currency   { return a.currency }
func (a *WalletAccount) Kind() valueobjects.AccountKind    { return a.kind }
func (a *WalletAccount) Amount() valueobjects.Money        { return a.amount }
func (a *WalletAccount) UpdatedAt() time.Time              { return a.updatedAt }
func (a *WalletAccount) AssignID(id int64)                 { a.id = id }

// Credit adds amount to the account balance.
func (a *WalletAccount) Credit(amount valueobjects.Money) error {
	if !a.currency.Equals(amount.Currency()) {
		return errors.NewBusinessRuleViolation(
			"CURRENCY_MISMATCH",
			"amount currency doesn't match account currency",
			map[string]interface{}{"accountCurrency": a.currency.Code(), "amountCurrency": amount.Currency().Code()},
		)
	}
	newAmount, err := a.amount.Add(amount)
	if err != nil {
		return err
	}
	a.amount = newAmount
	a.updatedAt = time.Now()
	return nil
}

// Debit subtracts amount from the account balance. Returns
// errors.ErrInsufficientFunds if the balance would go negative.
func (a *WalletAccount) Debit(amount valueobjects.Money) error {
	if !a.currency.Equals(amount.Currency()) {
		return errors.NewBusinessRuleViolation(
			"CURRENCY_MISMATCH",
			"amount currency doesn't match account currency",
			map[string]interface{}{"accountCurrency": a.currency.Code(), "amountCurrency": amount.Currency().Code()},
		)
	}
	sufficient, err := a.amount.GreaterThanOrEqual(amount)
	if err != nil {
		return err
	}
	if !sufficient {
		return errors.ErrInsufficientFunds
	}
	newAmount, err := a.amount.Subtract(amount)
	if err != nil {
		return err
	}
	a.amount = newAmount
	a.updatedAt = time.Now()
	return nil
}

// HasAtLeast reports whether the account balance is >= amount.
func (a *WalletAccount) HasAtLeast(amount valueobjects.Money) (bool, error) {
	return a.amount.GreaterThanOrEqual(amount)
}
