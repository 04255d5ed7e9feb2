// Package valueobjects - Money is one of the most critical value objects in financial systems.
// It combines amount and currency to prevent common bugs like mixing currencies.
package valueobjects

import (
	"errors"
	"fmt"
	"math/big"
)

// AccountScale is the fixed number of fractional digits for every
// WalletAccount balance and WalletTransaction amount, fiat or crypto alike
// (decimal(18,2) per the data model — unlike many wallet systems, this one
// does not give crypto extra decimal places).
const AccountScale = 2

// Money represents a monetary amount with its currency.
// Uses big.Rat for arbitrary precision to avoid floating-point errors;
// rounded to AccountScale only at construction and at arithmetic boundaries
// that produce a new persisted value.
type Money struct {
	amount   *big.Rat
	currency Currency
}

// Common domain errors for Money operations.
var (
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrCurrencyMismatch   = errors.New("cannot operate on different currencies")
	ErrInsufficientAmount = errors.New("insufficient amount")
	ErrInvalidAmount      = errors.New("invalid amount format")
)

// NewMoney creates a Money instance from a decimal string amount, rounded
// half-even to AccountScale.
func NewMoney(amountStr string, currency Currency) (Money, error) {
	amount := new(big.Rat)
	if _, ok := amount.SetString(amountStr); !ok {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amountStr)
	}

	if amount.Sign() < 0 {
		return Money{}, ErrNegativeAmount
	}

	return Money{amount: roundHalfEven(amount, AccountScale), currency: currency}, nil
}

// NewMoneyFromRat builds Money from an already-computed big.Rat, rounding
// half-even to AccountScale. Used at arithmetic boundaries (FX conversion,
// minor-unit division) where the input may carry wider precision.
func NewMoneyFromRat(amount *big.Rat, currency Currency) (Money, error) {
	if amount.Sign() < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: roundHalfEven(amount, AccountScale), currency: currency}, nil
}

// NewMoneyFromMinorUnits builds Money from an integer count of minor units
// (e.g. Stripe cents), dividing by 100 exactly, per spec §4.4.
func NewMoneyFromMinorUnits(minorUnits int64, currency Currency) (Money, error) {
	if minorUnits < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{amount: big.NewRat(minorUnits, 100), currency: currency}, nil
}

// Zero creates a zero money amount for the given currency.
func Zero(currency Currency) Money {
	return Money{amount: big.NewRat(0, 1), currency: currency}
}

// Currency returns the currency of this money.
func (m Money) Currency() Currency {
	return m.currency
}

// Rat returns the amount as a big.Rat. Returns a copy to preserve immutability.
func (m Money) Rat() *big.Rat {
	return new(big.Rat).Set(m.amount)
}

// String returns a human-readable representation, e.g. "100.50 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.FloatString(AccountScale), m.currency.Code())
}

// Decimal returns the fixed-point decimal string at AccountScale, suitable
// for the database's numeric(18,2) column and for wire JSON.
func (m Money) Decimal() string {
	return m.amount.FloatString(AccountScale)
}

// Float64 returns the amount as float64. Display only — never use for
// arithmetic that feeds back into the ledger.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// MinorUnits returns the amount as an integer count of minor units
// (cents), the inverse of NewMoneyFromMinorUnits.
func (m Money) MinorUnits() int64 {
	scaled := new(big.Rat).Mul(m.amount, big.NewRat(100, 1))
	return scaled.Num().Int64() / scaled.Denom().Int64()
}

// Add returns a new Money with the sum of two amounts. Cannot add different
// currencies.
func (m Money) Add(other Money) (Money, error) {
	if !m.currency.Equals(other.currency) {
		return Money{}, ErrCurrencyMismatch
	}
	sum := new(big.Rat).Add(m.amount, other.amount)
	return Money{amount: roundHalfEven(sum, AccountScale), currency: m.currency}, nil
}

// Subtract returns a new Money with the difference. Errors if the result
// would be negative — callers that need an unchecked signed delta should
// work with big.Rat directly (see domain/services).
func (m Money) Subtract(other Money) (Money, error) {
	if !m.currency.Equals(other.currency) {
		return Money{}, ErrCurrencyMismatch
	}
	diff := new(big.Rat).Sub(m.amount, other.amount)
	if diff.Sign() < 0 {
		return Money{}, ErrInsufficientAmount
	}
	return Money{amount: roundHalfEven(diff, AccountScale), currency: m.currency}, nil
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.Sign() == 0
}

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.Sign() > 0
}

// GreaterThan checks if this money is greater than another.
func (m Money) GreaterThan(other Money) (bool, error) {
	if !m.currency.Equals(other.currency) {
		return false, ErrCurrencyMismatch
	}
	return m.amount.Cmp(other.amount) > 0, nil
}

// GreaterThanOrEqual checks if this money is >= another.
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if !m.currency.Equals(other.currency) {
		return false, ErrCurrencyMismatch
	}
	return m.amount.Cmp(other.amount) >= 0, nil
}

// LessThan checks if this money is less than another.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.currency.Equals(other.currency) {
		return false, ErrCurrencyMismatch
	}
	return m.amount.Cmp(other.amount) < 0, nil
}

// Equals checks if two money values are equal (amount and currency).
func (m Money) Equals(other Money) bool {
	return m.currency.Equals(other.currency) && m.amount.Cmp(other.amount) == 0
}

// roundHalfEven rounds r to the given number of fractional decimal digits
// using round-half-to-even (banker's rounding), per §4.7's numeric semantics.
func roundHalfEven(r *big.Rat, scale int) *big.Rat {
	scaleFactor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	scaled := new(big.Rat).Mul(r, new(big.Rat).SetInt(scaleFactor))

	num := scaled.Num()
	den := scaled.Denom()

	quotient := new(big.Int)
	remainder := new(big.Int)
	quotient.QuoRem(num, den, remainder)

	if remainder.Sign() != 0 {
		twiceRemainder := new(big.Int).Mul(remainder, big.NewInt(2))
		twiceRemainderAbs := new(big.Int).Abs(twiceRemainder)
		denAbs := new(big.Int).Abs(den)
		cmp := twiceRemainderAbs.Cmp(denAbs)

		roundUp := false
		switch {
		case cmp > 0:
			roundUp = true
		case cmp == 0:
			// Exactly halfway: round to even.
			roundUp = quotient.Bit(0) == 1
		}

		if roundUp {
			if num.Sign() < 0 {
				quotient.Sub(quotient, big.NewInt(1))
			} else {
				quotient.Add(quotient, big.NewInt(1))
			}
		}
	}

	return new(big.Rat).SetFrac(quotient, scaleFactor)
}
