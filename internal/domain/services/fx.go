// Package services holds domain logic that spans more than one entity and
// so doesn't belong as a method on any single one of them.
package services

import (
	"github.com/wallethub/core/internal/domain/entities"
	"github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// RateLookup resolves the current FX row for a currency code. Implemented
// by the application layer against the currency repository; kept as a
// narrow function type here so this package has no storage dependency.
type RateLookup func(code string) (valueobjects.Rate, error)

// ConvertAmount converts amount from one currency to another using the
// rates returned by lookup, at ConversionScale precision, rounding to
// AccountScale only at the end — the single conversion formula used both
// by the worker's convert dispatch (§4.7) and by NormalizeToSettlement
// below, so there is exactly one place that implements
// "amount * rate(from) / rate(to)".
func ConvertAmount(amount valueobjects.Money, to valueobjects.Currency, lookup RateLookup) (valueobjects.Money, error) {
	fromRate, err := lookup(amount.Currency().Code())
	if err != nil {
		return valueobjects.Money{}, err
	}
	toRate, err := lookup(to.Code())
	if err != nil {
		return valueobjects.Money{}, err
	}

	converted, err := valueobjects.Convert(amount.Rat(), fromRate, toRate)
	if err != nil {
		return valueobjects.Money{}, err
	}

	return valueobjects.NewMoneyFromRat(converted, to)
}

// NormalizeToSettlement converts amount into a provider's fixed settlement
// currency, per §4.5's provider-balance formula and the withdraw-admission
// liquidity check in §4.6/§9 Open Question 3. Both call sites share this
// one function instead of re-deriving the formula independently.
func NormalizeToSettlement(amount valueobjects.Money, provider entities.Provider, lookup RateLookup) (valueobjects.Money, error) {
	settlementCurrency, ok := entities.SettlementCurrencyFor(provider)
	if !ok {
		return valueobjects.Money{}, nil
	}
	if amount.Currency().Equals(settlementCurrency) {
		return amount, nil
	}
	return ConvertAmount(amount, settlementCurrency, lookup)
}
