package services

import (
	"github.com/wallethub/core/internal/domain/entities"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// ChangeProviderBalance applies amount to a provider's liquidity row, per
// §4.5: normalize into the provider's fixed settlement currency using the
// current FX rate if it differs from amount's currency, then apply with no
// lower-bound check (the orchestrator checks liquidity before issuing a
// withdraw, via NormalizeToSettlement). credit selects the sign: true for a
// deposit webhook (+amount), false for a withdraw/payout webhook (-amount).
// balance is mutated in place; the caller persists it inside the same
// transaction as the triggering transaction-status update.
func ChangeProviderBalance(
	balance *entities.PaymentProviderBalance,
	amount valueobjects.Money,
	credit bool,
	lookup RateLookup,
) error {
	settlementCurrency, ok := entities.SettlementCurrencyFor(balance.Provider())
	if !ok {
		settlementCurrency = balance.Currency()
	}

	deltaRat := amount.Rat()
	if !amount.Currency().Equals(settlementCurrency) {
		fromRate, err := lookup(amount.Currency().Code())
		if err != nil {
			return err
		}
		toRate, err := lookup(settlementCurrency.Code())
		if err != nil {
			return err
		}
		deltaRat, err = valueobjects.Convert(deltaRat, fromRate, toRate)
		if err != nil {
			return err
		}
	}

	if !credit {
		deltaRat.Neg(deltaRat)
	}

	balance.ApplyDelta(deltaRat)
	return nil
}
