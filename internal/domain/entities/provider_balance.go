package entities

import (
	"math/big"
	"time"

	"github.com/wallethub/core/internal/domain/valueobjects"
)

// settlementCurrency fixes each provider's native settlement currency, per
// original_source's BASE_CURRENCY_MAP.
var settlementCurrency = map[Provider]valueobjects.Currency{
	ProviderStripe: valueobjects.USD,
}

// SettlementCurrencyFor returns the fixed settlement currency for a
// provider, and false if the provider is unknown.
func SettlementCurrencyFor(p Provider) (valueobjects.Currency, bool) {
	c, ok := settlementCurrency[p]
	return c, ok
}

// PaymentProviderBalance tracks liquidity the system holds inside one
// provider, denominated in that provider's fixed settlement currency. There
// is exactly one row per provider — a process-wide singleton of record, not
// owned by any user or wallet. Unlike WalletAccount, this balance is not
// constrained to stay non-negative (§4.5: "no lower-bound check is enforced
// here"), so it's modeled as a signed decimal rather than valueobjects.Money.
type PaymentProviderBalance struct {
	id              int64
	provider        Provider
	currency        valueobjects.Currency
	availableAmount *big.Rat
	updatedAt       time.Time
}

// NewPaymentProviderBalance creates a zero-balance row for a provider. Use
// cases create it lazily when the provider's row is not found, before the
// first delta is applied via domain/services.ChangeProviderBalance.
func NewPaymentProviderBalance(provider Provider, currency valueobjects.Currency) *PaymentProviderBalance {
	return &PaymentProviderBalance{
		provider:        provider,
		currency:        currency,
		availableAmount: big.NewRat(0, 1),
		updatedAt:       time.Now(),
	}
}

// ReconstructPaymentProviderBalance hydrates a row from stored data.
func ReconstructPaymentProviderBalance(
	id int64, provider Provider, currency valueobjects.Currency, amount *big.Rat, updatedAt time.Time,
) *PaymentProviderBalance {
	return &PaymentProviderBalance{id: id, provider: provider, currency: currency, availableAmount: amount, updatedAt: updatedAt}
}

func (b *PaymentProviderBalance) ID() int64                      { return b.id }
func (b *PaymentProviderBalance) Provider() Provider              { return b.provider }
func (b *PaymentProviderBalance) Currency() valueobjects.Currency { return b.currency }
func (b *PaymentProviderBalance) UpdatedAt() time.Time            { return b.updatedAt }
func (b *PaymentProviderBalance) AssignID(id int64)               { b.id = id }

// AvailableAmount returns a copy of the balance as an exact *big.Rat; see
// AvailableDecimal for the AccountScale string form.
func (b *PaymentProviderBalance) AvailableAmount() *big.Rat {
	return new(big.Rat).Set(b.availableAmount)
}

// AvailableDecimal renders the balance at AccountScale.
func (b *PaymentProviderBalance) AvailableDecimal() string {
	return b.availableAmount.FloatString(valueobjects.AccountScale)
}

// ApplyDelta adds a signed, already-FX-normalized delta to the available
// amount (positive for deposits, negative for withdraws/payouts). No
// lower-bound check is enforced per §4.5 — the orchestrator is responsible
// for checking liquidity before issuing a withdraw.
func (b *PaymentProviderBalance) ApplyDelta(delta *big.Rat) {
	sum := new(big.Rat).Add(b.availableAmount, delta)
	b.availableAmount = roundDeltaResult(sum)
	b.updatedAt = time.Now()
}

func roundDeltaResult(r *big.Rat) *big.Rat {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(valueobjects.AccountScale), nil)
	scaled := new(big.Rat).Mul(r, new(big.Rat).SetInt(scale))
	num := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	return new(big.Rat).SetFrac(num, scale)
}
