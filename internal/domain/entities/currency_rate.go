package entities

import (
	"time"

	"github.com/wallethub/core/internal/domain/valueobjects"
)

// CurrencyRate is the persisted FX row: "1 unit of Code = RateToBase units
// of the base currency (RUB)". Maintained by the FX refresher; RUB's row is
// always rate 1.0.
type CurrencyRate struct {
	id         int64
	code       valueobjects.Currency
	rateToBase valueobjects.Rate
	updatedAt  time.Time
}

// NewCurrencyRate constructs a CurrencyRate row.
func NewCurrencyRate(code valueobjects.Currency, rate valueobjects.Rate) *CurrencyRate {
	return &CurrencyRate{code: code, rateToBase: rate, updatedAt: time.Now()}
}

// ReconstructCurrencyRate hydrates a CurrencyRate from stored data.
func ReconstructCurrencyRate(id int64, code valueobjects.Currency, rate valueobjects.Rate, updatedAt time.Time) *CurrencyRate {
	return &CurrencyRate{id: id, code: code, rateToBase: rate, updatedAt: updatedAt}
}

func (r *CurrencyRate) ID() int64                      { return r.id }
func (r *CurrencyRate) Code() valueobjects.Currency     { return r.code }
func (r *CurrencyRate) RateToBase() valueobjects.Rate   { return r.rateToBase }
func (r *CurrencyRate) UpdatedAt() time.Time            { return r.updatedAt }
func (r *CurrencyRate) AssignID(id int64)               { r.id = id }

// Refresh updates the rate to a newly-fetched value, bumping updated_at.
func (r *CurrencyRate) Refresh(rate valueobjects.Rate) {
	r.rateToBase = rate
	r.updatedAt = time.Now()
}
