package valueobjects

import (
	"errors"
	"fmt"
	"math/big"
)

// RateScale is the fixed number of fractional digits for Currency.rate_to_base.
const RateScale = 6

// ConversionScale is the wider intermediate precision used while computing a
// currency conversion, before the final write rounds to AccountScale.
const ConversionScale = 12

// Rate represents an FX rate: "1 unit of the quoted currency = rate units of
// the base currency (RUB)".
type Rate struct {
	value *big.Rat
}

// ErrInvalidRate is returned when a rate string can't be parsed or is non-positive.
var ErrInvalidRate = errors.New("invalid FX rate")

// NewRate parses a decimal string into a Rate, rounded to RateScale.
func NewRate(value string) (Rate, error) {
	r := new(big.Rat)
	if _, ok := r.SetString(value); !ok {
		return Rate{}, fmt.Errorf("%w: %s", ErrInvalidRate, value)
	}
	if r.Sign() <= 0 {
		return Rate{}, ErrInvalidRate
	}
	return Rate{value: roundHalfEven(r, RateScale)}, nil
}

// BaseRate is the FX anchor rate (1.0), always assigned to the base currency.
func BaseRate() Rate {
	return Rate{value: big.NewRat(1, 1)}
}

// Rat returns a copy of the underlying ratio.
func (r Rate) Rat() *big.Rat {
	return new(big.Rat).Set(r.value)
}

// Decimal renders the rate at RateScale, suitable for numeric(18,6).
func (r Rate) Decimal() string {
	return r.value.FloatString(RateScale)
}

func (r Rate) String() string {
	return r.Decimal()
}

// IsZero reports whether this Rate was never assigned a value.
func (r Rate) IsZero() bool {
	return r.value == nil
}

// Convert converts an amount denominated in fromRate's currency into the
// currency of toRate, both expressed against the same base, at
// ConversionScale precision. The caller rounds the result to AccountScale
// only at the point it becomes a persisted Money value (see
// domain/services.NormalizeToSettlement).
func Convert(amount *big.Rat, from, to Rate) (*big.Rat, error) {
	if from.IsZero() || to.IsZero() {
		return nil, ErrInvalidRate
	}
	// amount_to = amount_from * rate(from) / rate(to)
	converted := new(big.Rat).Mul(amount, from.value)
	converted.Quo(converted, to.value)
	return roundHalfEven(converted, ConversionScale), nil
}
