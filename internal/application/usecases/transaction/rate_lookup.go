package transaction

import (
	"context"

	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/services"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// rateLookup adapts a CurrencyRateRepository to domain/services.RateLookup,
// the shared signature ConvertAmount/NormalizeToSettlement/
// ChangeProviderBalance all take.
func rateLookup(ctx context.Context, rates ports.CurrencyRateRepository) services.RateLookup {
	return func(code string) (valueobjects.Rate, error) {
		row, err := rates.FindByCode(ctx, code)
		if err != nil {
			return valueobjects.Rate{}, err
		}
		return row.RateToBase(), nil
	}
}
