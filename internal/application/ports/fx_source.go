package ports

import "context"

// FXSource is the external rate feed the FX refresher polls (spec §4.8).
// Kept behind an interface so the HTTP client concern stays swappable and
// testable, mirroring the provider gateway's own shape.
type FXSource interface {
	// FetchRates returns the advertised rates keyed by currency code, each
	// a decimal string ("1 unit of code = rate units of base"). Unknown
	// codes are filtered by the caller, not by the source.
	FetchRates(ctx context.Context) (map[string]string, error)
}
