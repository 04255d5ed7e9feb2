package provider

import (
	"fmt"

	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
)

// NewProvider dispatches to the concrete ports.Provider variant for kind
// through a compile-time-exhaustive switch — never a string-keyed map
// (§9 redesign flag). Adding a new provider means adding a case here, not a
// registry entry that can silently miss a variant.
func NewProvider(kind entities.Provider, stripe *Stripe, cloudpayments *Cloudpayments) (ports.Provider, error) {
	switch kind {
	case entities.ProviderStripe:
		return stripe, nil
	case entities.ProviderCloudpayments:
		return cloudpayments, nil
	default:
		return nil, fmt.Errorf("unknown payment provider: %q", kind)
	}
}
