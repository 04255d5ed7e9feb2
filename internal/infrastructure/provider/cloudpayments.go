package provider

import (
	"context"
	"fmt"

	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
)

// Compile-time check
var _ ports.Provider = (*Cloudpayments)(nil)

// Cloudpayments is the second provider variant named in spec §4.4, kept as
// a stub: no connected-account/payout flow for this gateway in
// original_source, so every capability beyond Kind reports unsupported
// rather than guessing at an integration the corpus never shows.
type Cloudpayments struct{}

// NewCloudpayments создаёт Cloudpayments stub.
func NewCloudpayments() *Cloudpayments {
	return &Cloudpayments{}
}

func (c *Cloudpayments) Kind() entities.Provider { return entities.ProviderCloudpayments }

func (c *Cloudpayments) CreateCheckoutSession(ctx context.Context, in ports.CheckoutSessionInput) (string, error) {
	return "", fmt.Errorf("%w: cloudpayments checkout not implemented", domainerrors.ErrUnsupported)
}

func (c *Cloudpayments) CreateConnectedAccount(ctx context.Context, in ports.ConnectedAccountInput) (string, error) {
	return "", fmt.Errorf("%w: cloudpayments has no connected-account flow", domainerrors.ErrUnsupported)
}

func (c *Cloudpayments) OnboardingLink(ctx context.Context, externalAccountID string) (string, error) {
	return "", fmt.Errorf("%w: cloudpayments has no connected-account flow", domainerrors.ErrUnsupported)
}

func (c *Cloudpayments) VerifyAccountReady(ctx context.Context, externalAccountID string) error {
	return fmt.Errorf("%w: cloudpayments has no connected-account flow", domainerrors.ErrUnsupported)
}

func (c *Cloudpayments) Payout(ctx context.Context, in ports.PayoutInput) (ports.PayoutResult, error) {
	return ports.PayoutResult{}, fmt.Errorf("%w: cloudpayments payout not implemented", domainerrors.ErrUnsupported)
}

func (c *Cloudpayments) VerifyWebhookSignature(payload []byte, signature string, isPayout bool) error {
	return fmt.Errorf("%w: cloudpayments webhooks not implemented", domainerrors.ErrUnsupported)
}

func (c *Cloudpayments) NormalizeWebhook(payload []byte) (ports.WebhookEvent, error) {
	return ports.WebhookEvent{}, fmt.Errorf("%w: cloudpayments webhooks not implemented", domainerrors.ErrUnsupported)
}
