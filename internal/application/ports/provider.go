package ports

import (
	"context"

	"github.com/wallethub/core/internal/domain/entities"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// CheckoutSessionInput describes a deposit-init request to a provider.
type CheckoutSessionInput struct {
	UserID        int64
	WalletID      int64
	TransactionID int64
	Amount        valueobjects.Money
}

// ConnectedAccountInput describes a connected-account creation request.
type ConnectedAccountInput struct {
	UserID int64
}

// PayoutInput describes a withdraw-settlement request to a provider.
type PayoutInput struct {
	UserID            int64
	WalletID          int64
	TransactionID     int64
	ExternalAccountID string
	Amount            valueobjects.Money
}

// PayoutResult carries the provider-side identifiers of an issued payout.
type PayoutResult struct {
	ExternalID string
}

// WebhookEvent is the normalized shape every provider's webhook payload is
// mapped to before the orchestrator touches it (spec §4.4).
type WebhookEvent struct {
	IdempotencyKey   string
	ExternalPaymentID string
	Amount           valueobjects.Money
	Currency         valueobjects.Currency
	Status           string
	Livemode         bool
	TransactionID    int64
	WalletID         int64
}

// Provider is the polymorphic gateway capability set (spec §4.4). Each
// variant (stripe, cloudpayments) implements the full interface; dispatch
// happens through a compile-time-exhaustive factory switch, never a
// string-keyed map.
type Provider interface {
	Kind() entities.Provider

	CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (redirectURL string, err error)
	CreateConnectedAccount(ctx context.Context, in ConnectedAccountInput) (externalAccountID string, err error)
	OnboardingLink(ctx context.Context, externalAccountID string) (redirectURL string, err error)
	VerifyAccountReady(ctx context.Context, externalAccountID string) error
	Payout(ctx context.Context, in PayoutInput) (PayoutResult, error)

	// VerifyWebhookSignature authenticates payload against signature using
	// the provider-specific secret for the payment or payout webhook.
	// Callers MUST call this before any side effect.
	VerifyWebhookSignature(payload []byte, signature string, isPayout bool) error

	// NormalizeWebhook maps a verified payload to the common WebhookEvent
	// shape, dividing minor-unit amounts by 100.
	NormalizeWebhook(payload []byte) (WebhookEvent, error)
}
