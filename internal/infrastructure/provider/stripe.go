package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// Compile-time check
var _ ports.Provider = (*Stripe)(nil)

// StripeConfig carries the settlement/webhook secrets and redirect URLs
// Stripe's checkout and Connect flows need.
type StripeConfig struct {
	SuccessURL           string
	CancelURL            string
	WebhookPaymentSecret string
	WebhookPayoutSecret  string
}

// Stripe implements ports.Provider against StripeGateway's five operations,
// ported from original_source's StripeGateway.py.
type Stripe struct {
	client StripeClient
	cfg    StripeConfig
}

// NewStripe создаёт Stripe variant поверх уже сконфигурированного StripeClient.
func NewStripe(client StripeClient, cfg StripeConfig) *Stripe {
	return &Stripe{client: client, cfg: cfg}
}

func (s *Stripe) Kind() entities.Provider { return entities.ProviderStripe }

func (s *Stripe) CreateCheckoutSession(ctx context.Context, in ports.CheckoutSessionInput) (string, error) {
	url, err := s.client.CreateCheckoutSession(ctx, CheckoutSessionParams{
		AmountMinor:   in.Amount.MinorUnits(),
		Currency:      strings.ToLower(in.Amount.Currency().Code()),
		SuccessURL:    s.cfg.SuccessURL,
		CancelURL:     s.cfg.CancelURL,
		WalletID:      in.WalletID,
		TransactionID: in.TransactionID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrProvider, err)
	}
	return url, nil
}

func (s *Stripe) CreateConnectedAccount(ctx context.Context, in ports.ConnectedAccountInput) (string, error) {
	accountID, err := s.client.CreateAccount(ctx, strconv.FormatInt(in.UserID, 10))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrProvider, err)
	}
	return accountID, nil
}

func (s *Stripe) OnboardingLink(ctx context.Context, externalAccountID string) (string, error) {
	link, err := s.client.CreateAccountLink(ctx, externalAccountID, s.cfg.SuccessURL, s.cfg.SuccessURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrProvider, err)
	}
	return link, nil
}

func (s *Stripe) VerifyAccountReady(ctx context.Context, externalAccountID string) error {
	disabledReason, err := s.client.RetrieveAccount(ctx, externalAccountID)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrProvider, err)
	}
	if disabledReason != "" {
		return fmt.Errorf("%w: stripe account not ready: %s", domainerrors.ErrUnsupported, disabledReason)
	}
	return nil
}

func (s *Stripe) Payout(ctx context.Context, in ports.PayoutInput) (ports.PayoutResult, error) {
	currency := strings.ToLower(in.Amount.Currency().Code())
	amountMinor := in.Amount.MinorUnits()

	if _, err := s.client.CreateTransfer(ctx, amountMinor, currency, in.ExternalAccountID); err != nil {
		return ports.PayoutResult{}, fmt.Errorf("%w: transfer: %v", domainerrors.ErrProvider, err)
	}
	payoutID, _, err := s.client.CreatePayout(ctx, amountMinor, currency, in.ExternalAccountID)
	if err != nil {
		return ports.PayoutResult{}, fmt.Errorf("%w: payout: %v", domainerrors.ErrProvider, err)
	}
	return ports.PayoutResult{ExternalID: payoutID}, nil
}

// VerifyWebhookSignature authenticates payload against Stripe's
// `Stripe-Signature` header scheme: "t=<timestamp>,v1=<hex hmac>" computed
// over "<timestamp>.<payload>" with the endpoint secret.
func (s *Stripe) VerifyWebhookSignature(payload []byte, signature string, isPayout bool) error {
	secret := s.cfg.WebhookPaymentSecret
	if isPayout {
		secret = s.cfg.WebhookPayoutSecret
	}

	var timestamp, v1 string
	for _, part := range strings.Split(signature, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			v1 = kv[1]
		}
	}
	if timestamp == "" || v1 == "" {
		return fmt.Errorf("%w: malformed stripe signature header", domainerrors.ErrProvider)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(expected), []byte(v1)) != 1 {
		return fmt.Errorf("%w: signature mismatch", domainerrors.ErrProvider)
	}
	return nil
}

// stripeWebhookPayload is the subset of a Stripe event this system reads.
type stripeWebhookPayload struct {
	ID       string `json:"id"`
	LiveMode bool   `json:"livemode"`
	Data     struct {
		Object struct {
			ID       string `json:"id"`
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Status   string `json:"status"`
			Metadata struct {
				WalletID      string `json:"wallet_id"`
				TransactionID string `json:"transaction_id"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// NormalizeWebhook maps a verified Stripe event payload to the common
// WebhookEvent shape, dividing the minor-unit amount by 100.
func (s *Stripe) NormalizeWebhook(payload []byte) (ports.WebhookEvent, error) {
	var parsed stripeWebhookPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return ports.WebhookEvent{}, fmt.Errorf("%w: %v", domainerrors.ErrProvider, err)
	}

	currency, err := valueobjects.NewCurrency(strings.ToUpper(parsed.Data.Object.Currency))
	if err != nil {
		return ports.WebhookEvent{}, fmt.Errorf("%w: unsupported currency %q", domainerrors.ErrUnsupported, parsed.Data.Object.Currency)
	}
	amount, err := valueobjects.NewMoneyFromMinorUnits(parsed.Data.Object.Amount, currency)
	if err != nil {
		return ports.WebhookEvent{}, fmt.Errorf("%w: %v", domainerrors.ErrProvider, err)
	}

	walletID, _ := strconv.ParseInt(parsed.Data.Object.Metadata.WalletID, 10, 64)
	transactionID, _ := strconv.ParseInt(parsed.Data.Object.Metadata.TransactionID, 10, 64)

	return ports.WebhookEvent{
		IdempotencyKey:    parsed.ID,
		ExternalPaymentID: parsed.Data.Object.ID,
		Amount:            amount,
		Currency:          currency,
		Status:            parsed.Data.Object.Status,
		Livemode:          parsed.LiveMode,
		TransactionID:     transactionID,
		WalletID:          walletID,
	}, nil
}
