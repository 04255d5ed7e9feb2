// Package provider implements ports.Provider, the polymorphic payment
// gateway capability set, with one file per variant (spec §4.4).
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// StripeClient is the narrow outbound-HTTP port the Stripe variant runs
// against. No Stripe Go SDK appears anywhere in the example corpus, so this
// stays a small net/http-backed interface — the same "keep outbound
// integrations behind a narrow port" shape the teacher uses for its own
// external collaborators.
type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutSessionParams) (sessionURL string, err error)
	CreateAccount(ctx context.Context, email string) (accountID string, err error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (linkURL string, err error)
	RetrieveAccount(ctx context.Context, accountID string) (disabledReason string, err error)
	CreateTransfer(ctx context.Context, amountMinor int64, currency, destinationAccountID string) (transferID string, err error)
	CreatePayout(ctx context.Context, amountMinor int64, currency, accountID string) (payoutID, status string, err error)
}

// CheckoutSessionParams mirrors the fields StripeGateway.create_checkout_session
// sends on the Stripe Checkout Session API.
type CheckoutSessionParams struct {
	AmountMinor   int64
	Currency      string
	SuccessURL    string
	CancelURL     string
	WalletID      int64
	TransactionID int64
}

// HTTPStripeClient implements StripeClient against the real Stripe REST API
// using net/http and the account secret key for Basic auth, per Stripe's
// wire convention (form-encoded bodies, secret key as the basic-auth user).
type HTTPStripeClient struct {
	httpClient *http.Client
	secretKey  string
	baseURL    string
}

// NewHTTPStripeClient создаёт HTTPStripeClient с указанным секретным ключом.
func NewHTTPStripeClient(secretKey string) *HTTPStripeClient {
	return &HTTPStripeClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		secretKey:  secretKey,
		baseURL:    "https://api.stripe.com/v1",
	}
}

func (c *HTTPStripeClient) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body *bytes.Buffer
	if form != nil {
		body = bytes.NewBufferString(form.Encode())
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stripe request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("stripe request %s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPStripeClient) CreateCheckoutSession(ctx context.Context, in CheckoutSessionParams) (string, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", in.SuccessURL)
	form.Set("cancel_url", in.CancelURL)
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", in.Currency)
	form.Set("line_items[0][price_data][product_data][name]", "Wallet top-up")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(in.AmountMinor, 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("metadata[wallet_id]", strconv.FormatInt(in.WalletID, 10))
	form.Set("metadata[transaction_id]", strconv.FormatInt(in.TransactionID, 10))
	form.Set("payment_intent_data[metadata][wallet_id]", strconv.FormatInt(in.WalletID, 10))
	form.Set("payment_intent_data[metadata][transaction_id]", strconv.FormatInt(in.TransactionID, 10))

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/checkout/sessions", form, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *HTTPStripeClient) CreateAccount(ctx context.Context, email string) (string, error) {
	form := url.Values{}
	form.Set("type", "express")
	form.Set("email", email)
	form.Set("capabilities[transfers][requested]", "true")
	form.Set("settings[payouts][schedule][interval]", "manual")

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/accounts", form, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *HTTPStripeClient) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	form := url.Values{}
	form.Set("account", accountID)
	form.Set("type", "account_onboarding")
	form.Set("refresh_url", refreshURL)
	form.Set("return_url", returnURL)

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/account_links", form, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *HTTPStripeClient) RetrieveAccount(ctx context.Context, accountID string) (string, error) {
	var out struct {
		Requirements struct {
			DisabledReason string `json:"disabled_reason"`
		} `json:"requirements"`
	}
	path := fmt.Sprintf("/accounts/%s?expand[]=requirements", accountID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.Requirements.DisabledReason, nil
}

func (c *HTTPStripeClient) CreateTransfer(ctx context.Context, amountMinor int64, currency, destinationAccountID string) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	form.Set("destination", destinationAccountID)
	form.Set("description", "Wallet withdrawal")

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/transfers", form, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *HTTPStripeClient) CreatePayout(ctx context.Context, amountMinor int64, currency, accountID string) (string, string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	form.Set("method", "standard")

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	// Payouts to a connected account are made with the Stripe-Account header
	// rather than a body field; the HTTP transport sets it alongside the
	// basic-auth secret key.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payouts", bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", "", err
	}
	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Stripe-Account", accountID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("stripe request POST /payouts: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("stripe request POST /payouts: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", err
	}
	return out.ID, out.Status, nil
}
