package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wallethub/core/internal/adapters/http/common"
	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/application/usecases/transaction"
	"github.com/wallethub/core/internal/pkg/logger"
)

// stripeSignatureHeader is the header Stripe signs the raw payload under.
const stripeSignatureHeader = "Stripe-Signature"

// WebhookHandler ingests the two Stripe webhooks: a successful deposit
// checkout and a completed payout. Every request is verified against the
// provider's own signature before anything else touches it (spec §6:
// HandleStripePayment, HandleStripePayout).
type WebhookHandler struct {
	provider       ports.Provider
	handlePayment  *transaction.HandleStripePaymentUseCase
	handlePayout   *transaction.HandleStripePayoutUseCase
}

// NewWebhookHandler wires a WebhookHandler.
func NewWebhookHandler(
	provider ports.Provider,
	handlePayment *transaction.HandleStripePaymentUseCase,
	handlePayout *transaction.HandleStripePayoutUseCase,
) *WebhookHandler {
	return &WebhookHandler{provider: provider, handlePayment: handlePayment, handlePayout: handlePayout}
}

// RegisterRoutes mounts the webhook endpoints under router. These are never
// behind the Auth middleware — the provider's signature is the only
// credential a webhook carries.
func (h *WebhookHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/webhooks/stripe/payment", h.StripePayment)
	router.POST("/webhooks/stripe/payout", h.StripePayout)
}

// StripePayment handles POST /webhooks/stripe/payment.
func (h *WebhookHandler) StripePayment(c *gin.Context) {
	h.ingest(c, false, h.handlePayment.Execute)
}

// StripePayout handles POST /webhooks/stripe/payout.
func (h *WebhookHandler) StripePayout(c *gin.Context) {
	h.ingest(c, true, h.handlePayout.Execute)
}

// ingest reads the raw body, verifies it against the provider's signature,
// normalizes it to the common webhook event shape and hands it to execute.
func (h *WebhookHandler) ingest(
	c *gin.Context,
	isPayout bool,
	execute func(ctx context.Context, cmd dtos.WebhookCommand) (*dtos.WebhookResultDTO, error),
) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.BadRequestResponse(c, "unreadable request body")
		return
	}

	signature := c.GetHeader(stripeSignatureHeader)
	if err := h.provider.VerifyWebhookSignature(payload, signature, isPayout); err != nil {
		logger.FromContext(c.Request.Context()).Warn("webhook: signature verification failed", "error", err)
		common.UnauthorizedResponse(c, "invalid webhook signature")
		return
	}

	event, err := h.provider.NormalizeWebhook(payload)
	if err != nil {
		common.ErrorToResponse(c, err)
		return
	}

	result, err := execute(c.Request.Context(), dtos.WebhookCommand{
		IdempotencyKey:    event.IdempotencyKey,
		ExternalPaymentID: event.ExternalPaymentID,
		Amount:            event.Amount.Decimal(),
		Currency:          event.Currency.Code(),
		Status:            event.Status,
		Livemode:          event.Livemode,
		TransactionID:     event.TransactionID,
		WalletID:          event.WalletID,
	})
	if err != nil {
		common.ErrorToResponse(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}
