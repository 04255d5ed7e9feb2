// Package handlers holds the HTTP adapters for the nine wallet RPC
// operations and the two Stripe webhook endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wallethub/core/internal/adapters/http/common"
	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/usecases/transaction"
)

// TransactionHandler exposes the funds-movement RPCs: Transfer, Convert,
// CreatePaymentTransaction, ConnectAccountStripe, CreateWithdrawTransaction
// (spec §6). Every handler only admits the request — the actual ledger
// mutation happens later, off the request path, inside the wallet worker.
type TransactionHandler struct {
	transfer        *transaction.TransferUseCase
	convert         *transaction.ConvertUseCase
	createPayment   *transaction.CreatePaymentTransactionUseCase
	connectStripe   *transaction.ConnectAccountStripeUseCase
	createWithdraw  *transaction.CreateWithdrawTransactionUseCase
}

// NewTransactionHandler wires a TransactionHandler.
func NewTransactionHandler(
	transfer *transaction.TransferUseCase,
	convert *transaction.ConvertUseCase,
	createPayment *transaction.CreatePaymentTransactionUseCase,
	connectStripe *transaction.ConnectAccountStripeUseCase,
	createWithdraw *transaction.CreateWithdrawTransactionUseCase,
) *TransactionHandler {
	return &TransactionHandler{
		transfer:       transfer,
		convert:        convert,
		createPayment:  createPayment,
		connectStripe:  connectStripe,
		createWithdraw: createWithdraw,
	}
}

// RegisterRoutes mounts the funds-movement RPCs under router.
func (h *TransactionHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/transfers", h.Transfer)
	router.POST("/conversions", h.Convert)
	router.POST("/deposits", h.CreatePaymentTransaction)
	router.POST("/withdrawals", h.CreateWithdrawTransaction)
	router.POST("/providers/stripe/connect", h.ConnectAccountStripe)
}

// transferRequest is the body of POST /transfers.
type transferRequest struct {
	ToUserID       int64  `json:"to_user_id" binding:"required,gt=0"`
	Amount         string `json:"amount" binding:"required,money_amount"`
	Currency       string `json:"currency" binding:"required,currency_code"`
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
}

// Transfer handles POST /transfers.
func (h *TransactionHandler) Transfer(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req transferRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.transfer.Execute(c.Request.Context(), dtos.TransferCommand{
		FromUserID:     userID,
		ToUserID:       req.ToUserID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		common.ErrorToResponse(c, err)
		return
	}

	common.Success(c, http.StatusAccepted, result)
}

// convertRequest is the body of POST /conversions.
type convertRequest struct {
	Amount         string `json:"amount" binding:"required,money_amount"`
	FromCurrency   string `json:"from_currency" binding:"required,currency_code"`
	ToCurrency     string `json:"to_currency" binding:"required,currency_code"`
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
}

// Convert handles POST /conversions.
func (h *TransactionHandler) Convert(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req convertRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.convert.Execute(c.Request.Context(), dtos.ConvertCommand{
		UserID:         userID,
		Amount:         req.Amount,
		FromCurrency:   req.FromCurrency,
		ToCurrency:     req.ToCurrency,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		common.ErrorToResponse(c, err)
		return
	}

	common.Success(c, http.StatusAccepted, result)
}

// createPaymentTransactionRequest is the body of POST /deposits.
type createPaymentTransactionRequest struct {
	Amount         string `json:"amount" binding:"required,money_amount"`
	Currency       string `json:"currency" binding:"required,currency_code"`
	Gateway        string `json:"gateway" binding:"required,oneof=stripe cloudpayments"`
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
}

// CreatePaymentTransaction handles POST /deposits.
func (h *TransactionHandler) CreatePaymentTransaction(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req createPaymentTransactionRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.createPayment.Execute(c.Request.Context(), dtos.CreatePaymentTransactionCommand{
		UserID:         userID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Gateway:        req.Gateway,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		common.ErrorToResponse(c, err)
		return
	}

	common.Success(c, http.StatusCreated, result)
}

// createWithdrawTransactionRequest is the body of POST /withdrawals.
type createWithdrawTransactionRequest struct {
	Amount         string `json:"amount" binding:"required,money_amount"`
	Currency       string `json:"currency" binding:"required,currency_code"`
	Gateway        string `json:"gateway" binding:"required,oneof=stripe cloudpayments"`
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
}

// CreateWithdrawTransaction handles POST /withdrawals.
func (h *TransactionHandler) CreateWithdrawTransaction(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req createWithdrawTransactionRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.createWithdraw.Execute(c.Request.Context(), dtos.CreateWithdrawTransactionCommand{
		UserID:         userID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Gateway:        req.Gateway,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		common.ErrorToResponse(c, err)
		return
	}

	common.Success(c, http.StatusAccepted, result)
}

// ConnectAccountStripe handles POST /providers/stripe/connect.
func (h *TransactionHandler) ConnectAccountStripe(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	result, err := h.connectStripe.Execute(c.Request.Context(), dtos.ConnectAccountStripeCommand{UserID: userID})
	if err != nil {
		common.ErrorToResponse(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}
