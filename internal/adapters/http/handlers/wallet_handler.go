package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wallethub/core/internal/adapters/http/common"
	"github.com/wallethub/core/internal/application/dtos"
	walletuc "github.com/wallethub/core/internal/application/usecases/wallet"
)

// WalletHandler exposes the two wallet-lifecycle RPCs: CreateWallet and
// GetBalance (spec §6).
type WalletHandler struct {
	createWallet *walletuc.CreateWalletUseCase
	getBalance   *walletuc.GetBalanceUseCase
}

// NewWalletHandler wires a WalletHandler.
func NewWalletHandler(createWallet *walletuc.CreateWalletUseCase, getBalance *walletuc.GetBalanceUseCase) *WalletHandler {
	return &WalletHandler{createWallet: createWallet, getBalance: getBalance}
}

// RegisterRoutes mounts the wallet RPCs under router.
func (h *WalletHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/wallets", h.CreateWallet)
	router.GET("/wallets/balance", h.GetBalance)
}

// CreateWallet handles POST /wallets.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	result, err := h.createWallet.Execute(c.Request.Context(), dtos.CreateWalletCommand{UserID: userID})
	if err != nil {
		common.ErrorToResponse(c, err)
		return
	}

	common.Success(c, http.StatusCreated, result)
}

// getBalanceQuery binds GET /wallets/balance's optional currency filter.
type getBalanceQuery struct {
	Currency string `form:"currency" binding:"omitempty,currency_code"`
}

// GetBalance handles GET /wallets/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var q getBalanceQuery
	if !BindQuery(c, &q) {
		return
	}

	result, err := h.getBalance.Execute(c.Request.Context(), dtos.GetBalanceQuery{UserID: userID, Currency: q.Currency})
	if err != nil {
		common.ErrorToResponse(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}
