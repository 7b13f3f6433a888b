package handler

import (
	"net/http"
	"strconv"

	"pesaflow/internal/domain"
	"pesaflow/internal/middleware"
	"pesaflow/internal/repository"
	"pesaflow/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	ledger     *service.WalletLedger
	walletRepo *repository.WalletRepository
}

func NewWalletHandler(ledger *service.WalletLedger, walletRepo *repository.WalletRepository) *WalletHandler {
	return &WalletHandler{ledger: ledger, walletRepo: walletRepo}
}

func (h *WalletHandler) GetBalance(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)
	w, err := h.walletRepo.GetOrCreate(merchantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": w.Balance, "currency": w.Currency})
}

func (h *WalletHandler) ListTransactions(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.walletRepo.ListEntries(merchantID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": entries})
}

func (h *WalletHandler) Topup(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)
	var req struct {
		Amount    float64 `json:"amount" binding:"required,gt=0"`
		Reference string  `json:"reference" binding:"required,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.ledger.Credit(merchantID, req.Amount, domain.LedgerTypeTopup, req.Reference, "wallet topup"); err != nil {
		respondError(c, err)
		return
	}
	w, err := h.walletRepo.GetOrCreate(merchantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"balance": w.Balance, "currency": w.Currency})
}

// CheckFunds is advisory only, for UI hints before initiating a collection.
func (h *WalletHandler) CheckFunds(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount query parameter required"})
		return
	}
	sufficient, fee, err := h.ledger.HasSufficientFunds(merchantID, amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sufficient": sufficient, "fee": fee})
}
