package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pesaflow/internal/middleware"
	"pesaflow/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	orchestrator *service.PaymentOrchestrator
}

func NewPaymentHandler(orchestrator *service.PaymentOrchestrator) *PaymentHandler {
	return &PaymentHandler{orchestrator: orchestrator}
}

// Initiate starts a collection. The response is synchronous; the payment
// outcome arrives later via webhook or the status query.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)
	var req service.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}
	resp, err := h.orchestrator.Initiate(c.Request.Context(), merchantID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetStatus is the follow-up query for a transaction's current state.
func (h *PaymentHandler) GetStatus(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}
	intent, err := h.orchestrator.GetForMerchant(uint(id), merchantID)
	if err != nil {
		respondError(c, err)
		return
	}
	if intent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	var meta map[string]interface{}
	if intent.Metadata != "" {
		_ = json.Unmarshal([]byte(intent.Metadata), &meta)
	}
	c.JSON(http.StatusOK, gin.H{
		"transaction_id": intent.ID,
		"status":         intent.Status,
		"amount":         intent.Amount,
		"currency":       intent.Currency,
		"reference":      intent.Reference,
		"customer_phone": intent.CustomerPhone,
		"metadata":       meta,
		"completed_at":   intent.CompletedAt,
		"created_at":     intent.CreatedAt,
	})
}
