package handler

import (
	"net/http"
	"strconv"
	"strings"

	"pesaflow/internal/middleware"
	"pesaflow/internal/models"
	"pesaflow/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WebhookHandler struct {
	repo *repository.WebhookRepository
}

func NewWebhookHandler(repo *repository.WebhookRepository) *WebhookHandler {
	return &WebhookHandler{repo: repo}
}

// Create registers a delivery endpoint. The signing secret is generated
// server-side and only ever shown to the owning merchant.
func (h *WebhookHandler) Create(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)
	var req struct {
		URL    string   `json:"url" binding:"required,url"`
		Events []string `json:"events" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hook := &models.Webhook{
		MerchantID: merchantID,
		URL:        req.URL,
		Secret:     "whsec_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Events:     strings.Join(req.Events, ","),
		IsActive:   true,
	}
	if err := h.repo.Create(hook); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hook)
}

func (h *WebhookHandler) List(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)
	hooks, err := h.repo.ListByMerchant(merchantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"webhooks": hooks})
}

func (h *WebhookHandler) Delete(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook id"})
		return
	}
	hook, err := h.repo.GetForMerchant(uint(id), merchantID)
	if err != nil {
		respondError(c, err)
		return
	}
	if hook == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "webhook not found"})
		return
	}
	if err := h.repo.Delete(uint(id), merchantID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *WebhookHandler) ListAttempts(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook id"})
		return
	}
	hook, err := h.repo.GetForMerchant(uint(id), merchantID)
	if err != nil {
		respondError(c, err)
		return
	}
	if hook == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "webhook not found"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	attempts, err := h.repo.ListAttempts(hook.ID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
