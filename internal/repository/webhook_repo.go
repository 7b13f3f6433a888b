package repository

import (
	"errors"

	"pesaflow/internal/models"

	"gorm.io/gorm"
)

type WebhookRepository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) Create(w *models.Webhook) error {
	return r.db.Create(w).Error
}

func (r *WebhookRepository) ListByMerchant(merchantID uint) ([]models.Webhook, error) {
	var hooks []models.Webhook
	err := r.db.Where("merchant_id = ?", merchantID).Find(&hooks).Error
	return hooks, err
}

func (r *WebhookRepository) ListActiveByMerchant(merchantID uint) ([]models.Webhook, error) {
	var hooks []models.Webhook
	err := r.db.Where("merchant_id = ? AND is_active = ?", merchantID, true).Find(&hooks).Error
	return hooks, err
}

func (r *WebhookRepository) GetForMerchant(id, merchantID uint) (*models.Webhook, error) {
	var w models.Webhook
	err := r.db.Where("id = ? AND merchant_id = ?", id, merchantID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WebhookRepository) Delete(id, merchantID uint) error {
	return r.db.Where("id = ? AND merchant_id = ?", id, merchantID).Delete(&models.Webhook{}).Error
}

func (r *WebhookRepository) CreateAttempt(a *models.WebhookDeliveryAttempt) error {
	return r.db.Create(a).Error
}

func (r *WebhookRepository) ListAttempts(webhookID uint, limit int) ([]models.WebhookDeliveryAttempt, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var attempts []models.WebhookDeliveryAttempt
	err := r.db.Where("webhook_id = ?", webhookID).
		Order("created_at DESC").Limit(limit).Find(&attempts).Error
	return attempts, err
}
