package repository

import (
	"errors"
	"time"

	"pesaflow/internal/domain"
	"pesaflow/internal/models"

	"gorm.io/gorm"
)

type PaymentIntentRepository struct {
	db *gorm.DB
}

func NewPaymentIntentRepository(db *gorm.DB) *PaymentIntentRepository {
	return &PaymentIntentRepository{db: db}
}

func (r *PaymentIntentRepository) Create(p *models.PaymentIntent) error {
	return r.db.Create(p).Error
}

func (r *PaymentIntentRepository) Update(p *models.PaymentIntent) error {
	return r.db.Save(p).Error
}

// GetByProviderRef looks up an intent by the provider's tracking id.
// Returns (nil, nil) when no intent carries that ref.
func (r *PaymentIntentRepository) GetByProviderRef(ref string) (*models.PaymentIntent, error) {
	var p models.PaymentIntent
	err := r.db.Where("provider_ref = ?", ref).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetForMerchant loads an intent scoped to its owning merchant.
func (r *PaymentIntentRepository) GetForMerchant(id, merchantID uint) (*models.PaymentIntent, error) {
	var p models.PaymentIntent
	err := r.db.Where("id = ? AND merchant_id = ?", id, merchantID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkResolved transitions an intent to a terminal status. The conditional
// WHERE keeps terminal states from being overwritten when the provider
// delivers the same callback twice; the second update matches zero rows.
func (r *PaymentIntentRepository) MarkResolved(id uint, status, metadata string, completedAt *time.Time) (bool, error) {
	res := r.db.Model(&models.PaymentIntent{}).
		Where("id = ? AND status IN ?", id, []string{domain.IntentStatusInitiated, domain.IntentStatusStkSent}).
		Updates(map[string]interface{}{
			"status":       status,
			"metadata":     metadata,
			"completed_at": completedAt,
		})
	return res.RowsAffected > 0, res.Error
}
