package repository

import (
	"errors"

	"pesaflow/internal/models"

	"gorm.io/gorm"
)

type MerchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

// GetByID loads a merchant with its plan. Returns (nil, nil) when missing.
func (r *MerchantRepository) GetByID(id uint) (*models.Merchant, error) {
	var m models.Merchant
	err := r.db.Preload("Plan").First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
