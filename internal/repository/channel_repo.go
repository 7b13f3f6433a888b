package repository

import (
	"errors"

	"pesaflow/internal/models"

	"gorm.io/gorm"
)

type ChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// GetActiveForMerchant resolves a merchant's active channel by id.
// Returns (nil, nil) when missing or inactive.
func (r *ChannelRepository) GetActiveForMerchant(merchantID, channelID uint) (*models.Channel, error) {
	var ch models.Channel
	err := r.db.Where("id = ? AND merchant_id = ? AND is_active = ?", channelID, merchantID, true).First(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}
