package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletAccount holds a merchant's prepaid fee balance. The balance may go
// negative: a completed customer payment is never reversed because the
// platform fee could not be collected in full.
type WalletAccount struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	MerchantID uint           `gorm:"uniqueIndex;not null" json:"merchant_id"`
	Balance    float64        `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
	Currency   string         `gorm:"size:3;default:'KES'" json:"currency"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Merchant Merchant `gorm:"foreignKey:MerchantID" json:"-"`
}

func (WalletAccount) TableName() string {
	return "wallet_accounts"
}
