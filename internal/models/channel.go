package models

import (
	"time"

	"gorm.io/gorm"
)

// Channel is a merchant-configured settlement destination: a till, a paybill,
// or a bank account reached through a paybill. CRUD lives with the merchant
// dashboard collaborator; the payment path only resolves active channels.
type Channel struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	MerchantID    uint           `gorm:"not null;index" json:"merchant_id"`
	Type          string         `gorm:"size:10;not null" json:"type"` // TILL, PAYBILL, BANK
	ShortCode     string         `gorm:"size:20;not null" json:"short_code"`
	BankCode      string         `gorm:"size:10" json:"bank_code"`
	AccountNumber string         `gorm:"size:64" json:"account_number"`
	IsActive      bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Merchant Merchant `gorm:"foreignKey:MerchantID" json:"-"`
}

func (Channel) TableName() string {
	return "channels"
}
