package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentIntent is one collection attempt. Created INITIATED, moved to
// STK_SENT once the provider accepts the push, and resolved to COMPLETED or
// FAILED by the provider callback. Terminal states are never overwritten.
type PaymentIntent struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	MerchantID    uint           `gorm:"not null;index" json:"merchant_id"`
	Amount        float64        `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency      string         `gorm:"size:3;default:'KES'" json:"currency"`
	Provider      string         `gorm:"size:50;not null" json:"provider"`
	ProviderRef   *string        `gorm:"size:255;uniqueIndex" json:"provider_ref"` // CheckoutRequestID, set after STK_SENT
	Status        string         `gorm:"size:20;not null;index" json:"status"`
	Reference     string         `gorm:"size:255" json:"reference"`
	Description   string         `gorm:"size:255" json:"description"`
	CustomerPhone string         `gorm:"size:20" json:"customer_phone"`
	ChannelID     *uint          `gorm:"index" json:"channel_id"`
	Metadata      string         `gorm:"type:text" json:"metadata"` // JSON: receipt, provider error
	CompletedAt   *time.Time     `json:"completed_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Merchant Merchant `gorm:"foreignKey:MerchantID" json:"-"`
}

func (PaymentIntent) TableName() string {
	return "payment_intents"
}
