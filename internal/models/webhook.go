package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Webhook is a merchant-registered delivery endpoint. Events holds a
// comma-separated list of subscribed event names; "*" subscribes to all.
type Webhook struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	MerchantID uint           `gorm:"not null;index" json:"merchant_id"`
	URL        string         `gorm:"size:512;not null" json:"url"`
	Secret     string         `gorm:"size:128" json:"secret"`
	Events     string         `gorm:"size:512;not null" json:"events"`
	IsActive   bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Webhook) TableName() string {
	return "webhooks"
}

// SubscribesTo reports whether the webhook wants eventType.
func (w *Webhook) SubscribesTo(eventType string) bool {
	for _, e := range strings.Split(w.Events, ",") {
		e = strings.TrimSpace(e)
		if e == "*" || e == eventType {
			return true
		}
	}
	return false
}
