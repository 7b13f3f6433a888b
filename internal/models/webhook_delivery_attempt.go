package models

import "time"

// WebhookDeliveryAttempt is append-only bookkeeping for each outbound POST.
// NextRetryAt is recorded for failed attempts; a retry worker consuming these
// rows runs as a separate process.
type WebhookDeliveryAttempt struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	WebhookID      uint       `gorm:"not null;index" json:"webhook_id"`
	EventType      string     `gorm:"size:64;not null" json:"event_type"`
	Payload        string     `gorm:"type:text" json:"payload"`
	Status         string     `gorm:"size:20;not null;index" json:"status"` // SUCCESS, FAILED
	ResponseStatus int        `json:"response_status"`
	AttemptNumber  int        `gorm:"not null;default:1" json:"attempt_number"`
	NextRetryAt    *time.Time `json:"next_retry_at"`
	DeliveredAt    *time.Time `json:"delivered_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (WebhookDeliveryAttempt) TableName() string {
	return "webhook_delivery_attempts"
}
