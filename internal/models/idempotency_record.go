package models

import "time"

// IdempotencyRecord caches the first response for a request fingerprint.
// Written at most once per TTL window; expired rows are swept periodically.
type IdempotencyRecord struct {
	Fingerprint    string    `gorm:"primaryKey;size:64" json:"fingerprint"` // SHA-256 hex
	MerchantID     uint      `gorm:"not null;index" json:"merchant_id"`
	Method         string    `gorm:"size:10" json:"method"`
	Path           string    `gorm:"size:255" json:"path"`
	ResponseStatus int       `gorm:"not null" json:"response_status"`
	ResponseBody   string    `gorm:"type:text" json:"response_body"`
	ExpiresAt      time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (IdempotencyRecord) TableName() string {
	return "idempotency_records"
}
