package models

import "time"

// UsageCounter tracks per-merchant volume for one calendar month. A new row
// appears on the first transaction of a month; rows are kept forever as a
// historical record.
type UsageCounter struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	MerchantID       uint      `gorm:"not null;uniqueIndex:idx_merchant_period" json:"merchant_id"`
	PeriodStart      time.Time `gorm:"not null;uniqueIndex:idx_merchant_period" json:"period_start"`
	PeriodEnd        time.Time `gorm:"not null" json:"period_end"`
	TransactionCount int64     `gorm:"not null;default:0" json:"transaction_count"`
	TotalAmount      float64   `gorm:"type:decimal(14,2);not null;default:0" json:"total_amount"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (UsageCounter) TableName() string {
	return "usage_counters"
}
