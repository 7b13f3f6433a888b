package models

import (
	"time"

	"gorm.io/gorm"
)

// Merchant is managed by the onboarding/KYC collaborator; the payment path
// only reads it to check eligibility and resolve the default settlement code.
type Merchant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // ACTIVE, PENDING, KYC_REVIEW, SUSPENDED, REJECTED
	PlanID    uint           `gorm:"not null" json:"plan_id"`
	ShortCode string         `gorm:"size:20" json:"short_code"` // default settlement paybill/till
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Plan Plan `gorm:"foreignKey:PlanID" json:"-"`
}

func (Merchant) TableName() string {
	return "merchants"
}

// Plan caps monthly transaction volume. MonthlyTxLimit of -1 means unlimited.
type Plan struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:50;not null" json:"name"`
	MonthlyTxLimit int64     `gorm:"not null;default:-1" json:"monthly_tx_limit"`
	MonthlyPrice   float64   `gorm:"type:decimal(12,2);default:0" json:"monthly_price"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}
