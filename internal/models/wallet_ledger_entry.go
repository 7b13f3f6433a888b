package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletLedgerEntry is append-only: one row per ledger-affecting operation,
// never mutated after creation. Replaying signed amounts in creation order
// nets to the owning account balance.
type WalletLedgerEntry struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	WalletID    uint           `gorm:"not null;index" json:"wallet_id"`
	MerchantID  uint           `gorm:"not null;index" json:"merchant_id"`
	Amount      float64        `gorm:"type:decimal(12,2);not null" json:"amount"` // positive = credit, negative = debit
	Type        string         `gorm:"size:20;not null;index" json:"type"`        // TOPUP, FEE, BONUS, REFUND
	Reference   string         `gorm:"size:128" json:"reference"`
	Description string         `gorm:"size:255" json:"description"`
	Status      string         `gorm:"size:20;not null;default:'COMPLETED'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (WalletLedgerEntry) TableName() string {
	return "wallet_ledger_entries"
}
