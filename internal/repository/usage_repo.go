package repository

import (
	"errors"
	"time"

	"pesaflow/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Increment bumps the merchant's counter for the period, creating the row on
// the first transaction of the month. The upsert keeps concurrent increments
// from losing updates.
func (r *UsageRepository) Increment(merchantID uint, amount float64, periodStart, periodEnd time.Time) error {
	counter := models.UsageCounter{
		MerchantID:       merchantID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		TransactionCount: 1,
		TotalAmount:      amount,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "merchant_id"}, {Name: "period_start"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"transaction_count": gorm.Expr("transaction_count + 1"),
			"total_amount":      gorm.Expr("total_amount + ?", amount),
			"updated_at":        time.Now(),
		}),
	}).Create(&counter).Error
}

// GetForPeriod returns the counter row for a period, or (nil, nil) when the
// merchant has no transactions in it yet.
func (r *UsageRepository) GetForPeriod(merchantID uint, periodStart time.Time) (*models.UsageCounter, error) {
	var c models.UsageCounter
	err := r.db.Where("merchant_id = ? AND period_start = ?", merchantID, periodStart).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
