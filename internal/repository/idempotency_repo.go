package repository

import (
	"errors"
	"log"
	"time"

	"pesaflow/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IdempotencyRepository struct {
	db *gorm.DB
}

func NewIdempotencyRepository(db *gorm.DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

// Get returns the live record for a fingerprint, or (nil, nil) when there is
// none or it has expired. A non-nil error means the store is unavailable;
// callers decide whether to fail open.
func (r *IdempotencyRepository) Get(fingerprint string) (*models.IdempotencyRecord, error) {
	var rec models.IdempotencyRecord
	err := r.db.Where("fingerprint = ? AND expires_at > ?", fingerprint, time.Now()).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Put writes the record once per TTL window; a concurrent duplicate insert
// for the same fingerprint is silently ignored.
func (r *IdempotencyRepository) Put(rec *models.IdempotencyRecord) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(rec).Error
}

func (r *IdempotencyRepository) DeleteExpired() (int64, error) {
	res := r.db.Where("expires_at <= ?", time.Now()).Delete(&models.IdempotencyRecord{})
	return res.RowsAffected, res.Error
}

// StartSweeper deletes expired records on an interval for the life of the
// process.
func (r *IdempotencyRepository) StartSweeper(interval time.Duration) {
	go func() {
		tick := time.NewTicker(interval)
		for range tick.C {
			n, err := r.DeleteExpired()
			if err != nil {
				log.Printf("[IDEMPOTENCY] sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[IDEMPOTENCY] swept %d expired records", n)
			}
		}
	}()
}
