package service

import (
	"time"

	"pesaflow/internal/models"
)

type UsageStore interface {
	Increment(merchantID uint, amount float64, periodStart, periodEnd time.Time) error
	GetForPeriod(merchantID uint, periodStart time.Time) (*models.UsageCounter, error)
}

// UsageTracker meters per-merchant monthly volume. Rollover is implicit: the
// first transaction of a new month creates a fresh counter row.
type UsageTracker struct {
	store UsageStore
	now   func() time.Time
}

func NewUsageTracker(store UsageStore) *UsageTracker {
	return &UsageTracker{store: store, now: time.Now}
}

// PeriodBounds returns the calendar-month window containing t.
func PeriodBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, 0)
	return start, end
}

func (u *UsageTracker) Record(merchantID uint, amount float64) error {
	start, end := PeriodBounds(u.now())
	return u.store.Increment(merchantID, amount, start, end)
}

// CountThisMonth returns the merchant's transaction count for the current
// period; zero when no counter row exists yet.
func (u *UsageTracker) CountThisMonth(merchantID uint) (int64, error) {
	start, _ := PeriodBounds(u.now())
	c, err := u.store.GetForPeriod(merchantID, start)
	if err != nil {
		return 0, err
	}
	if c == nil {
		return 0, nil
	}
	return c.TransactionCount, nil
}
