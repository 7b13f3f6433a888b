package service

import (
	"testing"
	"time"
)

func TestPeriodBoundsMidMonth(t *testing.T) {
	at := time.Date(2025, time.March, 17, 14, 3, 9, 0, time.UTC)
	start, end := PeriodBounds(at)

	if !start.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestPeriodBoundsYearRollover(t *testing.T) {
	at := time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)
	start, end := PeriodBounds(at)

	if !start.Equal(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestCountThisMonth(t *testing.T) {
	store := newFakeUsageStore()
	tracker := NewUsageTracker(store)
	tracker.now = func() time.Time { return time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC) }

	for i := 0; i < 3; i++ {
		if err := tracker.Record(1, 100); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	n, err := tracker.CountThisMonth(1)
	if err != nil || n != 3 {
		t.Errorf("CountThisMonth = (%d, %v), want (3, nil)", n, err)
	}

	// unknown merchant has no counter row yet
	n, err = tracker.CountThisMonth(2)
	if err != nil || n != 0 {
		t.Errorf("CountThisMonth for fresh merchant = (%d, %v), want (0, nil)", n, err)
	}
}
