package domain

import (
	"errors"  // Sentinel errors
	"math"    // NaN and Inf checks
	"strings" // Input trimming
	"time"    // Date parsing

	"github.com/shopspring/decimal" // Amount parsing
)

var (
	ErrAmountRequired      = errors.New("amount is required")
	ErrInvalidAmount       = errors.New("amount must be a positive number")
	ErrDateRequired        = errors.New("date is required")
	ErrInvalidDate         = errors.New("date must be a valid calendar date (YYYY-MM-DD)")
	ErrInvalidCategoryType = errors.New("type must be either income or expense")
	ErrInvalidCategory     = errors.New("category does not exist")
)

// ParseAmount accepts a decimal literal such as "12.50" or "1e2" and
// returns it as a positive finite float.
func ParseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrAmountRequired
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return 0, ErrInvalidAmount
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) || f <= 0 {
		return 0, ErrInvalidAmount
	}
	return f, nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"}

// ParseDate accepts a calendar date or a timestamp and truncates it to UTC
// midnight. Out-of-range days such as 2024-02-30 are rejected.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrDateRequired
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
