package report

import (
	"errors"  // Sentinel errors
	"strings" // Preset normalisation
	"time"    // Date arithmetic
)

// Report range presets
const (
	Range30Days  = "30days"
	Range3Months = "3months"
	Range6Months = "6months"
	RangeYear    = "year"
	RangeCustom  = "custom"

	DefaultRange = Range3Months
)

// CategoryAll disables the expense category filter
const CategoryAll = "all"

var (
	ErrInvalidRange  = errors.New("range must be one of 30days, 3months, 6months, year, custom")
	ErrInvalidWindow = errors.New("from and to must be valid dates (YYYY-MM-DD) with from not after to")
)

// Window is the aggregation window: an inclusive date range and an optional
// expense category filter.
type Window struct {
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	CategoryID string    `json:"category_id,omitempty"`
}

// Contains reports whether t falls inside [From, To]
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// PresetWindow resolves a named range relative to now. Every preset starts on
// the first of a month and ends on the last instant of the current month.
func PresetWindow(preset string, now time.Time) (Window, error) {
	now = now.UTC()
	var from time.Time
	switch preset {
	case Range30Days:
		from = startOfMonth(now).AddDate(0, -1, 0)
	case "", Range3Months:
		from = startOfMonth(now).AddDate(0, -3, 0)
	case Range6Months:
		from = startOfMonth(now).AddDate(0, -6, 0)
	case RangeYear:
		from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return Window{}, ErrInvalidRange
	}
	return Window{From: startOfMonth(from), To: endOfMonth(now)}, nil
}

// ParseWindow builds a window from request parameters. from/to are only read
// for the custom range; to covers its whole day.
func ParseWindow(preset, from, to, categoryID string, now time.Time) (Window, error) {
	var w Window
	if preset == RangeCustom {
		f, err := time.Parse("2006-01-02", strings.TrimSpace(from))
		if err != nil {
			return Window{}, ErrInvalidWindow
		}
		t, err := time.Parse("2006-01-02", strings.TrimSpace(to))
		if err != nil || t.Before(f) {
			return Window{}, ErrInvalidWindow
		}
		w = Window{From: f, To: endOfDay(t)}
	} else {
		var err error
		if w, err = PresetWindow(preset, now); err != nil {
			return Window{}, err
		}
	}
	if categoryID != CategoryAll {
		w.CategoryID = strings.TrimSpace(categoryID)
	}
	return w, nil
}

// months lists the first instant of every calendar month touched by [from, to]
func months(from, to time.Time) []time.Time {
	var out []time.Time
	for m := startOfMonth(from); !m.After(to); m = m.AddDate(0, 1, 0) {
		out = append(out, m)
	}
	return out
}
