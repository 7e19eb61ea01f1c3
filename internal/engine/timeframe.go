package engine

import (
	"github.com/flightcarbon/backend/internal/domain"
)

// Days per bucket
const (
	daysPerWeek  = 7
	daysPerMonth = 30
	daysPerYear  = 365
)

// Aggregate scales a daily baseline (tonnes CO2) into timeframe buckets
func Aggregate(baselineTons float64) domain.TimeframeSnapshot {
	return domain.TimeframeSnapshot{
		Today:     baselineTons,
		ThisWeek:  baselineTons * daysPerWeek,
		ThisMonth: baselineTons * daysPerMonth,
		ThisYear:  baselineTons * daysPerYear,
	}
}

// ParseTimeframe validates a timeframe key
func ParseTimeframe(key string) (domain.Timeframe, error) {
	for _, tf := range domain.Timeframes {
		if string(tf) == key {
			return tf, nil
		}
	}
	return "", &domain.UnknownTimeframeError{Key: key}
}

// Select returns a single bucket of the snapshot. Unknown keys fail with
// *domain.UnknownTimeframeError.
func Select(s domain.TimeframeSnapshot, key string) (float64, error) {
	tf, err := ParseTimeframe(key)
	if err != nil {
		return 0, err
	}
	switch tf {
	case domain.TimeframeThisWeek:
		return s.ThisWeek, nil
	case domain.TimeframeThisMonth:
		return s.ThisMonth, nil
	case domain.TimeframeThisYear:
		return s.ThisYear, nil
	default:
		return s.Today, nil
	}
}
