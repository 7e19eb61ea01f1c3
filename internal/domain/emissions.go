package domain

import "time"

// Timeframe names a bucket of a TimeframeSnapshot
type Timeframe string

const (
	TimeframeToday     Timeframe = "today"
	TimeframeThisWeek  Timeframe = "thisWeek"
	TimeframeThisMonth Timeframe = "thisMonth"
	TimeframeThisYear  Timeframe = "thisYear"
)

// Timeframes lists every valid bucket in ascending span
var Timeframes = []Timeframe{TimeframeToday, TimeframeThisWeek, TimeframeThisMonth, TimeframeThisYear}

// TimeframeSnapshot scales one baseline sample (tonnes CO2) into day/week/month/year buckets
type TimeframeSnapshot struct {
	Today     float64 `json:"today"`
	ThisWeek  float64 `json:"thisWeek"`
	ThisMonth float64 `json:"thisMonth"`
	ThisYear  float64 `json:"thisYear"`
}

// SnapshotRecord is a persisted snapshot
type SnapshotRecord struct {
	ID           string            `json:"id"`
	BaselineTons float64           `json:"baseline_tons"`
	Snapshot     TimeframeSnapshot `json:"snapshot"`
	RecordedAt   time.Time         `json:"recorded_at"`
}

// TimeframeValue is the response for a single selected bucket
type TimeframeValue struct {
	Timeframe Timeframe `json:"timeframe"`
	Value     float64   `json:"value"`
}
