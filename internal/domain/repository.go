package domain

import (
	"context"
	"time"
)

// DataRepository defines the interface for data persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type DataRepository interface {
	// SaveFleet persists the estimates of one generated fleet
	SaveFleet(ctx context.Context, seed int64, flights []FlightRecord) error

	// SaveSnapshot persists a timeframe snapshot
	SaveSnapshot(ctx context.Context, rec SnapshotRecord) error

	// GetHistoricalSnapshots retrieves snapshot history
	GetHistoricalSnapshots(ctx context.Context, from, to time.Time) ([]SnapshotRecord, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}
