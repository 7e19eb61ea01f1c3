package service

import (
	"context"

	"github.com/flightcarbon/backend/internal/domain"
)

// DataRepository is re-exported from domain for convenience
type DataRepository = domain.DataRepository

// FleetCache stores generated fleets by request shape. GetFleet returns
// nil, nil on a miss.
type FleetCache interface {
	GetFleet(ctx context.Context, count int, seed int64) ([]domain.FlightRecord, error)
	SetFleet(ctx context.Context, count int, seed int64, flights []domain.FlightRecord) error
}

// EventPublisher emits domain events to a message broker
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload any) error
}
