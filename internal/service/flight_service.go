package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flightcarbon/backend/internal/domain"
	"github.com/flightcarbon/backend/internal/engine"
	"github.com/flightcarbon/backend/pkg/utils"
)

const backgroundTimeout = 5 * time.Second

// Options configures a FlightService. Cache and Publisher are optional.
type Options struct {
	Cache        FleetCache
	Publisher    EventPublisher
	BaselineTons float64
	DefaultCount int
	MaxCount     int
}

// FlightService exposes the simulation engine to the delivery layer and
// handles persistence, caching and event publishing around it
type FlightService struct {
	engine    *engine.Engine
	repo      DataRepository
	cache     FleetCache
	publisher EventPublisher

	baselineTons float64
	defaultCount int
	maxCount     int

	now func() time.Time

	wgBg sync.WaitGroup // tracks background goroutines for graceful shutdown
}

// NewFlightService creates a new flight service
func NewFlightService(eng *engine.Engine, repo DataRepository, opts Options) *FlightService {
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = 50
	}
	if opts.MaxCount < opts.DefaultCount {
		opts.MaxCount = opts.DefaultCount
	}
	return &FlightService{
		engine:       eng,
		repo:         repo,
		cache:        opts.Cache,
		publisher:    opts.Publisher,
		baselineTons: opts.BaselineTons,
		defaultCount: opts.DefaultCount,
		maxCount:     opts.MaxCount,
		now:          time.Now,
	}
}

// WaitBackground blocks until all background save goroutines complete.
// Call during graceful shutdown to avoid dropped writes.
func (s *FlightService) WaitBackground() {
	s.wgBg.Wait()
}

// DefaultCount is the fleet size used when a request names none
func (s *FlightService) DefaultCount() int {
	return s.defaultCount
}

// GetFlights generates a fleet of count flights. With a nil seed a fresh one
// is drawn and returned so the caller can reproduce the fleet later. Only
// explicitly seeded fleets are cached.
func (s *FlightService) GetFlights(ctx context.Context, count int, seed *int64) (domain.FlightsResponse, error) {
	if count > s.maxCount {
		count = s.maxCount
	}

	explicit := seed != nil
	var value int64
	if explicit {
		value = *seed
	} else {
		value = s.now().UnixNano()
	}

	if explicit && s.cache != nil {
		cached, err := s.cache.GetFleet(ctx, count, value)
		if err != nil {
			slog.Warn("fleet cache read failed", "seed", value, "count", count, "error", err)
		} else if cached != nil {
			return domain.FlightsResponse{Data: cached, Seed: value, Count: len(cached), Success: true}, nil
		}
	}

	flights, err := s.engine.GenerateFleet(count, rand.New(rand.NewSource(value)))
	if err != nil {
		return domain.FlightsResponse{}, err
	}

	if explicit && s.cache != nil {
		if err := s.cache.SetFleet(ctx, count, value, flights); err != nil {
			slog.Warn("fleet cache write failed", "seed", value, "count", count, "error", err)
		}
	}

	if len(flights) > 0 {
		s.persistFleet(value, flights)
	}

	return domain.FlightsResponse{Data: flights, Seed: value, Count: len(flights), Success: true}, nil
}

// persistFleet saves the fleet and publishes a FleetGeneratedEvent asynchronously
func (s *FlightService) persistFleet(seed int64, flights []domain.FlightRecord) {
	var total float64
	for _, f := range flights {
		total += f.Emissions.CO2Kg
	}
	event := domain.FleetGeneratedEvent{
		Seed:        seed,
		Count:       len(flights),
		TotalCO2Kg:  utils.RoundTo(total, 2),
		GeneratedAt: s.now().UTC(),
	}

	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		if err := s.repo.SaveFleet(bgCtx, seed, flights); err != nil {
			slog.Error("failed to save fleet", "seed", seed, "error", err)
		}
		if s.publisher != nil {
			if err := s.publisher.Publish(bgCtx, strconv.FormatInt(seed, 10), event); err != nil {
				slog.Error("failed to publish fleet event", "seed", seed, "error", err)
			}
		}
	}()
}

// GetEmissions scales the configured baseline into all timeframe buckets
func (s *FlightService) GetEmissions(ctx context.Context) domain.TimeframeSnapshot {
	snapshot := engine.Aggregate(s.baselineTons)
	s.recordSnapshot(snapshot)
	return snapshot
}

// GetEmissionsValue returns a single bucket. Unknown keys fail with
// *domain.UnknownTimeframeError.
func (s *FlightService) GetEmissionsValue(ctx context.Context, key string) (domain.TimeframeValue, error) {
	tf, err := engine.ParseTimeframe(key)
	if err != nil {
		return domain.TimeframeValue{}, err
	}
	snapshot := engine.Aggregate(s.baselineTons)
	value, err := engine.Select(snapshot, key)
	if err != nil {
		return domain.TimeframeValue{}, err
	}
	s.recordSnapshot(snapshot)
	return domain.TimeframeValue{Timeframe: tf, Value: value}, nil
}

func (s *FlightService) recordSnapshot(snapshot domain.TimeframeSnapshot) {
	rec := domain.SnapshotRecord{
		ID:           uuid.NewString(),
		BaselineTons: s.baselineTons,
		Snapshot:     snapshot,
		RecordedAt:   s.now().UTC(),
	}

	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		if err := s.repo.SaveSnapshot(bgCtx, rec); err != nil {
			slog.Error("failed to save emissions snapshot", "id", rec.ID, "error", err)
		}
	}()
}

// GetEmissionsHistory returns snapshots recorded in the last hours
func (s *FlightService) GetEmissionsHistory(ctx context.Context, hours int) ([]domain.SnapshotRecord, error) {
	to := s.now().UTC()
	from := to.Add(-time.Duration(hours) * time.Hour)

	records, err := s.repo.GetHistoricalSnapshots(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load emissions history: %w", err)
	}
	if records == nil {
		records = []domain.SnapshotRecord{}
	}
	return records, nil
}

// Resolve maps a label to [lat, lng]
func (s *FlightService) Resolve(label string) (domain.RoutePoint, bool) {
	p, ok := s.engine.Resolve(label)
	if !ok {
		return domain.RoutePoint{}, false
	}
	return domain.NewRoutePoint(p), true
}

// Route returns the rendering path between two airport labels. The path is
// empty when either label does not resolve.
func (s *FlightService) Route(origin, destination string, pointCount int) ([]domain.RoutePoint, error) {
	path, err := s.engine.InterpolateRoute(origin, destination, pointCount)
	if err != nil {
		return nil, err
	}
	return domain.RoutePoints(path), nil
}

// EstimateRoute estimates emissions for a flight between two airports
func (s *FlightService) EstimateRoute(origin, destination, aircraft string, loadFactor float64) (domain.EmissionsResult, error) {
	return s.engine.EstimateRoute(origin, destination, aircraft, loadFactor)
}

// Estimate computes emissions for a caller-supplied flight
func (s *FlightService) Estimate(req domain.FlightRequest) (domain.EmissionsResult, error) {
	return s.engine.Estimate(req)
}

// Aircraft lists the catalog profiles
func (s *FlightService) Aircraft() []domain.AircraftProfile {
	return s.engine.Catalog().Profiles()
}

// Health checks the backing store
func (s *FlightService) Health(ctx context.Context) error {
	return s.repo.Health(ctx)
}
