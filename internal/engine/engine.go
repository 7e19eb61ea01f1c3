// Package engine holds the synthetic flight and emissions simulation core:
// the aircraft catalog, the phase-based emissions calculator, the fleet
// generator, the airport resolver, the route interpolator and the timeframe
// aggregator. Everything here is pure computation over immutable tables.
package engine

import (
	"fmt"
	"runtime"

	"github.com/skypies/geo"

	"github.com/flightcarbon/backend/internal/domain"
)

// Engine bundles the catalog and airport registry. It holds no mutable
// state and may be shared across goroutines.
type Engine struct {
	catalog  *Catalog
	registry *Registry
	workers  int
}

// Option configures an Engine
type Option func(*Engine)

// WithCatalog replaces the built-in aircraft catalog
func WithCatalog(c *Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithRegistry replaces the built-in airport registry
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithWorkers bounds the goroutines used by GenerateFleet. n <= 0 means NumCPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates an engine
func New(opts ...Option) *Engine {
	e := &Engine{
		catalog:  DefaultCatalog(),
		registry: DefaultRegistry(),
		workers:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the aircraft catalog
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Registry returns the airport registry
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Estimate computes emissions for an externally supplied flight.
// Unknown aircraft codes use the Unknown profile.
func (e *Engine) Estimate(req domain.FlightRequest) (domain.EmissionsResult, error) {
	return Estimate(e.catalog.Lookup(req.Aircraft), req.DistanceKm, req.LoadFactor)
}

// Resolve maps an airport label to coordinates
func (e *Engine) Resolve(label string) (geo.Latlong, bool) {
	return e.registry.Resolve(label)
}

// InterpolateRoute resolves both labels and returns the rendering path between
// them. An unresolved endpoint yields an empty path, not an error.
func (e *Engine) InterpolateRoute(originLabel, destLabel string, pointCount int) ([]geo.Latlong, error) {
	var origin, dest *geo.Latlong
	if p, ok := e.registry.Resolve(originLabel); ok {
		origin = &p
	}
	if p, ok := e.registry.Resolve(destLabel); ok {
		dest = &p
	}
	if origin == nil || dest == nil {
		return []geo.Latlong{}, nil
	}
	return Interpolate(origin, dest, pointCount)
}

// EstimateRoute estimates a flight between two airports using the
// great-circle distance between them
func (e *Engine) EstimateRoute(originLabel, destLabel, aircraft string, loadFactor float64) (domain.EmissionsResult, error) {
	origin, ok := e.registry.Resolve(originLabel)
	if !ok {
		return domain.EmissionsResult{}, &domain.InvalidInputError{Reason: fmt.Sprintf("origin %q not found", originLabel)}
	}
	dest, ok := e.registry.Resolve(destLabel)
	if !ok {
		return domain.EmissionsResult{}, &domain.InvalidInputError{Reason: fmt.Sprintf("destination %q not found", destLabel)}
	}
	return Estimate(e.catalog.Lookup(aircraft), origin.DistKM(dest), loadFactor)
}
