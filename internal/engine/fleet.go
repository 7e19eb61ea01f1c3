package engine

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/flightcarbon/backend/internal/domain"
	"github.com/flightcarbon/backend/pkg/utils"
)

// FleetLoadFactor is the load factor applied to every synthetic flight
const FleetLoadFactor = 0.8

// Sampling ranges for synthetic flights
const (
	minDistanceKm   = 500.0
	distanceSpanKm  = 8000.0
	positionJitter  = 2.0 // degrees, centred on the origin
	minAltitudeFt   = 28000
	altitudeSpanFt  = 13000
	minVelocityKts  = 420
	velocitySpanKts = 160
	headingJitter   = 20.0 // degrees, centred on the bearing to the destination
)

var airlines = []struct {
	name string
	icao string
}{
	{"American Airlines", "AAL"},
	{"Delta Air Lines", "DAL"},
	{"United Airlines", "UAL"},
	{"British Airways", "BAW"},
	{"Lufthansa", "DLH"},
	{"Air France", "AFR"},
	{"KLM", "KLM"},
	{"Emirates", "UAE"},
	{"Singapore Airlines", "SIA"},
	{"Cathay Pacific", "CPA"},
	{"Qantas", "QFA"},
	{"Japan Airlines", "JAL"},
}

// flightDraw is the random part of one synthetic flight
type flightDraw struct {
	record   domain.FlightRecord
	distance float64
}

// GenerateFleet produces count synthetic flights with emissions attached.
// All randomness comes from rng, so the same seed yields the same fleet no
// matter how many workers compute the estimates. rng is not safe for
// concurrent use and is only read from the calling goroutine.
func (e *Engine) GenerateFleet(count int, rng *rand.Rand) ([]domain.FlightRecord, error) {
	if count < 0 {
		return nil, &domain.InvalidParameterError{Param: "count", Value: float64(count)}
	}
	if rng == nil {
		return nil, &domain.InvalidInputError{Reason: "random source is required"}
	}
	if e.registry.Len() < 2 {
		return nil, &domain.InvalidInputError{Reason: "fleet generation needs at least two airports"}
	}

	codes := e.catalog.Codes()
	if len(codes) == 0 {
		return nil, &domain.InvalidInputError{Reason: "catalog has no aircraft types"}
	}

	draws := make([]flightDraw, count)
	for i := range draws {
		d, err := e.drawFlight(rng, codes)
		if err != nil {
			return nil, fmt.Errorf("engine: failed to draw flight %d: %w", i, err)
		}
		draws[i] = d
	}

	flights := make([]domain.FlightRecord, count)
	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for i := range draws {
		i := i
		g.Go(func() error {
			rec := draws[i].record
			res, err := Estimate(e.catalog.Lookup(rec.Aircraft), draws[i].distance, FleetLoadFactor)
			if err != nil {
				return fmt.Errorf("engine: failed to estimate flight %s: %w", rec.ID, err)
			}
			rec.Emissions = res
			flights[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return flights, nil
}

// heading normalises a bearing in degrees to [0, 360)
func heading(bearing float64) int {
	h := int(math.Round(math.Mod(bearing, 360)))
	if h < 0 {
		h += 360
	}
	return h % 360
}

// drawFlight samples every random attribute of one flight in a fixed order
func (e *Engine) drawFlight(rng *rand.Rand, codes []string) (flightDraw, error) {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return flightDraw{}, err
	}

	airline := airlines[rng.Intn(len(airlines))]
	code := codes[rng.Intn(len(codes))]

	// Destination is drawn from the remaining airports so it never equals the origin
	n := e.registry.Len()
	oi := rng.Intn(n)
	di := rng.Intn(n - 1)
	if di >= oi {
		di++
	}
	origin := e.registry.airports[oi]
	destination := e.registry.airports[di]

	// Position is jittered around the origin
	latOffset := (rng.Float64() - 0.5) * positionJitter
	lonOffset := (rng.Float64() - 0.5) * positionJitter

	rec := domain.FlightRecord{
		ID:          id.String(),
		Callsign:    fmt.Sprintf("%s%d", airline.icao, 100+rng.Intn(9900)),
		Latitude:    utils.RoundTo(utils.Clamp(origin.Position.Lat+latOffset, -90, 90), 4),
		Longitude:   utils.RoundTo(utils.WrapLongitude(origin.Position.Long+lonOffset), 4),
		Altitude:    minAltitudeFt + rng.Intn(altitudeSpanFt),
		Heading:     heading(origin.Position.BearingTowards(destination.Position) + (rng.Float64()-0.5)*headingJitter),
		Velocity:    minVelocityKts + rng.Intn(velocitySpanKts),
		Aircraft:    code,
		Origin:      origin.Name,
		Destination: destination.Name,
		Airline:     airline.name,
	}

	return flightDraw{
		record:   rec,
		distance: minDistanceKm + rng.Float64()*distanceSpanKm,
	}, nil
}
