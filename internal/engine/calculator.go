package engine

import (
	"math"

	"github.com/flightcarbon/backend/internal/domain"
	"github.com/flightcarbon/backend/pkg/utils"
)

// Phase-based fuel model constants
const (
	groundSpeedKmh        = 850.0
	cruiseShare           = 0.85
	takeoffLandingShare   = 0.15
	takeoffLandingBurnMul = 1.5
	emptyLoadBurn         = 0.7 // share of nominal burn at zero load
	loadBurnSlope         = 0.3
)

// rawEstimate holds the unrounded figures of one estimate
type rawEstimate struct {
	flightTimeHours   float64
	fuelConsumptionKg float64
	co2Kg             float64
	passengers        int
	co2PerPassengerKg float64
	intensity         float64
}

// Estimate computes the emissions of one flight of the given profile.
// distanceKm must be positive and finite; loadFactor must lie in (0,1].
func Estimate(profile domain.AircraftProfile, distanceKm, loadFactor float64) (domain.EmissionsResult, error) {
	raw, err := estimate(profile, distanceKm, loadFactor)
	if err != nil {
		return domain.EmissionsResult{}, err
	}

	return domain.EmissionsResult{
		CO2Kg:             utils.RoundTo(raw.co2Kg, 2),
		CO2PerPassengerKg: utils.RoundTo(raw.co2PerPassengerKg, 3),
		FuelConsumptionKg: utils.RoundTo(raw.fuelConsumptionKg, 2),
		DistanceKm:        distanceKm,
		FlightTimeHours:   raw.flightTimeHours,
		Passengers:        raw.passengers,
		Aircraft:          profile.Code,
		EmissionIntensity: utils.RoundTo(raw.intensity, 3),
	}, nil
}

func estimate(profile domain.AircraftProfile, distanceKm, loadFactor float64) (rawEstimate, error) {
	if !(distanceKm > 0) || math.IsInf(distanceKm, 1) {
		return rawEstimate{}, &domain.InvalidParameterError{Param: "distanceKm", Value: distanceKm}
	}
	if !(loadFactor > 0 && loadFactor <= 1) {
		return rawEstimate{}, &domain.InvalidParameterError{Param: "loadFactor", Value: loadFactor}
	}

	passengers := int(math.Floor(float64(profile.SeatingCapacity) * loadFactor))
	if passengers == 0 {
		return rawEstimate{}, &domain.DegenerateLoadError{Seats: profile.SeatingCapacity, LoadFactor: loadFactor}
	}

	flightTime := distanceKm / groundSpeedKmh
	burn := profile.FuelBurnPerHour * (emptyLoadBurn + loadFactor*loadBurnSlope)

	cruiseFuel := flightTime * cruiseShare * burn
	takeoffLandingFuel := flightTime * takeoffLandingShare * burn * takeoffLandingBurnMul
	fuel := cruiseFuel + takeoffLandingFuel
	co2 := fuel * profile.EmissionFactor

	return rawEstimate{
		flightTimeHours:   flightTime,
		fuelConsumptionKg: fuel,
		co2Kg:             co2,
		passengers:        passengers,
		co2PerPassengerKg: co2 / float64(passengers),
		intensity:         co2 / distanceKm,
	}, nil
}
