package engine

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcarbon/backend/internal/domain"
)

func TestEstimate_B737Reference(t *testing.T) {
	res, err := Estimate(DefaultCatalog().Lookup("B737"), 1000, 0.8)
	require.NoError(t, err)

	assert.InDelta(t, 1.176470588, res.FlightTimeHours, 1e-9)
	assert.Equal(t, 2.97, res.FuelConsumptionKg)
	assert.Equal(t, 9.39, res.CO2Kg)
	assert.Equal(t, 144, res.Passengers)
	assert.Equal(t, 0.065, res.CO2PerPassengerKg)
	assert.Equal(t, 0.009, res.EmissionIntensity)
	assert.Equal(t, 1000.0, res.DistanceKm)
	assert.Equal(t, "B737", res.Aircraft)
}

func TestEstimate_UnknownCodeUsesFallback(t *testing.T) {
	e := New()

	got, err := e.Estimate(domain.FlightRequest{Aircraft: "Z999", DistanceKm: 2500, LoadFactor: 0.75})
	require.NoError(t, err)

	want, err := Estimate(DefaultCatalog().Lookup(domain.UnknownAircraft), 2500, 0.75)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, domain.UnknownAircraft, got.Aircraft)
	assert.Equal(t, 150, got.Passengers)
}

func TestEstimate_InvalidParameters(t *testing.T) {
	profile := DefaultCatalog().Lookup("A320")

	tests := []struct {
		name       string
		distance   float64
		loadFactor float64
		param      string
	}{
		{"zero distance", 0, 0.8, "distanceKm"},
		{"negative distance", -10, 0.8, "distanceKm"},
		{"NaN distance", math.NaN(), 0.8, "distanceKm"},
		{"infinite distance", math.Inf(1), 0.8, "distanceKm"},
		{"zero load", 1000, 0, "loadFactor"},
		{"negative load", 1000, -0.2, "loadFactor"},
		{"overfull load", 1000, 1.01, "loadFactor"},
		{"NaN load", 1000, math.NaN(), "loadFactor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(profile, tt.distance, tt.loadFactor)
			var target *domain.InvalidParameterError
			require.True(t, errors.As(err, &target), "got %v", err)
			assert.Equal(t, tt.param, target.Param)
		})
	}
}

func TestEstimate_DegenerateLoad(t *testing.T) {
	profile := DefaultCatalog().Lookup("E190") // 100 seats

	_, err := Estimate(profile, 800, 0.005)
	var target *domain.DegenerateLoadError
	require.True(t, errors.As(err, &target), "got %v", err)
	assert.Equal(t, 100, target.Seats)

	res, err := Estimate(profile, 800, 0.01)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Passengers)
}

func TestEstimate_FullLoad(t *testing.T) {
	res, err := Estimate(DefaultCatalog().Lookup("A380"), 850, 1)
	require.NoError(t, err)

	// one hour: 11.5 * 1.0 * (0.85 + 0.15*1.5)
	assert.Equal(t, 550, res.Passengers)
	assert.Equal(t, 1.0, res.FlightTimeHours)
	assert.Equal(t, 12.36, res.FuelConsumptionKg)
}

func TestEstimate_Invariants(t *testing.T) {
	c := DefaultCatalog()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		profile := c.Lookup(c.Codes()[rng.Intn(len(c.Codes()))])
		distance := 1 + rng.Float64()*15000
		load := 0.05 + rng.Float64()*0.95

		raw, err := estimate(profile, distance, load)
		require.NoError(t, err)

		assert.Equal(t, int(math.Floor(float64(profile.SeatingCapacity)*load)), raw.passengers)
		assert.Equal(t, raw.co2Kg/float64(raw.passengers), raw.co2PerPassengerKg)
		assert.Equal(t, raw.co2Kg/distance, raw.intensity)
		assert.Equal(t, raw.fuelConsumptionKg*profile.EmissionFactor, raw.co2Kg)
		assert.Equal(t, distance/groundSpeedKmh, raw.flightTimeHours)
	}
}
