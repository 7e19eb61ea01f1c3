package domain

// UnknownAircraft is the catalog key used for unrecognized type codes
const UnknownAircraft = "Unknown"

// AircraftProfile holds the performance constants of one aircraft type
type AircraftProfile struct {
	Code            string  `json:"code"`
	FuelBurnPerHour float64 `json:"fuelBurnRatePerHour"`
	SeatingCapacity int     `json:"seatingCapacity"`
	EmissionFactor  float64 `json:"emissionFactor"` // kg CO2 per kg fuel
}

// FlightRequest is the input of a single emissions estimate
type FlightRequest struct {
	Aircraft   string  `json:"aircraft"`
	DistanceKm float64 `json:"distance"`
	LoadFactor float64 `json:"loadFactor"`
}

// EmissionsResult is the estimate attached to a flight.
// CO2Kg and FuelConsumptionKg are rounded to 2 places, the per-passenger and
// per-km figures to 3 places.
type EmissionsResult struct {
	CO2Kg             float64 `json:"co2"`
	CO2PerPassengerKg float64 `json:"co2PerPassenger"`
	FuelConsumptionKg float64 `json:"fuelConsumption"`
	DistanceKm        float64 `json:"distance"`
	FlightTimeHours   float64 `json:"flightTime"`
	Passengers        int     `json:"passengers"`
	Aircraft          string  `json:"aircraft"`
	EmissionIntensity float64 `json:"emissionIntensity"` // kg CO2 per km
}

// EstimateResponse wraps a single estimate with metadata
type EstimateResponse struct {
	Data    EmissionsResult `json:"data"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
}
