package domain

import "time"

// FlightRecord is one synthetic flight annotated with its emissions estimate
type FlightRecord struct {
	ID          string          `json:"id"`
	Callsign    string          `json:"callsign"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Altitude    int             `json:"altitude"` // feet
	Velocity    int             `json:"velocity"` // knots
	Heading     int             `json:"heading"`  // degrees
	Aircraft    string          `json:"aircraft"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Airline     string          `json:"airline"`
	Emissions   EmissionsResult `json:"emissions"`
}

// FlightsResponse wraps a generated fleet with the seed that reproduces it
type FlightsResponse struct {
	Data    []FlightRecord `json:"data"`
	Seed    int64          `json:"seed"`
	Count   int            `json:"count"`
	Success bool           `json:"success"`
}

// FleetGeneratedEvent is published after every fleet generation
type FleetGeneratedEvent struct {
	Seed        int64     `json:"seed"`
	Count       int       `json:"count"`
	TotalCO2Kg  float64   `json:"total_co2_kg"`
	GeneratedAt time.Time `json:"generated_at"`
}
