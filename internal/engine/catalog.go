package engine

import (
	"fmt"
	"sort"

	"github.com/flightcarbon/backend/internal/domain"
)

// jetFuelCO2Factor is kg of CO2 released per kg of jet fuel burned
const jetFuelCO2Factor = 3.16

var defaultProfiles = []domain.AircraftProfile{
	{Code: "B737", FuelBurnPerHour: 2.5, SeatingCapacity: 180, EmissionFactor: jetFuelCO2Factor},
	{Code: "A320", FuelBurnPerHour: 2.4, SeatingCapacity: 180, EmissionFactor: jetFuelCO2Factor},
	{Code: "B777", FuelBurnPerHour: 6.8, SeatingCapacity: 350, EmissionFactor: jetFuelCO2Factor},
	{Code: "B787", FuelBurnPerHour: 5.4, SeatingCapacity: 290, EmissionFactor: jetFuelCO2Factor},
	{Code: "A350", FuelBurnPerHour: 5.8, SeatingCapacity: 325, EmissionFactor: jetFuelCO2Factor},
	{Code: "A380", FuelBurnPerHour: 11.5, SeatingCapacity: 550, EmissionFactor: jetFuelCO2Factor},
	{Code: "E190", FuelBurnPerHour: 1.8, SeatingCapacity: 100, EmissionFactor: jetFuelCO2Factor},
	{Code: domain.UnknownAircraft, FuelBurnPerHour: 3.0, SeatingCapacity: 200, EmissionFactor: jetFuelCO2Factor},
}

// Catalog is an immutable lookup of aircraft performance profiles.
// It is safe for concurrent reads.
type Catalog struct {
	profiles map[string]domain.AircraftProfile
	codes    []string
}

// NewCatalog builds a catalog. The profile list must contain the Unknown
// fallback and every profile must have a positive burn rate and capacity.
func NewCatalog(profiles []domain.AircraftProfile) (*Catalog, error) {
	c := &Catalog{profiles: make(map[string]domain.AircraftProfile, len(profiles))}
	for _, p := range profiles {
		if p.Code == "" {
			return nil, fmt.Errorf("catalog: profile with empty code")
		}
		if p.FuelBurnPerHour <= 0 || p.SeatingCapacity <= 0 {
			return nil, fmt.Errorf("catalog: profile %s must have positive fuel burn and seating capacity", p.Code)
		}
		if _, dup := c.profiles[p.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate profile %s", p.Code)
		}
		c.profiles[p.Code] = p
		if p.Code != domain.UnknownAircraft {
			c.codes = append(c.codes, p.Code)
		}
	}
	if _, ok := c.profiles[domain.UnknownAircraft]; !ok {
		return nil, fmt.Errorf("catalog: missing %s fallback profile", domain.UnknownAircraft)
	}
	sort.Strings(c.codes)
	return c, nil
}

// DefaultCatalog returns the built-in profile table
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultProfiles)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the profile for code, or the Unknown profile when code is
// empty or not registered. It never fails.
func (c *Catalog) Lookup(code string) domain.AircraftProfile {
	if p, ok := c.profiles[code]; ok {
		return p
	}
	return c.profiles[domain.UnknownAircraft]
}

// Has reports whether code is a registered type (the fallback excluded)
func (c *Catalog) Has(code string) bool {
	_, ok := c.profiles[code]
	return ok && code != domain.UnknownAircraft
}

// Codes returns the registered type codes in sorted order, without the fallback
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

// Profiles returns every registered profile sorted by code, fallback last
func (c *Catalog) Profiles() []domain.AircraftProfile {
	out := make([]domain.AircraftProfile, 0, len(c.profiles))
	for _, code := range c.codes {
		out = append(out, c.profiles[code])
	}
	return append(out, c.profiles[domain.UnknownAircraft])
}
