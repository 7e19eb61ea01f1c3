package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/skypies/geo"
	"gopkg.in/yaml.v3"

	"github.com/flightcarbon/backend/internal/domain"
)

var defaultAirports = []domain.Airport{
	{Name: "New York JFK", Position: geo.Latlong{Lat: 40.6413, Long: -73.7781}},
	{Name: "Los Angeles LAX", Position: geo.Latlong{Lat: 33.9416, Long: -118.4085}},
	{Name: "Chicago O'Hare", Position: geo.Latlong{Lat: 41.9742, Long: -87.9073}},
	{Name: "London Heathrow", Position: geo.Latlong{Lat: 51.4700, Long: -0.4543}},
	{Name: "Paris CDG", Position: geo.Latlong{Lat: 49.0097, Long: 2.5479}},
	{Name: "Frankfurt FRA", Position: geo.Latlong{Lat: 50.0379, Long: 8.5622}},
	{Name: "Amsterdam Schiphol", Position: geo.Latlong{Lat: 52.3105, Long: 4.7683}},
	{Name: "Dubai DXB", Position: geo.Latlong{Lat: 25.2532, Long: 55.3657}},
	{Name: "Singapore Changi", Position: geo.Latlong{Lat: 1.3644, Long: 103.9915}},
	{Name: "Hong Kong HKG", Position: geo.Latlong{Lat: 22.3080, Long: 113.9185}},
	{Name: "Tokyo Haneda", Position: geo.Latlong{Lat: 35.5494, Long: 139.7798}},
	{Name: "Sydney SYD", Position: geo.Latlong{Lat: -33.9399, Long: 151.1753}},
	{Name: "Sao Paulo GRU", Position: geo.Latlong{Lat: -23.4356, Long: -46.4731}},
	{Name: "Toronto Pearson", Position: geo.Latlong{Lat: 43.6777, Long: -79.6248}},
}

// Registry is an ordered, immutable airport table. Fuzzy lookups walk it in
// insertion order, so the first matching entry wins.
type Registry struct {
	airports []domain.Airport
	index    map[string]int
}

// NewRegistry builds a registry from a non-empty list of uniquely named airports
func NewRegistry(airports []domain.Airport) (*Registry, error) {
	if len(airports) == 0 {
		return nil, fmt.Errorf("registry: no airports")
	}
	r := &Registry{
		airports: make([]domain.Airport, len(airports)),
		index:    make(map[string]int, len(airports)),
	}
	for i, ap := range airports {
		if strings.TrimSpace(ap.Name) == "" {
			return nil, fmt.Errorf("registry: airport %d has no name", i)
		}
		if _, dup := r.index[ap.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate airport %q", ap.Name)
		}
		r.airports[i] = ap
		r.index[ap.Name] = i
	}
	return r, nil
}

// DefaultRegistry returns the built-in airport table
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultAirports)
	if err != nil {
		panic(err)
	}
	return r
}

type yamlAirport struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

// LoadRegistryYAML reads a YAML list of {name, lat, lng} entries. File order
// becomes registry order.
func LoadRegistryYAML(r io.Reader) (*Registry, error) {
	var entries []yamlAirport
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("registry: failed to parse yaml: %w", err)
	}

	airports := make([]domain.Airport, 0, len(entries))
	for _, e := range entries {
		if e.Lat < -90 || e.Lat > 90 || e.Lng < -180 || e.Lng > 180 {
			return nil, fmt.Errorf("registry: airport %q has out of range coordinates", e.Name)
		}
		airports = append(airports, domain.Airport{
			Name:     e.Name,
			Position: geo.Latlong{Lat: e.Lat, Long: e.Lng},
		})
	}
	return NewRegistry(airports)
}

// Resolve maps a free-text label to coordinates: an exact (case-sensitive)
// name match first, then the first entry where either string contains the
// other case-insensitively. A blank label never matches.
func (r *Registry) Resolve(label string) (geo.Latlong, bool) {
	if i, ok := r.index[label]; ok {
		return r.airports[i].Position, true
	}

	needle := strings.ToLower(strings.TrimSpace(label))
	if needle == "" {
		return geo.Latlong{}, false
	}
	for _, ap := range r.airports {
		name := strings.ToLower(ap.Name)
		if strings.Contains(name, needle) || strings.Contains(needle, name) {
			return ap.Position, true
		}
	}
	return geo.Latlong{}, false
}

// Airports returns a copy of the registry in lookup order
func (r *Registry) Airports() []domain.Airport {
	out := make([]domain.Airport, len(r.airports))
	copy(out, r.airports)
	return out
}

// Len returns the number of airports
func (r *Registry) Len() int {
	return len(r.airports)
}
