package domain

import "github.com/skypies/geo"

// Airport is a registry entry; lookups walk the registry in insertion order
type Airport struct {
	Name     string
	Position geo.Latlong
}

// RoutePoint is a [lat, lng] pair as consumed by the map layer
type RoutePoint [2]float64

// NewRoutePoint converts a position to its wire form
func NewRoutePoint(p geo.Latlong) RoutePoint {
	return RoutePoint{p.Lat, p.Long}
}

// RoutePoints converts a path to its wire form. The result is never nil.
func RoutePoints(path []geo.Latlong) []RoutePoint {
	out := make([]RoutePoint, 0, len(path))
	for _, p := range path {
		out = append(out, NewRoutePoint(p))
	}
	return out
}

// ResolveResponse is returned by the airport resolution endpoint
type ResolveResponse struct {
	Label       string     `json:"label"`
	Coordinates RoutePoint `json:"coordinates"`
	Success     bool       `json:"success"`
}

// RouteResponse carries a rendering path; Points is empty when an endpoint did not resolve
type RouteResponse struct {
	Origin      string       `json:"origin"`
	Destination string       `json:"destination"`
	Points      []RoutePoint `json:"points"`
	Success     bool         `json:"success"`
}
