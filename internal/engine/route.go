package engine

import (
	"math"

	"github.com/skypies/geo"

	"github.com/flightcarbon/backend/internal/domain"
	"github.com/flightcarbon/backend/pkg/utils"
)

// curveAmplitude scales the latitude bulge relative to the latitude span
const curveAmplitude = 0.1

// Interpolate returns pointCount+1 positions from origin to destination for
// drawing a curved route on a map. Latitude and longitude are interpolated
// linearly and the latitude gets a bulge of sin(t*pi) * 0.1 * |dLat|.
//
// This is a rendering heuristic. It is NOT a great-circle path; use
// geo.Latlong.DistKM for route lengths.
//
// The first and last points are the endpoints themselves.
func Interpolate(origin, destination *geo.Latlong, pointCount int) ([]geo.Latlong, error) {
	if origin == nil || destination == nil {
		return nil, &domain.InvalidInputError{Reason: "route endpoint is missing"}
	}
	if pointCount < 1 {
		return nil, &domain.InvalidInputError{Reason: "point count must be at least 1"}
	}

	dLat := destination.Lat - origin.Lat
	bulge := curveAmplitude * math.Abs(dLat)

	points := make([]geo.Latlong, pointCount+1)
	points[0] = *origin
	for i := 1; i < pointCount; i++ {
		t := float64(i) / float64(pointCount)
		points[i] = geo.Latlong{
			Lat:  utils.Lerp(origin.Lat, destination.Lat, t) + math.Sin(t*math.Pi)*bulge,
			Long: utils.Lerp(origin.Long, destination.Long, t),
		}
	}
	points[pointCount] = *destination

	return points, nil
}
