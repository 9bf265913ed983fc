package geo

import (
	"github.com/golang/geo/s2"
)

const earthRadiusMeter = earthRadiusKM * 1000

// SegmentLength. great-circle length in meter of the segment (lat1,lon1)-(lat2,lon2).
func SegmentLength(lat1, lon1, lat2, lon2 float64) float64 {
	p := s2.LatLngFromDegrees(lat1, lon1)
	q := s2.LatLngFromDegrees(lat2, lon2)
	return p.Distance(q).Radians() * earthRadiusMeter
}
