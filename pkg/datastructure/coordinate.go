package datastructure

import "fmt"

// Coordinate is a point in geographic axis order (longitude first), the order GeoJSON uses.
// It is comparable and is used directly as part of map keys.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// NewCoordinate. lon first, lat second.
func NewCoordinate(lon, lat float64) Coordinate {
	return Coordinate{
		Lon: lon,
		Lat: lat,
	}
}

// NewCoordinateFromLatLon builds a Coordinate from raw provider order (lat, lon).
func NewCoordinateFromLatLon(lat, lon float64) Coordinate {
	return Coordinate{
		Lon: lon,
		Lat: lat,
	}
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%v, %v)", c.Lon, c.Lat)
}
