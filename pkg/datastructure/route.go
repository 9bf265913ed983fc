package datastructure

import (
	"sort"

	"github.com/lintang-b-s/routediff/pkg/geo"
)

// Route is an immutable path: an identifier plus an ordered sequence of points.
// travelTime (seconds) and distance (meters) are what the routing provider reported; zero when unknown.
type Route struct {
	id         string
	points     []Coordinate
	travelTime float64
	distance   float64
}

func NewRoute(id string, points []Coordinate) Route {
	return NewRouteWithMetadata(id, points, 0, 0)
}

func NewRouteWithMetadata(id string, points []Coordinate, travelTime, distance float64) Route {
	cp := make([]Coordinate, len(points))
	copy(cp, points)
	return Route{
		id:         id,
		points:     cp,
		travelTime: travelTime,
		distance:   distance,
	}
}

func (r Route) GetID() string {
	return r.id
}

func (r Route) GetTravelTime() float64 {
	return r.travelTime
}

func (r Route) GetDistance() float64 {
	return r.distance
}

func (r Route) NumberOfPoints() int {
	return len(r.points)
}

func (r Route) GetPoint(i int) Coordinate {
	return r.points[i]
}

// GetPoints returns a copy of the route points.
func (r Route) GetPoints() []Coordinate {
	cp := make([]Coordinate, len(r.points))
	copy(cp, r.points)
	return cp
}

// NumberOfSegments. n points give n-1 segments, routes with 0 or 1 points give none.
func (r Route) NumberOfSegments() int {
	if len(r.points) < 2 {
		return 0
	}
	return len(r.points) - 1
}

// ForSegments calls handle for every consecutive-point segment, in path order.
func (r Route) ForSegments(handle func(s Segment)) {
	for i := 1; i < len(r.points); i++ {
		handle(NewSegment(r.points[i-1], r.points[i]))
	}
}

// Length in meters. Uses the provider distance when present, otherwise the haversine length of the polyline.
func (r Route) Length() float64 {
	if r.distance > 0 {
		return r.distance
	}
	length := 0.0
	for i := 1; i < len(r.points); i++ {
		p, q := r.points[i-1], r.points[i]
		length += geo.CalculateHaversineDistance(p.Lat, p.Lon, q.Lat, q.Lon) * 1000
	}
	return length
}

// RouteCollection maps a route identifier to its route. One collection per compared routing strategy.
type RouteCollection map[string]Route

func NewRouteCollection(routes ...Route) RouteCollection {
	rc := make(RouteCollection, len(routes))
	for _, r := range routes {
		rc[r.GetID()] = r
	}
	return rc
}

// IDs returns the route identifiers in ascending order.
func (rc RouteCollection) IDs() []string {
	ids := make([]string, 0, len(rc))
	for id := range rc {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (rc RouteCollection) Has(id string) bool {
	_, ok := rc[id]
	return ok
}

func (rc RouteCollection) NumberOfSegments() int {
	n := 0
	for _, r := range rc {
		n += r.NumberOfSegments()
	}
	return n
}
