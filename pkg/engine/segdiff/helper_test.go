package segdiff

import (
	da "github.com/lintang-b-s/routediff/pkg/datastructure"
)

func pt(lon, lat float64) da.Coordinate {
	return da.NewCoordinate(lon, lat)
}

func seg(a, b da.Coordinate) da.Segment {
	return da.NewSegment(a, b)
}

func route(id string, pts ...da.Coordinate) da.Route {
	return da.NewRoute(id, pts)
}

// gridRoutes builds n routes walking east along latitude row i, each with its own length.
func gridRoutes(n int, shift float64) da.RouteCollection {
	rc := make(da.RouteCollection, n)
	for i := 0; i < n; i++ {
		pts := make([]da.Coordinate, 0, i+2)
		for j := 0; j <= i+1; j++ {
			pts = append(pts, pt(float64(j), float64(i)+shift))
		}
		id := string(rune('a' + i))
		rc[id] = da.NewRoute(id, pts)
	}
	return rc
}
