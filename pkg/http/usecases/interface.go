package usecases

import (
	da "github.com/lintang-b-s/routediff/pkg/datastructure"
)

type SpatialIndex interface {
	SearchWithinBound(minLon, minLat, maxLon, maxLat float64, significantOnly bool, limit int) []da.SegmentVerdict
	Verdicts() []da.SegmentVerdict
	Len() int
}
