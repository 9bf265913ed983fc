package controllers

import (
	da "github.com/lintang-b-s/routediff/pkg/datastructure"
)

type SegmentService interface {
	SegmentsWithinBound(minLon, minLat, maxLon, maxLat float64, significantOnly bool, limit int) ([]da.SegmentVerdict, error)
	Summary() (segments, significant, favorA, favorB int)
}
