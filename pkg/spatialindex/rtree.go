package spatialindex

import (
	"math"
	"sort"

	da "github.com/lintang-b-s/routediff/pkg/datastructure"
	"github.com/lintang-b-s/routediff/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree indexes exported segments by their bounding box. Leaves store the position of the segment in
// the export order, so query results can be returned in that same order.
type Rtree struct {
	tr       *rtree.RTreeG[int]
	verdicts []da.SegmentVerdict
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[int]
	return &Rtree{
		tr: &tr,
	}
}

// Build. build r-tree over all segment verdicts.
func (rt *Rtree) Build(verdicts []da.SegmentVerdict, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("segments", len(verdicts)))
	rt.verdicts = verdicts
	step := len(verdicts) / 10
	for i, v := range verdicts {
		if step > 0 && i%step == 0 {
			log.Debug("Building R-tree spatial index...", zap.Float64("progress", float64(i)*100/float64(len(verdicts))))
		}
		s := v.Segment
		minLon, maxLon := math.Min(s.From.Lon, s.To.Lon), math.Max(s.From.Lon, s.To.Lon)
		minLat, maxLat := math.Min(s.From.Lat, s.To.Lat), math.Max(s.From.Lat, s.To.Lat)
		rt.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}, i)
	}
	log.Info("R-tree spatial index built.")
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// Verdicts returns every indexed segment in export order.
func (rt *Rtree) Verdicts() []da.SegmentVerdict {
	return rt.verdicts
}

// SearchWithinBound returns the segments whose bounding box intersects the query box, in export
// order. limit <= 0 means no limit.
func (rt *Rtree) SearchWithinBound(minLon, minLat, maxLon, maxLat float64, significantOnly bool,
	limit int) []da.SegmentVerdict {
	idxs := make([]int, 0, 16)
	rt.tr.Search([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
		func(min, max [2]float64, data int) bool {
			if significantOnly && !rt.verdicts[data].Stats.Significant {
				return true
			}
			idxs = append(idxs, data)
			return true
		})
	sort.Ints(idxs)
	if limit > 0 && len(idxs) > limit {
		idxs = idxs[:limit]
	}

	results := make([]da.SegmentVerdict, len(idxs))
	for i, idx := range idxs {
		results[i] = rt.verdicts[idx]
	}
	return results
}

// SearchWithinRadius search for all segments within radius (in km) from the query point (qLat, qLon)
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64, significantOnly bool, limit int) []da.SegmentVerdict {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)
	return rt.SearchWithinBound(lowerLon, lowerLat, upperLon, upperLat, significantOnly, limit)
}
