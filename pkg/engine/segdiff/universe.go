package segdiff

import (
	da "github.com/lintang-b-s/routediff/pkg/datastructure"
)

// SegmentUniverse is the set of distinct directed segments of a comparison run. Every segment gets a
// dense index in first-seen order.
type SegmentUniverse struct {
	index    map[da.Segment]int
	segments []da.Segment
}

func NewSegmentUniverse() *SegmentUniverse {
	return &SegmentUniverse{
		index:    make(map[da.Segment]int),
		segments: make([]da.Segment, 0),
	}
}

// BuildSegmentUniverse collects the consecutive-point segments of every route of every collection.
// Routes are visited in ascending id order so the dense index is the same on every run.
func BuildSegmentUniverse(collections ...da.RouteCollection) *SegmentUniverse {
	su := NewSegmentUniverse()
	for _, rc := range collections {
		for _, id := range rc.IDs() {
			rc[id].ForSegments(func(s da.Segment) {
				su.Add(s)
			})
		}
	}
	return su
}

// Add inserts s if it is new and returns its index.
func (su *SegmentUniverse) Add(s da.Segment) int {
	if idx, ok := su.index[s]; ok {
		return idx
	}
	idx := len(su.segments)
	su.index[s] = idx
	su.segments = append(su.segments, s)
	return idx
}

func (su *SegmentUniverse) Index(s da.Segment) (int, bool) {
	idx, ok := su.index[s]
	return idx, ok
}

func (su *SegmentUniverse) Contains(s da.Segment) bool {
	_, ok := su.index[s]
	return ok
}

func (su *SegmentUniverse) GetSegment(idx int) da.Segment {
	return su.segments[idx]
}

// Segments returns the segments in index order. The slice must not be modified.
func (su *SegmentUniverse) Segments() []da.Segment {
	return su.segments
}

func (su *SegmentUniverse) Len() int {
	return len(su.segments)
}
