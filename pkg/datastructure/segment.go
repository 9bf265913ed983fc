package datastructure

import "fmt"

// Segment is one directed edge of a route polyline, taken from two consecutive points.
// (p,q) and (q,p) are different segments.
type Segment struct {
	From Coordinate `json:"from"`
	To   Coordinate `json:"to"`
}

func NewSegment(from, to Coordinate) Segment {
	return Segment{
		From: from,
		To:   to,
	}
}

func (s Segment) GetFrom() Coordinate {
	return s.From
}

func (s Segment) GetTo() Coordinate {
	return s.To
}

func (s Segment) Reverse() Segment {
	return Segment{From: s.To, To: s.From}
}

func (s Segment) String() string {
	return fmt.Sprintf("%v->%v", s.From, s.To)
}

type Side uint8

const (
	NONE Side = iota
	SIDE_A
	SIDE_B
)

func (s Side) String() string {
	switch s {
	case SIDE_A:
		return "A"
	case SIDE_B:
		return "B"
	default:
		return "none"
	}
}

// SegmentStats is the bootstrap verdict of one segment. Positive values mean the segment is used
// more often by routes of collection A, negative values by collection B.
type SegmentStats struct {
	Lower       int     `json:"lower"`
	Upper       int     `json:"upper"`
	Median      int     `json:"median"`
	Mean        float64 `json:"mean"`
	Significant bool    `json:"significant"`
}

func NewSegmentStats(lower, upper, median int, mean float64) SegmentStats {
	return SegmentStats{
		Lower:       lower,
		Upper:       upper,
		Median:      median,
		Mean:        mean,
		Significant: (lower > 0 && upper > 0) || (lower < 0 && upper < 0),
	}
}

// Favors. which collection uses the segment significantly more often.
func (st SegmentStats) Favors() Side {
	if !st.Significant {
		return NONE
	}
	if st.Lower > 0 {
		return SIDE_A
	}
	return SIDE_B
}

// SegmentVerdict pairs a segment with its statistics, in the order results are exported.
type SegmentVerdict struct {
	Segment Segment      `json:"segment"`
	Stats   SegmentStats `json:"stats"`
}

func NewSegmentVerdict(s Segment, st SegmentStats) SegmentVerdict {
	return SegmentVerdict{Segment: s, Stats: st}
}
