package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteIsImmutable(t *testing.T) {
	pts := []Coordinate{NewCoordinate(0, 0), NewCoordinate(1, 0)}
	r := NewRoute("r1", pts)

	pts[0] = NewCoordinate(9, 9)
	assert.Equal(t, NewCoordinate(0, 0), r.GetPoint(0))

	got := r.GetPoints()
	got[1] = NewCoordinate(9, 9)
	assert.Equal(t, NewCoordinate(1, 0), r.GetPoint(1))
}

func TestRouteSegments(t *testing.T) {
	testCases := []struct {
		name string
		pts  []Coordinate
		want []Segment
	}{
		{name: "empty", pts: nil, want: nil},
		{name: "single point", pts: []Coordinate{NewCoordinate(0, 0)}, want: nil},
		{
			name: "revisits keep every traversal",
			pts:  []Coordinate{NewCoordinate(0, 0), NewCoordinate(1, 0), NewCoordinate(0, 0), NewCoordinate(1, 0)},
			want: []Segment{
				NewSegment(NewCoordinate(0, 0), NewCoordinate(1, 0)),
				NewSegment(NewCoordinate(1, 0), NewCoordinate(0, 0)),
				NewSegment(NewCoordinate(0, 0), NewCoordinate(1, 0)),
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRoute("r", tt.pts)
			var got []Segment
			r.ForSegments(func(s Segment) {
				got = append(got, s)
			})
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), r.NumberOfSegments())
		})
	}
}

func TestRouteLength(t *testing.T) {
	pts := []Coordinate{NewCoordinate(0, 0), NewCoordinate(0, 1)}

	assert.Equal(t, 2500.0, NewRouteWithMetadata("r", pts, 60, 2500).Length())
	// one degree of latitude
	assert.InDelta(t, 111195, NewRoute("r", pts).Length(), 1)
	assert.Equal(t, 0.0, NewRoute("r", nil).Length())
}

func TestRouteCollectionIDsSorted(t *testing.T) {
	rc := NewRouteCollection(NewRoute("c", nil), NewRoute("a", nil), NewRoute("b", nil))
	assert.Equal(t, []string{"a", "b", "c"}, rc.IDs())
	assert.True(t, rc.Has("b"))
	assert.False(t, rc.Has("d"))
}

func TestSegmentStats(t *testing.T) {
	testCases := []struct {
		name         string
		lower, upper int
		significant  bool
		favors       Side
	}{
		{name: "both positive", lower: 1, upper: 3, significant: true, favors: SIDE_A},
		{name: "both negative", lower: -4, upper: -1, significant: true, favors: SIDE_B},
		{name: "straddles zero", lower: -1, upper: 2, significant: false, favors: NONE},
		{name: "touches zero", lower: 0, upper: 5, significant: false, favors: NONE},
		{name: "all zero", lower: 0, upper: 0, significant: false, favors: NONE},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			st := NewSegmentStats(tt.lower, tt.upper, tt.lower, 0)
			assert.Equal(t, tt.significant, st.Significant)
			assert.Equal(t, tt.favors, st.Favors())
		})
	}
}

func TestSegmentIsDirectional(t *testing.T) {
	p, q := NewCoordinate(0, 0), NewCoordinate(1, 1)
	s := NewSegment(p, q)
	assert.NotEqual(t, s, s.Reverse())
	assert.Equal(t, s, s.Reverse().Reverse())
}
