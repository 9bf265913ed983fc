package segdiff

import (
	"math"

	da "github.com/lintang-b-s/routediff/pkg/datastructure"
)

// MatchReport counts what the matcher kept and dropped.
type MatchReport struct {
	Kept           int `json:"kept"`
	OnlyInA        int `json:"only_in_a"`
	OnlyInB        int `json:"only_in_b"`
	OutOfTolerance int `json:"out_of_tolerance"`
}

// MatchPairs restricts a and b to the identifiers present in both. The inputs are not modified.
func MatchPairs(a, b da.RouteCollection) (da.RouteCollection, da.RouteCollection) {
	ma, mb, _ := MatchPairsWithinTolerance(a, b, 0)
	return ma, mb
}

// MatchPairsWithinTolerance is MatchPairs that also drops pairs whose lengths differ too much:
// a pair is kept only if |lenA-lenB|/lenA < tolerance. tolerance <= 0 disables the length check.
func MatchPairsWithinTolerance(a, b da.RouteCollection, tolerance float64) (da.RouteCollection,
	da.RouteCollection, MatchReport) {
	var report MatchReport
	ma := make(da.RouteCollection)
	mb := make(da.RouteCollection)

	for id, ra := range a {
		rb, ok := b[id]
		if !ok {
			report.OnlyInA++
			continue
		}
		if tolerance > 0 && !withinTolerance(ra.Length(), rb.Length(), tolerance) {
			report.OutOfTolerance++
			continue
		}
		ma[id] = ra
		mb[id] = rb
	}
	for id := range b {
		if !a.Has(id) {
			report.OnlyInB++
		}
	}
	report.Kept = len(ma)
	return ma, mb, report
}

func withinTolerance(lenA, lenB, tolerance float64) bool {
	if lenA == 0 {
		return lenB == 0
	}
	return math.Abs((lenA-lenB)/lenA) < tolerance
}
