package segdiff

import (
	"context"
	"slices"

	da "github.com/lintang-b-s/routediff/pkg/datastructure"
	"github.com/lintang-b-s/routediff/pkg/util"
	"golang.org/x/sync/errgroup"
)

// ranks into the sorted list of n bootstrap samples, truncated toward zero and clamped to [0, n-1].
func lowerRank(n int, alpha float64) int {
	return util.ClampInt(int(float64(n)*alpha/2), 0, n-1)
}

func upperRank(n int, alpha float64) int {
	return util.ClampInt(int(float64(n)*(1-alpha/2)), 0, n-1)
}

func medianRank(n int) int {
	return util.ClampInt(n/2, 0, n-1)
}

// Evaluate turns the bootstrap samples of one segment into its percentile confidence interval,
// median, mean and significance verdict. samples is not modified.
func Evaluate(samples []int32, alpha float64) (da.SegmentStats, error) {
	n := len(samples)
	if n == 0 {
		return da.SegmentStats{}, ErrEmptyRecord
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var sum int64
	for _, v := range samples {
		sum += int64(v)
	}

	return da.NewSegmentStats(
		int(sorted[lowerRank(n, alpha)]),
		int(sorted[upperRank(n, alpha)]),
		int(sorted[medianRank(n)]),
		float64(sum)/float64(n),
	), nil
}

type Evaluator struct {
	alpha   float64
	workers int
}

func NewEvaluator(alpha float64, workers int) *Evaluator {
	if workers < 1 {
		workers = 1
	}
	return &Evaluator{alpha: alpha, workers: workers}
}

// EvaluateAll evaluates records[i] for every universe segment i. Segments are split into contiguous
// chunks, one goroutine per chunk, each writing only its own part of the result slice.
func (ev *Evaluator) EvaluateAll(ctx context.Context, universe *SegmentUniverse,
	records [][]int32) (map[da.Segment]da.SegmentStats, error) {
	if len(records) != universe.Len() {
		return nil, util.WrapErrorf(ErrEmptyRecord, util.ErrInternalServerError,
			"got %d segment records for %d segments", len(records), universe.Len())
	}

	stats := make([]da.SegmentStats, len(records))
	chunk := (len(records) + ev.workers - 1) / ev.workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(records); start += chunk {
		start := start
		end := util.MinInt(start+chunk, len(records))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%1024 == 0 && util.StopConcurrentOperation(gctx) {
					return gctx.Err()
				}
				st, err := Evaluate(records[i], ev.alpha)
				if err != nil {
					return util.WrapErrorf(err, util.ErrInternalServerError, "segment %v", universe.GetSegment(i))
				}
				stats[i] = st
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[da.Segment]da.SegmentStats, len(stats))
	for i, st := range stats {
		out[universe.GetSegment(i)] = st
	}
	return out, nil
}
